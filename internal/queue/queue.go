package queue

import (
	"log/slog"
	"sync"
)

const pkg = "queue/"

type Message struct {
	Topic string
	Data  any
}

// Queue is an in-process topic queue: one buffered channel per topic, n
// consumer goroutines each. Produce never blocks; when a topic buffer is
// full the message is dropped and logged, and a later reindex recovers the
// affected documents.
type Queue struct {
	log    *slog.Logger
	size   int
	topics map[string]chan Message
	mu     sync.RWMutex
	wg     sync.WaitGroup
}

func New(log *slog.Logger, bufferSize int) *Queue {
	if bufferSize <= 0 {
		bufferSize = 1024
	}

	return &Queue{
		log:    log,
		size:   bufferSize,
		topics: make(map[string]chan Message),
	}
}

func (q *Queue) topic(name string) chan Message {
	q.mu.RLock()
	ch, ok := q.topics[name]
	q.mu.RUnlock()

	if ok {
		return ch
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	ch, ok = q.topics[name]
	if !ok {
		ch = make(chan Message, q.size)
		q.topics[name] = ch
	}

	return ch
}

func (q *Queue) Produce(topic string, data any) {
	op := pkg + "Produce"

	select {
	case q.topic(topic) <- Message{Topic: topic, Data: data}:
	default:
		q.log.Error("topic buffer full, message dropped",
			slog.String("op", op), slog.String("topic", topic))
	}
}

// RegisterConsumer starts n goroutines draining the topic. A panicking
// handler is recovered so one bad message cannot take the workers down.
func (q *Queue) RegisterConsumer(topic string, handler func(Message), n int) {
	op := pkg + "RegisterConsumer"

	ch := q.topic(topic)

	for i := 0; i < n; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for msg := range ch {
				q.consume(op, handler, msg)
			}
		}()
	}
}

func (q *Queue) consume(op string, handler func(Message), msg Message) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("consumer panic recovered",
				slog.String("op", op),
				slog.String("topic", msg.Topic),
				slog.Any("panic", r))
		}
	}()

	handler(msg)
}

// Close stops accepting messages and waits for consumers to drain.
func (q *Queue) Close() {
	q.mu.Lock()
	for _, ch := range q.topics {
		close(ch)
	}
	q.topics = make(map[string]chan Message)
	q.mu.Unlock()

	q.wg.Wait()
}
