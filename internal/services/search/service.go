package searchservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docvault/internal/models"
)

const pkg = "searchService/"

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 25
)

// SearchService answers ad-hoc queries against the index projection.
// Non-admin callers are scoped to their own department before the query
// reaches the index; admins see everything.
type SearchService struct {
	log       *slog.Logger
	indexRepo IndexRepository
	docRepo   DocumentRepository
}

func New(log *slog.Logger, indexRepo IndexRepository, docRepo DocumentRepository) *SearchService {
	return &SearchService{
		log:       log,
		indexRepo: indexRepo,
		docRepo:   docRepo,
	}
}

// Search runs the structured query for the given user and returns one page
// of matches.
func (ss *SearchService) Search(ctx context.Context, user *models.User, query models.SearchQuery) (*models.SearchPage, error) {
	op := pkg + "Search"

	log := ss.log.With(slog.String("op", op), slog.String("user_id", user.ID))

	query.Normalize()

	scopeDept := ""
	if !user.IsAdmin {
		scopeDept = user.Department
	}

	items, total, err := ss.indexRepo.Search(ctx, query, scopeDept)
	if err != nil {
		log.Error("search failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if items == nil {
		items = make([]*models.IndexRecord, 0)
	}

	return &models.SearchPage{
		Items:    items,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// Suggest returns completion candidates for a typed prefix: file names
// first, then tags. An empty prefix yields no suggestions.
func (ss *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	op := pkg + "Suggest"

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}

	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	suggestions, err := ss.indexRepo.Suggest(ctx, prefix, limit)
	if err != nil {
		ss.log.Error("suggest failed",
			slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if suggestions == nil {
		suggestions = []string{}
	}

	return suggestions, nil
}

// Stats reports index composition plus the active-document count from the
// authoritative table, so drift between the two is visible to operators.
func (ss *SearchService) Stats(ctx context.Context) (*models.IndexStats, error) {
	op := pkg + "Stats"

	log := ss.log.With(slog.String("op", op))

	stats, err := ss.indexRepo.Stats(ctx)
	if err != nil {
		log.Error("failed to collect index stats", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	active, err := ss.docRepo.CountActive(ctx)
	if err != nil {
		log.Error("failed to count active documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	stats.Active = active

	return stats, nil
}
