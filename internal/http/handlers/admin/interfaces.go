package admin

import "context"

const pkg = "adminHandler/"

type Reindexer interface {
	RebuildAll(ctx context.Context) (int64, error)
}
