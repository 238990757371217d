package audit

import (
	"context"
	"time"
)

// Store is the append-only ledger of validation attempts. There are no
// update or delete operations; reconciliation reads, the engine writes.
//
// Append implementations must join a SQL transaction carried in ctx
// (pkg/platform/tx) so a consume transition and its record commit together.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
