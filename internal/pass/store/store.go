package store

import (
	"context"

	"gopass/internal/pass/models"
	id "gopass/pkg/domain"
)

// Store persists issued passes.
//
// Create must enforce token uniqueness (sentinel.ErrConflict on duplicates).
// Lookup misses are sentinel.ErrNotFound.
//
// Execute is the concurrency contract the check-in engine is built on: it
// runs fn while holding an exclusive lock on the pass identified by token, so
// for any given pass at most one caller can ever observe status == valid and
// transition it. Callers for different tokens must not serialize against each
// other. fn receives a context that carries the store's transaction (when the
// backend has one) so that audit appends join the same atomic unit; when fn
// reports mutate=true the pass is persisted before the unit commits, and any
// error from fn rolls the whole unit back.
type Store interface {
	Create(ctx context.Context, pass *models.Pass) error
	FindByID(ctx context.Context, passID id.PassID) (*models.Pass, error)
	FindByToken(ctx context.Context, token string) (*models.Pass, error)
	Execute(ctx context.Context, token string,
		fn func(txCtx context.Context, pass *models.Pass) (mutate bool, err error)) (*models.Pass, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}
