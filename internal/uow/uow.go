// Package uow coordinates a write transaction with the side effects
// that must only happen once it commits, such as cache invalidation
// and change notifications.
package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/dkovalenko/railgo/internal/repository/postgres"
)

// AfterCommit runs after the transaction has committed. Failures in a
// hook cannot roll the transaction back, so hooks should be best-effort
// operations like dropping cache keys.
type AfterCommit func(ctx context.Context)

type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a serializable transaction. Hooks registered via
// after fire in order once the commit succeeds, and never on rollback.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts is Do with explicit transaction options.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
		// The store may retry fn on serialization failures; hooks from
		// an aborted attempt must not survive.
		hooks = hooks[:0]

		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
