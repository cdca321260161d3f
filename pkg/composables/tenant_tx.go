package composables

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aristech/fieldservice/pkg/constants"
)

// InTenantTx runs fn inside a transaction with the tenant RLS setting applied.
// When the context already carries a transaction it is reused, so nested calls
// compose into a single commit; otherwise InTx opens a fresh one.
func InTenantTx(ctx context.Context, fn func(context.Context) error) error {
	if existing, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && existing != nil {
		if err := ApplyTenantRLS(ctx, existing); err != nil {
			return err
		}
		return fn(ctx)
	}
	return InTx(ctx, fn)
}

func InTenantTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTenantTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}
