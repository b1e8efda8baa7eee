package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc là function type được execute trong transaction
type TxFunc func(pgx.Tx) error

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so a
// repository can run the same query code inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTransaction chạy fn trong một transaction: rollback khi fn lỗi hoặc panic,
// commit khi thành công. Repository dùng cho allocate sequence, sync
// collaborators và rebuild calendar marker.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) (err error) {
	// Begin transaction
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback (sẽ bị ignore nếu đã commit)
	defer func() {
		if p := recover(); p != nil {
			// Có panic → rollback
			_ = tx.Rollback(ctx)
			panic(p) // Re-throw panic
		} else if err != nil {
			// Có error → rollback
			_ = tx.Rollback(ctx)
		}
	}()

	// Execute function trong transaction context
	if err = fn(tx); err != nil {
		return err // Defer sẽ rollback
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult giống WithTransaction nhưng trả về giá trị của fn;
// khi lỗi luôn trả zero value
func WithTransactionResult[T any](ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T

	err := WithTransaction(ctx, pool, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
