package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"folio/internal/core/tx"
	"folio/pkg/logger"
)

var tracer = otel.Tracer("folio/tx")

var _ tx.Manager = (*TxManager)(nil)

// statementTimeout bounds every statement inside a managed transaction.
// Ledger writes hold FOR UPDATE row locks, so a runaway query must not
// pin a balance row indefinitely.
const statementTimeout = 30 * time.Second

// TxManager runs write sequences in single database transactions. The
// active transaction travels in the context: a nested RunInTransaction
// call joins it instead of opening a second one, which is what lets a
// service compose several repository calls into one atomic unit.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager over the shared pool.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

type txKey struct{}

// RunInTransaction executes fn inside a read-committed transaction.
// An error from fn rolls everything back; otherwise the transaction
// commits. If the context already carries a transaction, fn joins it
// and the outermost caller decides the outcome.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(pgx.ReadCommitted)),
		))
	defer span.End()

	if activeTx(ctx) != nil {
		return fn(ctx)
	}

	dbTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = dbTx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", statementTimeout.Milliseconds()))
	if err != nil {
		_ = dbTx.Rollback(ctx)
		return fmt.Errorf("set statement_timeout: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, dbTx)); err != nil {
		// Roll back on a background context so the rollback still runs
		// when the request context is already cancelled.
		if rbErr := dbTx.Rollback(context.Background()); rbErr != nil && rbErr != pgx.ErrTxClosed {
			logger.Error(ctx, "transaction rollback failed", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Querier is the statement surface shared by pgxpool.Pool and pgx.Tx.
// Repositories issue statements through it, so the same repository code
// runs inside and outside a managed transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction carried by the context, or the pool
// when no transaction is open.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if dbTx := activeTx(ctx); dbTx != nil {
		return dbTx
	}
	return m.pool
}

func activeTx(ctx context.Context) pgx.Tx {
	if dbTx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return dbTx
	}
	return nil
}
