// Package tx carries a SQL transaction through a context so stores join the
// caller's transaction without changing their signatures.
package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "studycat/pkg/domain-errors"
)

type ctxKey struct{}

var txKey = ctxKey{}

type hooksKey struct{}

type afterCommit struct {
	mu  sync.Mutex
	fns []func()
}

func withHooks(ctx context.Context) (context.Context, *afterCommit) {
	h := &afterCommit{}
	return context.WithValue(ctx, hooksKey{}, h), h
}

func (h *afterCommit) run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// AfterCommit defers fn until the transaction running in ctx commits. fn is
// dropped if that transaction rolls back. Without a transaction fn runs now.
func AfterCommit(ctx context.Context, fn func()) {
	if h, ok := ctx.Value(hooksKey{}).(*afterCommit); ok {
		h.mu.Lock()
		h.fns = append(h.fns, fn)
		h.mu.Unlock()
		return
	}
	fn()
}

// DefaultTimeout bounds a transaction when the caller set no deadline.
const DefaultTimeout = 10 * time.Second

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Executor is the subset of *sql.DB and *sql.Tx that stores use.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Exec returns the context transaction if any, else db.
func Exec(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// Postgres runs functions inside a database transaction.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgres wraps db. A zero timeout means DefaultTimeout.
func NewPostgres(db *sql.DB, timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Postgres{db: db, timeout: timeout}
}

// RunInTx begins a transaction, stores it in the context passed to fn and
// commits when fn returns nil. A transaction already in ctx is reused.
// AfterCommit hooks registered by fn run once the commit succeeds.
func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	sqlTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	hookCtx, hooks := withHooks(ctx)
	if err := fn(WithTx(hookCtx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return err
	}
	hooks.run()
	return nil
}
