package tx

import (
	"context"
	"sync"

	dErrors "studycat/pkg/domain-errors"
)

type localKey struct{}

// Local serializes functions for in-memory stores. It gives isolation but no
// rollback: callers must validate before their first write.
type Local struct {
	mu sync.Mutex
}

func NewLocal() *Local {
	return &Local{}
}

// RunInTx runs fn while holding the lock. Nested calls run inline. Writes
// are never undone, so AfterCommit hooks run even when fn fails.
func (l *Local) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if ctx.Value(localKey{}) == l {
		return fn(ctx)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	hookCtx, hooks := withHooks(ctx)
	err := fn(context.WithValue(hookCtx, localKey{}, l))
	hooks.run()
	return err
}
