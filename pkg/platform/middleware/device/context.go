package device

import "context"

type contextKeyClient struct{}

// Client returns the client summary stored by Middleware, or "" when unset.
func Client(ctx context.Context) string {
	if c, ok := ctx.Value(contextKeyClient{}).(string); ok {
		return c
	}
	return ""
}

// WithClient injects a client summary into a context.
// Useful for tests that don't run the full HTTP middleware chain.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, contextKeyClient{}, client)
}
