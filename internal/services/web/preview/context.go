package preview

import "context"

type contextKey struct{}

// WithEnabled marks ctx as a preview request.
func WithEnabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, true)
}

// Enabled reports whether ctx belongs to a preview request.
func Enabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	enabled, _ := ctx.Value(contextKey{}).(bool)
	return enabled
}
