// Package actor carries the name of the logged-in user through a context so
// mutations can be attributed without threading it through every call.
package actor

import "context"

type ctxKey struct{}

func With(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxKey{}, name)
}

func Get(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKey{}).(string); ok {
		return s
	}
	return ""
}
