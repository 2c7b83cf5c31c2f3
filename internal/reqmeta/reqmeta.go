// Package reqmeta carries HTTP request metadata through a context.
package reqmeta

import "context"

type metaKey struct{}

// Meta holds HTTP request metadata attached to click events and access logs.
type Meta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// WithMeta adds request metadata to ctx.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// FromContext extracts request metadata from ctx.
func FromContext(ctx context.Context) Meta {
	if v, ok := ctx.Value(metaKey{}).(Meta); ok {
		return v
	}

	return Meta{}
}
