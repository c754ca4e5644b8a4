package output

import (
	"context"
	"io"
)

// rendererKey is used to store the renderer in context.
type rendererKey struct{}

// WithRenderer stores the renderer in the context.
func WithRenderer(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// FromContext retrieves the renderer from the context, creating a default
// one over the given writers when none was stored.
func FromContext(ctx context.Context, out, errOut io.Writer) *Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*Renderer); ok {
		return r
	}
	return NewRenderer(out, errOut, ModeAuto)
}
