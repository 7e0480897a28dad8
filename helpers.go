package launchtrc

import (
	"context"
)

type bufferContextKey struct{}

var bufferContextVal bufferContextKey

// Put the given buffer into the context, and return a new context containing
// that buffer, as well as the buffer itself.
func Put(ctx context.Context, buf *Buffer) (context.Context, *Buffer) {
	return context.WithValue(ctx, bufferContextVal, buf), buf
}

// Get the buffer from the context, if it exists. If not, nil is returned.
func Get(ctx context.Context) *Buffer {
	buf, _ := MaybeGet(ctx)
	return buf
}

// MaybeGet returns the buffer in the context, if it exists, with true as the
// second return value. If not, a nil buffer is returned, with false as the
// second return value.
func MaybeGet(ctx context.Context) (*Buffer, bool) {
	buf, ok := ctx.Value(bufferContextVal).(*Buffer)
	return buf, ok && buf != nil
}

// Region records a span around a region of code, usually a function, using
// the buffer in the context. If the context doesn't contain a buffer, nothing
// is recorded.
//
// Typical usage is as follows.
//
//	func resolve(ctx context.Context, target string) error {
//	    finish := launchtrc.Region(ctx, "resolve", launchtrc.Args{"target": target})
//	    defer finish()
//	    ...
//	}
func Region(ctx context.Context, name string, args Args) func() {
	buf, ok := MaybeGet(ctx)
	if !ok {
		return func() {}
	}
	return buf.Begin(name, args).End
}
