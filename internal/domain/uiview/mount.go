package uiview

import (
	"context"
)

// Placeholder is the loading state shown while a mounted view's module fetch
// is in flight. Its ID is derived from the object code so per-view loading
// indicators are addressable in tests and UI.
type Placeholder struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// NewPlaceholder derives the placeholder for an object code.
func NewPlaceholder(objectCode string) Placeholder {
	return Placeholder{
		ID:    "loading-" + objectCode,
		Label: "Loading " + objectCode + "...",
	}
}

// Mount is one asynchronous instantiation of a resolved view: render starts
// immediately, the placeholder is available while pending, and Await joins
// the result. An abandoned mount (tenant or object changed mid-flight) is
// simply never awaited; it is not actively cancelled.
type Mount struct {
	placeholder Placeholder
	done        chan struct{}
	out         *RenderOutput
	err         error
}

// MountComponent starts rendering the component with the given props.
func MountComponent(ctx context.Context, c Component, props RenderProps) *Mount {
	m := &Mount{
		placeholder: NewPlaceholder(props.ObjectCode),
		done:        make(chan struct{}),
	}
	go func() {
		defer close(m.done)
		m.out, m.err = c.Render(ctx, props)
	}()
	return m
}

// Placeholder returns the loading placeholder for this mount.
func (m *Mount) Placeholder() Placeholder {
	return m.placeholder
}

// Ready reports whether the render has settled.
func (m *Mount) Ready() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Await blocks until the render settles or ctx is done. A fetch failure
// surfaces here as an error; it is never swallowed into an empty render.
func (m *Mount) Await(ctx context.Context) (*RenderOutput, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return m.out, m.err
	}
}
