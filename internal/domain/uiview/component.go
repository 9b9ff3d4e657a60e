package uiview

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RenderProps is the uniform prop shape passed to a resolved component.
// Deps is populated by the adapter for legacy-format components only; new
// format components never see it.
type RenderProps struct {
	ObjectCode string
	RecordID   string
	Deps       *Dependencies
}

// Component is a renderable view implementation. Render may suspend on the
// underlying module fetch the first time it is invoked.
type Component interface {
	Render(ctx context.Context, props RenderProps) (*RenderOutput, error)
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(ctx context.Context, props RenderProps) (*RenderOutput, error)

// Render implements Component
func (f ComponentFunc) Render(ctx context.Context, props RenderProps) (*RenderOutput, error) {
	return f(ctx, props)
}

// RenderOutput is the serializable view document produced by a component.
type RenderOutput struct {
	ObjectCode string   `json:"object_code"`
	RecordID   string   `json:"record_id,omitempty"`
	Title      string   `json:"title"`
	Regions    []Region `json:"regions"`
}

// Region is one labeled group of fields in a rendered view.
type Region struct {
	Label  string  `json:"label,omitempty"`
	Fields []Field `json:"fields"`
}

// Field describes one field slot in a rendered view. Concrete widget
// rendering is the frontend's concern; the widget value is passed through.
type Field struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Widget string `json:"widget,omitempty"`
}

// Dependencies is the process-wide bundle of shared utilities injected into
// legacy-format components. The resolver passes it through unmodified; its
// contents are opaque to resolution logic.
type Dependencies struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// NewDependencies builds a dependency bundle with safe defaults.
func NewDependencies(logger *zap.Logger) *Dependencies {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dependencies{
		Logger: logger,
		Now:    time.Now,
	}
}
