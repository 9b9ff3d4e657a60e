package modules

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bizview/backend/internal/domain/shared"
	"github.com/bizview/backend/internal/domain/uiview"
	"go.uber.org/zap"
)

// HandlerFactory builds a detail handler instance over the process-wide
// dependency bundle. Factories are registered by name in the catalog at
// bootstrap; the manifest binds (tenant, object) pairs to names, keeping the
// handler set statically enumerable while still tenant-scoped.
type HandlerFactory func(deps *uiview.Dependencies) uiview.DetailHandler

// HandlerCatalog is the name -> factory table of detail handler
// implementations compiled into the binary.
type HandlerCatalog struct {
	mu        sync.RWMutex
	factories map[string]HandlerFactory
}

// NewHandlerCatalog creates a catalog pre-populated with the built-in
// standard handler.
func NewHandlerCatalog() *HandlerCatalog {
	c := &HandlerCatalog{factories: make(map[string]HandlerFactory)}
	c.factories[StandardHandlerName] = func(deps *uiview.Dependencies) uiview.DetailHandler {
		return NewStandardDetailHandler(deps)
	}
	return c
}

// Register adds a named handler factory
func (c *HandlerCatalog) Register(name string, factory HandlerFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: handler factory name and constructor are required", shared.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("%w: handler factory %q already registered", shared.ErrAlreadyExists, name)
	}
	c.factories[name] = factory
	return nil
}

// Loader returns a uiview.HandlerLoader producing the named handler.
func (c *HandlerCatalog) Loader(name string, deps *uiview.Dependencies) (uiview.HandlerLoader, error) {
	c.mu.RLock()
	factory, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: handler factory %q", shared.ErrNotFound, name)
	}
	return func(ctx context.Context) (uiview.DetailHandler, error) {
		return factory(deps), nil
	}, nil
}

// Names returns all registered factory names, sorted.
func (c *HandlerCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StandardHandlerName is the built-in handler most tenants bind to.
const StandardHandlerName = "standard"

// StandardDetailHandler is the default wiring of a tier-1 layout: it renders
// the layout as-is and stamps the record identity. Tenant-specific handlers
// replace it to change how the layout connects to data and edit concerns.
type StandardDetailHandler struct {
	deps *uiview.Dependencies
}

// NewStandardDetailHandler creates the standard handler
func NewStandardDetailHandler(deps *uiview.Dependencies) *StandardDetailHandler {
	return &StandardDetailHandler{deps: deps}
}

// RenderDetail implements uiview.DetailHandler
func (h *StandardDetailHandler) RenderDetail(ctx context.Context, props uiview.HandlerProps) (*uiview.RenderOutput, error) {
	if props.Layout == nil {
		return nil, fmt.Errorf("%w: handler invoked without a layout", shared.ErrInvalidInput)
	}

	out, err := props.Layout.Render(ctx, uiview.RenderProps{
		ObjectCode: props.ObjectCode,
		RecordID:   props.RecordID,
	})
	if err != nil {
		return nil, err
	}
	out.RecordID = props.RecordID

	if h.deps != nil && h.deps.Logger != nil {
		h.deps.Logger.Debug("standard handler rendered layout",
			zap.String("object_code", props.ObjectCode),
			zap.String("record_id", props.RecordID))
	}
	return out, nil
}

// Ensure StandardDetailHandler implements DetailHandler
var _ uiview.DetailHandler = (*StandardDetailHandler)(nil)
