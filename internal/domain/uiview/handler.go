package uiview

import (
	"context"
	"fmt"
	"sync"

	"github.com/bizview/backend/internal/domain/shared"
)

// HandlerProps is the contract between the tier-1 adapter and a detail
// handler: the raw resolved layout is passed as a parameter, and the handler
// decides how to wire it to data-fetching and mutation concerns.
type HandlerProps struct {
	ObjectCode string
	RecordID   string
	Layout     Component
}

// DetailHandler is the single named capability a tenant-scoped handler
// module exports. The adapter never interprets its internals.
type DetailHandler interface {
	RenderDetail(ctx context.Context, props HandlerProps) (*RenderOutput, error)
}

// HandlerLoader lazily produces a detail handler, mirroring Loader for view
// modules so both halves of a tier-1 pair load the same way.
type HandlerLoader func(ctx context.Context) (DetailHandler, error)

type handlerKey struct {
	tenantID   string
	objectCode string
}

// HandlerRegistry holds the statically-known set of tenant-scoped detail
// handlers. Registration happens at bootstrap, before resolution starts.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[handlerKey]HandlerLoader
}

// NewHandlerRegistry creates an empty handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[handlerKey]HandlerLoader)}
}

// Register binds a handler loader to a (tenant, object) pair.
func (r *HandlerRegistry) Register(tenantID, objectCode string, loader HandlerLoader) error {
	if loader == nil {
		return fmt.Errorf("%w: handler loader cannot be nil", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := handlerKey{tenantID: tenantID, objectCode: objectCode}
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("%w: handler for %s/%s already registered", shared.ErrAlreadyExists, tenantID, objectCode)
	}
	r.handlers[key] = loader
	return nil
}

// Lookup returns the handler loader for the exact (tenant, object) pair.
// There is no default-tenant fallback here: a layout only pairs with a
// handler registered under the tenant the layout itself resolved to.
func (r *HandlerRegistry) Lookup(tenantID, objectCode string) (HandlerLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loader, ok := r.handlers[handlerKey{tenantID: tenantID, objectCode: objectCode}]
	return loader, ok
}

// Len returns the number of registered handlers.
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
