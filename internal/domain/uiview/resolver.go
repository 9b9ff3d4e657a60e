package uiview

import (
	"context"
	"fmt"
	"sync"

	"github.com/bizview/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "uiview.resolver"

// ViewRequest carries one page-level view request. TenantID may be empty
// (normalized to the default tenant); Singular is an optional pre-computed
// singular form of the object code.
type ViewRequest struct {
	TenantID   string
	ObjectCode string
	Singular   string
	Kind       ViewKind
}

// Resolver turns view requests into resolved, invocable views and memoizes
// the outcome per (tenant, object, view) key for the life of the process.
//
// Cache semantics, deliberately preserved from the reference behavior:
// failed resolutions are not cached (the available set can change between
// deployments within a session), and concurrently in-flight first
// resolutions for one key are not deduplicated. The pipeline is
// side-effect-free, so when two first requests race, both resolve and the
// second write wins; sequential callers always observe the stored instance.
type Resolver struct {
	registry *Registry
	handlers *HandlerRegistry
	detector *Detector
	deps     *Dependencies
	logger   *zap.Logger
	tracer   trace.Tracer

	mu    sync.RWMutex
	cache map[ResolutionKey]*ResolvedView
}

// ResolverOption is a functional option for configuring the resolver
type ResolverOption func(*Resolver)

// WithLogger sets the resolver logger
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithDependencies sets the bundle injected into legacy-format components
func WithDependencies(deps *Dependencies) ResolverOption {
	return func(r *Resolver) {
		r.deps = deps
	}
}

// NewResolver creates a resolver over the given registries.
func NewResolver(registry *Registry, handlers *HandlerRegistry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		handlers: handlers,
		detector: NewDetector(registry, handlers),
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		cache:    make(map[ResolutionKey]*ResolvedView),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.deps == nil {
		r.deps = NewDependencies(r.logger)
	}
	return r
}

// RequestView resolves a view request to an invocable view. Cache hits
// return synchronously without re-running detection or rebuilding adapters;
// the actual module fetch is deferred to the component's first render.
func (r *Resolver) RequestView(ctx context.Context, req ViewRequest) (*ResolvedView, error) {
	if req.ObjectCode == "" {
		return nil, fmt.Errorf("%w: object code is required", shared.ErrInvalidInput)
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown view kind %q", shared.ErrInvalidInput, req.Kind)
	}

	tenantID := NormalizeTenant(req.TenantID)
	key := r.cacheKey(tenantID, req)

	if rv, ok := r.cached(key); ok {
		r.logger.Debug("view resolution cache hit",
			zap.String("tenant_id", key.TenantID),
			zap.String("object_code", key.ObjectCode),
			zap.String("view_name", key.ViewName))
		return rv, nil
	}

	_, span := r.tracer.Start(ctx, "uiview.Resolve",
		trace.WithAttributes(
			attribute.String("tenant_id", key.TenantID),
			attribute.String("object_code", key.ObjectCode),
			attribute.String("view_name", key.ViewName),
			attribute.String("view_kind", string(req.Kind)),
		))
	defer span.End()

	var (
		rv  *ResolvedView
		err error
	)
	switch req.Kind {
	case ViewKindList:
		rv, err = r.resolveList(tenantID, req.ObjectCode)
	case ViewKindDetail:
		rv, err = r.resolveDetail(tenantID, req.ObjectCode, req.Singular)
	}
	if err != nil {
		// Not cached as a negative result: the next call re-attempts.
		span.RecordError(err)
		r.logger.Warn("view resolution failed",
			zap.String("tenant_id", key.TenantID),
			zap.String("object_code", key.ObjectCode),
			zap.Error(err))
		return nil, err
	}

	r.store(key, rv)
	r.logger.Debug("view resolved",
		zap.String("tenant_id", key.TenantID),
		zap.String("object_code", key.ObjectCode),
		zap.String("view_name", key.ViewName),
		zap.String("format", string(rv.Format)))
	return rv, nil
}

// cacheKey derives the memoization key. The detail key uses the canonical
// base name so one entry covers whichever generation detection selects.
func (r *Resolver) cacheKey(tenantID string, req ViewRequest) ResolutionKey {
	viewName := ListViewName(req.ObjectCode)
	if req.Kind == ViewKindDetail {
		viewName = DeriveDetailViewNames(req.ObjectCode, req.Singular).Base
	}
	return ResolutionKey{TenantID: tenantID, ObjectCode: req.ObjectCode, ViewName: viewName}
}

func (r *Resolver) cached(key ResolutionKey) (*ResolvedView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.cache[key]
	return rv, ok
}

// store writes unconditionally: when two first-time resolutions race, the
// second write wins, which is safe because the pipeline is side-effect-free.
func (r *Resolver) store(key ResolutionKey, rv *ResolvedView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = rv
}

// resolveList performs a direct lookup with tenant fallback; list views have
// no format tiering.
func (r *Resolver) resolveList(tenantID, objectCode string) (*ResolvedView, error) {
	viewName := ListViewName(objectCode)
	entry, _, ok := r.registry.LookupWithFallback(tenantID, objectCode, viewName)
	if !ok {
		return nil, &NotFoundError{
			TenantID:   tenantID,
			ObjectCode: objectCode,
			Kind:       ViewKindList,
			Candidates: candidatePaths(tenantID, viewName),
		}
	}
	return &ResolvedView{
		Component: newLegacyAdapter(entry, r.deps),
	}, nil
}

// resolveDetail runs format detection and wraps the winner in the adapter
// matching its generation.
func (r *Resolver) resolveDetail(tenantID, objectCode, singular string) (*ResolvedView, error) {
	det, err := r.detector.Detect(tenantID, objectCode, singular)
	if err != nil {
		return nil, err
	}

	if det.Format == FormatNewWithHandler {
		return &ResolvedView{
			Component:   newHandlerAdapter(det.Entry, det.Handler),
			Format:      det.Format,
			IsNewFormat: true,
		}, nil
	}
	return &ResolvedView{
		Component: newLegacyAdapter(det.Entry, r.deps),
		Format:    det.Format,
	}, nil
}

// CacheSize returns the number of memoized resolutions.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// RegistryKeys returns the registered view key paths, sorted.
func (r *Resolver) RegistryKeys() []string {
	return r.registry.Keys()
}

// RegistryLookups returns the total registry lookups served so far.
func (r *Resolver) RegistryLookups() int64 {
	return r.registry.Lookups()
}
