package uiview

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/bizview/backend/internal/domain/shared"
)

// Loader lazily produces the component backing one registry entry. Loaders
// must be side-effect-free and safe to invoke more than once.
type Loader func(ctx context.Context) (Component, error)

// Entry binds one resolution key to its loader. The module ref is the path
// of the backing view-definition module, kept for diagnostics only.
type Entry struct {
	Key    ResolutionKey
	Module string
	Load   Loader
}

// Registry is the static, build-time-known mapping from resolution keys to
// loaders. It is populated once from the manifest and read-only thereafter,
// so lookups need no locking. Absence of an entry is a normal condition: it
// signals "no tenant override; fall back".
type Registry struct {
	entries map[ResolutionKey]*Entry
	lookups atomic.Int64
}

// NewRegistry builds a registry from the full candidate set. Duplicate keys
// are a manifest defect and rejected.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{entries: make(map[ResolutionKey]*Entry, len(entries))}
	for i := range entries {
		e := entries[i]
		if e.Key.TenantID == "" || e.Key.ObjectCode == "" || e.Key.ViewName == "" {
			return nil, fmt.Errorf("%w: registry entry %q has an incomplete key", shared.ErrInvalidInput, e.Key.Path())
		}
		if e.Load == nil {
			return nil, fmt.Errorf("%w: registry entry %q has no loader", shared.ErrInvalidInput, e.Key.Path())
		}
		if _, exists := r.entries[e.Key]; exists {
			return nil, fmt.Errorf("%w: registry entry %q already registered", shared.ErrAlreadyExists, e.Key.Path())
		}
		r.entries[e.Key] = &e
	}
	return r, nil
}

// Lookup returns the entry for the exact key, if present.
func (r *Registry) Lookup(tenantID, objectCode, viewName string) (*Entry, bool) {
	r.lookups.Add(1)
	e, ok := r.entries[ResolutionKey{TenantID: tenantID, ObjectCode: objectCode, ViewName: viewName}]
	return e, ok
}

// LookupWithFallback applies the tenant fallback policy: exact key first,
// then exactly one substitution to the default tenant. It returns the entry
// and the tenant it was actually found under. There is never a chain of
// tenants and never a search across other objects or view names.
func (r *Registry) LookupWithFallback(tenantID, objectCode, viewName string) (*Entry, string, bool) {
	if e, ok := r.Lookup(tenantID, objectCode, viewName); ok {
		return e, tenantID, true
	}
	if tenantID == DefaultTenant {
		return nil, "", false
	}
	if e, ok := r.Lookup(DefaultTenant, objectCode, viewName); ok {
		return e, DefaultTenant, true
	}
	return nil, "", false
}

// Lookups returns the number of lookup calls served. Exposed for call-count
// instrumentation in tests and cache-effectiveness monitoring.
func (r *Registry) Lookups() int64 {
	return r.lookups.Load()
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Keys returns all registered key paths, sorted. Diagnostic use only.
func (r *Registry) Keys() []string {
	paths := make([]string, 0, len(r.entries))
	for k := range r.entries {
		paths = append(paths, k.Path())
	}
	sort.Strings(paths)
	return paths
}
