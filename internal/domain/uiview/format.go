package uiview

// FormatTag identifies which view-definition generation a detail view was
// authored in. Exactly one tag is selected per (tenant, object) pair; list
// views carry no tag.
type FormatTag string

const (
	// FormatNewWithHandler is the newest generation: a layout module paired
	// with a tenant-scoped detail handler.
	FormatNewWithHandler FormatTag = "new_with_handler"
	// FormatCurrentMeta is the middle generation: a detail_view_meta module.
	FormatCurrentMeta FormatTag = "current_meta"
	// FormatLegacy is the oldest generation: a detail-view module that owns
	// its whole data lifecycle.
	FormatLegacy FormatTag = "legacy"
)

// Detection is the outcome of format detection for one (tenant, object)
// pair: the winning entry, its generation, and (tier 1 only) the paired
// handler loader.
type Detection struct {
	Entry    *Entry
	Handler  HandlerLoader
	Format   FormatTag
	TenantID string // tenant the entry was found under, after fallback
}

// Detector probes the registry across the three naming generations in fixed
// priority order. Detail views only.
type Detector struct {
	registry *Registry
	handlers *HandlerRegistry
}

// NewDetector creates a detector over the given registries
func NewDetector(registry *Registry, handlers *HandlerRegistry) *Detector {
	return &Detector{registry: registry, handlers: handlers}
}

// Detect selects the highest-priority generation present for the pair.
// First match wins; tiers are never combined. Tier 1 requires both the
// layout entry and a handler registered for the tenant the layout resolved
// under; either half alone does not satisfy it and falls through to tier 2.
// If no tier matches, the error enumerates every candidate path checked.
func (d *Detector) Detect(tenantID, objectCode, singular string) (*Detection, error) {
	names := DeriveDetailViewNames(objectCode, singular)

	// Tier 1: layout + handler, both or nothing.
	if entry, resolvedTenant, ok := d.registry.LookupWithFallback(tenantID, objectCode, names.Layout); ok {
		if loader, ok := d.handlers.Lookup(resolvedTenant, objectCode); ok {
			return &Detection{
				Entry:    entry,
				Handler:  loader,
				Format:   FormatNewWithHandler,
				TenantID: resolvedTenant,
			}, nil
		}
	}

	// Tier 2: detail_view_meta.
	if entry, resolvedTenant, ok := d.registry.LookupWithFallback(tenantID, objectCode, names.Meta); ok {
		return &Detection{
			Entry:    entry,
			Format:   FormatCurrentMeta,
			TenantID: resolvedTenant,
		}, nil
	}

	// Tier 3: legacy detail-view.
	if entry, resolvedTenant, ok := d.registry.LookupWithFallback(tenantID, objectCode, names.Legacy); ok {
		return &Detection{
			Entry:    entry,
			Format:   FormatLegacy,
			TenantID: resolvedTenant,
		}, nil
	}

	// No fourth, silent fallback.
	return nil, &NotFoundError{
		TenantID:   tenantID,
		ObjectCode: objectCode,
		Kind:       ViewKindDetail,
		Candidates: candidatePaths(tenantID, names.Layout, names.Meta, names.Legacy),
	}
}
