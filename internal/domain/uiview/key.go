// Package uiview implements tenant-scoped resolution of UI view
// implementations: which concrete view renders a business object for a
// given tenant, across three coexisting view-definition generations.
package uiview

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// DefaultTenant is the sentinel tenant whose views serve as the universal
// baseline. Requests without tenant context are normalized to it, and the
// fallback policy substitutes it exactly once.
const DefaultTenant = "0_default"

// ViewKind identifies the presentation kind of a view.
type ViewKind string

const (
	ViewKindList   ViewKind = "list"
	ViewKindDetail ViewKind = "detail"
)

// Valid reports whether the kind is one of the supported presentation kinds.
func (k ViewKind) Valid() bool {
	return k == ViewKindList || k == ViewKindDetail
}

// ResolutionKey identifies one (tenant, object, view) combination.
// Keys are immutable value types; uniqueness is structural equality.
type ResolutionKey struct {
	TenantID   string
	ObjectCode string
	ViewName   string
}

// Path returns the diagnostic path form of the key, "tenant/viewName".
func (k ResolutionKey) Path() string {
	return k.TenantID + "/" + k.ViewName
}

// NormalizeTenant maps an absent or blank tenant identifier to the
// default-tenant sentinel.
func NormalizeTenant(tenantID string) string {
	if strings.TrimSpace(tenantID) == "" {
		return DefaultTenant
	}
	return tenantID
}

// ListViewName derives the view name for a list view. List views carry no
// format tiering; the name is the object code itself.
func ListViewName(objectCode string) string {
	return objectCode
}

// Singularize returns the singular form of an object code ("assets" ->
// "asset"). Delegated to the inflection library; callers may override by
// supplying their own singular form.
func Singularize(objectCode string) string {
	return inflection.Singular(objectCode)
}

// DetailViewNames holds the three generation-specific view names derived for
// one object code, newest generation first.
type DetailViewNames struct {
	Base   string // "<singular>-detail", the canonical cache key name
	Layout string // "<singular>-detail.layout"
	Meta   string // "<singular>-detail.detail_view_meta"
	Legacy string // "<singular>-detail.detail-view"
}

// DeriveDetailViewNames derives the detail view names for an object code.
// singular is optional; when empty the object code is singularized once via
// Singularize. Suffixes are applied exactly once.
func DeriveDetailViewNames(objectCode, singular string) DetailViewNames {
	if singular == "" {
		singular = Singularize(objectCode)
	}
	base := singular + "-detail"
	return DetailViewNames{
		Base:   base,
		Layout: base + ".layout",
		Meta:   base + ".detail_view_meta",
		Legacy: base + ".detail-view",
	}
}

// All returns the derived names in tier priority order.
func (n DetailViewNames) All() []string {
	return []string{n.Layout, n.Meta, n.Legacy}
}
