package uiview

import (
	"fmt"
	"strings"

	"github.com/bizview/backend/internal/domain/shared"
)

// NotFoundError reports that no view implementation exists for a request,
// after tenant fallback and, for detail views, after all three format tiers
// were probed. Candidates lists every registry path that was checked, in
// probe order, for diagnosability.
type NotFoundError struct {
	TenantID   string
	ObjectCode string
	Kind       ViewKind
	Candidates []string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s view found for tenant %q object %q (checked: %s)",
		e.Kind, e.TenantID, e.ObjectCode, strings.Join(e.Candidates, ", "))
}

// Unwrap allows errors.Is(err, shared.ErrNotFound)
func (e *NotFoundError) Unwrap() error {
	return shared.ErrNotFound
}

// candidatePaths expands view names into the full checked-path list: each
// name is probed for the requested tenant and then for the default tenant.
// When the request is already for the default tenant the single probe is
// listed once.
func candidatePaths(tenantID string, viewNames ...string) []string {
	paths := make([]string, 0, 2*len(viewNames))
	for _, name := range viewNames {
		paths = append(paths, tenantID+"/"+name)
		if tenantID != DefaultTenant {
			paths = append(paths, DefaultTenant+"/"+name)
		}
	}
	return paths
}
