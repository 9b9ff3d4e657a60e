// Package manifest defines the build-time view manifest: the full,
// statically-known candidate set of tenant view modules and handler
// bindings from which the registries are populated at process start.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bizview/backend/internal/domain/shared"
	"github.com/bizview/backend/internal/domain/uiview"
	"github.com/bizview/backend/internal/infrastructure/modules"
	"github.com/go-playground/validator/v10"
)

// Manifest is the serialized candidate set, generated by a build step (see
// cmd/manifestgen) from the views directory convention.
type Manifest struct {
	Version  int              `json:"version" validate:"required,min=1"`
	Views    []ViewModule     `json:"views" validate:"dive"`
	Handlers []HandlerBinding `json:"handlers" validate:"dive"`
}

// ViewModule binds one (tenant, object, view) key to a module ref in the
// backing store.
type ViewModule struct {
	Tenant string `json:"tenant" validate:"required"`
	Object string `json:"object" validate:"required"`
	View   string `json:"view" validate:"required"`
	Module string `json:"module" validate:"required"`
}

// HandlerBinding binds a (tenant, object) pair to a named handler
// implementation compiled into the binary.
type HandlerBinding struct {
	Tenant  string `json:"tenant" validate:"required"`
	Object  string `json:"object" validate:"required"`
	Handler string `json:"handler" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: manifest %q", shared.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", shared.ErrInvalidInput, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural completeness of the manifest.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: manifest: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// BuildRegistry constructs the static view registry: one lazily-loading
// entry per manifest view, decoding through the codec matching the view
// name's generation.
func (m *Manifest) BuildRegistry(store modules.Store) (*uiview.Registry, error) {
	entries := make([]uiview.Entry, 0, len(m.Views))
	for _, v := range m.Views {
		entries = append(entries, uiview.Entry{
			Key: uiview.ResolutionKey{
				TenantID:   v.Tenant,
				ObjectCode: v.Object,
				ViewName:   v.View,
			},
			Module: v.Module,
			Load:   modules.LoaderFor(store, v.Module, v.View),
		})
	}
	return uiview.NewRegistry(entries)
}

// BuildHandlerRegistry constructs the tenant-scoped handler registry from
// the manifest bindings and the compiled-in handler catalog.
func (m *Manifest) BuildHandlerRegistry(catalog *modules.HandlerCatalog, deps *uiview.Dependencies) (*uiview.HandlerRegistry, error) {
	registry := uiview.NewHandlerRegistry()
	for _, b := range m.Handlers {
		loader, err := catalog.Loader(b.Handler, deps)
		if err != nil {
			return nil, fmt.Errorf("handler binding %s/%s: %w", b.Tenant, b.Object, err)
		}
		if err := registry.Register(b.Tenant, b.Object, loader); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
