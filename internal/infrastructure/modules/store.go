// Package modules loads and decodes view-definition modules from a backing
// object store and exposes them as renderable uiview components.
package modules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bizview/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Store fetches the raw bytes of a view-definition module by its ref.
// A missing module surfaces as shared.ErrNotFound.
type Store interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FSStore serves modules from a local directory tree. Intended for
// development and tests; production deployments use the S3 store.
type FSStore struct {
	root   string
	logger *zap.Logger
}

// FSStoreOption is a functional option for configuring FSStore
type FSStoreOption func(*FSStore)

// WithFSLogger sets the logger for the store
func WithFSLogger(logger *zap.Logger) FSStoreOption {
	return func(s *FSStore) {
		s.logger = logger
	}
}

// NewFSStore creates a filesystem-backed module store rooted at root.
func NewFSStore(root string, opts ...FSStoreOption) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: module store root is required", shared.ErrInvalidInput)
	}
	s := &FSStore{
		root:   root,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fetch reads the module file at ref relative to the store root.
func (s *FSStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(ref)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("%w: module ref %q escapes store root", shared.ErrInvalidInput, ref)
	}

	data, err := os.ReadFile(filepath.Join(s.root, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: module %q", shared.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("read module %q: %w", ref, err)
	}

	s.logger.Debug("module fetched from filesystem",
		zap.String("ref", ref),
		zap.Int("bytes", len(data)))
	return data, nil
}
