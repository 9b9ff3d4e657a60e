package uiview

import (
	"context"
	"testing"

	"github.com/bizview/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	title string
}

func (h *stubHandler) RenderDetail(ctx context.Context, props HandlerProps) (*RenderOutput, error) {
	return &RenderOutput{ObjectCode: props.ObjectCode, RecordID: props.RecordID, Title: h.title}, nil
}

func stubHandlerLoader(title string) HandlerLoader {
	return func(ctx context.Context) (DetailHandler, error) {
		return &stubHandler{title: title}, nil
	}
}

func TestHandlerRegistryRegister(t *testing.T) {
	r := NewHandlerRegistry()
	require.NoError(t, r.Register("acme", "assets", stubHandlerLoader("acme assets")))
	assert.Equal(t, 1, r.Len())
}

func TestHandlerRegistryRegister_Nil(t *testing.T) {
	r := NewHandlerRegistry()
	err := r.Register("acme", "assets", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestHandlerRegistryRegister_Duplicate(t *testing.T) {
	r := NewHandlerRegistry()
	require.NoError(t, r.Register("acme", "assets", stubHandlerLoader("first")))

	err := r.Register("acme", "assets", stubHandlerLoader("second"))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestHandlerRegistryLookup(t *testing.T) {
	r := NewHandlerRegistry()
	require.NoError(t, r.Register("acme", "assets", stubHandlerLoader("acme assets")))

	_, ok := r.Lookup("acme", "assets")
	assert.True(t, ok)

	_, ok = r.Lookup("globex", "assets")
	assert.False(t, ok)

	_, ok = r.Lookup("acme", "widgets")
	assert.False(t, ok)
}

func TestHandlerRegistryLookup_NoTenantFallback(t *testing.T) {
	r := NewHandlerRegistry()
	require.NoError(t, r.Register(DefaultTenant, "assets", stubHandlerLoader("default assets")))

	// Handler lookup is exact: a default-tenant registration is never
	// substituted for a missing tenant-scoped one.
	_, ok := r.Lookup("acme", "assets")
	assert.False(t, ok)

	loader, ok := r.Lookup(DefaultTenant, "assets")
	require.True(t, ok)

	h, err := loader(context.Background())
	require.NoError(t, err)
	out, err := h.RenderDetail(context.Background(), HandlerProps{ObjectCode: "assets"})
	require.NoError(t, err)
	assert.Equal(t, "default assets", out.Title)
}
