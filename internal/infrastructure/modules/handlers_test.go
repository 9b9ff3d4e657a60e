package modules

import (
	"context"
	"testing"

	"github.com/bizview/backend/internal/domain/shared"
	"github.com/bizview/backend/internal/domain/uiview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewHandlerCatalog(t *testing.T) {
	c := NewHandlerCatalog()
	assert.Equal(t, []string{StandardHandlerName}, c.Names())
}

func TestHandlerCatalogRegister(t *testing.T) {
	c := NewHandlerCatalog()
	err := c.Register("asset-audit", func(deps *uiview.Dependencies) uiview.DetailHandler {
		return NewStandardDetailHandler(deps)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"asset-audit", StandardHandlerName}, c.Names())
}

func TestHandlerCatalogRegister_Invalid(t *testing.T) {
	c := NewHandlerCatalog()

	err := c.Register("", func(deps *uiview.Dependencies) uiview.DetailHandler { return nil })
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	err = c.Register("nil-factory", nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestHandlerCatalogRegister_Duplicate(t *testing.T) {
	c := NewHandlerCatalog()
	err := c.Register(StandardHandlerName, func(deps *uiview.Dependencies) uiview.DetailHandler {
		return NewStandardDetailHandler(deps)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestHandlerCatalogLoader(t *testing.T) {
	c := NewHandlerCatalog()
	deps := uiview.NewDependencies(zap.NewNop())

	loader, err := c.Loader(StandardHandlerName, deps)
	require.NoError(t, err)

	h, err := loader(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &StandardDetailHandler{}, h)
}

func TestHandlerCatalogLoader_Unknown(t *testing.T) {
	c := NewHandlerCatalog()

	_, err := c.Loader("nonexistent", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStandardDetailHandler(t *testing.T) {
	layout := uiview.ComponentFunc(func(ctx context.Context, props uiview.RenderProps) (*uiview.RenderOutput, error) {
		return &uiview.RenderOutput{
			ObjectCode: props.ObjectCode,
			Title:      "Layout Title",
		}, nil
	})

	h := NewStandardDetailHandler(uiview.NewDependencies(zap.NewNop()))
	out, err := h.RenderDetail(context.Background(), uiview.HandlerProps{
		ObjectCode: "assets",
		RecordID:   "17",
		Layout:     layout,
	})
	require.NoError(t, err)
	assert.Equal(t, "Layout Title", out.Title)
	assert.Equal(t, "17", out.RecordID)
}

func TestStandardDetailHandler_NoLayout(t *testing.T) {
	h := NewStandardDetailHandler(nil)

	_, err := h.RenderDetail(context.Background(), uiview.HandlerProps{ObjectCode: "assets"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
