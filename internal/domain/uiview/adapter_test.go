package uiview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/bizview/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countingEntry(tenant, object, view string, loads *atomic.Int32) *Entry {
	return &Entry{
		Key:    ResolutionKey{TenantID: tenant, ObjectCode: object, ViewName: view},
		Module: tenant + "/" + object + "/" + view + ".json",
		Load: func(ctx context.Context) (Component, error) {
			loads.Add(1)
			return ComponentFunc(func(ctx context.Context, props RenderProps) (*RenderOutput, error) {
				return &RenderOutput{ObjectCode: props.ObjectCode, Title: view}, nil
			}), nil
		},
	}
}

func TestHandlerAdapter(t *testing.T) {
	var layoutLoads, handlerLoads atomic.Int32

	entry := countingEntry("acme", "assets", "asset-detail.layout", &layoutLoads)
	loadHandler := func(ctx context.Context) (DetailHandler, error) {
		handlerLoads.Add(1)
		return &stubHandler{title: "handled"}, nil
	}

	comp := newHandlerAdapter(entry, loadHandler)

	out, err := comp.Render(context.Background(), RenderProps{ObjectCode: "assets", RecordID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "handled", out.Title)
	assert.Equal(t, "42", out.RecordID)

	// Both modules fetched exactly once, on first render.
	out, err = comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, int32(1), layoutLoads.Load())
	assert.Equal(t, int32(1), handlerLoads.Load())
}

func TestHandlerAdapter_LoadFailure(t *testing.T) {
	entry := &Entry{
		Key:    ResolutionKey{TenantID: "acme", ObjectCode: "assets", ViewName: "asset-detail.layout"},
		Module: "acme/assets/asset-detail.layout.json",
		Load: func(ctx context.Context) (Component, error) {
			return nil, errors.New("bucket unreachable")
		},
	}
	comp := newHandlerAdapter(entry, stubHandlerLoader("never"))

	_, err := comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrLoadFailure)
	assert.Contains(t, err.Error(), "bucket unreachable")

	// The failure is terminal for this instance; no retry on re-render.
	_, err = comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	assert.ErrorIs(t, err, shared.ErrLoadFailure)
}

func TestLegacyAdapter(t *testing.T) {
	var loads atomic.Int32
	entry := countingEntry("acme", "assets", "asset-detail.detail-view", &loads)

	comp := newLegacyAdapter(entry, NewDependencies(zap.NewNop()))

	out, err := comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	require.NoError(t, err)
	assert.Equal(t, "asset-detail.detail-view", out.Title)

	_, err = comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load())
}

func TestLegacyAdapter_InjectsDependencies(t *testing.T) {
	deps := NewDependencies(zap.NewNop())
	var seen *Dependencies

	entry := &Entry{
		Key:    ResolutionKey{TenantID: "acme", ObjectCode: "assets", ViewName: "asset-detail.detail-view"},
		Module: "acme/assets/asset-detail.detail-view.json",
		Load: func(ctx context.Context) (Component, error) {
			return ComponentFunc(func(ctx context.Context, props RenderProps) (*RenderOutput, error) {
				seen = props.Deps
				return &RenderOutput{ObjectCode: props.ObjectCode}, nil
			}), nil
		},
	}
	comp := newLegacyAdapter(entry, deps)

	_, err := comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	require.NoError(t, err)
	assert.Same(t, deps, seen)
}

func TestLegacyAdapter_LoadFailure(t *testing.T) {
	entry := &Entry{
		Key:    ResolutionKey{TenantID: "acme", ObjectCode: "assets", ViewName: "asset-detail.detail-view"},
		Module: "acme/assets/asset-detail.detail-view.json",
		Load: func(ctx context.Context) (Component, error) {
			return nil, errors.New("corrupt module")
		},
	}
	comp := newLegacyAdapter(entry, NewDependencies(nil))

	_, err := comp.Render(context.Background(), RenderProps{ObjectCode: "assets"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrLoadFailure)
	assert.Contains(t, err.Error(), "corrupt module")
}
