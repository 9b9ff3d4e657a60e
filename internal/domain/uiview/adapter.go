package uiview

import (
	"context"
	"fmt"
	"sync"

	"github.com/bizview/backend/internal/domain/shared"
	"golang.org/x/sync/errgroup"
)

// ResolvedView is the cached outcome of one resolution: a single invocable
// component plus its format tag. Never mutated after creation; a changed
// registry requires a new ResolvedView, not an in-place update.
// IsNewFormat is the only format knowledge the caller needs to choose a prop
// shape; everything else stays behind the adapter.
type ResolvedView struct {
	Component   Component
	Format      FormatTag
	IsNewFormat bool
}

// newHandlerAdapter builds the tier-1 invocable. The layout module and the
// handler module are fetched concurrently on first render and joined before
// the handler is invoked; the handler receives the raw layout and owns the
// wiring of data-fetching and edit concerns. A failed load is terminal for
// this ResolvedView and is not retried here.
func newHandlerAdapter(entry *Entry, loadHandler HandlerLoader) Component {
	var (
		once    sync.Once
		layout  Component
		handler DetailHandler
		loadErr error
	)
	return ComponentFunc(func(ctx context.Context, props RenderProps) (*RenderOutput, error) {
		once.Do(func() {
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				c, err := entry.Load(gctx)
				if err != nil {
					return fmt.Errorf("layout module %q: %w", entry.Module, err)
				}
				layout = c
				return nil
			})
			g.Go(func() error {
				h, err := loadHandler(gctx)
				if err != nil {
					return fmt.Errorf("handler for %s/%s: %w", entry.Key.TenantID, entry.Key.ObjectCode, err)
				}
				handler = h
				return nil
			})
			loadErr = g.Wait()
		})
		if loadErr != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrLoadFailure, loadErr)
		}
		return handler.RenderDetail(ctx, HandlerProps{
			ObjectCode: props.ObjectCode,
			RecordID:   props.RecordID,
			Layout:     layout,
		})
	})
}

// newLegacyAdapter builds the tier-2/3 (and list) invocable. The component
// is fetched once on first render; the process-wide dependency bundle is
// injected when the caller did not supply one. No handler wrapping: the
// legacy component owns its own data lifecycle.
func newLegacyAdapter(entry *Entry, deps *Dependencies) Component {
	var (
		once    sync.Once
		comp    Component
		loadErr error
	)
	return ComponentFunc(func(ctx context.Context, props RenderProps) (*RenderOutput, error) {
		once.Do(func() {
			comp, loadErr = entry.Load(ctx)
		})
		if loadErr != nil {
			return nil, fmt.Errorf("%w: module %q: %v", shared.ErrLoadFailure, entry.Module, loadErr)
		}
		if props.Deps == nil {
			props.Deps = deps
		}
		return comp.Render(ctx, props)
	})
}
