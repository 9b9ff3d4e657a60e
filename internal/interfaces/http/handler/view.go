package handler

import (
	"context"
	"errors"
	"time"

	"github.com/bizview/backend/internal/domain/uiview"
	"github.com/bizview/backend/internal/infrastructure/logger"
	"github.com/bizview/backend/internal/interfaces/http/dto"
	"github.com/bizview/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ViewHandler serves resolved, rendered views
type ViewHandler struct {
	BaseHandler
	resolver      *uiview.Resolver
	renderTimeout time.Duration
}

// NewViewHandler creates a new view handler
func NewViewHandler(resolver *uiview.Resolver, renderTimeout time.Duration) *ViewHandler {
	if renderTimeout <= 0 {
		renderTimeout = 10 * time.Second
	}
	return &ViewHandler{
		resolver:      resolver,
		renderTimeout: renderTimeout,
	}
}

// RegisterRoutes registers view routes
func (h *ViewHandler) RegisterRoutes(r *gin.RouterGroup) {
	views := r.Group("/views")
	{
		views.GET("", h.ListRegistered)
		views.GET("/stats", h.Stats)
		views.GET("/:object", h.GetView)
	}
}

// viewQuery binds the GetView query parameters
type viewQuery struct {
	Kind     string `form:"kind"`
	RecordID string `form:"record_id"`
	Singular string `form:"singular"`
}

// GetView resolves and renders the view for an object code. The tenant comes
// from the X-Tenant-ID header; kind defaults to detail. The response carries
// the loading placeholder alongside the settled render so clients can key
// their pending state the same way the server does.
func (h *ViewHandler) GetView(c *gin.Context) {
	objectCode := c.Param("object")

	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	kind := uiview.ViewKind(q.Kind)
	if q.Kind == "" {
		kind = uiview.ViewKindDetail
	}
	if !kind.Valid() {
		h.BadRequest(c, "Unknown view kind: "+q.Kind)
		return
	}

	tenantID := middleware.GetTenantID(c)
	rv, err := h.resolver.RequestView(c.Request.Context(), uiview.ViewRequest{
		TenantID:   tenantID,
		ObjectCode: objectCode,
		Singular:   q.Singular,
		Kind:       kind,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	mount := uiview.MountComponent(c.Request.Context(), rv.Component, uiview.RenderProps{
		ObjectCode: objectCode,
		RecordID:   q.RecordID,
	})

	awaitCtx, cancel := context.WithTimeout(c.Request.Context(), h.renderTimeout)
	defer cancel()

	out, err := mount.Await(awaitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.GetGinLogger(c).Warn("render timed out",
				zap.String("tenant_id", tenantID),
				zap.String("object_code", objectCode),
				zap.Duration("timeout", h.renderTimeout))
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeRenderTimeout), dto.ErrCodeRenderTimeout,
				"View did not render within the allotted time")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ViewResponse{
		TenantID:    tenantID,
		ObjectCode:  objectCode,
		Kind:        string(kind),
		Format:      string(rv.Format),
		IsNewFormat: rv.IsNewFormat,
		Placeholder: mount.Placeholder(),
		View:        out,
	})
}

// ListRegistered returns every registered view key, for diagnostics
func (h *ViewHandler) ListRegistered(c *gin.Context) {
	paths := h.resolver.RegistryKeys()
	h.Success(c, gin.H{
		"count": len(paths),
		"views": paths,
	})
}

// Stats returns resolution counters
func (h *ViewHandler) Stats(c *gin.Context) {
	h.Success(c, gin.H{
		"cache_size": h.resolver.CacheSize(),
		"lookups":    h.resolver.RegistryLookups(),
	})
}
