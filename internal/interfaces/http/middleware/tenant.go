package middleware

import (
	"github.com/bizview/backend/internal/domain/uiview"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Tenant extraction keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// Tenant returns a middleware that extracts the tenant code from the
// X-Tenant-ID header. A missing or blank header is normal: the request is
// served from the default tenant's views, so the value is normalized to the
// default-tenant sentinel rather than rejected.
func Tenant(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := uiview.NormalizeTenant(c.GetHeader(TenantHeaderKey))
		c.Set(TenantIDKey, tenantID)

		if c.GetHeader(TenantHeaderKey) == "" {
			logger.Debug("no tenant header, serving default tenant",
				zap.String("path", c.Request.URL.Path))
		}
		c.Next()
	}
}

// GetTenantID returns the normalized tenant ID set by the Tenant middleware.
// Falls back to the default tenant when the middleware did not run.
func GetTenantID(c *gin.Context) string {
	if id := c.GetString(TenantIDKey); id != "" {
		return id
	}
	return uiview.DefaultTenant
}
