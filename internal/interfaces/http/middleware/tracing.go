package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxTenantIDLength caps tenant IDs recorded as span attributes.
const MaxTenantIDLength = 64

// Tracing returns the OpenTelemetry server-span middleware.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceAttributes annotates the active server span with the request ID and
// the normalized tenant ID. Must run after the Tracing, RequestID and Tenant
// middleware so all three are populated.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			if requestID := GetRequestID(c); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
			tenantID := GetTenantID(c)
			if len(tenantID) > MaxTenantIDLength {
				tenantID = tenantID[:MaxTenantIDLength]
			}
			span.SetAttributes(attribute.String("tenant_id", tenantID))
		}
		c.Next()
	}
}
