package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAccessLogRouter wires the access-log middleware behind stand-ins for
// the request-ID and tenant middleware, the way the server composes them.
func newAccessLogRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	core, recorded := observer.New(level)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "acme")
		c.Next()
	})
	return router, recorded
}

func accessEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("request completed").All()
	require.Len(t, entries, 1, "expected exactly one access-log entry")
	return entries[0]
}

func fieldMap(entry observer.LoggedEntry) map[string]zapcore.Field {
	fields := make(map[string]zapcore.Field, len(entry.Context))
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	return fields
}

func TestGinMiddleware_LogsRequestIdentifiers(t *testing.T) {
	router, recorded := newAccessLogRouter(zapcore.InfoLevel)
	router.GET("/views/:object", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/views/assets?record_id=42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	entry := accessEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := fieldMap(entry)
	assert.Equal(t, "req-123", fields["request_id"].String)
	assert.Equal(t, "acme", fields["tenant_id"].String)
	assert.Equal(t, "assets", fields["object_code"].String)
	assert.Equal(t, "/views/assets", fields["path"].String)
	assert.Contains(t, fields["query"].String, "record_id=42")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "body_size")
}

func TestGinMiddleware_NoObjectRoute(t *testing.T) {
	router, recorded := newAccessLogRouter(zapcore.InfoLevel)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	fields := fieldMap(accessEntry(t, recorded))
	assert.NotContains(t, fields, "object_code")
	assert.NotContains(t, fields, "query")
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	router, recorded := newAccessLogRouter(zapcore.WarnLevel)
	router.GET("/views/:object", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown kind"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/views/assets?kind=grid", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, zapcore.WarnLevel, accessEntry(t, recorded).Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	router, recorded := newAccessLogRouter(zapcore.ErrorLevel)
	router.GET("/views/:object", func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "module fetch failed"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/views/assets", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)

	assert.Equal(t, zapcore.ErrorLevel, accessEntry(t, recorded).Level)
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "acme")
		c.Next()
	})
	router.GET("/views/:object", func(c *gin.Context) {
		panic("detector invariant violated")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/views/assets", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	fields := fieldMap(entries[0])
	assert.Equal(t, "acme", fields["tenant_id"].String)
	assert.Equal(t, "/views/assets", fields["path"].String)
}

func TestGetGinLogger(t *testing.T) {
	router, _ := newAccessLogRouter(zapcore.InfoLevel)

	var retrieved *zap.Logger
	router.GET("/test", func(c *gin.Context) {
		retrieved = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.NotNil(t, retrieved)
}

func TestGetGinLogger_NotSet(t *testing.T) {
	var retrieved *zap.Logger

	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		retrieved = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	require.NotNil(t, retrieved)
	assert.NotPanics(t, func() {
		retrieved.Info("test")
	})
}
