package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const tracedUserID = "1200000000000000001"

func newSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func spanAttr(attrs []attribute.KeyValue, key string) string {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.AsString()
		}
	}
	return ""
}

func TestTracing(t *testing.T) {
	t.Run("disabled returns no middleware", func(t *testing.T) {
		assert.Empty(t, Tracing(TracingConfig{Enabled: false}))
	})

	t.Run("records request spans with attributes", func(t *testing.T) {
		sr := newSpanRecorder(t)

		router := gin.New()
		router.Use(RequestID())
		router.Use(Tracing(TracingConfig{Enabled: true, ServiceName: "test", SkipPaths: []string{"/health"}})...)
		router.GET("/guilds/:guildId/ranking", func(c *gin.Context) {
			c.Set(JWTUserIDKey, tracedUserID)
			c.Status(http.StatusOK)
		})
		router.GET("/guilds/:guildId/fail", func(c *gin.Context) {
			c.Status(http.StatusBadGateway)
		})
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/guilds/"+testGuildID+"/ranking", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		router.ServeHTTP(httptest.NewRecorder(), req)
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/guilds/"+testGuildID+"/fail", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		spans := sr.Ended()
		require.Len(t, spans, 2)

		assert.Equal(t, "req-1", spanAttr(spans[0].Attributes(), "request_id"))
		assert.Equal(t, testGuildID, spanAttr(spans[0].Attributes(), "guild_id"))
		assert.Equal(t, tracedUserID, spanAttr(spans[0].Attributes(), "user_id"))

		assert.Equal(t, codes.Error, spans[1].Status().Code)
	})
}
