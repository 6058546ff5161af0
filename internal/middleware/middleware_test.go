package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/homematch/api/internal/logger"
	"github.com/stwalsh4118/homematch/api/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	t.Run("generates new request ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		w := serve(router, http.MethodGet, "/test", nil)

		headerID := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, headerID)
		assert.Equal(t, headerID, w.Body.String())
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		w := serve(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: "upstream-123"})

		assert.Equal(t, "upstream-123", w.Body.String())
		assert.Equal(t, "upstream-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces oversized upstream ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		long := strings.Repeat("x", maxRequestIDLength+1)
		w := serve(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: long})

		assert.NotEqual(t, long, w.Body.String())
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("GetRequestID returns empty string if not set", func(t *testing.T) {
		assert.Empty(t, GetRequestID(&gin.Context{}))
	})
}

func TestCORS(t *testing.T) {
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(CORS(allowedOrigins))
		router.POST("/api/v1/properties/recommend", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
		return router
	}

	t.Run("allows request from allowed origin", func(t *testing.T) {
		w := serve(newRouter(), http.MethodPost, "/api/v1/properties/recommend", map[string]string{"Origin": "http://localhost:5173"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("does not set CORS headers for disallowed origin", func(t *testing.T) {
		w := serve(newRouter(), http.MethodPost, "/api/v1/properties/recommend", map[string]string{"Origin": "http://evil.com"})

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("handles OPTIONS preflight for allowed origin", func(t *testing.T) {
		w := serve(newRouter(), http.MethodOptions, "/api/v1/properties/recommend", map[string]string{"Origin": "http://localhost:3000"})

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("rejects OPTIONS preflight for disallowed origin", func(t *testing.T) {
		w := serve(newRouter(), http.MethodOptions, "/api/v1/properties/recommend", map[string]string{"Origin": "http://evil.com"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLogger(t *testing.T) {
	t.Run("logs completed request with route template", func(t *testing.T) {
		var buf bytes.Buffer
		router := gin.New()
		router.Use(RequestID())
		router.Use(Logger(logger.NewWithWriter(&buf, "debug")))
		router.DELETE("/saved/:id", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := serve(router, http.MethodDelete, "/saved/42?dry=1", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		out := buf.String()
		assert.Contains(t, out, "Request completed")
		assert.Contains(t, out, `"route":"/saved/:id"`)
		assert.Contains(t, out, `"query":"dry=1"`)
		assert.Contains(t, out, w.Header().Get(RequestIDHeader))
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		var buf bytes.Buffer
		router := gin.New()
		router.Use(Logger(logger.NewWithWriter(&buf, "debug")))

		serve(router, http.MethodGet, "/missing", nil)

		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), `"route":"unmatched"`)
	})

	t.Run("GetLogger retrieves logger from context", func(t *testing.T) {
		router := gin.New()
		router.Use(Logger(logger.NewWithWriter(&bytes.Buffer{}, "info")))
		var found *logger.Logger
		router.GET("/test", func(c *gin.Context) {
			found = GetLogger(c)
			c.String(http.StatusOK, "OK")
		})

		serve(router, http.MethodGet, "/test", nil)

		assert.NotNil(t, found)
	})

	t.Run("GetLogger returns nil if not set", func(t *testing.T) {
		assert.Nil(t, GetLogger(&gin.Context{}))
	})
}

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic and returns 500", func(t *testing.T) {
		var buf bytes.Buffer
		router := gin.New()
		router.Use(RequestID())
		router.Use(Recovery(logger.NewWithWriter(&buf, "debug")))
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := serve(router, http.MethodGet, "/panic", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
		assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "Panic recovered")
	})

	t.Run("does not interfere with normal requests", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(logger.NewWithWriter(&bytes.Buffer{}, "info")))
		router.GET("/normal", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		w := serve(router, http.MethodGet, "/normal", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})
}

func TestMetrics(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/widgets/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/widgets/:id", "200")
	before := testutil.ToFloat64(counter)

	serve(router, http.MethodGet, "/widgets/1", nil)
	serve(router, http.MethodGet, "/widgets/2", nil)

	assert.Equal(t, before+2, testutil.ToFloat64(counter), "requests are labelled by route template, not raw path")
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows burst then rejects", func(t *testing.T) {
		rl := NewRateLimiter(1, 2)
		defer rl.Stop()

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"), "each IP has its own bucket")
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		rl := NewRateLimiter(0, 1)
		defer rl.Stop()

		assert.False(t, rl.Enabled())
		for i := 0; i < 100; i++ {
			assert.True(t, rl.Allow("10.0.0.1"))
		}
		assert.Zero(t, rl.RetryAfter())
	})

	t.Run("retry after is one token interval", func(t *testing.T) {
		rl := NewRateLimiter(4, 1)
		defer rl.Stop()

		assert.Equal(t, 250*time.Millisecond, rl.RetryAfter())
	})

	t.Run("cleanup drops idle limiters", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		defer rl.Stop()

		rl.Allow("10.0.0.1")
		rl.cleanup(time.Now().Add(time.Minute))

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Empty(t, rl.limiters)
	})

	t.Run("middleware calls onLimit and aborts", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		defer rl.Stop()

		var limited bool
		router := gin.New()
		router.Use(rl.Middleware(func(c *gin.Context, retryAfter time.Duration) {
			limited = true
			c.JSON(http.StatusTooManyRequests, gin.H{"retry": retryAfter.String()})
		}))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		first := serve(router, http.MethodGet, "/test", nil)
		second := serve(router, http.MethodGet, "/test", nil)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.True(t, limited)
	})

	t.Run("Stop is idempotent", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		rl.Stop()
		assert.NotPanics(t, rl.Stop)
	})
}

func TestMiddlewareStack(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(logger.NewWithWriter(&bytes.Buffer{}, "info")))
	router.Use(Recovery(logger.NewWithWriter(&bytes.Buffer{}, "info")))
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.Use(Metrics())

	var requestID string
	var contextLogger *logger.Logger
	router.GET("/test", func(c *gin.Context) {
		requestID = GetRequestID(c)
		contextLogger = GetLogger(c)
		c.String(http.StatusOK, "OK")
	})

	w := serve(router, http.MethodGet, "/test", map[string]string{"Origin": "http://localhost:3000"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, requestID)
	assert.NotNil(t, contextLogger)
	assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
