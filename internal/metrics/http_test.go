package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
	router.POST("/v1/accounts/login", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	})
	router.GET("/v1/accounts/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"identity": "jane@example.com"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/accounts/login", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/accounts/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/accounts/jane@example.com", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="POST".*path="/v1/accounts/login".*status_code="401"`, `3`)
	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="GET".*path="/v1/accounts/me".*status_code="200"`, `1`)
	assertBizMetricLine(t, output, `test_app_http_requests_total`,
		`method="GET".*path="unknown".*status_code="404"`, `1`)
	assert.NotContains(t, output, "jane@example.com")
	assert.Contains(t, output, "test_app_http_requests_in_flight")
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"RoutePattern", "/v1/accounts/me/password", "/v1/accounts/me/password"},
		{"EmptyPath", "", "unknown"},
		{"RootPath", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}
