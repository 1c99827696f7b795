package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape fetches the Prometheus exposition output for the provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	srv := httptest.NewServer(provider.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("leadgrid_test")
	require.NoError(t, err)
	assert.NotNil(t, provider.MeterProvider())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("leadgrid_test")
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	biz, err := NewBusinessMetrics(provider.MeterProvider(), "leadgrid_test")
	require.NoError(t, err)

	ctx := context.Background()
	biz.RecordOperation(ctx, "provisioning", "claim_redeem", "success")
	biz.RecordOperation(ctx, "provisioning", "claim_redeem", "success")
	biz.RecordDuration(ctx, "provisioning", "claim_redeem", 25*time.Millisecond, "success")

	output := scrape(t, provider)
	assert.Contains(t, output, "leadgrid_test_operations_total")
	assert.Contains(t, output, `operation="claim_redeem"`)
	assert.Contains(t, output, "leadgrid_test_operation_duration_seconds")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	biz := NewNoOpBusinessMetrics()
	// Must not panic.
	biz.RecordOperation(context.Background(), "provisioning", "token_create", "success")
	biz.RecordDuration(context.Background(), "provisioning", "token_create", time.Second, "error")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("leadgrid_test")
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "leadgrid_test"))
	router.GET("/v1/devices/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/devices/abc", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	output := scrape(t, provider)
	assert.Contains(t, output, "leadgrid_test_http_requests_total")
	assert.Contains(t, output, `path="/v1/devices/:id"`)
}
