package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"github.com/balcaopos/comanda/internal/config"
	"github.com/balcaopos/comanda/internal/observability"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"github.com/balcaopos/comanda/internal/stock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *observability.HTTPMetrics
)

// httpMetricsForTest shares one instance so the prometheus default registry
// only sees the collectors once per test binary.
func httpMetricsForTest() *observability.HTTPMetrics {
	testMetricsOnce.Do(func() {
		testMetrics = observability.NewHTTPMetrics()
	})
	return testMetrics
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{AppName: "comanda", HTTPAddr: ":0"}
	return NewEngine(cfg, zap.NewNop(), httpMetricsForTest())
}

func perform(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := perform(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := perform(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}

func TestErrorMiddlewareMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		errType  string
		contains string
	}{
		{
			name:    "order not found",
			err:     orderdomain.ErrNotFound,
			status:  http.StatusNotFound,
			errType: "not_found",
		},
		{
			name:    "addition not found",
			err:     additiondomain.ErrNotFound,
			status:  http.StatusNotFound,
			errType: "not_found",
		},
		{
			name:    "invalid quantity",
			err:     orderdomain.ErrInvalidQuantity,
			status:  http.StatusBadRequest,
			errType: "validation_error",
		},
		{
			name:    "code busy",
			err:     codedomain.ErrCodeInUse,
			status:  http.StatusConflict,
			errType: "conflict",
		},
		{
			name:     "invalid transition",
			err:      &orderdomain.InvalidTransitionError{From: orderdomain.StatusEntregue, To: orderdomain.StatusPronto},
			status:   http.StatusConflict,
			errType:  "invalid_transition",
			contains: "ENTREGUE",
		},
		{
			name:     "insufficient stock",
			err:      &stock.InsufficientError{ProductID: 1, ProductName: "Pudim", Available: 0, Required: 2},
			status:   http.StatusConflict,
			errType:  "insufficient_stock",
			contains: "Pudim",
		},
		{
			name:    "unexpected error stays opaque",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			errType: "internal_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestEngine(t)
			r.GET("/boom", func(c *gin.Context) {
				AbortWithError(c, tc.err)
			})

			w := perform(r, http.MethodGet, "/boom")
			require.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"type":"`+tc.errType+`"`)
			if tc.contains != "" {
				assert.Contains(t, w.Body.String(), tc.contains)
			}
			if tc.errType == "internal_error" {
				assert.NotContains(t, w.Body.String(), "connection refused")
			}
		})
	}
}

func TestErrorMiddlewareLeavesWrittenResponsesAlone(t *testing.T) {
	r := newTestEngine(t)
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(orderdomain.ErrNotFound)
	})

	w := perform(r, http.MethodGet, "/written")
	require.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestRequestIDHeaderIsEchoed(t *testing.T) {
	r := newTestEngine(t)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	w := perform(r, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
