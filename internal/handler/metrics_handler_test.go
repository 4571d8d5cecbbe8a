package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odlab/odflow-backend/internal/handler"
)

func newMetricsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewMetricsHandler()
	r.POST("/growth", h.Growth)
	r.POST("/metrics", h.Metrics)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGrowthEndpoint(t *testing.T) {
	r := newMetricsRouter()

	w := postJSON(t, r, "/growth", `{"a": 10, "b": 15}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"growth":0.5`)
}

func TestGrowthEndpoint_SafeZeroBaseline(t *testing.T) {
	r := newMetricsRouter()

	w := postJSON(t, r, "/growth", `{"a": 0, "b": 5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"growth":null`)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newMetricsRouter()

	w := postJSON(t, r, "/metrics", `{"y_true": [1, 2, 3], "y_pred": [1, 2, 3]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rmse":0`)
	assert.Contains(t, w.Body.String(), `"mae":0`)
}

func TestMetricsEndpoint_LengthMismatch(t *testing.T) {
	r := newMetricsRouter()

	w := postJSON(t, r, "/metrics", `{"y_true": [1, 2], "y_pred": [1]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint_MissingBody(t *testing.T) {
	r := newMetricsRouter()

	w := postJSON(t, r, "/metrics", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
