package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/internal/config"
)

func newDrugRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := analysis.NewService(config.UploadConfig{}, analysis.Deps{})

	r := gin.New()
	r.POST("/api/v1/drugs/validate", NewDrugHandler(svc).Validate)
	return r
}

func postValidate(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drugs/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestValidateEndpoint(t *testing.T) {
	r := newDrugRouter()

	w, body := postValidate(t, r, `{"name": "aspirin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isValid"])
	assert.Equal(t, "aspirin", body["input"])

	w, body = postValidate(t, r, `{"name": "2024"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["isValid"])
	assert.NotEmpty(t, body["reason"])
}

func TestValidateEndpointBadRequests(t *testing.T) {
	r := newDrugRouter()

	w, _ := postValidate(t, r, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = postValidate(t, r, `{"name": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
