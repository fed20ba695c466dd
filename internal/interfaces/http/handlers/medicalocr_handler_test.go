package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/ocr"
)

type stubProvider struct {
	text       string
	confidence float64
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Recognize(context.Context, []byte, string) (ocr.Result, error) {
	return ocr.Result{Text: s.text, Confidence: s.confidence}, nil
}

func newOCRRouter(providers ...ocr.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	deps := analysis.Deps{}
	if len(providers) > 0 {
		deps.Race = ocr.NewRace(providers, 85, 10, nil, nil)
	}
	svc := analysis.NewService(config.UploadConfig{MaxFileSize: 1 << 20}, deps)
	h := NewMedicalOCRHandler(svc, nil)

	r := gin.New()
	g := r.Group("/api/v1/medical-ocr")
	g.POST("/extract", h.ExtractImage)
	g.POST("/extract-text", h.ExtractText)
	g.GET("/test", h.SelfTest)
	g.GET("/health", h.Health)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestExtractTextEndpoint(t *testing.T) {
	r := newOCRRouter()

	form := url.Values{"text": {"METFORMIN 500MG\nTake with food"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-ocr/extract-text",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, body := doRequest(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "text-input", body["ocr_provider"])
	assert.Equal(t, 100.0, body["confidence"])
	assert.Equal(t, "METFORMIN 500MG\nTake with food", body["raw_text"])
	assert.NotEmpty(t, body["analysis_id"])

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 1.0, summary["medication_count"])
	assert.Equal(t, "metformin", summary["primary_medication"])
	assert.Equal(t, false, summary["has_patient_info"])
}

func TestExtractTextMissingField(t *testing.T) {
	r := newOCRRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-ocr/extract-text", nil)
	w, body := doRequest(t, r, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])

	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "COMMON_002", errBody["code"])
}

func TestSelfTestEndpoint(t *testing.T) {
	r := newOCRRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medical-ocr/test", nil)
	w, body := doRequest(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 2.0, summary["medication_count"])
	assert.Equal(t, "funicillin", summary["primary_medication"])
}

func TestHealthEndpointReportsProviders(t *testing.T) {
	r := newOCRRouter(&stubProvider{text: "x", confidence: 90})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medical-ocr/health", nil)
	w, body := doRequest(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "ok", body["status"])
	caps := body["capabilities"].(map[string]interface{})
	providers := caps["ocr_providers"].([]interface{})
	require.Len(t, providers, 1)
	assert.Equal(t, "stub", providers[0])
	assert.Equal(t, false, caps["medication_info"])
	assert.Equal(t, 1048576.0, caps["max_file_size"])
}

func TestHealthEndpointDegradedWithoutProviders(t *testing.T) {
	r := newOCRRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medical-ocr/health", nil)
	w, body := doRequest(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "degraded", body["status"])
	caps := body["capabilities"].(map[string]interface{})
	assert.Empty(t, caps["ocr_providers"])
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="upload.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return buf, mw.FormDataContentType()
}

func TestExtractImageEndpoint(t *testing.T) {
	r := newOCRRouter(&stubProvider{text: "METFORMIN 500MG\nTake with food", confidence: 92})

	buf, contentType := multipartImage(t, "image/png", []byte("fake-image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-ocr/extract", buf)
	req.Header.Set("Content-Type", contentType)

	w, body := doRequest(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "stub", body["ocr_provider"])
	assert.Equal(t, 92.0, body["confidence"])

	extracted := body["extracted_data"].(map[string]interface{})
	meds := extracted["medications"].([]interface{})
	require.Len(t, meds, 1)
	assert.Equal(t, "metformin", meds[0].(map[string]interface{})["name"])
}

func TestExtractImageUnsupportedType(t *testing.T) {
	r := newOCRRouter(&stubProvider{text: "x", confidence: 90})

	buf, contentType := multipartImage(t, "text/plain", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-ocr/extract", buf)
	req.Header.Set("Content-Type", contentType)

	w, body := doRequest(t, r, req)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "OCR_004", errBody["code"])
}

func TestExtractImageMissingFile(t *testing.T) {
	r := newOCRRouter(&stubProvider{text: "x", confidence: 90})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-ocr/extract", nil)
	w, body := doRequest(t, r, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}
