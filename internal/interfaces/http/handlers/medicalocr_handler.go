package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// MedicalOCRHandler serves the image and text analysis endpoints.
type MedicalOCRHandler struct {
	service *analysis.Service
	logger  logging.Logger
}

// NewMedicalOCRHandler builds a MedicalOCRHandler.
func NewMedicalOCRHandler(service *analysis.Service, logger logging.Logger) *MedicalOCRHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MedicalOCRHandler{service: service, logger: logger}
}

// ---------------------------------------------------------------------------
// Response shape
// ---------------------------------------------------------------------------

// ExtractResponse is the analysis result returned to API clients.
type ExtractResponse struct {
	Success     bool          `json:"success"`
	Timestamp   time.Time     `json:"timestamp"`
	AnalysisID  string        `json:"analysis_id"`
	OCRProvider string        `json:"ocr_provider"`
	Confidence  float64       `json:"confidence"`
	RawText     string        `json:"raw_text"`
	Extracted   ExtractedData `json:"extracted_data"`
	Summary     Summary       `json:"summary"`
}

// ExtractedData is the structured-entities block of an ExtractResponse.
type ExtractedData struct {
	Medications  []medical.ParsedMedication `json:"medications"`
	Symptoms     []string                   `json:"symptoms"`
	Allergies    []string                   `json:"allergies"`
	MedicalNotes []string                   `json:"medical_notes"`
	Warnings     []string                   `json:"warnings"`
	PatientInfo  *medical.ParsedPatientInfo `json:"patient_info,omitempty"`
}

// Summary is the at-a-glance block of an ExtractResponse.
type Summary struct {
	MedicationCount   int    `json:"medication_count"`
	PrimaryMedication string `json:"primary_medication,omitempty"`
	HasPatientInfo    bool   `json:"has_patient_info"`
	TextLength        int    `json:"text_length"`
}

func buildExtractResponse(a *analysis.Analysis) ExtractResponse {
	resp := ExtractResponse{
		Success:     true,
		Timestamp:   time.Now().UTC(),
		AnalysisID:  a.ID,
		OCRProvider: a.Provider,
		Confidence:  a.Confidence,
		RawText:     a.RawText,
		Extracted: ExtractedData{
			Medications:  []medical.ParsedMedication{},
			Symptoms:     []string{},
			Allergies:    []string{},
			MedicalNotes: []string{},
			Warnings:     []string{},
		},
		Summary: Summary{
			TextLength: len(a.RawText),
		},
	}
	if e := a.Entities; e != nil {
		if e.Medications != nil {
			resp.Extracted.Medications = e.Medications
		}
		if e.Symptoms != nil {
			resp.Extracted.Symptoms = e.Symptoms
		}
		if e.Allergies != nil {
			resp.Extracted.Allergies = e.Allergies
		}
		if e.MedicalNotes != nil {
			resp.Extracted.MedicalNotes = e.MedicalNotes
		}
		if e.Warnings != nil {
			resp.Extracted.Warnings = e.Warnings
		}
		if !e.PatientInfo.Empty() {
			resp.Extracted.PatientInfo = e.PatientInfo
			resp.Summary.HasPatientInfo = true
		}
	}
	if a.Extracted != nil {
		resp.Summary.MedicationCount = len(a.Extracted.Medications)
	}
	resp.Summary.PrimaryMedication = a.PrimaryMedication
	return resp
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

// ExtractImage handles POST /api/v1/medical-ocr/extract. It expects a
// multipart form with the file under "image".
func (h *MedicalOCRHandler) ExtractImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, errors.InvalidParam(`multipart field "image" is required`))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "reading uploaded file failed"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	a, err := h.service.AnalyzeImage(c.Request.Context(), data, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildExtractResponse(a))
}

// ExtractText handles POST /api/v1/medical-ocr/extract-text. It expects a
// form body with the input under "text".
func (h *MedicalOCRHandler) ExtractText(c *gin.Context) {
	text := c.PostForm("text")
	if text == "" {
		respondError(c, errors.InvalidParam(`form field "text" is required`))
		return
	}

	a, err := h.service.AnalyzeText(c.Request.Context(), text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildExtractResponse(a))
}

// SelfTest handles GET /api/v1/medical-ocr/test. It analyzes a built-in
// sample prescription so a deployment can be verified without an image.
func (h *MedicalOCRHandler) SelfTest(c *gin.Context) {
	a, err := h.service.AnalyzeSample(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildExtractResponse(a))
}

// Health handles GET /api/v1/medical-ocr/health. It reports whether image
// analysis is available and which optional stages are wired in. A
// deployment with no OCR providers still serves text analysis, so it
// reports degraded rather than failing.
func (h *MedicalOCRHandler) Health(c *gin.Context) {
	caps := h.service.Capabilities()
	status := "ok"
	if len(caps.OCRProviders) == 0 {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"capabilities": caps,
		"timestamp":    time.Now().UTC(),
	})
}
