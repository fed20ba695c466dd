package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

// Medication is one structured medication entry.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Strength     string `json:"strength,omitempty"`
}

// PatientInfo is the patient block of an analysis.
type PatientInfo struct {
	Name       string `json:"name,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Prescriber string `json:"prescriber,omitempty"`
	Pharmacy   string `json:"pharmacy,omitempty"`
	Date       string `json:"date,omitempty"`
}

// ExtractedData is the structured-entities block of an ExtractResult.
type ExtractedData struct {
	Medications  []Medication `json:"medications"`
	Symptoms     []string     `json:"symptoms"`
	Allergies    []string     `json:"allergies"`
	MedicalNotes []string     `json:"medical_notes"`
	Warnings     []string     `json:"warnings"`
	PatientInfo  *PatientInfo `json:"patient_info,omitempty"`
}

// Summary is the at-a-glance block of an ExtractResult.
type Summary struct {
	MedicationCount   int    `json:"medication_count"`
	PrimaryMedication string `json:"primary_medication,omitempty"`
	HasPatientInfo    bool   `json:"has_patient_info"`
	TextLength        int    `json:"text_length"`
}

// ExtractResult is a completed analysis.
type ExtractResult struct {
	Success     bool          `json:"success"`
	Timestamp   time.Time     `json:"timestamp"`
	AnalysisID  string        `json:"analysis_id"`
	OCRProvider string        `json:"ocr_provider"`
	Confidence  float64       `json:"confidence"`
	RawText     string        `json:"raw_text"`
	Extracted   ExtractedData `json:"extracted_data"`
	Summary     Summary       `json:"summary"`
}

// ExtractImage analyzes a prescription photo or PDF.
func (c *Client) ExtractImage(ctx context.Context, filename, mimeType string, image []byte) (*ExtractResult, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("rxlens: building multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("rxlens: building multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("rxlens: building multipart body: %w", err)
	}

	var result ExtractResult
	err = c.do(ctx, http.MethodPost, "/api/v1/medical-ocr/extract",
		mw.FormDataContentType(), buf.Bytes(), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractText analyzes raw document text, skipping OCR.
func (c *Client) ExtractText(ctx context.Context, text string) (*ExtractResult, error) {
	form := url.Values{"text": {text}}

	var result ExtractResult
	err := c.do(ctx, http.MethodPost, "/api/v1/medical-ocr/extract-text",
		"application/x-www-form-urlencoded", []byte(form.Encode()), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SelfTest runs the server's built-in sample analysis.
func (c *Client) SelfTest(ctx context.Context) (*ExtractResult, error) {
	var result ExtractResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/medical-ocr/test", "", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OCRCapabilities describes which analysis stages the server can serve.
type OCRCapabilities struct {
	OCRProviders   []string `json:"ocr_providers"`
	RemoteParsing  bool     `json:"remote_parsing"`
	MedicationInfo bool     `json:"medication_info"`
	Cache          bool     `json:"cache"`
	History        bool     `json:"history"`
	ImageArchive   bool     `json:"image_archive"`
	EventStream    bool     `json:"event_stream"`
	MaxFileSize    int64    `json:"max_file_size"`
}

// OCRHealth is the analysis-pipeline status report.
type OCRHealth struct {
	Status       string          `json:"status"`
	Capabilities OCRCapabilities `json:"capabilities"`
	Timestamp    time.Time       `json:"timestamp"`
}

// GetOCRHealth reports the server's analysis-pipeline status.
func (c *Client) GetOCRHealth(ctx context.Context) (*OCRHealth, error) {
	var health OCRHealth
	if err := c.do(ctx, http.MethodGet, "/api/v1/medical-ocr/health", "", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
