package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

// ---------------------------------------------------------------------------
// Remote vision provider
// ---------------------------------------------------------------------------

// RemoteProvider posts the image to a hosted vision OCR endpoint. It sits
// after tesseract in the race order, so it is only consulted when the local
// engine produced a weak or empty result.
type RemoteProvider struct {
	url    string
	apiKey string
	client *http.Client
	logger logging.Logger
}

// NewRemoteProvider builds a provider from cfg.
func NewRemoteProvider(cfg config.OCRConfig, log logging.Logger) *RemoteProvider {
	if log == nil {
		log = logging.NewNop()
	}
	return &RemoteProvider{
		url:    cfg.RemoteURL,
		apiKey: cfg.RemoteAPIKey,
		client: &http.Client{Timeout: cfg.RemoteTimeout},
		logger: log,
	}
}

// Name implements Provider.
func (p *RemoteProvider) Name() string {
	return "remote-vision"
}

type remoteOCRResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Recognize implements Provider.
func (p *RemoteProvider) Recognize(ctx context.Context, image []byte, mimeType string) (Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", "upload")
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "building multipart request")
	}
	if _, err := part.Write(image); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "building multipart request")
	}
	if err := mw.WriteField("mime_type", mimeType); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "building multipart request")
	}
	if err := mw.Close(); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "building multipart request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &body)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "building request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "remote ocr request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Result{}, errors.Newf(errors.ErrCodeOCRProviderFailed,
			"remote ocr returned status %d", resp.StatusCode)
	}

	var decoded remoteOCRResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "decoding remote ocr response")
	}
	if decoded.Confidence < 0 || decoded.Confidence > 100 {
		return Result{}, errors.New(errors.ErrCodeOCRProviderFailed,
			fmt.Sprintf("remote ocr confidence %v is out of range", decoded.Confidence))
	}
	return Result{Text: decoded.Text, Confidence: decoded.Confidence}, nil
}
