package parsing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// extractTextPath is the structured-parsing endpoint on the remote backend.
const extractTextPath = "/api/v1/medical-ocr/extract-text"

// RemoteClient calls the structured medical-parsing backend.
type RemoteClient struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewRemoteClient builds a client from cfg. An empty RemoteURL yields a nil
// client, which the Parser treats as "local parsing only".
func NewRemoteClient(cfg config.ParsingConfig, log logging.Logger) *RemoteClient {
	if cfg.RemoteURL == "" {
		return nil
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &RemoteClient{
		baseURL: strings.TrimRight(cfg.RemoteURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  log,
	}
}

// Parse posts text to the backend and adapts the response into the internal
// shape. Any transport, status or body problem is an error; the caller
// decides whether to fall back.
func (c *RemoteClient) Parse(ctx context.Context, text string) (*medical.StructuredMedicalEntities, error) {
	form := url.Values{"text": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+extractTextPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParseBackendUnavailable, "building parse request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParseBackendUnavailable, "parse backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf(errors.ErrCodeParseBackendUnavailable,
			"parse backend returned status %d", resp.StatusCode)
	}

	var decoded wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParseResponseMalformed, "decoding parse response")
	}
	extracted := decoded.extracted()
	if !decoded.Success || extracted == nil {
		return nil, errors.New(errors.ErrCodeParseResponseMalformed, "parse backend reported failure")
	}
	return extracted.toEntities(), nil
}
