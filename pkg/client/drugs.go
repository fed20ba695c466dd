package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ValidationResult is the outcome of a drug-name check.
type ValidationResult struct {
	Input       string   `json:"input"`
	IsValid     bool     `json:"isValid"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ValidateDrug checks whether name looks like a real medication name.
func (c *Client) ValidateDrug(ctx context.Context, name string) (*ValidationResult, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("rxlens: encoding request: %w", err)
	}

	var result ValidationResult
	err = c.do(ctx, http.MethodPost, "/api/v1/drugs/validate", "application/json", body, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
