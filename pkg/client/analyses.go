package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// AnalysisRecord is one row of stored analysis history.
type AnalysisRecord struct {
	ID                string    `json:"id"`
	ImageHash         string    `json:"imageHash"`
	Provider          string    `json:"provider"`
	Confidence        float64   `json:"confidence"`
	PrimaryMedication *string   `json:"primaryMedication,omitempty"`
	MedicationCount   int       `json:"medicationCount"`
	DocumentType      string    `json:"documentType"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AnalysisList is a page of analysis history.
type AnalysisList struct {
	Analyses []AnalysisRecord `json:"analyses"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ListAnalyses pages through stored analyses, newest first.
func (c *Client) ListAnalyses(ctx context.Context, limit, offset int) (*AnalysisList, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	path := "/api/v1/analyses"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list AnalysisList
	if err := c.do(ctx, http.MethodGet, path, "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAnalysis fetches one stored analysis by id.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*AnalysisRecord, error) {
	var record AnalysisRecord
	err := c.do(ctx, http.MethodGet, "/api/v1/analyses/"+url.PathEscape(id), "", nil, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
