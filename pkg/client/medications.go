package client

import (
	"context"
	"net/http"
	"net/url"
)

// MedicationInfo is the medication-information lookup result.
type MedicationInfo struct {
	Name        string   `json:"name"`
	GenericName string   `json:"genericName,omitempty"`
	DrugClass   string   `json:"drugClass,omitempty"`
	Uses        []string `json:"uses,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	SideEffects []string `json:"sideEffects,omitempty"`
	Source      string   `json:"source"`
}

// GetMedication looks up information about a medication.
func (c *Client) GetMedication(ctx context.Context, name string) (*MedicationInfo, error) {
	var info MedicationInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/fda/medication/"+url.PathEscape(name), "", nil, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}
