// Package fda implements the upstream medication-info lookup with the
// hardcoded fallback table consulted when the upstream is unreachable.
package fda

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/pkg/errors"
)

// MedicationInfo is the lookup result for one medication.
type MedicationInfo struct {
	Name        string   `json:"name"`
	GenericName string   `json:"genericName,omitempty"`
	DrugClass   string   `json:"drugClass,omitempty"`
	Uses        []string `json:"uses,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	SideEffects []string `json:"sideEffects,omitempty"`
	Source      string   `json:"source"`
}

// fallbackMedications is the table consulted when the upstream lookup
// fails. It intentionally stays tiny, covering only the medications the
// service must keep answering for during an upstream outage.
var fallbackMedications = map[string]MedicationInfo{
	"funicillin": {
		Name:        "Funicillin",
		GenericName: "funicillin",
		DrugClass:   "penicillin antibiotic",
		Uses:        []string{"bacterial infections"},
		Warnings:    []string{"do not use with penicillin allergy"},
		SideEffects: []string{"nausea", "rash", "diarrhea"},
	},
	"amoxicillin": {
		Name:        "Amoxicillin",
		GenericName: "amoxicillin",
		DrugClass:   "penicillin antibiotic",
		Uses:        []string{"bacterial infections", "ear infections", "pneumonia"},
		Warnings:    []string{"do not use with penicillin allergy"},
		SideEffects: []string{"nausea", "rash", "diarrhea"},
	},
	"lisinopril": {
		Name:        "Lisinopril",
		GenericName: "lisinopril",
		DrugClass:   "ACE inhibitor",
		Uses:        []string{"high blood pressure", "heart failure"},
		Warnings:    []string{"avoid during pregnancy", "monitor kidney function"},
		SideEffects: []string{"dry cough", "dizziness", "elevated potassium"},
	},
	"metformin": {
		Name:        "Metformin",
		GenericName: "metformin",
		DrugClass:   "biguanide antidiabetic",
		Uses:        []string{"type 2 diabetes"},
		Warnings:    []string{"hold before iodinated contrast imaging"},
		SideEffects: []string{"gastrointestinal upset", "metallic taste"},
	},
}

// Client looks up medication information from the configured upstream.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewClient builds a Client from cfg.
func NewClient(cfg config.FDAConfig, log logging.Logger, metrics *prometheus.AppMetrics) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  log,
		metrics: metrics,
	}
}

// Lookup fetches info for name. On upstream failure of any kind the
// fallback table answers; a medication in neither place is a
// ErrCodeDrugInfoNotFound error.
func (c *Client) Lookup(ctx context.Context, name string) (*MedicationInfo, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, errors.InvalidParam("medication name is required")
	}

	start := time.Now()
	info, err := c.fetch(ctx, name)
	c.metrics.FDALookupDuration.WithLabelValues().Observe(time.Since(start).Seconds())

	if err == nil {
		c.metrics.FDALookupsTotal.WithLabelValues("upstream").Inc()
		return info, nil
	}

	c.logger.Warn("fda lookup failed, consulting fallback table",
		logging.String("medication", name),
		logging.Err(err),
	)
	if fb, ok := fallbackMedications[name]; ok {
		fb.Source = "fallback"
		c.metrics.FDALookupsTotal.WithLabelValues("fallback").Inc()
		return &fb, nil
	}
	c.metrics.FDALookupsTotal.WithLabelValues("not_found").Inc()
	return nil, errors.Newf(errors.ErrCodeDrugInfoNotFound, "no information found for %q", name)
}

func (c *Client) fetch(ctx context.Context, name string) (*MedicationInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/medication/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFDAUnavailable, "building fda request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFDAUnavailable, "fda upstream unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf(errors.ErrCodeFDAUnavailable, "fda upstream returned status %d", resp.StatusCode)
	}

	var info MedicationInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFDAUnavailable, "decoding fda response")
	}
	if info.Source == "" {
		info.Source = "upstream"
	}
	return &info, nil
}
