// Package validation implements the drug-name validator used by the lookup
// endpoints: a fixed rule chain over the shared vocabularies plus a
// suggestion generator for rejected input.
package validation

import (
	"regexp"
	"strings"

	"github.com/rxlens/rxlens/internal/extraction"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
)

// ---------------------------------------------------------------------------
// Validator
// ---------------------------------------------------------------------------

// Result is the outcome of validating one candidate drug name.
type Result struct {
	Input       string   `json:"input"`
	IsValid     bool     `json:"isValid"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Validator checks free-text candidate drug names against the shared
// vocabularies. It is immutable after construction and safe for concurrent
// use.
type Validator struct {
	corpus  *extraction.Corpus
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewValidator builds a Validator over corpus. Nil arguments get the same
// defaults as the extraction engine.
func NewValidator(corpus *extraction.Corpus, log logging.Logger, metrics *prometheus.AppMetrics) *Validator {
	if corpus == nil {
		corpus = extraction.DefaultCorpus()
	}
	if log == nil {
		log = logging.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Validator{corpus: corpus, logger: log, metrics: metrics}
}

var (
	questionRe   = regexp.MustCompile(`(?i)^(?:what|when|where|who|why|how|which|is|are|can|does|do|should)\b`)
	allDigitsRe  = regexp.MustCompile(`^\d+$`)
	urlRe        = regexp.MustCompile(`(?i)^(?:https?://|www\.)|\.(?:com|org|net|gov|edu)\b`)
	pharmaRe     = regexp.MustCompile(`^[a-z][a-z0-9]{3,19}$`)
	fallbackRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{3,14}$`)
)

// IsDrugName reports whether input plausibly names a medication.
func (v *Validator) IsDrugName(input string) bool {
	return v.Check(input).IsValid
}

// Check runs the validation rule chain over input. Rules apply in a fixed
// order and the first matching rule decides. The final rule is a
// default-deny, so an input no rule recognises is invalid.
func (v *Validator) Check(input string) Result {
	res := v.check(input)
	if res.IsValid {
		v.metrics.DrugValidationsTotal.WithLabelValues("valid").Inc()
	} else {
		v.metrics.DrugValidationsTotal.WithLabelValues("invalid").Inc()
		res.Suggestions = v.SuggestSimilar(input)
	}
	return res
}

func (v *Validator) check(input string) Result {
	name := strings.ToLower(strings.TrimSpace(input))
	res := Result{Input: input}

	if len(name) < 2 {
		res.Reason = "name is too short"
		return res
	}
	if v.corpus.IsKnownDrug(name) {
		res.IsValid = true
		return res
	}
	if v.corpus.IsExcluded(name) {
		res.Reason = "not a medication name"
		return res
	}
	if v.corpus.IsCondition(name) {
		res.Reason = "this is a medical condition, not a medication"
		return res
	}
	if len(strings.Fields(name)) > 3 {
		res.Reason = "too many words for a medication name"
		return res
	}
	if questionRe.MatchString(name) {
		res.Reason = "looks like a question, not a medication name"
		return res
	}
	if allDigitsRe.MatchString(name) || strings.Contains(name, "@") || urlRe.MatchString(name) {
		res.Reason = "not a medication name"
		return res
	}

	// Pharmaceutical heuristics: suffix, prefix or generic name shape.
	if len(name) >= 4 &&
		(v.corpus.HasDrugSuffix(name) || v.corpus.HasDrugPrefix(name) || pharmaRe.MatchString(name)) {
		res.IsValid = true
		return res
	}

	// Permissive fallback for unlisted brand names.
	if len(strings.Fields(name)) == 1 && fallbackRe.MatchString(name) {
		res.IsValid = true
		return res
	}

	res.Reason = "not recognised as a medication name"
	return res
}

// SuggestSimilar ranks known drugs against input: shared 3-character prefix
// first, then substring containment, capped at 5. The input itself is never
// suggested.
func (v *Validator) SuggestSimilar(input string) []string {
	name := strings.ToLower(strings.TrimSpace(input))
	if len(name) < 3 {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(drug string) bool {
		if drug == name {
			return false
		}
		if _, dup := seen[drug]; dup {
			return false
		}
		seen[drug] = struct{}{}
		out = append(out, drug)
		return len(out) >= 5
	}

	prefix := name[:3]
	for _, drug := range v.corpus.KnownDrugs() {
		if strings.HasPrefix(drug, prefix) && add(drug) {
			return out
		}
	}
	for _, drug := range v.corpus.KnownDrugs() {
		if (strings.Contains(drug, name) || strings.Contains(name, drug)) && add(drug) {
			return out
		}
	}
	return out
}
