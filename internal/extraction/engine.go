package extraction

import (
	"strings"
	"time"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine runs the composable extraction passes over OCR text and assembles
// an ExtractedMedicalInfo. An Engine is immutable after construction and
// safe for concurrent use.
type Engine struct {
	corpus   *Corpus
	patterns *patternTable
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// NewEngine builds an Engine over the given corpus. A nil corpus gets the
// default vocabularies; nil logger and metrics get no-op implementations.
func NewEngine(corpus *Corpus, log logging.Logger, metrics *prometheus.AppMetrics) *Engine {
	if corpus == nil {
		corpus = DefaultCorpus()
	}
	if log == nil {
		log = logging.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Engine{
		corpus:   corpus,
		patterns: newPatternTable(),
		logger:   log,
		metrics:  metrics,
	}
}

// Corpus returns the vocabularies the engine was built with.
func (e *Engine) Corpus() *Corpus {
	return e.corpus
}

// Extract runs every pass over rawText. Extraction never fails: a pass that
// matches nothing simply leaves its field unset, so the worst case is a
// record carrying only the raw text.
func (e *Engine) Extract(rawText string) *medical.ExtractedMedicalInfo {
	start := time.Now()
	normalized := Normalize(rawText)
	lines := splitLines(rawText)

	info := &medical.ExtractedMedicalInfo{
		Medications:    e.extractMedications(rawText, normalized),
		RawText:        rawText,
		NormalizedText: normalized,
	}

	info.Symptoms = e.extractSymptoms(rawText)
	info.ClinicalNotes = e.extractClinicalNotes(rawText)
	info.DosageRegimen = e.extractDosageRegimen(rawText)
	info.RxIndications = e.extractRxIndications(rawText)

	info.PatientInfo = e.extractPatientInfo(rawText)
	info.Vitals = e.extractVitals(rawText)
	info.MedicalHistory = e.extractMedicalHistory(lines)
	info.ConcomitantMedications = e.extractConcomitantMedications(lines)
	info.LabResults = e.extractLabResults(rawText)
	info.Assessment = e.extractAssessment(lines)
	info.Prescriber = e.extractPrescriber(rawText)
	info.DocumentInfo = e.classifyDocument(rawText)

	e.metrics.ExtractionDuration.WithLabelValues("engine").Observe(time.Since(start).Seconds())
	e.metrics.ExtractionEntitiesTotal.WithLabelValues("medication").Add(float64(len(info.Medications)))

	e.logger.Debug("extraction complete",
		logging.Int("medications", len(info.Medications)),
		logging.Int("text_length", len(rawText)),
	)
	return info
}

// ---------------------------------------------------------------------------
// Medication passes
// ---------------------------------------------------------------------------

// extractMedications runs the four medication passes in precision order and
// returns lowercase names, deduplicated case-insensitively in first-seen
// order.
func (e *Engine) extractMedications(raw, normalized string) []string {
	out := []string{}
	seen := make(map[string]struct{})

	add := func(candidate string) {
		name := strings.ToLower(strings.Trim(candidate, "-"))
		if len(name) < 3 {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		if !e.acceptMedication(name) {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	// Pass 1: dosage-anchored. The word preceding "<number><unit>" is a
	// strong candidate regardless of any dictionary.
	for _, m := range e.patterns.dosageAnchored.FindAllStringSubmatch(normalized, -1) {
		add(m[1])
	}

	// Pass 2: known-name dictionary lookup, case-insensitive.
	for _, tok := range tokenize(normalized) {
		if e.corpus.IsKnownDrug(strings.ToLower(tok.text)) {
			add(tok.text)
		}
	}

	// Pass 3: suffix heuristics over title-case and ALL-CAPS words.
	// Prescription labels are frequently all-caps, and normalisation can
	// break label layout, so this pass also scans the raw text.
	for _, source := range []string{normalized, raw} {
		for _, tok := range tokenize(source) {
			if !isTitleCase(tok.text) && !isAllCaps(tok.text) {
				continue
			}
			if e.corpus.HasDrugSuffix(strings.ToLower(tok.text)) {
				add(tok.text)
			}
		}
	}

	// Pass 4: broad fallback over capitalised words, only when nothing
	// survived the precise passes.
	if len(out) == 0 {
		for _, tok := range tokenize(normalized) {
			if isTitleCase(tok.text) || isAllCaps(tok.text) {
				add(tok.text)
			}
		}
	}

	return out
}

// acceptMedication is the gate applied to every candidate from every pass:
// the exclusion filter plus the requirement that the name is either in the
// approved medication set or independently matches a suffix heuristic. The
// dual gate suppresses capitalised non-drug words such as surnames.
func (e *Engine) acceptMedication(name string) bool {
	if e.corpus.IsExcluded(name) || e.corpus.IsCondition(name) {
		return false
	}
	if strings.ContainsAny(name, "0123456789") {
		return false
	}
	return e.corpus.IsFDAApproved(name) || e.corpus.HasDrugSuffix(name)
}
