package parsing

import (
	"regexp"
	"strings"

	"github.com/rxlens/rxlens/internal/extraction"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// ---------------------------------------------------------------------------
// Local fallback parser
// ---------------------------------------------------------------------------

// localMedicationPatterns tolerate the common OCR digit-for-letter swaps
// (1 for i, 0 for o) directly in the pattern, so a mangled label still
// resolves to a medication name after correction.
var localMedicationPatterns = []*regexp.Regexp{
	// known medications with their usual OCR manglings
	regexp.MustCompile(`(?i)\b(?:funi|tuni|func)c?[i1]ll[i1]n\b`),
	regexp.MustCompile(`(?i)\b[a4]mox[i1]c[i1]ll[i1]n\b`),
	regexp.MustCompile(`(?i)\b[l1][i1]s[i1]nopr[i1]l\b`),
	regexp.MustCompile(`(?i)\b(?:met|rnet)f[o0]rm[i1]n\b`),
	regexp.MustCompile(`(?i)\b[a4]sp[i1]r[i1]n\b`),
	regexp.MustCompile(`(?i)\b[i1]bupr[o0]fen\b`),

	// generic pharmaceutical-suffix shapes, digits allowed mid-word
	regexp.MustCompile(`(?i)\b[A-Za-z01]{4,}(?:illin|mycin|floxacin|cycline|pril|sartan|statin|zole|pine|dine|lone|sone)\b`),

	// the word preceding a dosage
	regexp.MustCompile(`(?i)\b([A-Za-z01]{3,})\s*\d+\s*(?:mg|mcg|g|ml|units?)\b`),
}

var ocrCorrections = strings.NewReplacer("1", "i", "0", "o", "5", "s")

// LocalParser reconstructs the structured-entities shape directly from text
// with regex pattern families. It is the silent fallback when the remote
// backend is unavailable and never fails.
type LocalParser struct {
	corpus *extraction.Corpus
	logger logging.Logger

	patientName *regexp.Regexp
	patientDOB  *regexp.Regexp
	prescriber  *regexp.Regexp
}

// NewLocalParser builds a parser over corpus. Nil arguments get defaults.
func NewLocalParser(corpus *extraction.Corpus, log logging.Logger) *LocalParser {
	if corpus == nil {
		corpus = extraction.DefaultCorpus()
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &LocalParser{
		corpus:      corpus,
		logger:      log,
		patientName: regexp.MustCompile(`(?i)(?:patient|name):\s*([^\n\r]+)`),
		patientDOB:  regexp.MustCompile(`(?i)(?:dob|birth):\s*([^\n\r]+)`),
		prescriber:  regexp.MustCompile(`(?i)(?:dr\.?|doctor|prescriber):\s*([^\n\r]+)`),
	}
}

// Parse extracts medications and patient info from text. Empty arrays, not
// nil, fill the fields with no findings so the output contract matches the
// remote path exactly.
func (p *LocalParser) Parse(text string) *medical.StructuredMedicalEntities {
	out := &medical.StructuredMedicalEntities{
		Medications:  []medical.ParsedMedication{},
		Symptoms:     []string{},
		Allergies:    []string{},
		MedicalNotes: []string{},
		Warnings:     []string{},
	}

	seen := make(map[string]struct{})
	for _, pattern := range localMedicationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := m[0]
			if len(m) > 1 {
				candidate = m[1]
			}
			name := correctOCRErrors(candidate)
			if len(name) <= 2 || p.corpus.IsExcluded(name) || p.corpus.IsCondition(name) {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			out.Medications = append(out.Medications, medical.ParsedMedication{
				Name:      name,
				Dosage:    p.nearbyDosage(text, candidate),
				Frequency: p.nearbyFrequency(text, candidate),
			})
		}
	}

	out.PatientInfo = p.parsePatientInfo(text)

	p.logger.Debug("local parsing complete",
		logging.Int("medications", len(out.Medications)),
	)
	return out
}

// correctOCRErrors lowercases a candidate name and undoes the classic OCR
// digit swaps.
func correctOCRErrors(name string) string {
	return ocrCorrections.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// nearbyDosage finds the first dosage following the medication's occurrence
// in the text.
func (p *LocalParser) nearbyDosage(text, name string) string {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name) + `.*?(\d+\s*(?:mg|mcg|g|ml))`)
	if err != nil {
		return ""
	}
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// nearbyFrequency finds a dosing frequency within 50 characters after the
// medication's occurrence.
func (p *LocalParser) nearbyFrequency(text, name string) string {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name) +
		`.{0,50}?(twice\s+daily|once\s+daily|bid|tid|qid|prn|every\s+\d+\s+hours?)`)
	if err != nil {
		return ""
	}
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.ToLower(strings.TrimSpace(m[1]))
	}
	return ""
}

func (p *LocalParser) parsePatientInfo(text string) *medical.ParsedPatientInfo {
	info := &medical.ParsedPatientInfo{}
	if m := p.patientName.FindStringSubmatch(text); m != nil {
		info.Name = strings.TrimSpace(m[1])
	}
	if m := p.patientDOB.FindStringSubmatch(text); m != nil {
		info.DOB = strings.TrimSpace(m[1])
	}
	if m := p.prescriber.FindStringSubmatch(text); m != nil {
		info.Prescriber = strings.TrimSpace(m[1])
	}
	if info.Empty() {
		return nil
	}
	return info
}
