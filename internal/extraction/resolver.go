package extraction

import (
	"strings"

	"github.com/rxlens/rxlens/pkg/types/medical"
)

// ---------------------------------------------------------------------------
// Primary medication resolution
// ---------------------------------------------------------------------------

// ResolvePrimary picks the single most relevant medication from an
// extraction result. Priority order:
//
//  1. the first concomitant-medication entry, the richest structured source
//  2. the first flat-list medication that survives the exclusion filter
//  3. a raw-text fallback: an ALL-CAPS word with a pharmaceutical suffix,
//     then any word with a pharmaceutical suffix
//
// The empty string means no tier produced a name. That is an expected
// outcome, not an error; callers prompt the user to confirm manually.
func (e *Engine) ResolvePrimary(info *medical.ExtractedMedicalInfo) string {
	if info == nil {
		return ""
	}

	if len(info.ConcomitantMedications) > 0 {
		return strings.ToLower(info.ConcomitantMedications[0].Medication)
	}

	for _, med := range info.Medications {
		name := strings.ToLower(med)
		if len(name) > 2 && !e.corpus.IsExcluded(name) {
			return name
		}
	}

	if name := e.suffixFallback(info.RawText, true); name != "" {
		return name
	}
	return e.suffixFallback(info.RawText, false)
}

// suffixFallback scans raw text for a word ending in a pharmaceutical
// suffix, optionally restricted to ALL-CAPS label words, skipping excluded
// boilerplate.
func (e *Engine) suffixFallback(raw string, capsOnly bool) string {
	for _, tok := range tokenize(raw) {
		if capsOnly && !isAllCaps(tok.text) {
			continue
		}
		name := strings.ToLower(tok.text)
		if len(name) < 4 || e.corpus.IsExcluded(name) || e.corpus.IsCondition(name) {
			continue
		}
		if e.corpus.HasDrugSuffix(name) {
			return name
		}
	}
	return ""
}
