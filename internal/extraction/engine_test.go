package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(nil, nil, nil)
}

func TestDosageAnchoredPass(t *testing.T) {
	e := newTestEngine()

	info := e.Extract("FUNICILLIN 500MG")
	require.NotNil(t, info)
	assert.Contains(t, info.Medications, "funicillin",
		"dosage-anchored pass must catch drugs recognisable only by suffix")
}

func TestKnownNamePass(t *testing.T) {
	e := newTestEngine()

	info := e.Extract("patient takes metformin and aspirin in the morning")
	assert.Equal(t, []string{"metformin", "aspirin"}, info.Medications)
}

func TestSuffixHeuristicPass(t *testing.T) {
	e := newTestEngine()

	// Not in any dictionary, but carries a pharmaceutical suffix in both
	// title-case and all-caps forms.
	info := e.Extract("Prescribed Zorbactamycin once daily.\nRefill: ZORBACTAMYCIN")
	assert.Equal(t, []string{"zorbactamycin"}, info.Medications)
}

func TestMedicationDeduplication(t *testing.T) {
	e := newTestEngine()

	info := e.Extract("METFORMIN 500MG\nmetformin\nMetformin 500 mg")
	assert.Equal(t, []string{"metformin"}, info.Medications)

	lower := make(map[string]int)
	for _, m := range info.Medications {
		lower[strings.ToLower(m)]++
	}
	for name, count := range lower {
		assert.Equal(t, 1, count, name)
	}
}

func TestExclusionInvariant(t *testing.T) {
	e := newTestEngine()

	// Excluded words must never surface as medications, regardless of
	// capitalisation or dosage context.
	for _, word := range []string{"date", "patient", "john", "smith", "daily"} {
		upper := strings.ToUpper(word)
		title := strings.ToUpper(word[:1]) + word[1:]
		info := e.Extract(upper + " 500MG\n" + title + "\n" + upper)
		assert.NotContains(t, info.Medications, word, word)
		assert.NotContains(t, info.Medications, upper, word)
	}
}

func TestDualGateRejectsCapitalizedNonDrugs(t *testing.T) {
	e := newTestEngine()

	// "Anderson" satisfies the naive capitalized-word pattern but neither
	// the approved set nor any suffix heuristic.
	info := e.Extract("Anderson 500mg")
	assert.Empty(t, info.Medications)
}

func TestExtractEndToEnd(t *testing.T) {
	e := newTestEngine()

	info := e.Extract("Date: 12/15/2024\nMETFORMIN 500MG\nTake with food\nPatient: Jane Smith")
	require.NotNil(t, info)

	assert.Equal(t, []string{"metformin"}, info.Medications)

	// The boilerplate and placeholder-name tokens must not appear in any
	// extracted field.
	banned := []string{"date", "jane", "smith", "patient"}
	var fields []string
	fields = append(fields, info.Medications...)
	fields = append(fields, info.Symptoms...)
	fields = append(fields, info.ClinicalNotes...)
	fields = append(fields, info.DosageRegimen...)
	fields = append(fields, info.RxIndications...)
	if info.PatientInfo != nil {
		fields = append(fields, info.PatientInfo.Name)
	}
	for _, med := range info.ConcomitantMedications {
		fields = append(fields, med.Medication)
	}
	for _, f := range fields {
		for _, b := range banned {
			assert.NotEqual(t, b, strings.ToLower(f))
			for _, tok := range strings.Fields(strings.ToLower(f)) {
				assert.NotEqual(t, b, tok)
			}
		}
	}

	// The instruction line is dosage regimen, not a medication.
	assert.Equal(t, []string{"Take with food"}, info.DosageRegimen)
}

func TestExtractIdempotent(t *testing.T) {
	e := newTestEngine()
	text := "Patient: Maria Gonzalez\nCurrent Medications:\nlisinopril 10mg once daily - hypertension\nHbA1c: 7.2%\nAssessment:\n1. Type 2 diabetes\n2. Hypertension\nContinue metformin"

	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first, second)
}

func TestExtractNeverFails(t *testing.T) {
	e := newTestEngine()

	for _, input := range []string{"", "   ", "!!!@@@###", "no meds here at all"} {
		info := e.Extract(input)
		require.NotNil(t, info)
		assert.Equal(t, input, info.RawText)
	}
}

func TestBroadFallbackPass(t *testing.T) {
	// Xarbup carries no pharmaceutical suffix and is not in the dictionary
	// token scan, so only the capitalized fallback can surface it, and only
	// because the approved set vouches for it.
	corpus := NewCorpus(CorpusConfig{FDAApproved: []string{"xarbup", "metformin"}})
	e := NewEngine(corpus, nil, nil)

	info := e.Extract("Recommend Xarbup")
	assert.Equal(t, []string{"xarbup"}, info.Medications)

	// Once another pass produces a result, the fallback stays off.
	info = e.Extract("METFORMIN 500MG\nXarbup")
	assert.NotContains(t, info.Medications, "xarbup")
}
