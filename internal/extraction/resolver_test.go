package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rxlens/rxlens/pkg/types/medical"
)

func TestResolvePrimaryConcomitantFirst(t *testing.T) {
	e := newTestEngine()

	info := &medical.ExtractedMedicalInfo{
		Medications: []string{"aspirin", "metformin"},
		ConcomitantMedications: []medical.ConcomitantMedication{
			{Medication: "Lisinopril", Dosage: "10mg"},
			{Medication: "metformin", Dosage: "500mg"},
		},
	}
	assert.Equal(t, "lisinopril", e.ResolvePrimary(info),
		"the structured concomitant list outranks the flat list")
}

func TestResolvePrimaryFlatList(t *testing.T) {
	e := newTestEngine()

	info := &medical.ExtractedMedicalInfo{
		Medications: []string{"rx", "patient", "metformin", "aspirin"},
	}
	assert.Equal(t, "metformin", e.ResolvePrimary(info),
		"short and excluded entries are passed over")
}

func TestResolvePrimaryRawTextFallback(t *testing.T) {
	e := newTestEngine()

	// No structured entries at all: an ALL-CAPS suffix word in the raw text
	// wins over a lower-case one appearing earlier.
	info := &medical.ExtractedMedicalInfo{
		RawText: "take zorbactamycin label FUNICILLIN 500MG",
	}
	assert.Equal(t, "funicillin", e.ResolvePrimary(info))

	// Without an ALL-CAPS candidate the scan relaxes to any case.
	info = &medical.ExtractedMedicalInfo{
		RawText: "take zorbactamycin as directed",
	}
	assert.Equal(t, "zorbactamycin", e.ResolvePrimary(info))
}

func TestResolvePrimaryNone(t *testing.T) {
	e := newTestEngine()

	assert.Empty(t, e.ResolvePrimary(nil))
	assert.Empty(t, e.ResolvePrimary(&medical.ExtractedMedicalInfo{
		RawText: "no medication names here",
	}))
	assert.Empty(t, e.ResolvePrimary(&medical.ExtractedMedicalInfo{
		// Excluded words and conditions never resolve, even with a suffix.
		RawText:     "HYPERTENSION follow-up",
		Medications: []string{"rx"},
	}))
}
