package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/pkg/types/medical"
)

func TestExtractPatientInfo(t *testing.T) {
	e := newTestEngine()

	text := "Patient: Maria Gonzalez\nAge: 58\nDOB: 03/22/1967\nGender: Female\nMRN: A123456"
	info := e.Extract(text).PatientInfo
	require.NotNil(t, info)

	assert.Equal(t, "Maria Gonzalez", info.Name)
	assert.Equal(t, "58", info.Age)
	assert.Equal(t, "03/22/1967", info.DateOfBirth)
	assert.Equal(t, "female", info.Gender)
	assert.Equal(t, "A123456", info.MedicalRecordNumber)
}

func TestExtractPatientInfoPlaceholderName(t *testing.T) {
	e := newTestEngine()

	// Placeholder names made entirely of excluded tokens are dropped; with
	// nothing else to fill the block is omitted.
	assert.Nil(t, e.Extract("Patient: Jane Smith").PatientInfo)
	assert.Nil(t, e.Extract("Patient: John Doe").PatientInfo)

	info := e.Extract("Patient: Jane Smith\nAge: 40").PatientInfo
	require.NotNil(t, info)
	assert.Empty(t, info.Name)
	assert.Equal(t, "40", info.Age)
}

func TestExtractVitals(t *testing.T) {
	e := newTestEngine()

	text := "Vitals: BP: 138/86, HR: 72, Temp: 98.6F, RR: 16, SpO2: 97\nWeight: 82 kg\nBMI: 27.4"
	v := e.Extract(text).Vitals
	require.NotNil(t, v)

	assert.Equal(t, "138/86 mmHg", v.BloodPressure)
	assert.Equal(t, "72 bpm", v.HeartRate)
	assert.Equal(t, "98.6 F", v.Temperature)
	assert.Equal(t, "16 /min", v.RespiratoryRate)
	assert.Equal(t, "97%", v.OxygenSaturation)
	assert.Equal(t, "82 kg", v.Weight)
	assert.Equal(t, "27.4", v.BMI)
}

func TestExtractMedicalHistory(t *testing.T) {
	e := newTestEngine()

	text := "Past Medical History:\n- Hypertension\n- Type 2 diabetes\n\nFamily History: father with CAD\nAllergies: penicillin, sulfa drugs"
	h := e.Extract(text).MedicalHistory
	require.NotNil(t, h)

	assert.Equal(t, []string{"Hypertension", "Type 2 diabetes"}, h.PastMedicalHistory)
	assert.Equal(t, []string{"father with CAD"}, h.FamilyHistory)
	assert.Equal(t, []string{"penicillin", "sulfa drugs"}, h.Allergies)
	assert.Empty(t, h.SurgicalHistory)
}

func TestSectionStopsAtNextHeader(t *testing.T) {
	e := newTestEngine()

	// Without a blank line, the next recognised header still terminates the
	// running section.
	text := "Past Medical History:\nasthma\nAllergies: latex"
	h := e.Extract(text).MedicalHistory
	require.NotNil(t, h)

	assert.Equal(t, []string{"asthma"}, h.PastMedicalHistory)
	assert.Equal(t, []string{"latex"}, h.Allergies)
}

func TestExtractConcomitantMedications(t *testing.T) {
	e := newTestEngine()

	text := "Current Medications:\nlisinopril 10mg once daily - hypertension\nmetformin 500mg BID - diabetes\naspirin 81mg\n\nAssessment:\n1. Stable"
	meds := e.Extract(text).ConcomitantMedications
	require.Len(t, meds, 3)

	assert.Equal(t, medical.ConcomitantMedication{
		Medication: "lisinopril",
		Dosage:     "10mg",
		Frequency:  "once daily",
		Indication: "hypertension",
	}, meds[0])

	assert.Equal(t, "metformin", meds[1].Medication)
	assert.Equal(t, "bid", meds[1].Frequency)
	assert.Equal(t, "diabetes", meds[1].Indication)

	// No frequency and no indication fall back to the defaults.
	assert.Equal(t, "aspirin", meds[2].Medication)
	assert.Equal(t, "81mg", meds[2].Dosage)
	assert.Equal(t, "as directed", meds[2].Frequency)
	assert.Empty(t, meds[2].Indication)
}

func TestConcomitantSectionSkipsExcludedAndUnparsable(t *testing.T) {
	e := newTestEngine()

	text := "Current Medications:\nTake 500mg with water\nnone reported\nomeprazole 20mg"
	meds := e.Extract(text).ConcomitantMedications
	require.Len(t, meds, 1)
	assert.Equal(t, "omeprazole", meds[0].Medication)
}

func TestExtractLabResults(t *testing.T) {
	e := newTestEngine()

	text := "Lab Results:\nHbA1c: 7.2%\nGlucose: 145 mg/dL\nLDL: 130\nTSH: 2.1"
	labs := e.Extract(text).LabResults
	require.Len(t, labs, 4)

	byName := make(map[string]medical.LabResult)
	for _, lab := range labs {
		byName[lab.TestName] = lab
	}
	assert.Equal(t, "7.2", byName["HbA1c"].Value)
	assert.Equal(t, "%", byName["HbA1c"].Unit)
	assert.Equal(t, "145", byName["Glucose"].Value)
	assert.Equal(t, "mg/dL", byName["Glucose"].Unit)
	assert.Equal(t, "mg/dL", byName["LDL"].Unit, "missing unit falls back to the default")
	assert.Equal(t, "mIU/L", byName["TSH"].Unit)
}

func TestExtractAssessment(t *testing.T) {
	e := newTestEngine()

	text := "Assessment:\n1. Type 2 diabetes\n2. Hypertension\nContinue metformin 500mg\nMonitor blood pressure weekly"
	a := e.Extract(text).Assessment
	require.NotNil(t, a)

	assert.Equal(t, "Type 2 diabetes", a.PrimaryDiagnosis)
	assert.Equal(t, []string{"Hypertension"}, a.SecondaryDiagnoses)
	assert.Equal(t, []string{"Continue metformin 500mg", "Monitor blood pressure weekly"}, a.TreatmentPlan)
}

func TestExtractAssessmentNumberedPlanVerb(t *testing.T) {
	e := newTestEngine()

	// A numbered line led by a treatment verb belongs to the plan, not the
	// diagnosis list.
	text := "Assessment:\n1. Pneumonia\n2. Start amoxicillin 500mg\n3. COPD"
	a := e.Extract(text).Assessment
	require.NotNil(t, a)

	assert.Equal(t, "Pneumonia", a.PrimaryDiagnosis)
	assert.Equal(t, []string{"COPD"}, a.SecondaryDiagnoses)
	assert.Equal(t, []string{"Start amoxicillin 500mg"}, a.TreatmentPlan)
}

func TestExtractStandalonePlanSection(t *testing.T) {
	e := newTestEngine()

	text := "Assessment:\n1. Hyperlipidemia\n\nPlan:\nStart atorvastatin 20mg\nFollow up in 3 months"
	a := e.Extract(text).Assessment
	require.NotNil(t, a)

	assert.Equal(t, "Hyperlipidemia", a.PrimaryDiagnosis)
	assert.Equal(t, []string{"Start atorvastatin 20mg"}, a.TreatmentPlan)
	assert.Equal(t, []string{"Follow up in 3 months"}, a.FollowUpInstructions)
}

func TestExtractPrescriber(t *testing.T) {
	e := newTestEngine()

	text := "Dr. Sarah Chen, MD\nNPI: 1234567890\nClinic: Riverside Medical Group\nSpecialty: Internal Medicine\nPhone: (555) 123-4567"
	p := e.Extract(text).Prescriber
	require.NotNil(t, p)

	assert.Equal(t, "Sarah Chen, MD", p.Name)
	assert.Equal(t, "1234567890", p.NPI)
	assert.Equal(t, "Riverside Medical Group", p.Clinic)
	assert.Equal(t, "Internal Medicine", p.Specialty)
	assert.Equal(t, "(555) 123-4567", p.Contact)
}

func TestClassifyDocument(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		text       string
		docType    medical.DocumentType
		confidence float64
	}{
		{"prescription keyword", "Prescription\nAmoxicillin 500mg", medical.DocumentPrescription, 0.9},
		{"rx label", "Rx: lisinopril 10mg", medical.DocumentPrescription, 0.9},
		{"discharge", "DISCHARGE SUMMARY\nAdmitted 01/02", medical.DocumentDischargeSummary, 0.9},
		{"lab report", "Lab Results: glucose elevated", medical.DocumentLabReport, 0.8},
		{"medical report", "Assessment:\n1. Stable angina", medical.DocumentMedicalReport, 0.7},
		{"first rule wins", "Prescription attached to discharge summary", medical.DocumentPrescription, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := e.Extract(tt.text).DocumentInfo
			require.NotNil(t, doc)
			assert.Equal(t, tt.docType, doc.Type)
			assert.Equal(t, tt.confidence, doc.Confidence)
		})
	}

	assert.Nil(t, e.Extract("hello world").DocumentInfo)

	doc := e.Extract("Date: 12/15/2024\nFacility: General Hospital").DocumentInfo
	require.NotNil(t, doc)
	assert.Equal(t, medical.DocumentOther, doc.Type)
	assert.Equal(t, "12/15/2024", doc.Date)
	assert.Equal(t, "General Hospital", doc.Facility)
}

func TestExtractSymptoms(t *testing.T) {
	e := newTestEngine()

	text := "Chief Complaint: headache, dizziness\nPatient also reports nausea this week."
	symptoms := e.Extract(text).Symptoms
	assert.Equal(t, []string{"headache", "dizziness", "nausea"}, symptoms)
}

func TestExtractRxIndications(t *testing.T) {
	e := newTestEngine()

	text := "Amoxicillin 500mg for pneumonia\nlisinopril for the treatment of hypertension"
	indications := e.Extract(text).RxIndications
	assert.ElementsMatch(t, []string{"pneumonia", "hypertension"}, indications)
}
