// Package medical defines the shared data structures produced by the
// prescription analysis pipeline.
package medical

// ---------------------------------------------------------------------------
// Document classification
// ---------------------------------------------------------------------------

// DocumentType classifies the kind of medical document that was analysed.
type DocumentType string

const (
	DocumentPrescription     DocumentType = "prescription"
	DocumentMedicalReport    DocumentType = "medical_report"
	DocumentLabReport        DocumentType = "lab_report"
	DocumentDischargeSummary DocumentType = "discharge_summary"
	DocumentOther            DocumentType = "other"
)

// Valid reports whether d is one of the known document types.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentPrescription, DocumentMedicalReport, DocumentLabReport,
		DocumentDischargeSummary, DocumentOther:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Nested extraction records
// ---------------------------------------------------------------------------

// PatientInfo holds patient demographics found in the document.
type PatientInfo struct {
	Name                string `json:"name,omitempty"`
	Age                 string `json:"age,omitempty"`
	DateOfBirth         string `json:"dateOfBirth,omitempty"`
	Gender              string `json:"gender,omitempty"`
	MedicalRecordNumber string `json:"medicalRecordNumber,omitempty"`
}

// Empty reports whether no field was populated.
func (p *PatientInfo) Empty() bool {
	return p == nil || (p.Name == "" && p.Age == "" && p.DateOfBirth == "" &&
		p.Gender == "" && p.MedicalRecordNumber == "")
}

// Vitals holds vital-sign measurements with their units embedded.
type Vitals struct {
	BloodPressure    string `json:"bloodPressure,omitempty"`
	HeartRate        string `json:"heartRate,omitempty"`
	Temperature      string `json:"temperature,omitempty"`
	RespiratoryRate  string `json:"respiratoryRate,omitempty"`
	OxygenSaturation string `json:"oxygenSaturation,omitempty"`
	Weight           string `json:"weight,omitempty"`
	Height           string `json:"height,omitempty"`
	BMI              string `json:"bmi,omitempty"`
}

func (v *Vitals) Empty() bool {
	return v == nil || (v.BloodPressure == "" && v.HeartRate == "" && v.Temperature == "" &&
		v.RespiratoryRate == "" && v.OxygenSaturation == "" && v.Weight == "" &&
		v.Height == "" && v.BMI == "")
}

// MedicalHistory holds the history sections. The slices default to empty,
// never nil, so callers can range over them directly.
type MedicalHistory struct {
	PastMedicalHistory []string `json:"pastMedicalHistory"`
	FamilyHistory      []string `json:"familyHistory"`
	SocialHistory      []string `json:"socialHistory"`
	SurgicalHistory    []string `json:"surgicalHistory"`
	Allergies          []string `json:"allergies"`
	ChronicConditions  []string `json:"chronicConditions"`
}

func (h *MedicalHistory) Empty() bool {
	return h == nil || (len(h.PastMedicalHistory) == 0 && len(h.FamilyHistory) == 0 &&
		len(h.SocialHistory) == 0 && len(h.SurgicalHistory) == 0 &&
		len(h.Allergies) == 0 && len(h.ChronicConditions) == 0)
}

// ConcomitantMedication is one entry from a "current medications" section.
// When present, this list supersedes the flat Medications list as the
// authoritative source for primary-medication resolution.
type ConcomitantMedication struct {
	Medication string `json:"medication"`
	Dosage     string `json:"dosage,omitempty"`
	Frequency  string `json:"frequency"`
	Indication string `json:"indication,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
}

// LabResult is one named laboratory measurement.
type LabResult struct {
	TestName       string `json:"testName"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	Date           string `json:"date,omitempty"`
}

// Assessment captures the assessment/plan section of a medical report.
type Assessment struct {
	PrimaryDiagnosis     string   `json:"primaryDiagnosis,omitempty"`
	SecondaryDiagnoses   []string `json:"secondaryDiagnoses,omitempty"`
	TreatmentPlan        []string `json:"treatmentPlan,omitempty"`
	FollowUpInstructions []string `json:"followUpInstructions,omitempty"`
}

func (a *Assessment) Empty() bool {
	return a == nil || (a.PrimaryDiagnosis == "" && len(a.SecondaryDiagnoses) == 0 &&
		len(a.TreatmentPlan) == 0 && len(a.FollowUpInstructions) == 0)
}

// Prescriber identifies the prescribing provider.
type Prescriber struct {
	Name      string `json:"name,omitempty"`
	NPI       string `json:"npi,omitempty"`
	Clinic    string `json:"clinic,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Contact   string `json:"contact,omitempty"`
}

func (p *Prescriber) Empty() bool {
	return p == nil || (p.Name == "" && p.NPI == "" && p.Clinic == "" &&
		p.Specialty == "" && p.Contact == "")
}

// DocumentInfo is the result of document-type classification.
type DocumentInfo struct {
	Type       DocumentType `json:"type"`
	Date       string       `json:"date,omitempty"`
	Facility   string       `json:"facility,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
}

// ---------------------------------------------------------------------------
// ExtractedMedicalInfo
// ---------------------------------------------------------------------------

// ExtractedMedicalInfo is the central structured record produced by the
// entity extraction engine for one document.
//
// Every optional nested object is either nil or has at least one populated
// field; the extraction passes never emit an all-empty object. The record is
// built once per document and not mutated afterwards.
type ExtractedMedicalInfo struct {
	// Medications is an ordered sequence of lowercase medication names,
	// deduplicated case-insensitively, in discovery order.
	Medications []string `json:"medications"`

	Symptoms      []string `json:"symptoms,omitempty"`
	ClinicalNotes []string `json:"clinicalNotes,omitempty"`
	DosageRegimen []string `json:"dosageRegimen,omitempty"`
	RxIndications []string `json:"rxIndications,omitempty"`

	PatientInfo            *PatientInfo            `json:"patientInfo,omitempty"`
	Vitals                 *Vitals                 `json:"vitals,omitempty"`
	MedicalHistory         *MedicalHistory         `json:"medicalHistory,omitempty"`
	ConcomitantMedications []ConcomitantMedication `json:"concomitantMedications,omitempty"`
	LabResults             []LabResult             `json:"labResults,omitempty"`
	Assessment             *Assessment             `json:"assessment,omitempty"`
	Prescriber             *Prescriber             `json:"prescriber,omitempty"`
	DocumentInfo           *DocumentInfo           `json:"documentInfo,omitempty"`

	// RawText is the full OCR output, retained for fallback re-extraction.
	RawText        string `json:"rawText"`
	NormalizedText string `json:"normalizedText,omitempty"`
}

// ---------------------------------------------------------------------------
// Structured parsing contract (remote parser / local fallback)
// ---------------------------------------------------------------------------

// ParsedMedication is one medication entry from the structured parser.
type ParsedMedication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Strength     string `json:"strength,omitempty"`
}

// ParsedPatientInfo is the patient block from the structured parser.
type ParsedPatientInfo struct {
	Name       string `json:"name,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Prescriber string `json:"prescriber,omitempty"`
	Pharmacy   string `json:"pharmacy,omitempty"`
	Date       string `json:"date,omitempty"`
}

func (p *ParsedPatientInfo) Empty() bool {
	return p == nil || (p.Name == "" && p.DOB == "" && p.Prescriber == "" &&
		p.Pharmacy == "" && p.Date == "")
}

// StructuredMedicalEntities is the output contract shared by the remote
// parsing backend and the local regex fallback. Callers cannot tell which
// path produced it.
type StructuredMedicalEntities struct {
	Medications  []ParsedMedication `json:"medications"`
	Symptoms     []string           `json:"symptoms"`
	Allergies    []string           `json:"allergies"`
	MedicalNotes []string           `json:"medicalNotes"`
	Warnings     []string           `json:"warnings"`
	PatientInfo  *ParsedPatientInfo `json:"patientInfo,omitempty"`
}
