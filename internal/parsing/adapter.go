// Package parsing implements structured medical-text parsing: a remote
// backend attempt with a silent local regex fallback producing the same
// output shape.
package parsing

import "github.com/rxlens/rxlens/pkg/types/medical"

// ---------------------------------------------------------------------------
// Wire adapter
// ---------------------------------------------------------------------------

// The remote backend has shipped both snake_case and camelCase field names
// over its lifetime, so the wire types declare both spellings and the
// adapter takes whichever is populated.

type wireResponse struct {
	Success            bool           `json:"success"`
	ExtractedDataSnake *wireExtracted `json:"extracted_data"`
	ExtractedDataCamel *wireExtracted `json:"extractedData"`
}

func (r *wireResponse) extracted() *wireExtracted {
	if r.ExtractedDataSnake != nil {
		return r.ExtractedDataSnake
	}
	return r.ExtractedDataCamel
}

type wireExtracted struct {
	Medications []wireMedication `json:"medications"`
	Symptoms    []string         `json:"symptoms"`
	Allergies   []string         `json:"allergies"`
	Warnings    []string         `json:"warnings"`

	MedicalNotesSnake []string `json:"medical_notes"`
	MedicalNotesCamel []string `json:"medicalNotes"`

	PatientInfoSnake *wirePatientInfo `json:"patient_info"`
	PatientInfoCamel *wirePatientInfo `json:"patientInfo"`
}

type wireMedication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Instructions string `json:"instructions"`
	Strength     string `json:"strength"`
}

type wirePatientInfo struct {
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Prescriber string `json:"prescriber"`
	Pharmacy   string `json:"pharmacy"`
	Date       string `json:"date"`
}

// toEntities maps the wire shape 1:1 into the internal contract. Array
// fields come back non-nil so callers and JSON consumers always see arrays.
func (w *wireExtracted) toEntities() *medical.StructuredMedicalEntities {
	out := &medical.StructuredMedicalEntities{
		Medications:  []medical.ParsedMedication{},
		Symptoms:     emptyIfNil(w.Symptoms),
		Allergies:    emptyIfNil(w.Allergies),
		MedicalNotes: emptyIfNil(pickList(w.MedicalNotesSnake, w.MedicalNotesCamel)),
		Warnings:     emptyIfNil(w.Warnings),
	}
	for _, med := range w.Medications {
		out.Medications = append(out.Medications, medical.ParsedMedication{
			Name:         med.Name,
			Dosage:       med.Dosage,
			Frequency:    med.Frequency,
			Instructions: med.Instructions,
			Strength:     med.Strength,
		})
	}
	if pi := pickPatientInfo(w.PatientInfoSnake, w.PatientInfoCamel); pi != nil {
		out.PatientInfo = &medical.ParsedPatientInfo{
			Name:       pi.Name,
			DOB:        pi.DOB,
			Prescriber: pi.Prescriber,
			Pharmacy:   pi.Pharmacy,
			Date:       pi.Date,
		}
	}
	return out
}

func pickList(snake, camel []string) []string {
	if len(snake) > 0 {
		return snake
	}
	return camel
}

func pickPatientInfo(snake, camel *wirePatientInfo) *wirePatientInfo {
	if snake != nil {
		return snake
	}
	return camel
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
