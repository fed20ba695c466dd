package parsing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snakeBody = `{
	"success": true,
	"extracted_data": {
		"medications": [{"name": "metformin", "dosage": "500mg", "frequency": "twice daily"}],
		"symptoms": ["headache"],
		"allergies": [],
		"medical_notes": ["take with food"],
		"warnings": ["may cause dizziness"],
		"patient_info": {"name": "Maria Gonzalez", "dob": "03/22/1967", "prescriber": "Dr. Chen"}
	}
}`

const camelBody = `{
	"success": true,
	"extractedData": {
		"medications": [{"name": "metformin", "dosage": "500mg", "frequency": "twice daily"}],
		"symptoms": ["headache"],
		"allergies": [],
		"medicalNotes": ["take with food"],
		"warnings": ["may cause dizziness"],
		"patientInfo": {"name": "Maria Gonzalez", "dob": "03/22/1967", "prescriber": "Dr. Chen"}
	}
}`

func TestAdapterFieldNameTolerance(t *testing.T) {
	var snake, camel wireResponse
	require.NoError(t, json.Unmarshal([]byte(snakeBody), &snake))
	require.NoError(t, json.Unmarshal([]byte(camelBody), &camel))

	fromSnake := snake.extracted().toEntities()
	fromCamel := camel.extracted().toEntities()

	// Both historical remote spellings adapt to the identical internal shape.
	assert.Equal(t, fromSnake, fromCamel)

	require.Len(t, fromSnake.Medications, 1)
	assert.Equal(t, "metformin", fromSnake.Medications[0].Name)
	assert.Equal(t, "500mg", fromSnake.Medications[0].Dosage)
	assert.Equal(t, []string{"take with food"}, fromSnake.MedicalNotes)
	require.NotNil(t, fromSnake.PatientInfo)
	assert.Equal(t, "Maria Gonzalez", fromSnake.PatientInfo.Name)
	assert.Equal(t, "Dr. Chen", fromSnake.PatientInfo.Prescriber)
}

func TestAdapterEmptyArraysNotNil(t *testing.T) {
	var resp wireResponse
	require.NoError(t, json.Unmarshal([]byte(`{"success": true, "extracted_data": {}}`), &resp))

	entities := resp.extracted().toEntities()
	assert.NotNil(t, entities.Medications)
	assert.NotNil(t, entities.Symptoms)
	assert.NotNil(t, entities.Allergies)
	assert.NotNil(t, entities.MedicalNotes)
	assert.NotNil(t, entities.Warnings)
	assert.Nil(t, entities.PatientInfo)
}
