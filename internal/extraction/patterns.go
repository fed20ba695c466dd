package extraction

import "regexp"

// ---------------------------------------------------------------------------
// Pattern table
// ---------------------------------------------------------------------------

// patternTable is the single compiled home for every regex family the
// engine uses. Earlier iterations of this pipeline grew several divergent
// copies of these patterns; keeping them in one table keeps the passes
// consistent.
type patternTable struct {
	// medication passes
	dosageAnchored *regexp.Regexp

	// patient info
	patientName   *regexp.Regexp
	patientAge    *regexp.Regexp
	patientAgePar *regexp.Regexp
	patientDOB    *regexp.Regexp
	patientGender *regexp.Regexp
	patientMRN    *regexp.Regexp

	// vitals
	bloodPressure   *regexp.Regexp
	heartRate       *regexp.Regexp
	temperature     *regexp.Regexp
	respiratoryRate *regexp.Regexp
	oxygenSat       *regexp.Regexp
	weight          *regexp.Regexp
	height          *regexp.Regexp
	bmi             *regexp.Regexp

	// sections
	sectionHeader   *regexp.Regexp
	pastHistory     *regexp.Regexp
	familyHistory   *regexp.Regexp
	socialHistory   *regexp.Regexp
	surgicalHistory *regexp.Regexp
	allergies       *regexp.Regexp
	chronicCond     *regexp.Regexp
	currentMeds     *regexp.Regexp
	assessment      *regexp.Regexp
	plan            *regexp.Regexp

	// line parsers inside sections
	concomitantLine *regexp.Regexp
	numberedItem    *regexp.Regexp
	planVerb        *regexp.Regexp
	followUp        *regexp.Regexp

	// labs
	labs []labPattern

	// prescriber
	prescriberName *regexp.Regexp
	prescriberNPI  *regexp.Regexp
	clinic         *regexp.Regexp
	specialty      *regexp.Regexp
	contact        *regexp.Regexp

	// document info
	documentDate *regexp.Regexp
	facility     *regexp.Regexp

	// free-text passes
	symptomsLabel  *regexp.Regexp
	notesLabel     *regexp.Regexp
	instructionLine *regexp.Regexp
}

// labPattern couples a lab test name with its value-capturing regex and the
// unit to assume when the text omits one.
type labPattern struct {
	name        string
	re          *regexp.Regexp
	defaultUnit string
}

func newPatternTable() *patternTable {
	return &patternTable{
		dosageAnchored: regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z\-]{2,})\s+(\d+(?:\.\d+)?)\s*(mg|mcg|g|ml|units?)\b`),

		patientName:   regexp.MustCompile(`(?im)^\s*(?:patient|name)\s*:\s*([^\r\n]+)`),
		patientAge:    regexp.MustCompile(`(?i)\bage\s*:?\s*(\d{1,3})\b`),
		patientAgePar: regexp.MustCompile(`(?i)\(\s*age\s+(\d{1,3})\s*\)`),
		patientDOB:    regexp.MustCompile(`(?i)\b(?:dob|date of birth)\s*:\s*([0-9][0-9/.\-]+)`),
		patientGender: regexp.MustCompile(`(?i)\b(?:gender|sex)\s*:\s*(male|female|m|f)\b`),
		patientMRN:    regexp.MustCompile(`(?i)\bmrn\s*:?\s*([A-Za-z0-9\-]+)`),

		bloodPressure:   regexp.MustCompile(`(?i)(?:\bbp\b|blood pressure)\s*:?\s*(\d{2,3}\s*/\s*\d{2,3})`),
		heartRate:       regexp.MustCompile(`(?i)(?:\bhr\b|heart rate|pulse)\s*:?\s*(\d{2,3})`),
		temperature:     regexp.MustCompile(`(?i)\btemp(?:erature)?\s*:?\s*(\d{2,3}(?:\.\d)?)\s*(?:deg)?\s*([CF])?\b`),
		respiratoryRate: regexp.MustCompile(`(?i)(?:\brr\b|respiratory rate)\s*:?\s*(\d{1,2})`),
		oxygenSat:       regexp.MustCompile(`(?i)(?:\bspo2\b|o2 sat(?:uration)?|oxygen saturation)\s*:?\s*(\d{2,3})`),
		weight:          regexp.MustCompile(`(?i)\bweight\s*:?\s*(\d{2,3}(?:\.\d+)?\s*(?:kg|lbs?)?)`),
		height:          regexp.MustCompile(`(?i)\bheight\s*:?\s*(\d{2,3}(?:\.\d+)?\s*(?:cm|in)?)`),
		bmi:             regexp.MustCompile(`(?i)\bbmi\s*:?\s*(\d{1,2}(?:\.\d+)?)`),

		sectionHeader: regexp.MustCompile(`(?i)^\s*(?:past medical history|family history|social history|surgical history|allergies|chronic conditions|current medications|medications|assessment(?:\s+and\s+plan)?|plan|labs?|lab results)\b\s*:?`),
		pastHistory:     regexp.MustCompile(`(?i)^\s*past medical history\s*:?\s*(.*)$`),
		familyHistory:   regexp.MustCompile(`(?i)^\s*family history\s*:?\s*(.*)$`),
		socialHistory:   regexp.MustCompile(`(?i)^\s*social history\s*:?\s*(.*)$`),
		surgicalHistory: regexp.MustCompile(`(?i)^\s*surgical history\s*:?\s*(.*)$`),
		allergies:       regexp.MustCompile(`(?i)^\s*allergies\s*:?\s*(.*)$`),
		chronicCond:     regexp.MustCompile(`(?i)^\s*chronic conditions\s*:?\s*(.*)$`),
		currentMeds:     regexp.MustCompile(`(?i)^\s*current medications\s*:?\s*(.*)$`),
		assessment:      regexp.MustCompile(`(?i)^\s*assessment(?:\s+and\s+plan)?\s*:?\s*(.*)$`),
		plan:            regexp.MustCompile(`(?i)^\s*plan\b\s*:?\s*(.*)$`),

		concomitantLine: regexp.MustCompile(`(?i)^\s*(?:[-*]\s*)?([A-Za-z][A-Za-z\-]{2,})\s+(\d+(?:\.\d+)?\s*(?:mg|mcg|g|ml|units?))\b(.*)$`),
		numberedItem:    regexp.MustCompile(`^\s*\d+[.)]\s*(.+)$`),
		planVerb:        regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?(?:continue|start|consider|monitor|follow|recheck)\b`),
		followUp:        regexp.MustCompile(`(?i)\bfollow[\s-]?up\b`),

		labs: []labPattern{
			{"HbA1c", regexp.MustCompile(`(?i)\b(?:hba1c|a1c)\s*:?\s*(\d{1,2}(?:\.\d+)?)\s*(%)?`), "%"},
			{"Glucose", regexp.MustCompile(`(?i)\bglucose\s*:?\s*(\d{2,3})\s*(mg/dl)?`), "mg/dL"},
			{"Total Cholesterol", regexp.MustCompile(`(?i)\b(?:total\s+)?cholesterol\s*:?\s*(\d{2,3})\s*(mg/dl)?`), "mg/dL"},
			{"LDL", regexp.MustCompile(`(?i)\bldl\s*:?\s*(\d{2,3})\s*(mg/dl)?`), "mg/dL"},
			{"HDL", regexp.MustCompile(`(?i)\bhdl\s*:?\s*(\d{2,3})\s*(mg/dl)?`), "mg/dL"},
			{"Triglycerides", regexp.MustCompile(`(?i)\btriglycerides?\s*:?\s*(\d{2,4})\s*(mg/dl)?`), "mg/dL"},
			{"Creatinine", regexp.MustCompile(`(?i)\bcreatinine\s*:?\s*(\d{1,2}(?:\.\d+)?)\s*(mg/dl)?`), "mg/dL"},
			{"TSH", regexp.MustCompile(`(?i)\btsh\s*:?\s*(\d{1,3}(?:\.\d+)?)\s*(miu/l)?`), "mIU/L"},
			{"BNP", regexp.MustCompile(`(?i)\bbnp\s*:?\s*(\d{1,5})\s*(pg/ml)?`), "pg/mL"},
		},

		prescriberName: regexp.MustCompile(`(?im)^\s*(?:prescriber|physician|provider|doctor|dr\.?)\s*:?\s*([^\r\n]+)`),
		prescriberNPI:  regexp.MustCompile(`(?i)\bnpi\s*:?\s*(\d{10})\b`),
		clinic:         regexp.MustCompile(`(?im)^\s*(?:clinic|practice)\s*:\s*([^\r\n]+)`),
		specialty:      regexp.MustCompile(`(?im)^\s*specialty\s*:\s*([^\r\n]+)`),
		contact:        regexp.MustCompile(`(?i)\b(?:phone|tel|contact)\s*:?\s*([(\d][\d\-() .]{6,})`),

		documentDate: regexp.MustCompile(`(?i)\bdate\s*:\s*([0-9][0-9/.\-]+)`),
		facility:     regexp.MustCompile(`(?im)^\s*(?:facility|hospital)\s*:\s*([^\r\n]+)`),

		symptomsLabel:   regexp.MustCompile(`(?im)^\s*(?:symptoms?|chief complaint|presenting complaint)\s*:\s*([^\r\n]+)`),
		notesLabel:      regexp.MustCompile(`(?im)^\s*(?:notes?|clinical notes?|comments?|warnings?)\s*:\s*([^\r\n]+)`),
		instructionLine: regexp.MustCompile(`(?im)^\s*((?:take|apply|inhale|inject|use)\b[^\r\n]*)`),
	}
}
