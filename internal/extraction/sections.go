package extraction

import (
	"regexp"
	"strings"

	"github.com/rxlens/rxlens/pkg/types/medical"
)

var regexpNumberedPrefix = regexp.MustCompile(`^\s*\d+[.)]\s*(.+)$`)

// The secondary passes each scan the same source text with their own
// label-anchored patterns. They are independent and tolerant of missing
// sections: no pass fails, it simply contributes nothing.

// ---------------------------------------------------------------------------
// Patient info
// ---------------------------------------------------------------------------

func (e *Engine) extractPatientInfo(raw string) *medical.PatientInfo {
	info := &medical.PatientInfo{}

	if m := e.patterns.patientName.FindStringSubmatch(raw); m != nil {
		name := strings.TrimSpace(m[1])
		if !e.isPlaceholderName(name) {
			info.Name = name
		}
	}
	if m := e.patterns.patientAge.FindStringSubmatch(raw); m != nil {
		info.Age = m[1]
	} else if m := e.patterns.patientAgePar.FindStringSubmatch(raw); m != nil {
		info.Age = m[1]
	}
	if m := e.patterns.patientDOB.FindStringSubmatch(raw); m != nil {
		info.DateOfBirth = strings.TrimSpace(m[1])
	}
	if m := e.patterns.patientGender.FindStringSubmatch(raw); m != nil {
		info.Gender = strings.ToLower(m[1])
	}
	if m := e.patterns.patientMRN.FindStringSubmatch(raw); m != nil {
		info.MedicalRecordNumber = m[1]
	}

	if info.Empty() {
		return nil
	}
	return info
}

// isPlaceholderName reports whether every token of a candidate patient name
// is in the exclusion vocabulary. Sample documents carry placeholder names
// (Jane Smith, John Doe) that must never leak into extraction output.
func (e *Engine) isPlaceholderName(name string) bool {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if !e.corpus.IsExcluded(strings.Trim(f, ".,")) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Vitals
// ---------------------------------------------------------------------------

func (e *Engine) extractVitals(raw string) *medical.Vitals {
	v := &medical.Vitals{}

	if m := e.patterns.bloodPressure.FindStringSubmatch(raw); m != nil {
		v.BloodPressure = strings.ReplaceAll(m[1], " ", "") + " mmHg"
	}
	if m := e.patterns.heartRate.FindStringSubmatch(raw); m != nil {
		v.HeartRate = m[1] + " bpm"
	}
	if m := e.patterns.temperature.FindStringSubmatch(raw); m != nil {
		unit := strings.ToUpper(m[2])
		if unit == "" {
			unit = "F"
		}
		v.Temperature = m[1] + " " + unit
	}
	if m := e.patterns.respiratoryRate.FindStringSubmatch(raw); m != nil {
		v.RespiratoryRate = m[1] + " /min"
	}
	if m := e.patterns.oxygenSat.FindStringSubmatch(raw); m != nil {
		v.OxygenSaturation = m[1] + "%"
	}
	if m := e.patterns.weight.FindStringSubmatch(raw); m != nil {
		v.Weight = strings.TrimSpace(m[1])
	}
	if m := e.patterns.height.FindStringSubmatch(raw); m != nil {
		v.Height = strings.TrimSpace(m[1])
	}
	if m := e.patterns.bmi.FindStringSubmatch(raw); m != nil {
		v.BMI = m[1]
	}

	if v.Empty() {
		return nil
	}
	return v
}

// ---------------------------------------------------------------------------
// Section scanning
// ---------------------------------------------------------------------------

// sectionBody collects the list items belonging to a section: anything on
// the header line after the colon, then subsequent lines until the next
// section header or a blank line. Bullet markers are stripped and inline
// comma lists are split.
func (e *Engine) sectionBody(lines []string, header *regexp.Regexp) []string {
	var items []string
	for i, line := range lines {
		m := header.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if rest := strings.TrimSpace(m[1]); rest != "" {
			items = append(items, splitList(rest)...)
		}
		for j := i + 1; j < len(lines); j++ {
			next := lines[j]
			if next == "" || e.patterns.sectionHeader.MatchString(next) {
				break
			}
			items = append(items, splitList(strings.TrimLeft(next, "-* \t"))...)
		}
		break
	}
	return items
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Medical history
// ---------------------------------------------------------------------------

func (e *Engine) extractMedicalHistory(lines []string) *medical.MedicalHistory {
	h := &medical.MedicalHistory{
		PastMedicalHistory: []string{},
		FamilyHistory:      []string{},
		SocialHistory:      []string{},
		SurgicalHistory:    []string{},
		Allergies:          []string{},
		ChronicConditions:  []string{},
	}

	h.PastMedicalHistory = append(h.PastMedicalHistory, e.sectionBody(lines, e.patterns.pastHistory)...)
	h.FamilyHistory = append(h.FamilyHistory, e.sectionBody(lines, e.patterns.familyHistory)...)
	h.SocialHistory = append(h.SocialHistory, e.sectionBody(lines, e.patterns.socialHistory)...)
	h.SurgicalHistory = append(h.SurgicalHistory, e.sectionBody(lines, e.patterns.surgicalHistory)...)
	h.Allergies = append(h.Allergies, e.sectionBody(lines, e.patterns.allergies)...)
	h.ChronicConditions = append(h.ChronicConditions, e.sectionBody(lines, e.patterns.chronicCond)...)

	if h.Empty() {
		return nil
	}
	return h
}

// ---------------------------------------------------------------------------
// Concomitant medications
// ---------------------------------------------------------------------------

// extractConcomitantMedications parses a "current medications" section line
// by line. Each line is split on a name+dosage pattern, an indication is
// split off a trailing " - " separator, and the frequency is resolved from
// the fixed vocabulary with "as directed" as the fallback.
func (e *Engine) extractConcomitantMedications(lines []string) []medical.ConcomitantMedication {
	var meds []medical.ConcomitantMedication

	inSection := false
	for _, line := range lines {
		if m := e.patterns.currentMeds.FindStringSubmatch(line); m != nil {
			inSection = true
			if rest := strings.TrimSpace(m[1]); rest != "" {
				if med, ok := e.parseConcomitantLine(rest); ok {
					meds = append(meds, med)
				}
			}
			continue
		}
		if !inSection {
			continue
		}
		if line == "" || e.patterns.sectionHeader.MatchString(line) {
			break
		}
		if med, ok := e.parseConcomitantLine(line); ok {
			meds = append(meds, med)
		}
	}
	return meds
}

func (e *Engine) parseConcomitantLine(line string) (medical.ConcomitantMedication, bool) {
	m := e.patterns.concomitantLine.FindStringSubmatch(line)
	if m == nil {
		return medical.ConcomitantMedication{}, false
	}

	name := strings.ToLower(m[1])
	if e.corpus.IsExcluded(name) {
		return medical.ConcomitantMedication{}, false
	}

	med := medical.ConcomitantMedication{
		Medication: name,
		Dosage:     strings.TrimSpace(m[2]),
		Frequency:  e.corpus.MatchFrequency(line),
	}
	if idx := strings.LastIndex(m[3], " - "); idx >= 0 {
		med.Indication = strings.TrimSpace(m[3][idx+3:])
	}
	return med, true
}

// ---------------------------------------------------------------------------
// Lab results
// ---------------------------------------------------------------------------

func (e *Engine) extractLabResults(raw string) []medical.LabResult {
	var results []medical.LabResult
	for _, lab := range e.patterns.labs {
		m := lab.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		unit := m[2]
		if unit == "" {
			unit = lab.defaultUnit
		}
		results = append(results, medical.LabResult{
			TestName: lab.name,
			Value:    m[1],
			Unit:     unit,
		})
	}
	return results
}

// ---------------------------------------------------------------------------
// Assessment / plan
// ---------------------------------------------------------------------------

// extractAssessment parses the numbered list under an assessment header.
// The first numbered item becomes the primary diagnosis and later items
// secondary diagnoses; lines led by a treatment verb go to the plan no
// matter which item they sit under.
func (e *Engine) extractAssessment(lines []string) *medical.Assessment {
	a := &medical.Assessment{}

	inSection := false
	for _, line := range lines {
		if m := e.patterns.assessment.FindStringSubmatch(line); m != nil {
			inSection = true
			if rest := strings.TrimSpace(m[1]); rest != "" {
				e.assessmentLine(a, rest)
			}
			continue
		}
		if !inSection {
			continue
		}
		if line == "" || e.patterns.sectionHeader.MatchString(line) {
			break
		}
		e.assessmentLine(a, line)
	}

	// A standalone "Plan:" section contributes treatment and follow-up
	// lines without touching the diagnoses.
	inPlan := false
	for _, line := range lines {
		if m := e.patterns.plan.FindStringSubmatch(line); m != nil && !e.patterns.assessment.MatchString(line) {
			inPlan = true
			if rest := strings.TrimSpace(m[1]); rest != "" {
				e.planLine(a, rest)
			}
			continue
		}
		if !inPlan {
			continue
		}
		if line == "" || e.patterns.sectionHeader.MatchString(line) {
			break
		}
		e.planLine(a, line)
	}

	if a.Empty() {
		return nil
	}
	return a
}

func (e *Engine) planLine(a *medical.Assessment, line string) {
	if e.patterns.followUp.MatchString(line) {
		a.FollowUpInstructions = append(a.FollowUpInstructions, strings.TrimSpace(line))
		return
	}
	if e.patterns.planVerb.MatchString(line) {
		a.TreatmentPlan = append(a.TreatmentPlan, stripItemNumber(line))
	}
}

func (e *Engine) assessmentLine(a *medical.Assessment, line string) {
	if e.patterns.followUp.MatchString(line) {
		a.FollowUpInstructions = append(a.FollowUpInstructions, strings.TrimSpace(line))
		return
	}
	if e.patterns.planVerb.MatchString(line) {
		a.TreatmentPlan = append(a.TreatmentPlan, stripItemNumber(line))
		return
	}
	if m := e.patterns.numberedItem.FindStringSubmatch(line); m != nil {
		item := strings.TrimSpace(m[1])
		if a.PrimaryDiagnosis == "" {
			a.PrimaryDiagnosis = item
		} else {
			a.SecondaryDiagnoses = append(a.SecondaryDiagnoses, item)
		}
	}
}

func stripItemNumber(line string) string {
	if m := regexpNumberedPrefix.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(line)
}

// ---------------------------------------------------------------------------
// Prescriber
// ---------------------------------------------------------------------------

func (e *Engine) extractPrescriber(raw string) *medical.Prescriber {
	p := &medical.Prescriber{}

	if m := e.patterns.prescriberName.FindStringSubmatch(raw); m != nil {
		p.Name = strings.TrimSpace(m[1])
	}
	if m := e.patterns.prescriberNPI.FindStringSubmatch(raw); m != nil {
		p.NPI = m[1]
	}
	if m := e.patterns.clinic.FindStringSubmatch(raw); m != nil {
		p.Clinic = strings.TrimSpace(m[1])
	}
	if m := e.patterns.specialty.FindStringSubmatch(raw); m != nil {
		p.Specialty = strings.TrimSpace(m[1])
	}
	if m := e.patterns.contact.FindStringSubmatch(raw); m != nil {
		p.Contact = strings.TrimSpace(m[1])
	}

	if p.Empty() {
		return nil
	}
	return p
}

// ---------------------------------------------------------------------------
// Document classification
// ---------------------------------------------------------------------------

// classifyDocument applies keyword rules in order; the first match wins and
// the default is "other".
func (e *Engine) classifyDocument(raw string) *medical.DocumentInfo {
	lower := strings.ToLower(raw)

	docType := medical.DocumentOther
	confidence := 0.0
	switch {
	case strings.Contains(lower, "prescription") || strings.Contains(lower, "rx:") || strings.Contains(lower, "rx #"):
		docType = medical.DocumentPrescription
		confidence = 0.9
	case strings.Contains(lower, "discharge"):
		docType = medical.DocumentDischargeSummary
		confidence = 0.9
	case strings.Contains(lower, "lab") && strings.Contains(lower, "result"):
		docType = medical.DocumentLabReport
		confidence = 0.8
	case strings.Contains(lower, "assessment") || strings.Contains(lower, "diagnosis") ||
		strings.Contains(lower, "medical history") || strings.Contains(lower, "chief complaint"):
		docType = medical.DocumentMedicalReport
		confidence = 0.7
	}

	doc := &medical.DocumentInfo{Type: docType, Confidence: confidence}
	if m := e.patterns.documentDate.FindStringSubmatch(raw); m != nil {
		doc.Date = strings.TrimSpace(m[1])
	}
	if m := e.patterns.facility.FindStringSubmatch(raw); m != nil {
		doc.Facility = strings.TrimSpace(m[1])
	}

	if doc.Type == medical.DocumentOther && doc.Date == "" && doc.Facility == "" {
		return nil
	}
	return doc
}

// ---------------------------------------------------------------------------
// Free-text passes
// ---------------------------------------------------------------------------

func (e *Engine) extractSymptoms(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, m := range e.patterns.symptomsLabel.FindAllStringSubmatch(raw, -1) {
		for _, item := range splitList(m[1]) {
			add(item)
		}
	}
	lower := strings.ToLower(raw)
	for _, symptom := range e.corpus.Symptoms() {
		if strings.Contains(lower, symptom) {
			add(symptom)
		}
	}
	return out
}

func (e *Engine) extractClinicalNotes(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range e.patterns.notesLabel.FindAllStringSubmatch(raw, -1) {
		note := strings.TrimSpace(m[1])
		if note == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(note)]; dup {
			continue
		}
		seen[strings.ToLower(note)] = struct{}{}
		out = append(out, note)
	}
	return out
}

func (e *Engine) extractDosageRegimen(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range e.patterns.instructionLine.FindAllStringSubmatch(raw, -1) {
		instr := strings.TrimSpace(m[1])
		key := strings.ToLower(instr)
		if instr == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, instr)
	}
	return out
}

func (e *Engine) extractRxIndications(raw string) []string {
	lower := strings.ToLower(raw)
	var out []string
	for _, condition := range e.corpus.Conditions() {
		if strings.Contains(lower, "for "+condition) ||
			strings.Contains(lower, "treatment of "+condition) {
			out = append(out, condition)
		}
	}
	return out
}
