// Package extraction implements the medical entity extraction engine: the
// chain that turns noisy OCR text into structured medication, demographic,
// vitals, history, lab and assessment fields.
package extraction

import (
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Default vocabularies
// ---------------------------------------------------------------------------

// defaultKnownDrugs lists common generic names plus intentionally-included
// OCR misspellings (funicillin is the classic penicillin-class variant) so
// the dictionary pass tolerates recognition noise.
var defaultKnownDrugs = []string{
	"acetaminophen", "albuterol", "alprazolam", "amlodipine", "amoxicillin",
	"ampicillin", "aspirin", "atorvastatin", "azithromycin", "carvedilol",
	"cephalexin", "ciprofloxacin", "citalopram", "clopidogrel", "codeine",
	"doxycycline", "duloxetine", "escitalopram", "fluoxetine", "funicillin",
	"furosemide", "gabapentin", "hydrochlorothiazide", "ibuprofen", "insulin",
	"levothyroxine", "lisinopril", "losartan", "meloxicam", "metformin",
	"metoprolol", "montelukast", "morphine", "naproxen", "omeprazole",
	"pantoprazole", "paracetamol", "penicillin", "prednisone", "rosuvastatin",
	"sertraline", "simvastatin", "tramadol", "trazodone", "venlafaxine",
	"warfarin",
}

// defaultExcludedWords are non-drug tokens that frequently survive naive
// capitalized-word patterns: document boilerplate, instruction words and
// common person names.
var defaultExcludedWords = []string{
	// document boilerplate
	"date", "patient", "name", "dob", "age", "gender", "sex", "mrn",
	"doctor", "prescriber", "physician", "provider", "pharmacy", "clinic",
	"hospital", "facility", "label", "prescription", "medication",
	"medications", "refill", "refills", "quantity", "directions",
	"instructions", "signature", "warnings", "warning", "notes", "note",
	"assessment", "plan", "history", "allergies", "vitals", "diagnosis",
	// instruction vocabulary
	"take", "apply", "tablet", "tablets", "capsule", "capsules", "pill",
	"pills", "daily", "twice", "once", "with", "food", "water", "morning",
	"evening", "night", "bedtime", "before", "after", "meals", "needed",
	// common person and place names seen on sample documents
	"john", "jane", "smith", "doe", "mary", "james", "robert", "michael",
	"david", "linda", "main", "street", "avenue",
}

// defaultConditions are medical conditions users commonly mistype into the
// drug lookup. They are rejected by the validator and the extraction gate.
var defaultConditions = []string{
	"anxiety", "arthritis", "asthma", "bronchitis", "cancer", "copd",
	"depression", "diabetes", "fibromyalgia", "gerd", "gout", "hyperlipidemia",
	"hypertension", "hyperthyroidism", "hypothyroidism", "insomnia",
	"migraine", "obesity", "osteoporosis", "pneumonia",
}

// defaultSuffixes are pharmaceutical name endings, longest first so the
// most specific suffix matches before a shorter one contained in it.
var defaultSuffixes = []string{
	"floxacin", "cycline", "sartan", "statin", "illin", "mycin",
	"pril", "zole", "pine", "dine", "lone", "sone",
	"mab", "nib", "tib", "ine", "ide", "ate", "ium", "ol",
}

// defaultPrefixes are common pharmaceutical name beginnings used by the
// drug-name validator.
var defaultPrefixes = []string{
	"amox", "ampi", "ator", "azith", "ceph", "cipro", "clari", "dexa",
	"doxy", "fluox", "hydro", "levo", "metro", "predni", "sulfa",
}

// defaultFrequencies is the frequency vocabulary for concomitant-medication
// lines, matched by substring in order.
var defaultFrequencies = []string{
	"once daily", "twice daily", "three times daily", "four times daily",
	"every morning", "every evening", "at bedtime", "every 4 hours",
	"every 6 hours", "every 8 hours", "every 12 hours", "once weekly",
	"bid", "tid", "qid", "prn", "as needed",
}

// defaultSymptoms is a small vocabulary for the symptom scan pass.
var defaultSymptoms = []string{
	"chest pain", "cough", "diarrhea", "dizziness", "fatigue", "fever",
	"headache", "nausea", "rash", "shortness of breath", "sore throat",
	"swelling", "vomiting",
}

// DefaultFrequencyFallback is used when no frequency vocabulary entry
// matches a concomitant-medication line.
const DefaultFrequencyFallback = "as directed"

// ---------------------------------------------------------------------------
// Corpus
// ---------------------------------------------------------------------------

// CorpusConfig supplies the vocabularies for a Corpus. Zero-value fields
// fall back to the built-in defaults, so tests can override a single list.
type CorpusConfig struct {
	KnownDrugs    []string
	FDAApproved   []string // empty: KnownDrugs doubles as the approved set
	ExcludedWords []string
	Conditions    []string
	Suffixes      []string
	Prefixes      []string
	Frequencies   []string
	Symptoms      []string
}

// Corpus holds the read-only vocabularies shared by the extraction engine
// and the drug-name validator. It is built once and never mutated, so it is
// safe for concurrent use.
type Corpus struct {
	knownDrugs    map[string]struct{}
	fdaApproved   map[string]struct{}
	excludedWords map[string]struct{}
	conditions    map[string]struct{}
	suffixes      []string
	prefixes      []string
	frequencies   []string
	symptoms      []string

	sortedDrugs      []string
	sortedConditions []string
}

// NewCorpus builds an immutable Corpus from cfg.
func NewCorpus(cfg CorpusConfig) *Corpus {
	if len(cfg.KnownDrugs) == 0 {
		cfg.KnownDrugs = defaultKnownDrugs
	}
	if len(cfg.FDAApproved) == 0 {
		cfg.FDAApproved = cfg.KnownDrugs
	}
	if len(cfg.ExcludedWords) == 0 {
		cfg.ExcludedWords = defaultExcludedWords
	}
	if len(cfg.Conditions) == 0 {
		cfg.Conditions = defaultConditions
	}
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = defaultSuffixes
	}
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = defaultPrefixes
	}
	if len(cfg.Frequencies) == 0 {
		cfg.Frequencies = defaultFrequencies
	}
	if len(cfg.Symptoms) == 0 {
		cfg.Symptoms = defaultSymptoms
	}

	c := &Corpus{
		knownDrugs:    toLowerSet(cfg.KnownDrugs),
		fdaApproved:   toLowerSet(cfg.FDAApproved),
		excludedWords: toLowerSet(cfg.ExcludedWords),
		conditions:    toLowerSet(cfg.Conditions),
		suffixes:      append([]string(nil), cfg.Suffixes...),
		prefixes:      append([]string(nil), cfg.Prefixes...),
		frequencies:   append([]string(nil), cfg.Frequencies...),
		symptoms:      append([]string(nil), cfg.Symptoms...),
	}
	c.sortedDrugs = sortedKeys(c.knownDrugs)
	c.sortedConditions = sortedKeys(c.conditions)
	return c
}

// DefaultCorpus returns a Corpus populated with the built-in vocabularies.
func DefaultCorpus() *Corpus {
	return NewCorpus(CorpusConfig{})
}

// IsKnownDrug reports whether name (lowercase) is in the known-drugs set.
func (c *Corpus) IsKnownDrug(name string) bool {
	_, ok := c.knownDrugs[name]
	return ok
}

// IsFDAApproved reports whether name (lowercase) is in the approved set.
func (c *Corpus) IsFDAApproved(name string) bool {
	_, ok := c.fdaApproved[name]
	return ok
}

// IsExcluded reports whether word (lowercase) is a known non-drug token.
func (c *Corpus) IsExcluded(word string) bool {
	_, ok := c.excludedWords[word]
	return ok
}

// IsCondition reports whether word (lowercase) is a medical condition.
func (c *Corpus) IsCondition(word string) bool {
	_, ok := c.conditions[word]
	return ok
}

// HasDrugSuffix reports whether word (lowercase) ends in a pharmaceutical
// suffix. Words shorter than four characters never match.
func (c *Corpus) HasDrugSuffix(word string) bool {
	if len(word) < 4 {
		return false
	}
	for _, suffix := range c.suffixes {
		if len(word) > len(suffix) && word[len(word)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

// HasDrugPrefix reports whether word (lowercase) starts with a known
// pharmaceutical prefix.
func (c *Corpus) HasDrugPrefix(word string) bool {
	for _, prefix := range c.prefixes {
		if len(word) > len(prefix) && word[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// MatchFrequency resolves a dosing frequency from line via substring match
// against the frequency vocabulary, falling back to "as directed".
func (c *Corpus) MatchFrequency(line string) string {
	for _, freq := range c.frequencies {
		if containsFold(line, freq) {
			return freq
		}
	}
	return DefaultFrequencyFallback
}

// KnownDrugs returns the known-drug names in sorted order.
func (c *Corpus) KnownDrugs() []string {
	return c.sortedDrugs
}

// Conditions returns the condition names in sorted order.
func (c *Corpus) Conditions() []string {
	return c.sortedConditions
}

// Symptoms returns the symptom vocabulary.
func (c *Corpus) Symptoms() []string {
	return c.symptoms
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toLowerSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
