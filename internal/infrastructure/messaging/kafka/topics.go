// Package kafka publishes and consumes analysis lifecycle events.
package kafka

import "time"

// Topic names.
const (
	// TopicAnalysisCompleted carries one event per completed prescription
	// analysis, keyed by image hash.
	TopicAnalysisCompleted = "rxlens.analysis.completed"
)

// AnalysisCompletedEvent is the payload published to TopicAnalysisCompleted.
type AnalysisCompletedEvent struct {
	AnalysisID        string    `json:"analysisId"`
	ImageHash         string    `json:"imageHash"`
	Provider          string    `json:"provider"`
	Confidence        float64   `json:"confidence"`
	PrimaryMedication string    `json:"primaryMedication,omitempty"`
	MedicationCount   int       `json:"medicationCount"`
	DocumentType      string    `json:"documentType"`
	CompletedAt       time.Time `json:"completedAt"`
}
