package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
)

// fakeWriter records written messages.
type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishAnalysisCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := &producer{writer: w, logger: logging.NewNop()}

	event := &AnalysisCompletedEvent{
		AnalysisID:        "a1",
		ImageHash:         "deadbeef",
		Provider:          "tesseract",
		Confidence:        88.5,
		PrimaryMedication: "metformin",
		MedicationCount:   2,
		DocumentType:      "prescription",
	}
	require.NoError(t, p.PublishAnalysisCompleted(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, TopicAnalysisCompleted, msg.Topic)
	assert.Equal(t, []byte("deadbeef"), msg.Key)

	var decoded AnalysisCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "metformin", decoded.PrimaryMedication)
	assert.False(t, decoded.CompletedAt.IsZero())
}

func TestPublishAfterCloseFails(t *testing.T) {
	w := &fakeWriter{}
	p := &producer{writer: w, logger: logging.NewNop()}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.PublishAnalysisCompleted(context.Background(), &AnalysisCompletedEvent{ImageHash: "x"})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: assert.AnError}
	p := &producer{writer: w, logger: logging.NewNop()}

	err := p.PublishAnalysisCompleted(context.Background(), &AnalysisCompletedEvent{ImageHash: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	assert.NoError(t, p.PublishAnalysisCompleted(context.Background(), &AnalysisCompletedEvent{
		CompletedAt: time.Now(),
	}))
	assert.NoError(t, p.Close())
}
