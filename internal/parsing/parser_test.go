package parsing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/config"
)

func newRemoteForTest(t *testing.T, handler http.HandlerFunc) *RemoteClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteClient(config.ParsingConfig{RemoteURL: srv.URL, Timeout: time.Second}, nil)
}

func TestParserRemoteSuccess(t *testing.T) {
	remote := newRemoteForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, extractTextPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "METFORMIN 500MG", r.PostFormValue("text"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(snakeBody))
	})

	p := NewParser(remote, nil, nil, nil)
	entities := p.ParseStructured(context.Background(), "METFORMIN 500MG")

	require.Len(t, entities.Medications, 1)
	assert.Equal(t, "metformin", entities.Medications[0].Name)
	assert.Equal(t, "twice daily", entities.Medications[0].Frequency)
}

func TestParserFallsBackSilently(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"server error":   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		"malformed body": func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("{not json")) },
		"failure flag":   func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(`{"success": false}`)) },
	} {
		t.Run(name, func(t *testing.T) {
			p := NewParser(newRemoteForTest(t, handler), nil, nil, nil)
			entities := p.ParseStructured(context.Background(), "FUNICILLIN 500MG twice daily")

			// The local fallback produced the same contract, no error escaped.
			require.NotNil(t, entities)
			require.Len(t, entities.Medications, 1)
			assert.Equal(t, "funicillin", entities.Medications[0].Name)
			assert.Equal(t, "500MG", entities.Medications[0].Dosage)
		})
	}
}

func TestParserWithoutRemote(t *testing.T) {
	// An empty remote URL disables the remote path entirely.
	assert.Nil(t, NewRemoteClient(config.ParsingConfig{}, nil))

	p := NewParser(nil, nil, nil, nil)
	entities := p.ParseStructured(context.Background(), "ASPIRIN 81MG")
	require.Len(t, entities.Medications, 1)
	assert.Equal(t, "aspirin", entities.Medications[0].Name)
}
