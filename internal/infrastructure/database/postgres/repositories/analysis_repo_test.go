package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rxlens/rxlens/pkg/errors"
)

// newTestRepo connects to the database named by RXLENS_TEST_DATABASE_URL and
// skips the test when the variable is unset.  The analyses table must exist
// (run migrations first).
func newTestRepo(t *testing.T) AnalysisRepository {
	t.Helper()
	dsn := os.Getenv("RXLENS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RXLENS_TEST_DATABASE_URL not set; skipping postgres integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewAnalysisRepository(pool)
}

func TestAnalysisRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	primary := "metformin"
	rec := &AnalysisRecord{
		ID:                uuid.NewString(),
		ImageHash:         "deadbeef",
		Provider:          "tesseract",
		Confidence:        91.5,
		PrimaryMedication: &primary,
		MedicationCount:   2,
		DocumentType:      "prescription",
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ImageHash, got.ImageHash)
	assert.Equal(t, rec.Provider, got.Provider)
	assert.Equal(t, rec.Confidence, got.Confidence)
	require.NotNil(t, got.PrimaryMedication)
	assert.Equal(t, "metformin", *got.PrimaryMedication)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetByImageHashReturnsLatest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	hash := uuid.NewString()
	first := &AnalysisRecord{ID: uuid.NewString(), ImageHash: hash, Provider: "tesseract", DocumentType: "other"}
	second := &AnalysisRecord{ID: uuid.NewString(), ImageHash: hash, Provider: "remote", DocumentType: "other"}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.GetByImageHash(ctx, hash)
	require.NoError(t, err)
	assert.Contains(t, []string{first.ID, second.ID}, got.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeAnalysisNotFound))
}

func TestListAndCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &AnalysisRecord{
		ID: uuid.NewString(), ImageHash: "h", Provider: "tesseract", DocumentType: "lab_report",
	}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	recs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
}
