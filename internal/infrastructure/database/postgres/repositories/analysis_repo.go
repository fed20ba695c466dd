// Package repositories provides PostgreSQL-backed persistence for completed
// prescription analyses.
package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appErrors "github.com/rxlens/rxlens/pkg/errors"
)

// AnalysisRecord is one row of analysis history: the durable summary of a
// completed OCR extraction.
type AnalysisRecord struct {
	ID                string    `json:"id"`
	ImageHash         string    `json:"imageHash"`
	Provider          string    `json:"provider"`
	Confidence        float64   `json:"confidence"`
	PrimaryMedication *string   `json:"primaryMedication,omitempty"`
	MedicationCount   int       `json:"medicationCount"`
	DocumentType      string    `json:"documentType"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AnalysisRepository stores and retrieves analysis history.
type AnalysisRepository interface {
	Save(ctx context.Context, rec *AnalysisRecord) error
	GetByID(ctx context.Context, id string) (*AnalysisRecord, error)
	GetByImageHash(ctx context.Context, hash string) (*AnalysisRecord, error)
	List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error)
	Count(ctx context.Context) (int64, error)
}

type analysisRepo struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository returns a pgx-backed AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool) AnalysisRepository {
	return &analysisRepo{pool: pool}
}

const analysisColumns = `id, image_hash, provider, confidence, primary_medication, medication_count, document_type, created_at`

func (r *analysisRepo) Save(ctx context.Context, rec *AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.ImageHash, rec.Provider, rec.Confidence,
		rec.PrimaryMedication, rec.MedicationCount, rec.DocumentType, rec.CreatedAt,
	)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to save analysis")
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id string) (*AnalysisRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	return scanAnalysis(row)
}

func (r *analysisRepo) GetByImageHash(ctx context.Context, hash string) (*AnalysisRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE image_hash = $1
		ORDER BY created_at DESC
		LIMIT 1`, hash)
	return scanAnalysis(row)
}

func (r *analysisRepo) List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	var out []*AnalysisRecord
	for rows.Next() {
		rec := &AnalysisRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.ImageHash, &rec.Provider, &rec.Confidence,
			&rec.PrimaryMedication, &rec.MedicationCount, &rec.DocumentType, &rec.CreatedAt,
		); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan analysis row")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate analyses")
	}
	return out, nil
}

func (r *analysisRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to count analyses")
	}
	return n, nil
}

func scanAnalysis(row pgx.Row) (*AnalysisRecord, error) {
	rec := &AnalysisRecord{}
	err := row.Scan(
		&rec.ID, &rec.ImageHash, &rec.Provider, &rec.Confidence,
		&rec.PrimaryMedication, &rec.MedicationCount, &rec.DocumentType, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, appErrors.New(appErrors.ErrCodeAnalysisNotFound, "analysis not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan analysis row")
	}
	return rec, nil
}
