// Package analysis orchestrates the prescription analysis pipeline: file
// checks, the OCR provider race, entity extraction, structured parsing,
// primary-medication resolution and the best-effort persistence fan-out.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/extraction"
	"github.com/rxlens/rxlens/internal/fda"
	"github.com/rxlens/rxlens/internal/infrastructure/database/postgres/repositories"
	"github.com/rxlens/rxlens/internal/infrastructure/database/redis"
	"github.com/rxlens/rxlens/internal/infrastructure/messaging/kafka"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/internal/infrastructure/storage/minio"
	"github.com/rxlens/rxlens/internal/ocr"
	"github.com/rxlens/rxlens/internal/parsing"
	"github.com/rxlens/rxlens/internal/validation"
	"github.com/rxlens/rxlens/pkg/errors"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// minTextLength is the minimum input for the text-only analysis path.
const minTextLength = 10

// warmMedications are pre-loaded into the medication-info cache on startup.
var warmMedications = []string{
	"funicillin", "amoxicillin", "lisinopril", "metformin",
	"aspirin", "ibuprofen", "acetaminophen", "atorvastatin",
	"omeprazole", "prednisone", "albuterol", "warfarin",
}

// sampleText is a synthetic prescription used by the self-test endpoint.
const sampleText = "PRESCRIPTION LABEL\n" +
	"Patient: John Doe\n" +
	"Date: 12/15/2024\n\n" +
	"FUNICILLIN 500MG\n" +
	"Take twice daily with food\n\n" +
	"METFORMIN 1000MG\n" +
	"Take once daily in morning\n\n" +
	"Dr. Smith, MD\n"

// Analysis is one completed analysis: the winning OCR result plus every
// extraction product.
type Analysis struct {
	ID                string                             `json:"id"`
	ImageHash         string                             `json:"imageHash"`
	Provider          string                             `json:"provider"`
	Confidence        float64                            `json:"confidence"`
	RawText           string                             `json:"rawText"`
	Extracted         *medical.ExtractedMedicalInfo      `json:"extracted"`
	Entities          *medical.StructuredMedicalEntities `json:"entities"`
	PrimaryMedication string                             `json:"primaryMedication,omitempty"`
	CreatedAt         time.Time                          `json:"createdAt"`
}

// Deps carries the collaborators for NewService. Cache, Repo, Images and
// Publisher are optional: a nil value degrades that concern to a no-op so
// the pipeline keeps working on partial infrastructure.
type Deps struct {
	Race      *ocr.Race
	Engine    *extraction.Engine
	Parser    *parsing.Parser
	Validator *validation.Validator
	FDA       *fda.Client

	Cache     redis.Cache
	Repo      repositories.AnalysisRepository
	Images    minio.ImageStore
	Publisher kafka.Publisher

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics
}

// Service is the application-layer entry point for every analysis
// operation.
type Service struct {
	cfg    config.UploadConfig
	deps   Deps
	events bool
}

// NewService builds a Service. Engine, Parser and Validator fall back to
// defaults when nil; Race may be nil only if callers never analyze images.
func NewService(cfg config.UploadConfig, deps Deps) *Service {
	events := deps.Publisher != nil
	if deps.Engine == nil {
		deps.Engine = extraction.NewEngine(nil, deps.Logger, deps.Metrics)
	}
	if deps.Parser == nil {
		deps.Parser = parsing.NewParser(nil, nil, deps.Logger, deps.Metrics)
	}
	if deps.Validator == nil {
		deps.Validator = validation.NewValidator(deps.Engine.Corpus(), deps.Logger, deps.Metrics)
	}
	if deps.Publisher == nil {
		deps.Publisher = kafka.NewNopPublisher()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = prometheus.NewNopAppMetrics()
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = config.DefaultMaxFileSize
	}
	return &Service{cfg: cfg, deps: deps, events: events}
}

// Capabilities describes which pipeline stages a deployment can serve.
type Capabilities struct {
	OCRProviders   []string `json:"ocr_providers"`
	RemoteParsing  bool     `json:"remote_parsing"`
	MedicationInfo bool     `json:"medication_info"`
	Cache          bool     `json:"cache"`
	History        bool     `json:"history"`
	ImageArchive   bool     `json:"image_archive"`
	EventStream    bool     `json:"event_stream"`
	MaxFileSize    int64    `json:"max_file_size"`
}

// Capabilities reports the collaborators wired into this instance.
func (s *Service) Capabilities() Capabilities {
	caps := Capabilities{
		OCRProviders:   []string{},
		RemoteParsing:  s.deps.Parser.RemoteEnabled(),
		MedicationInfo: s.deps.FDA != nil,
		Cache:          s.deps.Cache != nil,
		History:        s.deps.Repo != nil,
		ImageArchive:   s.deps.Images != nil,
		EventStream:    s.events,
		MaxFileSize:    s.cfg.MaxFileSize,
	}
	if s.deps.Race != nil {
		caps.OCRProviders = s.deps.Race.ProviderNames()
	}
	return caps
}

// ---------------------------------------------------------------------------
// Image analysis
// ---------------------------------------------------------------------------

// AnalyzeImage runs the full pipeline over an uploaded file. Identical
// images short-circuit through the cache without consulting any OCR
// provider.
func (s *Service) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*Analysis, error) {
	if err := s.checkUpload(data, mimeType); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	cacheKey := "analysis:" + hash

	if s.deps.Cache != nil {
		var cached Analysis
		if err := s.deps.Cache.Get(ctx, cacheKey, &cached); err == nil {
			s.deps.Metrics.CacheHitsTotal.WithLabelValues("analysis").Inc()
			return &cached, nil
		}
		s.deps.Metrics.CacheMissesTotal.WithLabelValues("analysis").Inc()
	}

	if s.deps.Race == nil {
		return nil, errors.New(errors.ErrCodeOCREngineUnavailable, "no OCR providers are configured")
	}
	res, err := s.deps.Race.Run(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}

	analysis := s.analyzeText(ctx, res.Text, hash, res.Provider, res.Confidence)
	s.persist(ctx, analysis, data, mimeType)
	return analysis, nil
}

// AnalyzeText runs extraction and parsing over raw text, skipping OCR.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*Analysis, error) {
	if len(strings.TrimSpace(text)) < minTextLength {
		return nil, errors.Newf(errors.CodeInvalidParam,
			"text must be at least %d characters", minTextLength)
	}

	sum := sha256.Sum256([]byte(text))
	analysis := s.analyzeText(ctx, text, hex.EncodeToString(sum[:]), "text-input", 100)
	s.persist(ctx, analysis, nil, "")
	return analysis, nil
}

// AnalyzeSample analyzes the built-in sample prescription. It exercises the
// whole pipeline minus OCR, so operators can verify a deployment without an
// image in hand.
func (s *Service) AnalyzeSample(ctx context.Context) (*Analysis, error) {
	return s.AnalyzeText(ctx, sampleText)
}

func (s *Service) analyzeText(ctx context.Context, text, hash, provider string, confidence float64) *Analysis {
	extracted := s.deps.Engine.Extract(text)
	entities := s.deps.Parser.ParseStructured(ctx, text)
	primary := s.deps.Engine.ResolvePrimary(extracted)

	return &Analysis{
		ID:                uuid.NewString(),
		ImageHash:         hash,
		Provider:          provider,
		Confidence:        confidence,
		RawText:           text,
		Extracted:         extracted,
		Entities:          entities,
		PrimaryMedication: primary,
		CreatedAt:         time.Now().UTC(),
	}
}

func (s *Service) checkUpload(data []byte, mimeType string) error {
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return errors.Newf(errors.ErrCodeOCRUnsupportedMedia,
			"unsupported file type %q, upload an image or a PDF", mimeType)
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return errors.Newf(errors.ErrCodeOCRFileTooLarge,
			"file is %d bytes, the limit is %d", len(data), s.cfg.MaxFileSize)
	}
	if len(data) == 0 {
		return errors.New(errors.ErrCodeOCRInputInvalid, "uploaded file is empty")
	}
	return nil
}

// persist fans the finished analysis out to cache, database, object storage
// and the event stream. Every leg is best-effort: a failing dependency is
// logged and skipped, never surfaced to the caller.
func (s *Service) persist(ctx context.Context, a *Analysis, image []byte, mimeType string) {
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, "analysis:"+a.ImageHash, a, 0); err != nil {
			s.deps.Logger.Warn("caching analysis failed", logging.Err(err))
		}
	}
	if s.deps.Repo != nil {
		rec := &repositories.AnalysisRecord{
			ID:              a.ID,
			ImageHash:       a.ImageHash,
			Provider:        a.Provider,
			Confidence:      a.Confidence,
			MedicationCount: len(a.Extracted.Medications),
			DocumentType:    documentType(a.Extracted),
			CreatedAt:       a.CreatedAt,
		}
		if a.PrimaryMedication != "" {
			rec.PrimaryMedication = &a.PrimaryMedication
		}
		if err := s.deps.Repo.Save(ctx, rec); err != nil {
			s.deps.Logger.Warn("saving analysis failed", logging.Err(err))
		}
	}
	if s.deps.Images != nil && len(image) > 0 {
		if err := s.deps.Images.Put(ctx, a.ImageHash, mimeType, image); err != nil {
			s.deps.Logger.Warn("storing image failed", logging.Err(err))
		}
	}
	if err := s.deps.Publisher.PublishAnalysisCompleted(ctx, &kafka.AnalysisCompletedEvent{
		AnalysisID:        a.ID,
		ImageHash:         a.ImageHash,
		Provider:          a.Provider,
		Confidence:        a.Confidence,
		PrimaryMedication: a.PrimaryMedication,
		MedicationCount:   len(a.Extracted.Medications),
		DocumentType:      documentType(a.Extracted),
		CompletedAt:       a.CreatedAt,
	}); err != nil {
		s.deps.Logger.Warn("publishing analysis event failed", logging.Err(err))
	}
}

func documentType(info *medical.ExtractedMedicalInfo) string {
	if info == nil || info.DocumentInfo == nil {
		return string(medical.DocumentOther)
	}
	return string(info.DocumentInfo.Type)
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// ValidateDrugName checks a user-typed medication name.
func (s *Service) ValidateDrugName(name string) validation.Result {
	return s.deps.Validator.Check(name)
}

// GetMedicationInfo looks up medication info, caching positive answers.
func (s *Service) GetMedicationInfo(ctx context.Context, name string) (*fda.MedicationInfo, error) {
	if s.deps.FDA == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "medication lookup is not configured")
	}
	name = strings.ToLower(strings.TrimSpace(name))

	if s.deps.Cache == nil {
		return s.deps.FDA.Lookup(ctx, name)
	}

	var info fda.MedicationInfo
	err := s.deps.Cache.GetOrSet(ctx, "medication:"+name, &info, 0,
		func(ctx context.Context) (interface{}, error) {
			return s.deps.FDA.Lookup(ctx, name)
		})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetAnalysis fetches a stored analysis record by id.
func (s *Service) GetAnalysis(ctx context.Context, id string) (*repositories.AnalysisRecord, error) {
	if s.deps.Repo == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis history is not configured")
	}
	return s.deps.Repo.GetByID(ctx, id)
}

// ListAnalyses pages through stored analysis records.
func (s *Service) ListAnalyses(ctx context.Context, limit, offset int) ([]*repositories.AnalysisRecord, error) {
	if s.deps.Repo == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis history is not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.deps.Repo.List(ctx, limit, offset)
}

// WarmCache pre-loads the medication-info cache with the common
// medications. Failures are logged per medication and never abort the warm.
func (s *Service) WarmCache(ctx context.Context) {
	if s.deps.Cache == nil || s.deps.FDA == nil {
		return
	}
	for _, name := range warmMedications {
		if _, err := s.GetMedicationInfo(ctx, name); err != nil {
			s.deps.Logger.Warn("cache warm failed",
				logging.String("medication", name),
				logging.Err(err),
			)
		}
	}
	s.deps.Logger.Info("medication cache warmed",
		logging.Int("medications", len(warmMedications)),
	)
}
