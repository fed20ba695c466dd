package parsing

import (
	"context"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// Parser is the remote-first structured parser. The fallback to the local
// parser is silent: both paths produce the same contract and ParseStructured
// never returns an error, so a caller cannot tell which path ran except via
// logs and metrics.
type Parser struct {
	remote  *RemoteClient
	local   *LocalParser
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewParser builds a Parser. remote may be nil, in which case every call
// parses locally.
func NewParser(remote *RemoteClient, local *LocalParser, log logging.Logger, metrics *prometheus.AppMetrics) *Parser {
	if local == nil {
		local = NewLocalParser(nil, log)
	}
	if log == nil {
		log = logging.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Parser{remote: remote, local: local, logger: log, metrics: metrics}
}

// RemoteEnabled reports whether a remote parser is configured.
func (p *Parser) RemoteEnabled() bool {
	return p.remote != nil
}

// ParseStructured parses ocrText into structured entities.
func (p *Parser) ParseStructured(ctx context.Context, ocrText string) *medical.StructuredMedicalEntities {
	if p.remote != nil {
		entities, err := p.remote.Parse(ctx, ocrText)
		if err == nil {
			return entities
		}
		p.metrics.ExtractionFallbacksTotal.WithLabelValues().Inc()
		p.logger.Warn("remote parse failed, falling back to local parser",
			logging.Err(err),
		)
	}
	return p.local.Parse(ocrText)
}
