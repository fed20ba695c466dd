package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/application/analysis"
)

// AnalysisHandler serves stored analysis history.
type AnalysisHandler struct {
	service *analysis.Service
}

// NewAnalysisHandler builds an AnalysisHandler.
func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// List handles GET /api/v1/analyses.
func (h *AnalysisHandler) List(c *gin.Context) {
	limit, offset := parseListParams(c)
	records, err := h.service.ListAnalyses(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": records,
		"limit":    limit,
		"offset":   offset,
	})
}

// Get handles GET /api/v1/analyses/:id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	record, err := h.service.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
