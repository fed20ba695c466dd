package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/application/analysis"
)

// FDAHandler serves medication-information lookups.
type FDAHandler struct {
	service *analysis.Service
}

// NewFDAHandler builds an FDAHandler.
func NewFDAHandler(service *analysis.Service) *FDAHandler {
	return &FDAHandler{service: service}
}

// GetMedication handles GET /api/v1/fda/medication/:name.
func (h *FDAHandler) GetMedication(c *gin.Context) {
	info, err := h.service.GetMedicationInfo(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
