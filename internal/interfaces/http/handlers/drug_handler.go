package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/pkg/errors"
)

// DrugHandler serves drug-name validation.
type DrugHandler struct {
	service *analysis.Service
}

// NewDrugHandler builds a DrugHandler.
func NewDrugHandler(service *analysis.Service) *DrugHandler {
	return &DrugHandler{service: service}
}

type validateRequest struct {
	Name string `json:"name"`
}

// Validate handles POST /api/v1/drugs/validate with a JSON body {"name": ...}.
func (h *DrugHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("request body must be JSON with a \"name\" field"))
		return
	}
	if req.Name == "" {
		respondError(c, errors.InvalidParam("name is required"))
		return
	}
	c.JSON(http.StatusOK, h.service.ValidateDrugName(req.Name))
}
