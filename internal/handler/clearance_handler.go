package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/service"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// ClearanceHandler exposes the clearance projection endpoint.
type ClearanceHandler struct {
	clearance *service.ClearanceService
}

// NewClearanceHandler constructs handler.
func NewClearanceHandler(clearance *service.ClearanceService) *ClearanceHandler {
	return &ClearanceHandler{clearance: clearance}
}

// Evaluate godoc
// @Summary Evaluate a patron's borrowing clearance
// @Tags Clearance
// @Produce json
// @Param code path string true "Patron code"
// @Success 200 {object} response.Envelope
// @Router /patrons/{code}/clearance [get]
func (h *ClearanceHandler) Evaluate(c *gin.Context) {
	report, err := h.clearance.Evaluate(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
