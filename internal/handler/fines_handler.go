package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/service"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// FinesHandler exposes fine settlement endpoints.
type FinesHandler struct {
	fines *service.FinesService
}

// NewFinesHandler constructs handler.
func NewFinesHandler(fines *service.FinesService) *FinesHandler {
	return &FinesHandler{fines: fines}
}

// Pay godoc
// @Summary Mark a loan's fine as paid
// @Tags Fines
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Envelope
// @Router /loans/{id}/fine/pay [post]
func (h *FinesHandler) Pay(c *gin.Context) {
	loan, err := h.fines.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loan, nil)
}

// Waive godoc
// @Summary Waive a loan's fine with a reason
// @Tags Fines
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param payload body service.WaiveRequest true "Waive payload"
// @Success 200 {object} response.Envelope
// @Router /loans/{id}/fine/waive [post]
func (h *FinesHandler) Waive(c *gin.Context) {
	var req service.WaiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	loan, err := h.fines.Waive(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loan, nil)
}

// Unpay godoc
// @Summary Revert a settled fine back to pending
// @Tags Fines
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Envelope
// @Router /loans/{id}/fine/unpay [post]
func (h *FinesHandler) Unpay(c *gin.Context) {
	loan, err := h.fines.Unpay(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loan, nil)
}

// ListPatronFines godoc
// @Summary List a patron's pending fines
// @Tags Fines
// @Produce json
// @Param code path string true "Patron code"
// @Success 200 {object} response.Envelope
// @Router /patrons/{code}/fines [get]
func (h *FinesHandler) ListPatronFines(c *gin.Context) {
	fines, err := h.fines.ListPatronFines(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fines, nil)
}
