package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/service"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// CirculationHandler exposes the borrow/return lifecycle endpoints.
type CirculationHandler struct {
	circulation *service.CirculationService
}

// NewCirculationHandler constructs handler.
func NewCirculationHandler(circulation *service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulation: circulation}
}

type assetCodeRequest struct {
	AssetCode string `json:"asset_code" binding:"required"`
}

// Borrow godoc
// @Summary Borrow an asset for a patron
// @Tags Circulation
// @Accept json
// @Produce json
// @Param payload body service.BorrowRequest true "Borrow payload"
// @Success 201 {object} response.Envelope
// @Router /circulation/borrow [post]
func (h *CirculationHandler) Borrow(c *gin.Context) {
	var req service.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.circulation.Borrow(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Return godoc
// @Summary Return a borrowed asset
// @Tags Circulation
// @Accept json
// @Produce json
// @Param payload body assetCodeRequest true "Asset code"
// @Success 200 {object} response.Envelope
// @Router /circulation/return [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	var req assetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.circulation.Return(c.Request.Context(), req.AssetCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// MarkLost godoc
// @Summary Mark a borrowed asset as lost
// @Tags Circulation
// @Accept json
// @Produce json
// @Param payload body assetCodeRequest true "Asset code"
// @Success 200 {object} response.Envelope
// @Router /circulation/lost [post]
func (h *CirculationHandler) MarkLost(c *gin.Context) {
	var req assetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.circulation.MarkLost(c.Request.Context(), req.AssetCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// MarkDamaged godoc
// @Summary Pull an available asset out of circulation
// @Tags Circulation
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Router /assets/{id}/damage [post]
func (h *CirculationHandler) MarkDamaged(c *gin.Context) {
	asset, err := h.circulation.MarkDamaged(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

// Repair godoc
// @Summary Return a damaged asset to circulation
// @Tags Circulation
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Router /assets/{id}/repair [post]
func (h *CirculationHandler) Repair(c *gin.Context) {
	asset, err := h.circulation.Repair(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

// Restore godoc
// @Summary Restore a lost asset once its fine is settled
// @Tags Circulation
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Router /assets/{id}/restore [post]
func (h *CirculationHandler) Restore(c *gin.Context) {
	asset, err := h.circulation.RestoreFromLost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}
