package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/models"
	"github.com/GENKAIYIEE/library-backend/internal/service"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// SettingsHandler exposes circulation policy administration.
type SettingsHandler struct {
	policy *service.PolicyService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(policy *service.PolicyService) *SettingsHandler {
	return &SettingsHandler{policy: policy}
}

type bulkSettingsRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// List godoc
// @Summary List circulation settings
// @Tags Settings
// @Produce json
// @Param group query string false "Setting group"
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.policy.List(c.Request.Context(), c.Query("group"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// BulkUpdate godoc
// @Summary Update circulation settings by key
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body bulkSettingsRequest true "Key/value pairs"
// @Success 200 {object} response.Envelope
// @Router /settings [put]
func (h *SettingsHandler) BulkUpdate(c *gin.Context) {
	var req bulkSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.policy.BulkUpdate(c.Request.Context(), req.Values)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"updated": updated}, nil)
}

// Policy godoc
// @Summary Show the effective loan policy for a patron class
// @Tags Settings
// @Produce json
// @Param class path string true "STUDENT or FACULTY"
// @Success 200 {object} response.Envelope
// @Router /settings/policy/{class} [get]
func (h *SettingsHandler) Policy(c *gin.Context) {
	class := models.PatronClass(c.Param("class"))
	if !class.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown patron class"))
		return
	}
	policy, err := h.policy.PolicyFor(c.Request.Context(), class)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policy, nil)
}
