package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/service"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// CatalogHandler exposes title/asset registration and desk lookups.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateTitle godoc
// @Summary Register a bibliographic record
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateTitleRequest true "Title payload"
// @Success 201 {object} response.Envelope
// @Router /titles [post]
func (h *CatalogHandler) CreateTitle(c *gin.Context) {
	var req service.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	title, err := h.catalog.CreateTitle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, title)
}

// CreateAsset godoc
// @Summary Register a physical copy
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateAssetRequest true "Asset payload"
// @Success 201 {object} response.Envelope
// @Router /assets [post]
func (h *CatalogHandler) CreateAsset(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	asset, err := h.catalog.CreateAsset(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, asset)
}

// Lookup godoc
// @Summary Resolve a scanned barcode
// @Tags Catalog
// @Produce json
// @Param code path string true "Asset code"
// @Success 200 {object} response.Envelope
// @Router /barcode/{code} [get]
func (h *CatalogHandler) Lookup(c *gin.Context) {
	info, err := h.catalog.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// ListAvailable godoc
// @Summary List copies currently on the shelf
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assets/available [get]
func (h *CatalogHandler) ListAvailable(c *gin.Context) {
	assets, err := h.catalog.ListAvailable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assets, nil)
}

// ListBorrowed godoc
// @Summary List copies currently out
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assets/borrowed [get]
func (h *CatalogHandler) ListBorrowed(c *gin.Context) {
	assets, err := h.catalog.ListBorrowed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assets, nil)
}
