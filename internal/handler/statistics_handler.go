package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/service"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// StatisticsHandler exposes the yearly borrow-statistics report.
type StatisticsHandler struct {
	statistics *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(statistics *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

// Yearly godoc
// @Summary Yearly borrow counts per Dewey range
// @Tags Statistics
// @Produce json
// @Param year query int false "Year, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Yearly(c *gin.Context) {
	year, err := h.year(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	matrix, err := h.statistics.YearlyMatrix(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, matrix, nil)
}

// ExportCSV godoc
// @Summary Export yearly statistics as CSV
// @Tags Statistics
// @Produce text/csv
// @Param year query int false "Year, defaults to current"
// @Success 200 {string} string "CSV content"
// @Router /statistics/export/csv [get]
func (h *StatisticsHandler) ExportCSV(c *gin.Context) {
	year, err := h.year(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.statistics.ExportCSV(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="statistics.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Export yearly statistics as PDF
// @Tags Statistics
// @Produce application/pdf
// @Param year query int false "Year, defaults to current"
// @Success 200 {string} string "PDF content"
// @Router /statistics/export/pdf [get]
func (h *StatisticsHandler) ExportPDF(c *gin.Context) {
	year, err := h.year(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.statistics.ExportPDF(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="statistics.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *StatisticsHandler) year(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "year must be a number")
	}
	return year, nil
}
