package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GENKAIYIEE/library-backend/internal/models"
	"github.com/GENKAIYIEE/library-backend/internal/service"
	"github.com/GENKAIYIEE/library-backend/pkg/response"
)

// LoanHandler exposes loan history and overdue queries.
type LoanHandler struct {
	loans *service.LoanService
}

// NewLoanHandler constructs handler.
func NewLoanHandler(loans *service.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

// List godoc
// @Summary List loans with filters and pagination
// @Tags Loans
// @Produce json
// @Param patronClass query string false "STUDENT or FACULTY"
// @Param assetCode query string false "Filter by asset code"
// @Param open query bool false "Only open loans"
// @Param overdue query bool false "Only overdue open loans"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	filter := loanFilterFromQuery(c)
	loans, pagination, err := h.loans.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans, pagination)
}

// History godoc
// @Summary List a patron's loan history
// @Tags Loans
// @Produce json
// @Param code path string true "Patron code"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /patrons/{code}/loans [get]
func (h *LoanHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	loans, pagination, err := h.loans.History(c.Request.Context(), c.Param("code"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans, pagination)
}

// Overdue godoc
// @Summary List open loans past their due date
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /loans/overdue [get]
func (h *LoanHandler) Overdue(c *gin.Context) {
	loans, err := h.loans.Overdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans, nil)
}

// ExportCSV godoc
// @Summary Export filtered loan history as CSV
// @Tags Loans
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /loans/export [get]
func (h *LoanHandler) ExportCSV(c *gin.Context) {
	data, err := h.loans.ExportHistoryCSV(c.Request.Context(), loanFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="loans.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportOverduePDF godoc
// @Summary Export the overdue list as PDF
// @Tags Loans
// @Produce application/pdf
// @Success 200 {string} string "PDF content"
// @Router /loans/overdue/export [get]
func (h *LoanHandler) ExportOverduePDF(c *gin.Context) {
	data, err := h.loans.ExportOverduePDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="overdue.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func loanFilterFromQuery(c *gin.Context) models.LoanFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return models.LoanFilter{
		PatronClass: models.PatronClass(c.Query("patronClass")),
		AssetCode:   c.Query("assetCode"),
		OnlyOpen:    c.Query("open") == "true",
		OnlyOverdue: c.Query("overdue") == "true",
		Page:        page,
		PageSize:    pageSize,
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}
}
