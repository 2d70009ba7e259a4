package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCirculationHandlerBorrowInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCirculationHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/circulation/borrow", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Borrow(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCirculationHandlerReturnMissingAssetCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCirculationHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/circulation/return", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Return(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
