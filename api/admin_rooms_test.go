package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAdminRoomHandler_setAvailability(t *testing.T) {
	mockService := &MockRoomUseCase{}
	handler := NewAdminRoomHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("PUT", "/api/admin/rooms/7/availability", bytes.NewReader([]byte(`{"available":false}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("SetAvailability", c.Request.Context(), int64(7), false).Return(nil)

	handler.setAvailability(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestAdminRoomHandler_setAvailability_missingFlag(t *testing.T) {
	mockService := &MockRoomUseCase{}
	handler := NewAdminRoomHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("PUT", "/api/admin/rooms/7/availability", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.setAvailability(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SetAvailability")
}

func TestAdminRoomHandler_setAvailability_roomNotFound(t *testing.T) {
	mockService := &MockRoomUseCase{}
	handler := NewAdminRoomHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("PUT", "/api/admin/rooms/99/availability", bytes.NewReader([]byte(`{"available":true}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("SetAvailability", c.Request.Context(), int64(99), true).
		Return(domain.NotFoundf("room 99 not found"))

	handler.setAvailability(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
