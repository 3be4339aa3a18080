package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRoomUseCase struct {
	mock.Mock
}

func (m *MockRoomUseCase) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	args := m.Called(ctx, checkIn, checkOut)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomUseCase) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomUseCase) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomUseCase) IsAvailableExcluding(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut, excludeBookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomUseCase) SetAvailability(ctx context.Context, roomID int64, available bool) error {
	args := m.Called(ctx, roomID, available)
	return args.Error(0)
}

func TestRoomHandler_listAvailable(t *testing.T) {
	mockService := &MockRoomUseCase{}
	handler := NewRoomHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/rooms/available?check_in=2026-03-06&check_out=2026-03-09", nil)

	checkIn := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	mockService.On("ListAvailable", c.Request.Context(), checkIn, checkOut).Return([]domain.Room{
		{ID: 7, Number: "204", Available: true, RoomType: domain.RoomType{Name: "Deluxe", PricePerNight: 100, Capacity: 2}},
	}, nil)

	handler.listAvailable(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []roomResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	if assert.Len(t, response, 1) {
		assert.Equal(t, "204", response[0].Number)
		assert.Equal(t, "Deluxe", response[0].Type)
		assert.Equal(t, 100.0, response[0].PricePerNight)
	}
	mockService.AssertExpectations(t)
}

func TestRoomHandler_listAvailable_badRange(t *testing.T) {
	mockService := &MockRoomUseCase{}
	handler := NewRoomHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/rooms/available?check_in=2026-03-09&check_out=2026-03-06", nil)

	handler.listAvailable(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListAvailable")
}

func TestRoomHandler_get_notFound(t *testing.T) {
	mockService := &MockRoomUseCase{}
	handler := NewRoomHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/api/rooms/99", nil)

	mockService.On("GetByID", c.Request.Context(), int64(99)).Return(nil, domain.NotFoundf("room 99 not found"))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
