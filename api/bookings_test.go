package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, userID, roomID, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateWithPayment(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time, paymentMethodRef string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, roomID, checkIn, checkOut, paymentMethodRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, bookingID int64, userID, reason string) (*booking.CancellationResult, error) {
	args := m.Called(ctx, bookingID, userID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CancellationResult), args.Error(1)
}

func (m *MockBookingUseCase) GetStatus(ctx context.Context, bookingID int64, userID string) (*booking.StatusInfo, error) {
	args := m.Called(ctx, bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.StatusInfo), args.Error(1)
}

func (m *MockBookingUseCase) GetByReference(ctx context.Context, reference, userID string) (*domain.Booking, error) {
	args := m.Called(ctx, reference, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, bookingID int64, status string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Delete(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingUseCase) CompleteCheckedOut(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newBookingTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(ctxUserID, "user-1")
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	body, _ := json.Marshal(createBookingRequest{
		RoomID:   7,
		CheckIn:  "2026-03-06",
		CheckOut: "2026-03-09",
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	checkIn := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	created := &domain.Booking{
		ID:        1,
		Reference: "ref-1",
		UserID:    "user-1",
		RoomID:    7,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Nights:    3,
		TotalCost: 300,
		Status:    domain.BookingStatusPending,
	}
	mockService.On("Create", c.Request.Context(), "user-1", int64(7), checkIn, checkOut).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ref-1", response.Reference)
	assert.Equal(t, 3, response.Nights)
	assert.Equal(t, 300.0, response.TotalCost)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)

	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "CreateWithPayment")
}

func TestBookingHandler_create_withPayment(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	body, _ := json.Marshal(createBookingRequest{
		RoomID:           7,
		CheckIn:          "2026-03-06",
		CheckOut:         "2026-03-09",
		PaymentMethodRef: "pm_card_visa",
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	checkIn := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	paymentRef := "pi_123"
	created := &domain.Booking{
		ID:         1,
		Reference:  "ref-1",
		UserID:     "user-1",
		RoomID:     7,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     3,
		TotalCost:  300,
		Status:     domain.BookingStatusPending,
		PaymentRef: &paymentRef,
	}
	mockService.On("CreateWithPayment", c.Request.Context(), "user-1", int64(7), checkIn, checkOut, "pm_card_visa").Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "Create")
}

func TestBookingHandler_create_badDate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	body, _ := json.Marshal(createBookingRequest{
		RoomID:   7,
		CheckIn:  "06.03.2026",
		CheckOut: "2026-03-09",
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestBookingHandler_create_paymentFailure(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	body, _ := json.Marshal(createBookingRequest{
		RoomID:           7,
		CheckIn:          "2026-03-06",
		CheckOut:         "2026-03-09",
		PaymentMethodRef: "pm_declined",
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateWithPayment", c.Request.Context(), "user-1", int64(7),
		mock.Anything, mock.Anything, "pm_declined").
		Return(nil, domain.PaymentFailure("payment was not completed", assert.AnError))

	handler.create(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestBookingHandler_create_conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	body, _ := json.Marshal(createBookingRequest{
		RoomID:   7,
		CheckIn:  "2026-03-06",
		CheckOut: "2026-03-09",
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), "user-1", int64(7), mock.Anything, mock.Anything).
		Return(nil, domain.Conflictf("room 7 is being booked by another request"))

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "11"}}
	body, _ := json.Marshal(cancelBookingRequest{Reason: "change of plans"})
	c.Request = httptest.NewRequest("POST", "/api/bookings/11/cancel", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Cancel", c.Request.Context(), int64(11), "user-1", "change of plans").
		Return(&booking.CancellationResult{RefundAmount: 240, CancellationFee: 60}, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response cancellationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 240.0, response.RefundAmount)
	assert.Equal(t, 60.0, response.CancellationFee)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_foreignBooking(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "11"}}
	body, _ := json.Marshal(cancelBookingRequest{Reason: ""})
	c.Request = httptest.NewRequest("POST", "/api/bookings/11/cancel", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Cancel", c.Request.Context(), int64(11), "user-1", "").
		Return(nil, domain.Unauthorizedf("booking 11 does not belong to the requesting user"))

	handler.cancel(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingHandler_lookup(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Request = httptest.NewRequest("GET", "/api/bookings/lookup?reference=ref-11", nil)

	stored := &domain.Booking{
		ID:        11,
		Reference: "ref-11",
		UserID:    "user-1",
		RoomID:    7,
		Status:    domain.BookingStatusConfirmed,
	}
	mockService.On("GetByReference", c.Request.Context(), "ref-11", "user-1").Return(stored, nil)

	handler.lookup(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ref-11", response.Reference)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_lookup_missingReference(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Request = httptest.NewRequest("GET", "/api/bookings/lookup", nil)

	handler.lookup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByReference")
}

func TestBookingHandler_status(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "11"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/11/status", nil)

	mockService.On("GetStatus", c.Request.Context(), int64(11), "user-1").
		Return(&booking.StatusInfo{
			Status:             domain.BookingStatusConfirmed,
			CanCancel:          true,
			CancellationPolicy: "Free cancellation up to 7 days before check-in",
		}, nil)

	handler.status(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response statusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)
	assert.True(t, response.CanCancel)
}

func TestBookingHandler_status_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "404"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/404/status", nil)

	mockService.On("GetStatus", c.Request.Context(), int64(404), "user-1").
		Return(nil, domain.NotFoundf("booking 404 not found"))

	handler.status(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_status_badID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/abc/status", nil)

	handler.status(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetStatus")
}
