package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	RoomID           int64  `json:"room_id"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	PaymentMethodRef string `json:"payment_method_ref"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type bookingResponse struct {
	ID              int64    `json:"id"`
	Reference       string   `json:"reference"`
	RoomID          int64    `json:"room_id"`
	CheckIn         string   `json:"check_in"`
	CheckOut        string   `json:"check_out"`
	Nights          int      `json:"nights"`
	TotalCost       float64  `json:"total_cost"`
	Status          string   `json:"status"`
	PaymentRef      *string  `json:"payment_ref,omitempty"`
	RefundAmount    *float64 `json:"refund_amount,omitempty"`
	CancellationFee *float64 `json:"cancellation_fee,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type cancellationResponse struct {
	RefundAmount    float64 `json:"refund_amount"`
	CancellationFee float64 `json:"cancellation_fee"`
}

type statusResponse struct {
	Status             string `json:"status"`
	CanCancel          bool   `json:"can_cancel"`
	CancellationPolicy string `json:"cancellation_policy"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/lookup", h.lookup)
	router.GET("/:id/status", h.status)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be a YYYY-MM-DD date"})
		return
	}

	userID := currentUserID(c)
	var created *domain.Booking
	if req.PaymentMethodRef != "" {
		created, err = h.service.CreateWithPayment(c.Request.Context(), userID, req.RoomID, checkIn, checkOut, req.PaymentMethodRef)
	} else {
		created, err = h.service.Create(c.Request.Context(), userID, req.RoomID, checkIn, checkOut)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// lookup resolves a booking by the opaque reference carried in
// notification emails.
func (h *BookingHandler) lookup(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference query parameter is required"})
		return
	}

	found, err := h.service.GetByReference(c.Request.Context(), reference, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) status(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	info, err := h.service.GetStatus(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		Status:             string(info.Status),
		CanCancel:          info.CanCancel,
		CancellationPolicy: info.CancellationPolicy,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), id, currentUserID(c), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cancellationResponse{
		RefundAmount:    result.RefundAmount,
		CancellationFee: result.CancellationFee,
	})
}

func bookingID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id must be an integer"})
		return 0, err
	}
	return id, nil
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		RoomID:          b.RoomID,
		CheckIn:         b.CheckIn.Format(dateLayout),
		CheckOut:        b.CheckOut.Format(dateLayout),
		Nights:          b.Nights,
		TotalCost:       b.TotalCost,
		Status:          string(b.Status),
		PaymentRef:      b.PaymentRef,
		RefundAmount:    b.RefundAmount,
		CancellationFee: b.CancellationFee,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}
