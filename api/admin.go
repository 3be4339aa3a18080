package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type AdminBookingHandler struct {
	service booking.BookingUseCase
}

type rejectBookingRequest struct {
	Reason string `json:"reason"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func NewAdminBookingHandler(service booking.BookingUseCase) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

func (h *AdminBookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/reject", h.reject)
	router.PUT("/:id/status", h.updateStatus)
	router.DELETE("/:id", h.delete)
}

func (h *AdminBookingHandler) list(c *gin.Context) {
	var filter repository.BookingFilter
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseBookingStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("check_in_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "check_in_from must be a YYYY-MM-DD date"})
			return
		}
		filter.CheckInFrom = &from
	}
	if raw := c.Query("check_in_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "check_in_to must be a YYYY-MM-DD date"})
			return
		}
		filter.CheckInTo = &to
	}

	bookings, err := h.service.List(c.Request.Context(), filter)
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

func (h *AdminBookingHandler) confirm(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	confirmed, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *AdminBookingHandler) reject(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req rejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rejected, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(rejected))
}

func (h *AdminBookingHandler) updateStatus(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *AdminBookingHandler) delete(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
