package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/gin-gonic/gin"
)

type AdminRoomHandler struct {
	service rooms.RoomUseCase
}

type setAvailabilityRequest struct {
	Available *bool `json:"available"`
}

func NewAdminRoomHandler(service rooms.RoomUseCase) *AdminRoomHandler {
	return &AdminRoomHandler{service: service}
}

func (h *AdminRoomHandler) Register(router *gin.RouterGroup) {
	router.PUT("/:id/availability", h.setAvailability)
}

// setAvailability flips the administrative flag that takes a room out of
// (or back into) service regardless of bookings.
func (h *AdminRoomHandler) setAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room id must be an integer"})
		return
	}

	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), id, *req.Available); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
