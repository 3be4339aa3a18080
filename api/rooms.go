package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	service rooms.RoomUseCase
}

type roomResponse struct {
	ID            int64   `json:"id"`
	Number        string  `json:"number"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	ImageURL      *string `json:"image_url,omitempty"`
	Available     bool    `json:"available"`
}

func NewRoomHandler(service rooms.RoomUseCase) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Register(router *gin.RouterGroup) {
	router.GET("/available", h.listAvailable)
	router.GET("/:id", h.get)
}

func (h *RoomHandler) listAvailable(c *gin.Context) {
	checkIn, err := time.Parse(dateLayout, c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be a YYYY-MM-DD date"})
		return
	}
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be later than check_in"})
		return
	}

	available, err := h.service.ListAvailable(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]roomResponse, 0, len(available))
	for i := range available {
		responses = append(responses, toRoomResponse(&available[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *RoomHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room id must be an integer"})
		return
	}

	room, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

func toRoomResponse(room *domain.Room) roomResponse {
	return roomResponse{
		ID:            room.ID,
		Number:        room.Number,
		Type:          room.RoomType.Name,
		Description:   room.RoomType.Description,
		PricePerNight: room.RoomType.PricePerNight,
		Capacity:      room.RoomType.Capacity,
		ImageURL:      room.RoomType.ImageURL,
		Available:     room.Available,
	}
}
