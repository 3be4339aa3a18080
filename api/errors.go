package api

import (
	"net/http"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if kind, ok := domain.KindOf(err); ok {
		switch kind {
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindValidation:
			status = http.StatusBadRequest
		case domain.KindConflict:
			status = http.StatusConflict
		case domain.KindUnauthorized:
			status = http.StatusForbidden
		case domain.KindPaymentFailure:
			status = http.StatusPaymentRequired
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
