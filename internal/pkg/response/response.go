package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps the domain sentinel errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientStock), errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON body. Internal errors are logged and their
// message is not exposed.
func Error(c *gin.Context, log logger.ZapLogger, msg string, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
