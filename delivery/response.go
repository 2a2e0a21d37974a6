package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"sekarnet/domain"
	"sekarnet/middleware"
	"sekarnet/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain sentinels to HTTP codes; anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, fn string, err error) {
	status := statusFor(err)
	utils.PrintLogInfo(username(c), status, fn, &err)

	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": http.StatusText(status),
		"error":   err.Error(),
	})
}

func writeBindError(c *gin.Context, fn string, err error) {
	utils.PrintLogInfo(username(c), http.StatusBadRequest, fn, &err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request",
		"error":   utils.TranslateValidationError(err),
	})
}

func writeOK(c *gin.Context, status int, fn string, data interface{}) {
	utils.PrintLogInfo(username(c), status, fn, nil)
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func username(c *gin.Context) *string {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return nil
	}
	return &actor.Username
}

// actorOf is only called behind the auth middleware.
func actorOf(c *gin.Context) domain.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return uint(id), nil
}
