package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/config"
	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// requireEditMode rejects mutations in serve mode.
func (s *Server) requireEditMode() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.Mode != config.ModeEdit {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgEditModeDisabled})
			return
		}
		c.Next()
	}
}

// dayParam validates the :date path parameter.
func dayParam(c *gin.Context) (string, bool) {
	key := c.Param("date")
	if _, err := planning.ParseDayKey(key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return key, true
}

// indexParam parses an integer path parameter such as :block or :slot.
func indexParam(c *gin.Context, name string) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidIndex, "param": name})
		return 0, false
	}
	return i, true
}

// bindJSON decodes the body and answers 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return false
	}
	return true
}

// respondMutation maps a store error to a status and otherwise returns the new schedule.
// A stale reference means the target vanished under an older editor state; it is a no-op.
func (s *Server) respondMutation(c *gin.Context, op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, planning.ErrStaleReference):
		s.logger.Debug("stale reference ignored",
			zap.String("op", op),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
	case errors.Is(err, planning.ErrInvalidDay),
		errors.Is(err, planning.ErrInvalidWeek),
		errors.Is(err, planning.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		_ = c.Error(err)
		s.logger.Error("mutation failed",
			zap.String("op", op),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgFailedToSave})
		return
	}
	c.JSON(http.StatusOK, newScheduleResponse(s.store.View()))
}
