package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/config"
	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": s.opts.Mode})
}

// ServeEditor serves the editor interface HTML
func (s *Server) ServeEditor(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.opts.EditorHTML)
}

// ServePrint renders the printable page of the current week.
func (s *Server) ServePrint(c *gin.Context) {
	page := s.newPrintPage(s.store.View())
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.print.Execute(c.Writer, page); err != nil {
		s.logger.Error("error rendering print page", zap.Error(err))
	}
}

// GetConfig returns the application configuration
func (s *Server) GetConfig(c *gin.Context) {
	now := s.opts.Now()
	c.JSON(http.StatusOK, ConfigResponse{
		Mode:               s.opts.Mode,
		EditMode:           s.opts.Mode == config.ModeEdit,
		AuthEnabled:        s.opts.Auth.Enabled(),
		Title:              s.opts.Print.Title,
		Organization:       s.opts.Print.Organization,
		LogoURL:            s.opts.Print.LogoURL,
		MaxBlocksPerDay:    planning.MaxBlocksPerDay,
		LandscapeSlotLimit: planning.LandscapeSlotLimit,
		Today:              planning.DayKey(now),
		CurrentRealWeek:    planning.WeekIdentifierOf(now),
	})
}

// GetSchedule returns the snapshot with the dates and layout of its current week.
func (s *Server) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, newScheduleResponse(s.store.View()))
}

// GetLayout returns the layout for ?days=&slots=.
func (s *Server) GetLayout(c *gin.Context) {
	days, errDays := strconv.Atoi(c.DefaultQuery("days", "0"))
	slots, errSlots := strconv.Atoi(c.DefaultQuery("slots", "0"))
	if errDays != nil || errSlots != nil || days < 0 || slots < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidLayoutQuery})
		return
	}
	c.JSON(http.StatusOK, planning.SelectLayout(days, slots))
}

// GetWeek returns the ISO week of ?date= (today when omitted) and its working days.
func (s *Server) GetWeek(c *gin.Context) {
	date := s.opts.Now()
	if q := c.Query("date"); q != "" {
		var err error
		date, err = time.Parse(planning.DayKeyLayout, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidDate})
			return
		}
	}

	week := planning.WeekIdentifierOf(date)
	resp := WeekResponse{Week: week, Dates: []string{}, Holidays: planning.HolidaysOfWeek(week)}
	for _, d := range planning.DatesOfWeek(week) {
		resp.Dates = append(resp.Dates, planning.DayKey(d))
	}
	c.JSON(http.StatusOK, resp)
}
