package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// SetWeek switches the displayed week, by identifier or by any date inside it.
func (s *Server) SetWeek(c *gin.Context) {
	var req weekRequest
	if !bindJSON(c, &req) {
		return
	}

	switch {
	case req.Week != "":
		s.respondMutation(c, "set week", s.store.SetWeek(c.Request.Context(), req.Week))
	case req.Date != "":
		date, err := time.Parse(planning.DayKeyLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidDate})
			return
		}
		s.respondMutation(c, "set week", s.store.SetWeekOf(c.Request.Context(), date))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": msgWeekOrDateRequired})
	}
}

// SetWeekLabel replaces the week label. An empty label is allowed.
func (s *Server) SetWeekLabel(c *gin.Context) {
	var req labelRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Label == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}
	s.respondMutation(c, "set week label", s.store.SetWeekLabel(c.Request.Context(), *req.Label))
}

// ToggleDay activates or deactivates a working day.
func (s *Server) ToggleDay(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	s.respondMutation(c, "toggle day", s.store.ToggleDay(c.Request.Context(), key))
}

// AddBlock appends a block to an active day.
func (s *Server) AddBlock(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	s.respondMutation(c, "add block", s.store.AddBlock(c.Request.Context(), key))
}

// RemoveBlock deletes a block with its slots.
func (s *Server) RemoveBlock(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	block, ok := indexParam(c, "block")
	if !ok {
		return
	}
	s.respondMutation(c, "remove block", s.store.RemoveBlock(c.Request.Context(), key, block))
}

// UpdateBlock edits the location or person of a block.
func (s *Server) UpdateBlock(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	block, ok := indexParam(c, "block")
	if !ok {
		return
	}
	var req fieldRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}
	s.respondMutation(c, "update block", s.store.UpdateBlock(c.Request.Context(), key, block, req.Field, *req.Value))
}

// AddSlot appends an empty slot to a block.
func (s *Server) AddSlot(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	block, ok := indexParam(c, "block")
	if !ok {
		return
	}
	s.respondMutation(c, "add slot", s.store.AddSlot(c.Request.Context(), key, block))
}

// UpdateSlot edits the time or group of a slot.
func (s *Server) UpdateSlot(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	block, ok := indexParam(c, "block")
	if !ok {
		return
	}
	slot, ok := indexParam(c, "slot")
	if !ok {
		return
	}
	var req fieldRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}
	s.respondMutation(c, "update slot", s.store.UpdateSlot(c.Request.Context(), key, block, slot, req.Field, *req.Value))
}

// RemoveSlot deletes one slot of a block.
func (s *Server) RemoveSlot(c *gin.Context) {
	key, ok := dayParam(c)
	if !ok {
		return
	}
	block, ok := indexParam(c, "block")
	if !ok {
		return
	}
	slot, ok := indexParam(c, "slot")
	if !ok {
		return
	}
	s.respondMutation(c, "remove slot", s.store.RemoveSlot(c.Request.Context(), key, block, slot))
}

// Reset clears the persisted schedule. The body must be {"confirm": true}.
func (s *Server) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgConfirmationRequired})
		return
	}
	s.respondMutation(c, "reset", s.store.Reset(c.Request.Context()))
}
