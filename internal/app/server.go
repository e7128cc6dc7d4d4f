package app

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/config"
	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// Server exposes the schedule store over HTTP.
type Server struct {
	store  *planning.Store
	opts   Options
	logger *zap.Logger
	print  *template.Template
}

// NewServer parses the print template and prepares the handlers.
func NewServer(store *planning.Store, opts Options, logger *zap.Logger) (*Server, error) {
	if opts.Mode == "" {
		opts.Mode = config.ModeServe
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	tmpl, err := parsePrintTemplate()
	if err != nil {
		return nil, fmt.Errorf("parse print template: %w", err)
	}
	return &Server{
		store:  store,
		opts:   opts,
		logger: logger,
		print:  tmpl,
	}, nil
}

// Router builds the gin engine with every route of the service.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(s.logger), gin.Recovery())

	r.GET("/health", s.Health)
	if s.opts.Mode == config.ModeEdit {
		r.GET("/", s.opts.Auth.Middleware(), s.ServeEditor)
	} else {
		r.GET("/", s.ServePrint)
	}
	r.GET("/print", s.ServePrint)
	if s.opts.Static != nil {
		r.StaticFS("/static", http.FS(s.opts.Static))
	}

	api := r.Group("/api")
	api.GET("/config", s.GetConfig)
	api.GET("/schedule", s.GetSchedule)
	api.GET("/layout", s.GetLayout)
	api.GET("/week", s.GetWeek)
	api.GET("/export", s.HandleExport)
	api.GET("/subscribe.ics", s.HandleSubscribe)

	edit := api.Group("", s.requireEditMode(), s.opts.Auth.Middleware(), BodyLimit(maxBodyBytes))
	edit.PUT("/week", s.SetWeek)
	edit.PUT("/week/label", s.SetWeekLabel)
	edit.POST("/days/:date/toggle", s.ToggleDay)
	edit.POST("/days/:date/blocks", s.AddBlock)
	edit.DELETE("/days/:date/blocks/:block", s.RemoveBlock)
	edit.PATCH("/days/:date/blocks/:block", s.UpdateBlock)
	edit.POST("/days/:date/blocks/:block/slots", s.AddSlot)
	edit.PATCH("/days/:date/blocks/:block/slots/:slot", s.UpdateSlot)
	edit.DELETE("/days/:date/blocks/:block/slots/:slot", s.RemoveSlot)
	edit.POST("/reset", s.Reset)

	return r
}
