package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/app"
	"github.com/klabast/wb-services/planning-bilans/internal/commands"
	"github.com/klabast/wb-services/planning-bilans/internal/config"
	"github.com/klabast/wb-services/planning-bilans/internal/logger"
	"github.com/klabast/wb-services/planning-bilans/internal/planning"
	"github.com/klabast/wb-services/planning-bilans/internal/storage"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var editorHTML []byte

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-password":
			commands.HashPassword(os.Args[2:])
			return
		case "reset":
			commands.Reset(os.Args[2:])
			return
		}
	}

	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", 0, "Port to listen on (overrides server.port)")
	edit := flag.Bool("edit", false, "Enable edit mode (default is serve mode)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "edit":
			cfg.Server.Edit = *edit
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	mode := cfg.Server.Mode()
	log.Info("starting planning-bilans",
		zap.String("mode", mode),
		zap.Int("port", cfg.Server.Port),
		zap.String("backend", cfg.Storage.Backend),
	)

	var auth *app.BasicAuth
	if cfg.Server.Edit {
		auth, err = app.LoadBasicAuth(cfg.Auth.File, log)
		if err != nil {
			log.Fatal("failed to load auth credentials", zap.Error(err))
		}
	}

	slot, closeSlot, err := storage.Open(cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeSlot()

	store := planning.NewStore(storage.NewAdapter(slot, log), planning.Options{
		DefaultWeekLabel: cfg.Planning.DefaultWeekLabel,
		DefaultSlotTime:  cfg.Planning.DefaultSlotTime,
		Logger:           log,
	})
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	store.Load(loadCtx)
	cancelLoad()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal("failed to open embedded files", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	server, err := app.NewServer(store, app.Options{
		Mode:       mode,
		Print:      cfg.Print,
		EditorHTML: editorHTML,
		Static:     static,
		Auth:       auth,
	}, log)
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
