package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/app"
	"github.com/klabast/wb-services/planning-bilans/internal/config"
	"github.com/klabast/wb-services/planning-bilans/internal/logger"
	"github.com/klabast/wb-services/planning-bilans/internal/storage"
)

// Reset handles the reset subcommand
func Reset(args []string) {
	if err := runReset(args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReset(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: planning-bilans reset [OPTIONS]\n\n")
		fmt.Fprintf(out, "Deletes the persisted schedule. The next start begins with an empty week.\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	slot, closeSlot, err := storage.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeSlot()

	if !*yes {
		fmt.Fprintf(out, "This deletes the schedule stored under %q (%s backend).\n", cfg.Storage.Key, cfg.Storage.Backend)
		if !app.Confirm(in, out, "Continue?") {
			return app.ErrAborted
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := storage.NewAdapter(slot, log).Clear(ctx); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	log.Info("schedule cleared", zap.String("backend", cfg.Storage.Backend), zap.String("key", cfg.Storage.Key))
	fmt.Fprintln(out, "✅ Schedule cleared")
	return nil
}
