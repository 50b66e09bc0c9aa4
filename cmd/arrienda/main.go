package main

import (
	"log/slog"
	"os"

	"github.com/maruizc/arrienda-host/internal/api"
	"github.com/maruizc/arrienda-host/internal/auth"
	"github.com/maruizc/arrienda-host/internal/config"
	"github.com/maruizc/arrienda-host/internal/place"
	"github.com/maruizc/arrienda-host/internal/reservation"
	"github.com/maruizc/arrienda-host/internal/storage"
	"github.com/maruizc/arrienda-host/internal/tui"
)

func main() {
	if err := run(); err != nil {
		slog.Error("arrienda exited with error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// The TUI owns stdout, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	blobs := storage.NewFileStore(cfg.SessionFile)

	session := auth.NewStore(client, blobs, logger)
	session.Restore()

	places := place.NewRepository(client, logger)
	reservations := reservation.NewAggregator(client, logger)

	return tui.Run(session, places, reservations)
}
