// Package bootstrap provides dependency initialization for the formatter CLI.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/config"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/fetch"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/media"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/run"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/transform"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/workspace"
)

// Dependencies holds all initialized dependencies for the CLI.
type Dependencies struct {
	RunService *run.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	// Initialize working and output directories
	ws, err := workspace.New(cfg.WorkDir, cfg.OutDir)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	// Initialize source acquisition
	fetcher, err := initFetcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize image and video backends
	images := media.NewImageCodec()
	videos := media.NewFFmpegProcessor(cfg.FFmpegPath, cfg.FFprobePath, media.EncodeSettings{
		Preset:       cfg.VideoPreset,
		CRF:          cfg.VideoCRF,
		AudioBitrate: cfg.AudioBitrate,
	})

	// Image decoding is attempted before the video probe because it is
	// in-process and cheaper than spawning ffprobe.
	resolver := mediakind.NewResolver(
		mediakind.NewImageProber(images),
		mediakind.NewVideoProber(videos),
	)

	dispatcher := transform.NewDispatcher(images, videos, ws, logger,
		transform.WithJPEGQuality(cfg.JPEGQuality))

	svc := run.NewService(fetcher, resolver, dispatcher, ws, logger)

	return &Dependencies{
		RunService: svc,
	}, nil
}

// initFetcher creates the acquisition backend based on configuration.
// HTTP is always available; S3 only when configured.
func initFetcher(cfg *config.Config, logger *slog.Logger) (fetch.Fetcher, error) {
	httpFetcher := fetch.NewHTTPFetcher(fetch.WithTimeout(cfg.HTTPTimeout))

	var s3Fetcher fetch.Fetcher
	if cfg.S3Enabled() {
		f, err := fetch.NewS3Fetcher(fetch.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 fetcher: %w", err)
		}
		s3Fetcher = f
		logger.Info("S3 acquisition configured",
			slog.String("region", cfg.S3Region),
		)
	}

	return fetch.NewSelector(httpFetcher, s3Fetcher), nil
}
