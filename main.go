// Package main provides the entry point for the social media formatter CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/config"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/fetch"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/media"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/platform"
	runpkg "github.com/OlivierVanGelder/format-images-to-socials/internal/run"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/transform"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load optional .env before reading the environment
	_ = godotenv.Load()

	mediaURL := flag.String("media-url", "", "source image or video URL (http, https, or s3)")
	mode := flag.String("mode", "crop", "transform mode: crop or pad")
	focalX := flag.Float64("focal-x", 0.5, "horizontal focal point in [0,1], 0 is the left edge")
	focalY := flag.Float64("focal-y", 0.5, "vertical focal point in [0,1], 0 is the top edge")
	filename := flag.String("filename", "output", "base name for output files")
	platforms := flag.String("platforms", platform.All, "comma-separated platform names, or all")
	flag.Parse()

	if *mediaURL == "" {
		flag.Usage()
		return errors.New("-media-url is required")
	}

	parsedMode, err := transform.ParseMode(*mode)
	if err != nil {
		return err
	}

	formats, err := platform.Select(platform.DefaultFormats(), *platforms)
	if err != nil {
		return err
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting formatter",
		slog.String("url", *mediaURL),
		slog.String("mode", string(parsedMode)),
		slog.String("platforms", strings.Join(platform.Names(formats), ",")),
		slog.String("work_dir", cfg.WorkDir),
		slog.String("out_dir", cfg.OutDir),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	// Initialize working and output directories
	ws, err := workspace.New(cfg.WorkDir, cfg.OutDir)
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	// Initialize source acquisition
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
			return fmt.Errorf("create S3 fetcher: %w", err)
		}
		s3Fetcher = f
		logger.Info("S3 acquisition configured",
			slog.String("region", cfg.S3Region),
		)
	}
	fetcher := fetch.NewSelector(httpFetcher, s3Fetcher)

	// Initialize image and video backends
	images := media.NewImageCodec()
	videos := media.NewFFmpegProcessor(cfg.FFmpegPath, cfg.FFprobePath, media.EncodeSettings{
		Preset:       cfg.VideoPreset,
		CRF:          cfg.VideoCRF,
		AudioBitrate: cfg.AudioBitrate,
	})

	// Initialize kind resolution and the per-format dispatcher
	resolver := mediakind.NewResolver(
		mediakind.NewImageProber(images),
		mediakind.NewVideoProber(videos),
	)
	dispatcher := transform.NewDispatcher(images, videos, ws, logger,
		transform.WithJPEGQuality(cfg.JPEGQuality))

	svc := runpkg.NewService(fetcher, resolver, dispatcher, ws, logger)

	// Stop cleanly on Ctrl-C, killing any in-flight codec process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := svc.Execute(ctx, runpkg.Input{
		MediaURL: *mediaURL,
		Mode:     parsedMode,
		Focal:    geometry.NewFocalPoint(*focalX, *focalY),
		BaseName: *filename,
		Formats:  formats,
	}); err != nil {
		return err
	}

	return nil
}
