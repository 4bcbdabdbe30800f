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

	"github.com/OlivierVanGelder/format-images-to-socials/internal/bootstrap"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/config"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/platform"
	runpkg "github.com/OlivierVanGelder/format-images-to-socials/internal/run"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/transform"
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

	// Initialize dependencies using bootstrap
	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	// Stop cleanly on Ctrl-C, killing any in-flight codec process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := deps.RunService.Execute(ctx, runpkg.Input{
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
