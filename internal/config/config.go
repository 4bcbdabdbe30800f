// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidJPEGQuality is returned when JPEG_QUALITY is outside 1-100.
	ErrInvalidJPEGQuality = errors.New("config: JPEG_QUALITY must be between 1 and 100")
	// ErrInvalidVideoCRF is returned when VIDEO_CRF is outside 0-51.
	ErrInvalidVideoCRF = errors.New("config: VIDEO_CRF must be between 0 and 51")
)

// Config holds all configuration for the application.
type Config struct {
	// Directory settings
	WorkDir string `env:"WORK_DIR, default=work" json:"work_dir"`
	OutDir  string `env:"OUT_DIR, default=out" json:"out_dir"`

	// Codec settings
	FFmpegPath   string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	FFprobePath  string `env:"FFPROBE_PATH, default=ffprobe" json:"ffprobe_path"`
	JPEGQuality  int    `env:"JPEG_QUALITY, default=92" json:"jpeg_quality"`
	VideoPreset  string `env:"VIDEO_PRESET, default=medium" json:"video_preset"`
	VideoCRF     int    `env:"VIDEO_CRF, default=20" json:"video_crf"`
	AudioBitrate string `env:"AUDIO_BITRATE, default=192k" json:"audio_bitrate"`

	// Acquisition settings
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=60s" json:"http_timeout"`

	// Optional S3 settings
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 acquisition is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if any variable fails to parse or validate.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all configured values are within their domains.
func (c *Config) Validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return ErrInvalidJPEGQuality
	}
	if c.VideoCRF < 0 || c.VideoCRF > 51 {
		return ErrInvalidVideoCRF
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs. Logs go to stderr so
// that stdout stays reserved for the written-file reports.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkDir: %s, OutDir: %s, FFmpegPath: %s, FFprobePath: %s, JPEGQuality: %d, VideoPreset: %s, VideoCRF: %d, AudioBitrate: %s, HTTPTimeout: %s, S3Region: %s, S3Endpoint: %s, LogFormat: %s, LogLevel: %s}",
		c.WorkDir,
		c.OutDir,
		c.FFmpegPath,
		c.FFprobePath,
		c.JPEGQuality,
		c.VideoPreset,
		c.VideoCRF,
		c.AudioBitrate,
		c.HTTPTimeout,
		c.S3Region,
		c.S3Endpoint,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
