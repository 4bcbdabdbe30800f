package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
)

// Static errors for media operations.
var (
	// ErrNoVideoStream is returned when a probed file contains no video stream.
	ErrNoVideoStream = errors.New("no video stream found")
	// ErrInvalidDimensions is returned when a probed stream reports non-positive dimensions.
	ErrInvalidDimensions = errors.New("invalid dimensions: width and height must be positive")
	// ErrUnrecognizedMedia is returned when ffprobe runs but rejects the
	// input file, meaning ffmpeg cannot read it as a media container.
	ErrUnrecognizedMedia = errors.New("ffprobe did not recognize the input")
	// ErrFFprobeExecution is returned when the ffprobe command cannot be run.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
)

// EncodeSettings controls the re-encode applied by Transcode.
type EncodeSettings struct {
	// Preset is the libx264 speed/quality preset.
	Preset string
	// CRF is the constant rate factor (lower is higher quality).
	CRF int
	// AudioBitrate is the AAC target bitrate, e.g. "192k".
	AudioBitrate string
}

// DefaultEncodeSettings returns the settings used when none are
// configured: medium preset at CRF 20 with 192k audio.
func DefaultEncodeSettings() EncodeSettings {
	return EncodeSettings{Preset: "medium", CRF: 20, AudioBitrate: "192k"}
}

// FFmpegProcessor implements VideoProcessor using the ffmpeg and
// ffprobe CLIs.
type FFmpegProcessor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// ffprobePath is the path to the ffprobe binary. Defaults to "ffprobe".
	ffprobePath string
	settings    EncodeSettings
}

var _ VideoProcessor = (*FFmpegProcessor)(nil)

// NewFFmpegProcessor creates a new FFmpegProcessor. Empty binary paths
// default to "ffmpeg"/"ffprobe" (found via PATH); zero-value settings
// fields fall back to DefaultEncodeSettings.
func NewFFmpegProcessor(ffmpegPath, ffprobePath string, settings EncodeSettings) *FFmpegProcessor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	defaults := DefaultEncodeSettings()
	if settings.Preset == "" {
		settings.Preset = defaults.Preset
	}
	if settings.CRF <= 0 {
		settings.CRF = defaults.CRF
	}
	if settings.AudioBitrate == "" {
		settings.AudioBitrate = defaults.AudioBitrate
	}
	return &FFmpegProcessor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, settings: settings}
}

// Probe returns the pixel dimensions of the first video stream of the
// file at path.
func (p *FFmpegProcessor) Probe(ctx context.Context, path string) (geometry.Size, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return geometry.Size{}, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// ffprobe started but rejected the input. For kind
			// resolution this means the file is not a video.
			return geometry.Size{}, fmt.Errorf("%w: %s", ErrUnrecognizedMedia, strings.TrimSpace(stderr.String()))
		}
		return geometry.Size{}, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	return parseProbeStreams(stdout.Bytes())
}

// parseProbeStreams extracts the first video stream's dimensions from
// ffprobe JSON output.
func parseProbeStreams(data []byte) (geometry.Size, error) {
	var out struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return geometry.Size{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return geometry.Size{}, ErrNoVideoStream
	}

	size := geometry.Size{Width: out.Streams[0].Width, Height: out.Streams[0].Height}
	if !size.IsValid() {
		return geometry.Size{}, fmt.Errorf("%w: stream reports %s", ErrInvalidDimensions, size)
	}
	return size, nil
}

// Transcode re-encodes the video at src through the given filtergraph
// and writes the result to dst. Video is encoded with libx264 at the
// configured preset and CRF, audio is re-encoded as AAC, and the moov
// atom is moved up front for streaming playback.
func (p *FFmpegProcessor) Transcode(ctx context.Context, src, dst, filtergraph string) error {
	args := []string{
		"-y",      // Overwrite output file without asking
		"-i", src, // Input file
		"-vf", filtergraph, // Video filter
		"-c:v", "libx264", // Video codec
		"-preset", p.settings.Preset, // Encoding speed preset
		"-crf", strconv.Itoa(p.settings.CRF), // Quality (lower = better)
		"-pix_fmt", "yuv420p", // Pixel format for compatibility
		"-c:a", "aac", // Audio codec
		"-b:a", p.settings.AudioBitrate, // Audio bitrate
		"-movflags", "+faststart", // Streaming-friendly metadata placement
		dst, // Output file
	}
	return p.runFFmpeg(ctx, args)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an
// error containing stderr output if the command fails.
func (p *FFmpegProcessor) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
