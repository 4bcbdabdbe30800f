package transform

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/media"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/platform"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/workspace"
)

// DefaultJPEGQuality is used for image renditions when no override is set.
const DefaultJPEGQuality = 92

// Reporter receives the path of each written rendition.
type Reporter func(path string)

// Dispatcher fans one source asset out into per-format renditions.
type Dispatcher struct {
	images   media.ImageProcessor
	videos   media.VideoProcessor
	ws       *workspace.Workspace
	quality  int
	reporter Reporter
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithJPEGQuality overrides the JPEG quality for image renditions.
func WithJPEGQuality(quality int) Option {
	return func(d *Dispatcher) {
		if quality > 0 {
			d.quality = quality
		}
	}
}

// WithReporter overrides where per-file write notices go.
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.reporter = r
		}
	}
}

// NewDispatcher creates a Dispatcher with the given backends.
func NewDispatcher(images media.ImageProcessor, videos media.VideoProcessor, ws *workspace.Workspace, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		images:  images,
		videos:  videos,
		ws:      ws,
		quality: DefaultJPEGQuality,
		reporter: func(path string) {
			fmt.Println("Wrote", path)
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch produces every requested format from the source. It stops at
// the first failure and returns that error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	switch req.Kind {
	case mediakind.KindImage:
		return d.dispatchImage(ctx, req)
	case mediakind.KindVideo:
		return d.dispatchVideo(ctx, req)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, filepath.Ext(req.SourcePath))
	}
}

func (d *Dispatcher) dispatchImage(ctx context.Context, req Request) error {
	src, format, err := d.images.Decode(req.SourcePath)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", req.SourcePath, err)
	}

	bounds := src.Bounds()
	size := geometry.Size{Width: bounds.Dx(), Height: bounds.Dy()}

	d.logger.Info("dispatching image",
		slog.String("source", req.SourcePath),
		slog.String("format", format),
		slog.String("size", size.String()),
		slog.Int("formats", len(req.Formats)))

	ext := OutputExt(req.Kind)
	for _, f := range req.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}

		rendition := d.renderImage(src, size, f.Size, req)

		outPath := d.ws.OutputPath(req.BaseName, f.Name, ext)
		if err := d.images.EncodeJPEG(rendition, outPath, d.quality); err != nil {
			return fmt.Errorf("encoding %s: %w", outPath, err)
		}

		d.logger.Info("wrote rendition",
			slog.String("platform", f.Name),
			slog.String("path", outPath))
		d.reporter(outPath)
	}

	return nil
}

// renderImage reshapes a decoded source into one target size.
func (d *Dispatcher) renderImage(src image.Image, size, target geometry.Size, req Request) image.Image {
	if req.Mode == ModePad {
		fit := geometry.FitBox(size, target)
		scaled := imaging.Resize(src, fit.Width, fit.Height, imaging.Lanczos)

		canvas := imaging.New(target.Width, target.Height, color.Black)
		offX, offY := geometry.CenterOffset(target, fit)
		return imaging.Paste(canvas, scaled, image.Pt(offX, offY))
	}

	box := geometry.CropBox(size, target, req.Focal)
	cropped := imaging.Crop(src, image.Rect(box.Left, box.Top, box.Left+box.Width, box.Top+box.Height))
	return imaging.Resize(cropped, target.Width, target.Height, imaging.Lanczos)
}

func (d *Dispatcher) dispatchVideo(ctx context.Context, req Request) error {
	size, err := d.videos.Probe(ctx, req.SourcePath)
	if err != nil {
		return fmt.Errorf("probing %s: %w", req.SourcePath, err)
	}

	d.logger.Info("dispatching video",
		slog.String("source", req.SourcePath),
		slog.String("size", size.String()),
		slog.Int("formats", len(req.Formats)))

	ext := OutputExt(req.Kind)
	for _, f := range req.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}

		filter := videoFilter(size, f.Size, req.Mode, req.Focal)

		outPath := d.ws.OutputPath(req.BaseName, f.Name, ext)
		if err := d.videos.Transcode(ctx, req.SourcePath, outPath, filter); err != nil {
			return fmt.Errorf("transcoding %s: %w", outPath, err)
		}

		d.logger.Info("wrote rendition",
			slog.String("platform", f.Name),
			slog.String("path", outPath))
		d.reporter(outPath)
	}

	return nil
}

// videoFilter builds the ffmpeg filtergraph for one target size.
func videoFilter(size, target geometry.Size, mode Mode, focal geometry.FocalPoint) string {
	if mode == ModePad {
		fit := geometry.FitBox(size, target)
		offX, offY := geometry.CenterOffset(target, fit)
		return fmt.Sprintf("scale=%d:%d,pad=%d:%d:%d:%d:black",
			fit.Width, fit.Height, target.Width, target.Height, offX, offY)
	}

	box := geometry.CropBox(size, target, focal)
	return fmt.Sprintf("crop=%d:%d:%d:%d,scale=%d:%d",
		box.Width, box.Height, box.Left, box.Top, target.Width, target.Height)
}
