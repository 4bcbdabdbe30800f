package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/fetch"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/platform"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/transform"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/workspace"
)

// ErrInvalidInput is returned when a run input fails validation.
var ErrInvalidInput = errors.New("invalid run input")

// Input contains the parameters for one formatting run.
type Input struct {
	// MediaURL is the source image or video location.
	MediaURL string `validate:"required,url"`
	// Mode selects cropping or padding.
	Mode transform.Mode `validate:"required,oneof=crop pad"`
	// Focal biases where crop boxes are anchored.
	Focal geometry.FocalPoint
	// BaseName is the output file base name.
	BaseName string `validate:"required"`
	// Formats are the renditions to produce, in order.
	Formats []platform.Format `validate:"required,min=1"`
}

// Result contains the outcome of a formatting run.
type Result struct {
	// RunID is the unique identifier of the run.
	RunID string
	// Status is the final run status.
	Status Status
	// Outputs are the written rendition paths, in order.
	Outputs []string
	// Error contains any error message if the run failed.
	Error string
}

// Service executes formatting runs. It coordinates source acquisition,
// media kind resolution, and the per-format transform dispatch.
type Service struct {
	fetcher    fetch.Fetcher
	resolver   *mediakind.Resolver
	dispatcher *transform.Dispatcher
	ws         *workspace.Workspace
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewService creates a new Service.
func NewService(fetcher fetch.Fetcher, resolver *mediakind.Resolver, dispatcher *transform.Dispatcher, ws *workspace.Workspace, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:    fetcher,
		resolver:   resolver,
		dispatcher: dispatcher,
		ws:         ws,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Execute runs the complete formatting workflow.
//
// The workflow:
//  1. Fetch the source to the working directory
//  2. Resolve its media kind, correcting the extension if needed
//  3. Produce one rendition per requested format
//
// It stops at the first failure and returns the error alongside the
// failed run's result. Renditions written before the failure remain
// on disk.
func (s *Service) Execute(ctx context.Context, input Input) (*Result, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	r := New()
	r.MediaURL = input.MediaURL

	s.logger.Info("starting run",
		slog.String("run_id", r.ID),
		slog.String("url", input.MediaURL),
		slog.String("mode", string(input.Mode)),
		slog.Int("formats", len(input.Formats)),
	)

	dest := s.ws.InputPath(fetch.GuessExt(input.MediaURL))
	if err := s.fetcher.Fetch(ctx, input.MediaURL, dest); err != nil {
		return s.fail(r, fmt.Errorf("acquiring source: %w", err))
	}

	kind, sourcePath, err := s.resolver.Resolve(ctx, dest)
	if err != nil {
		return s.fail(r, fmt.Errorf("resolving media kind: %w", err))
	}
	if err := r.ResolveKind(kind, sourcePath); err != nil {
		return s.fail(r, err)
	}

	s.logger.Info("media kind resolved",
		slog.String("run_id", r.ID),
		slog.String("kind", string(kind)),
		slog.String("source", sourcePath),
	)

	if err := r.BeginTransform(); err != nil {
		return s.fail(r, err)
	}

	if err := s.dispatcher.Dispatch(ctx, transform.Request{
		SourcePath: sourcePath,
		Kind:       kind,
		Mode:       input.Mode,
		Focal:      input.Focal,
		BaseName:   input.BaseName,
		Formats:    input.Formats,
	}); err != nil {
		return s.fail(r, err)
	}

	// The dispatch succeeded as a whole, so the recorded paths are
	// exactly the ones the dispatcher derived per format.
	ext := transform.OutputExt(kind)
	for _, f := range input.Formats {
		if err := r.RecordWrite(s.ws.OutputPath(input.BaseName, f.Name, ext)); err != nil {
			return s.fail(r, err)
		}
	}

	if err := r.Finish(); err != nil {
		return s.fail(r, err)
	}

	s.logger.Info("run completed",
		slog.String("run_id", r.ID),
		slog.Int("written", len(r.Written)),
	)

	return &Result{
		RunID:   r.ID,
		Status:  r.GetStatus(),
		Outputs: r.Outputs(),
	}, nil
}

// fail marks the run failed and returns its result with the error.
func (s *Service) fail(r *Run, err error) (*Result, error) {
	if terr := r.Fail(err.Error()); terr != nil {
		s.logger.Error("failed to mark run as failed",
			slog.String("run_id", r.ID),
			slog.String("error", terr.Error()),
		)
	}

	s.logger.Error("run failed",
		slog.String("run_id", r.ID),
		slog.String("error", err.Error()),
	)

	return &Result{
		RunID:   r.ID,
		Status:  r.GetStatus(),
		Outputs: r.Outputs(),
		Error:   err.Error(),
	}, err
}
