package mediakind

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownKind is returned when neither the extension nor any content
// probe can classify the file. This is fatal for the run.
var ErrUnknownKind = errors.New("cannot determine media kind")

// Resolver decides the media kind of a source file, renaming it to a
// matching extension when a content probe had to be used. Resolution
// runs exactly once per file, before any transform reads it.
type Resolver struct {
	probers []Prober
}

// NewResolver creates a Resolver that consults the given probers in
// order when the file extension is not recognized. The first probe to
// recognize the file wins.
func NewResolver(probers ...Prober) *Resolver {
	return &Resolver{probers: probers}
}

// Resolve classifies the file at path and returns its kind together
// with the path it lives at afterwards. The path only changes when a
// probe reclassified the file and it was renamed to the canonical
// extension for the detected content.
func (r *Resolver) Resolve(ctx context.Context, path string) (Kind, string, error) {
	ext := filepath.Ext(path)
	if kind := FromExt(ext); kind != KindUnknown {
		return kind, path, nil
	}

	var probeErrs []error
	for _, p := range r.probers {
		det, ok, err := p.Probe(ctx, path)
		if err != nil {
			probeErrs = append(probeErrs, err)
			continue
		}
		if !ok {
			continue
		}

		newPath := strings.TrimSuffix(path, ext) + det.Ext
		if newPath != path {
			if err := os.Rename(path, newPath); err != nil {
				return KindUnknown, path, fmt.Errorf("rename source to %s: %w", newPath, err)
			}
		}
		return det.Kind, newPath, nil
	}

	if len(probeErrs) > 0 {
		return KindUnknown, path, fmt.Errorf("%w: %w", ErrUnknownKind, errors.Join(probeErrs...))
	}
	return KindUnknown, path, ErrUnknownKind
}
