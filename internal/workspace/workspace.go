// Package workspace manages the on-disk layout of a run: a working
// directory holding the single acquired source file and an output
// directory receiving one rendition per target format.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default directory names, relative to the process working directory.
const (
	DefaultWorkDir = "work"
	DefaultOutDir  = "out"
)

// inputBase is the fixed base name of the acquired source file.
const inputBase = "input"

// Workspace is the directory pair a run operates in.
type Workspace struct {
	workDir string
	outDir  string
}

// New creates a Workspace rooted at the given directories, creating
// them if needed. Existing directories are not an error. Empty
// arguments fall back to DefaultWorkDir and DefaultOutDir.
func New(workDir, outDir string) (*Workspace, error) {
	if workDir == "" {
		workDir = DefaultWorkDir
	}
	if outDir == "" {
		outDir = DefaultOutDir
	}

	if err := os.MkdirAll(workDir, 0750); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &Workspace{workDir: workDir, outDir: outDir}, nil
}

// WorkDir returns the working directory path.
func (w *Workspace) WorkDir() string {
	return w.workDir
}

// OutDir returns the output directory path.
func (w *Workspace) OutDir() string {
	return w.outDir
}

// InputPath returns the path the source file is acquired to, for the
// given extension. The extension may come with or without the leading
// dot.
func (w *Workspace) InputPath(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(w.workDir, inputBase+ext)
}

// OutputPath returns the rendition path for a base name and format
// name, joined as "{base}_{formatName}{ext}".
func (w *Workspace) OutputPath(base, formatName, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(w.outDir, base+"_"+formatName+ext)
}
