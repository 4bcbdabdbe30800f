// Package platform defines the named output formats a run produces.
// The format table is explicit configuration handed to the dispatcher,
// not a process-wide constant.
package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
)

// ErrUnknownFormat is returned when a requested format name is not in the table.
var ErrUnknownFormat = errors.New("unknown platform format")

// All selects every format in the table.
const All = "all"

// Format is a named output specification: a platform identifier paired
// with the pixel dimensions that platform expects.
type Format struct {
	Name string
	Size geometry.Size
}

// String returns the format as "name (WxH)".
func (f Format) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, f.Size)
}

// DefaultFormats returns the built-in format table. Order drives output
// ordering. Every current platform targets 9:16 portrait.
func DefaultFormats() []Format {
	return []Format{
		{Name: "tiktok", Size: geometry.Size{Width: 1080, Height: 1920}},
		{Name: "instagram", Size: geometry.Size{Width: 1080, Height: 1920}},
		{Name: "yt_shorts", Size: geometry.Size{Width: 1080, Height: 1920}},
		{Name: "facebook", Size: geometry.Size{Width: 1080, Height: 1920}},
	}
}

// ByName returns the format with the given name from the table.
func ByName(table []Format, name string) (Format, error) {
	for _, f := range table {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, name, strings.Join(Names(table), ", "))
}

// Select resolves a comma-separated selection of format names against
// the table, preserving table order semantics for "all". An empty
// selection or the keyword "all" returns the whole table.
func Select(table []Format, selection string) ([]Format, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" || selection == All {
		return table, nil
	}

	var formats []Format
	for _, name := range strings.Split(selection, ",") {
		f, err := ByName(table, strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Names returns the format names in table order.
func Names(table []Format) []string {
	names := make([]string, 0, len(table))
	for _, f := range table {
		names = append(names, f.Name)
	}
	return names
}
