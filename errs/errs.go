// Package errs defines the error taxonomy shared by the camera, schedule and
// datasets packages.
//
// Every error here is fatal: a dataset either loads completely at a given
// resolution or not at all. Callers match on the concrete type through the
// Is* helpers, which see through wrapping.
package errs

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed configuration value, such as a
// resolution/milestone count mismatch or an out-of-range field of view.
type ConfigError struct {
	// Field is the configuration key at fault (e.g. "resolution_milestones").
	Field string

	// Message is a human-readable description.
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Configf builds a ConfigError for field.
func Configf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingAssetError reports an image, depth or normal file referenced by the
// manifest that does not exist on disk.
type MissingAssetError struct {
	// Path is the file that could not be found.
	Path string

	// Kind is "image", "depth" or "normal".
	Kind string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s asset: could not find %s", e.Kind, e.Path)
}

// DegenerateGeometryError reports a look-at basis whose cross product has zero
// length, typically a camera directly above or below its target.
type DegenerateGeometryError struct {
	// Index is the camera index within its batch, or -1 when unknown.
	Index int

	Message string
}

func (e *DegenerateGeometryError) Error() string {
	if e.Index < 0 {
		return "degenerate geometry: " + e.Message
	}
	return fmt.Sprintf("degenerate geometry: camera %d: %s", e.Index, e.Message)
}

// ManifestParseError reports malformed JSON or a frame with missing or invalid
// fields in a transform manifest.
type ManifestParseError struct {
	Path string

	// Frame is the offending frame index, or -1 for file-level errors.
	Frame int

	Err error
}

func (e *ManifestParseError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("manifest %s: frame %d: %v", e.Path, e.Frame, e.Err)
}

func (e *ManifestParseError) Unwrap() error { return e.Err }

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsMissingAsset reports whether err wraps a *MissingAssetError.
func IsMissingAsset(err error) bool {
	var me *MissingAssetError
	return errors.As(err, &me)
}

// IsDegenerateGeometry reports whether err wraps a *DegenerateGeometryError.
func IsDegenerateGeometry(err error) bool {
	var de *DegenerateGeometryError
	return errors.As(err, &de)
}

// IsManifestParse reports whether err wraps a *ManifestParseError.
func IsManifestParse(err error) bool {
	var pe *ManifestParseError
	return errors.As(err, &pe)
}
