package datasets

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Noofbiz/multiview/camera"
	"github.com/Noofbiz/multiview/errs"
)

const degToRad = math.Pi / 180

// Frame is one posed image listed by a manifest.
type Frame struct {
	// Path is the absolute or manifest-relative-resolved image path.
	Path string
	Pose camera.Pose
}

// Manifest is a parsed transform file.
type Manifest struct {
	Path   string
	Frames []Frame

	// Scale is the factor applied to every raw camera distance.
	Scale float64
}

type manifestFile struct {
	Frames []manifestFrame `json:"frames"`
}

type manifestFrame struct {
	FilePath string    `json:"file_path"`
	LatLon   []float64 `json:"latlon"`
}

// LoadManifest parses the transform file at path.
//
// Each frame's latlon is [polar, azimuth, distance]; elevation is
// -polar + elevationOffset. Distances are rescaled by one global factor so
// that the closest camera sits at referenceDistance.
func LoadManifest(path string, elevationOffset, referenceDistance float64) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.MissingAssetError{Path: path, Kind: "manifest"}
		}
		return nil, &errs.ManifestParseError{Path: path, Frame: -1, Err: err}
	}
	var raw manifestFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &errs.ManifestParseError{Path: path, Frame: -1, Err: err}
	}
	if len(raw.Frames) == 0 {
		return nil, &errs.ManifestParseError{Path: path, Frame: -1, Err: fmt.Errorf("no frames listed")}
	}

	dir := filepath.Dir(path)
	frames := make([]Frame, len(raw.Frames))
	for i, f := range raw.Frames {
		if f.FilePath == "" {
			return nil, &errs.ManifestParseError{Path: path, Frame: i, Err: fmt.Errorf("missing file_path")}
		}
		if len(f.LatLon) != 3 {
			return nil, &errs.ManifestParseError{Path: path, Frame: i, Err: fmt.Errorf("latlon must have 3 values, got %d", len(f.LatLon))}
		}
		if !(f.LatLon[2] > 0) || math.IsInf(f.LatLon[2], 0) {
			return nil, &errs.ManifestParseError{Path: path, Frame: i, Err: fmt.Errorf("camera distance must be positive, got %v", f.LatLon[2])}
		}
		frames[i] = Frame{
			Path: resolvePath(dir, f.FilePath),
			Pose: camera.Pose{
				ElevationDeg: -f.LatLon[0] + elevationOffset,
				AzimuthDeg:   f.LatLon[1],
				Distance:     f.LatLon[2],
			},
		}
	}

	distances := make([]float64, len(frames))
	for i := range frames {
		distances[i] = frames[i].Pose.Distance
	}
	scale := DistanceScale(distances, referenceDistance)
	for i := range frames {
		frames[i].Pose.Distance *= scale
	}
	return &Manifest{Path: path, Frames: frames, Scale: scale}, nil
}

// DistanceScale returns referenceDistance / min(distances).
func DistanceScale(distances []float64, referenceDistance float64) float64 {
	lo := math.Inf(1)
	for _, d := range distances {
		lo = math.Min(lo, d)
	}
	return referenceDistance / lo
}

// NormalizeDistances rescales distances so that the smallest equals
// referenceDistance.
func NormalizeDistances(distances []float64, referenceDistance float64) []float64 {
	s := DistanceScale(distances, referenceDistance)
	out := make([]float64, len(distances))
	for i, d := range distances {
		out[i] = d * s
	}
	return out
}
