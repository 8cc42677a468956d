package randcam

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/schedule"
)

// Light sampling strategies.
const (
	// LightDreamFusion places the light near the camera direction.
	LightDreamFusion = "dreamfusion"

	// LightMagic3D samples the light on the upper hemisphere of the camera's
	// local frame.
	LightMagic3D = "magic3d"
)

// Range is an inclusive [Min, Max] interval written as a two-element list.
type Range struct {
	Min, Max float64
}

func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var vs []float64
	if err := node.Decode(&vs); err != nil {
		return err
	}
	if len(vs) != 2 {
		return fmt.Errorf("line %d: range needs exactly 2 values, got %d", node.Line, len(vs))
	}
	r.Min, r.Max = vs[0], vs[1]
	return nil
}

// Span is Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Config configures the random camera stream. Start from DefaultConfig and
// decode YAML on top of it so unspecified keys keep their defaults.
type Config struct {
	Height               schedule.IntList `yaml:"height"`
	Width                schedule.IntList `yaml:"width"`
	BatchSize            int              `yaml:"batch_size"`
	ResolutionMilestones []int            `yaml:"resolution_milestones"`

	EvalHeight    int `yaml:"eval_height"`
	EvalWidth     int `yaml:"eval_width"`
	EvalBatchSize int `yaml:"eval_batch_size"`
	NValViews     int `yaml:"n_val_views"`
	NTestViews    int `yaml:"n_test_views"`

	ElevationRange      Range `yaml:"elevation_range"`
	AzimuthRange        Range `yaml:"azimuth_range"`
	CameraDistanceRange Range `yaml:"camera_distance_range"`
	FovyRange           Range `yaml:"fovy_range"`

	CameraPerturb        float64 `yaml:"camera_perturb"`
	CenterPerturb        float64 `yaml:"center_perturb"`
	UpPerturb            float64 `yaml:"up_perturb"`
	LightPositionPerturb float64 `yaml:"light_position_perturb"`
	LightDistanceRange   Range   `yaml:"light_distance_range"`

	EvalElevationDeg   float64 `yaml:"eval_elevation_deg"`
	EvalCameraDistance float64 `yaml:"eval_camera_distance"`
	EvalFovyDeg        float64 `yaml:"eval_fovy_deg"`

	LightSampleStrategy string `yaml:"light_sample_strategy"`
	BatchUniformAzimuth bool   `yaml:"batch_uniform_azimuth"`

	// Seed seeds the stream's own generator; it is independent from the
	// manifest dataset's seed.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the stock random camera settings.
func DefaultConfig() Config {
	return Config{
		Height:               schedule.IntList{64},
		Width:                schedule.IntList{64},
		BatchSize:            1,
		EvalHeight:           512,
		EvalWidth:            512,
		EvalBatchSize:        1,
		NValViews:            1,
		NTestViews:           120,
		ElevationRange:       Range{-10, 90},
		AzimuthRange:         Range{-180, 180},
		CameraDistanceRange:  Range{1, 1.5},
		FovyRange:            Range{40, 70},
		CameraPerturb:        0.1,
		CenterPerturb:        0.2,
		UpPerturb:            0.02,
		LightPositionPerturb: 1.0,
		LightDistanceRange:   Range{0.8, 1.5},
		EvalElevationDeg:     15,
		EvalCameraDistance:   1.5,
		EvalFovyDeg:          70,
		LightSampleStrategy:  LightDreamFusion,
		BatchUniformAzimuth:  true,
		Seed:                 0,
	}
}

// Validate checks ranges and counts.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return errs.Configf("random_camera.batch_size", "must be >= 1, got %d", c.BatchSize)
	}
	if c.EvalHeight < 1 || c.EvalWidth < 1 {
		return errs.Configf("random_camera.eval_height", "eval resolution must be positive, got %dx%d", c.EvalHeight, c.EvalWidth)
	}
	if c.NValViews < 1 || c.NTestViews < 1 {
		return errs.Configf("random_camera.n_val_views", "view counts must be >= 1, got %d/%d", c.NValViews, c.NTestViews)
	}
	for name, r := range map[string]Range{
		"elevation_range":       c.ElevationRange,
		"azimuth_range":         c.AzimuthRange,
		"camera_distance_range": c.CameraDistanceRange,
		"fovy_range":            c.FovyRange,
		"light_distance_range":  c.LightDistanceRange,
	} {
		if r.Min > r.Max {
			return errs.Configf("random_camera."+name, "min %v exceeds max %v", r.Min, r.Max)
		}
	}
	if c.ElevationRange.Min < -90 || c.ElevationRange.Max > 90 {
		return errs.Configf("random_camera.elevation_range", "must lie within [-90, 90], got %v", c.ElevationRange)
	}
	if c.CameraDistanceRange.Min <= 0 {
		return errs.Configf("random_camera.camera_distance_range", "distances must be positive, got %v", c.CameraDistanceRange)
	}
	if c.FovyRange.Min <= 0 || c.FovyRange.Max >= 180 {
		return errs.Configf("random_camera.fovy_range", "must lie within (0, 180), got %v", c.FovyRange)
	}
	switch c.LightSampleStrategy {
	case LightDreamFusion, LightMagic3D:
	default:
		return errs.Configf("random_camera.light_sample_strategy", "unknown strategy %q", c.LightSampleStrategy)
	}
	return nil
}
