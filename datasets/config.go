package datasets

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Noofbiz/multiview/camera"
	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/randcam"
	"github.com/Noofbiz/multiview/schedule"
)

// Config is the raw, user-facing configuration of a multi-image data module.
// It is decoded from YAML on top of DefaultConfig and completed by Resolve;
// it is never mutated by the loaders.
type Config struct {
	// TransformFP is the manifest path. Relative paths resolve against
	// DataRoot.
	TransformFP string `yaml:"transform_fp"`
	DataRoot    string `yaml:"data_root"`

	// Height and Width take a single value or one value per tier.
	Height               schedule.IntList `yaml:"height"`
	Width                schedule.IntList `yaml:"width"`
	ResolutionMilestones []int            `yaml:"resolution_milestones"`

	// DefaultElevationDeg offsets every manifest elevation.
	DefaultElevationDeg float64 `yaml:"default_elevation_deg"`

	// DefaultCameraDistance is the reference distance the closest camera is
	// scaled to.
	DefaultCameraDistance float64 `yaml:"default_camera_distance"`
	DefaultFovyDeg        float64 `yaml:"default_fovy_deg"`

	UseRandomCamera bool           `yaml:"use_random_camera"`
	RandomCamera    randcam.Config `yaml:"random_camera"`

	RaysNoiseScale float64 `yaml:"rays_noise_scale"`
	BatchSize      int     `yaml:"batch_size"`
	RequiresDepth  bool    `yaml:"requires_depth"`
	RequiresNormal bool    `yaml:"requires_normal"`

	// Seed drives frame sampling and ray jitter.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the stock data module settings.
func DefaultConfig() Config {
	return Config{
		Height:                schedule.IntList{96},
		Width:                 schedule.IntList{96},
		DefaultElevationDeg:   0,
		DefaultCameraDistance: 3.8,
		DefaultFovyDeg:        60,
		UseRandomCamera:       true,
		RandomCamera:          randcam.DefaultConfig(),
		RaysNoiseScale:        2e-3,
		BatchSize:             1,
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		// io.EOF means an empty document, which keeps the defaults
		return cfg, errs.Configf(path, "%v", err)
	}
	return cfg, nil
}

// Modality records whether an optional per-pixel channel is loaded. It is
// decided once from the configuration and holds for every frame.
type Modality struct {
	Present bool

	// Suffix replaces "_rgba.png" in the image path to locate the channel.
	Suffix string
}

// Resolved is the validated configuration enriched with manifest data. Frame
// paths and poses come only from the manifest.
type Resolved struct {
	Config

	ManifestPath string
	Frames       []Frame
	Tiers        []schedule.Tier

	Depth  Modality
	Normal Modality
}

// Resolve validates cfg, loads its manifest and builds the resolution tiers.
func (cfg Config) Resolve() (*Resolved, error) {
	if cfg.TransformFP == "" {
		return nil, errs.Configf("transform_fp", "a manifest path is required")
	}
	if cfg.BatchSize < 1 {
		return nil, errs.Configf("batch_size", "must be >= 1, got %d", cfg.BatchSize)
	}
	if !(cfg.DefaultCameraDistance > 0) {
		return nil, errs.Configf("default_camera_distance", "must be positive, got %v", cfg.DefaultCameraDistance)
	}
	if cfg.RaysNoiseScale < 0 {
		return nil, errs.Configf("rays_noise_scale", "must be >= 0, got %v", cfg.RaysNoiseScale)
	}
	if err := camera.ValidateFovy(cfg.DefaultFovyDeg * degToRad); err != nil {
		return nil, err
	}
	if cfg.UseRandomCamera {
		if err := cfg.RandomCamera.Validate(); err != nil {
			return nil, err
		}
	}
	tiers, err := schedule.BuildTiers(cfg.Height, cfg.Width, cfg.ResolutionMilestones)
	if err != nil {
		return nil, err
	}

	path := cfg.TransformFP
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.DataRoot, path)
	}
	m, err := LoadManifest(path, cfg.DefaultElevationDeg, cfg.DefaultCameraDistance)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Config:       cfg,
		ManifestPath: path,
		Frames:       m.Frames,
		Tiers:        tiers,
		Depth:        Modality{Present: cfg.RequiresDepth, Suffix: depthSuffix},
		Normal:       Modality{Present: cfg.RequiresNormal, Suffix: normalSuffix},
	}, nil
}

// Poses returns the frame poses in manifest order.
func (r *Resolved) Poses() []camera.Pose {
	out := make([]camera.Pose, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Pose
	}
	return out
}
