package datasets_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/multiview/datasets"
	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/schedule"
)

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
transform_fp: scene/transforms.json
data_root: /data
height: [64, 128]
width: 64
resolution_milestones: [200]
requires_depth: true
random_camera:
  eval_height: 256
  fovy_range: [30, 50]
`)

	cfg, err := datasets.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "scene/transforms.json", cfg.TransformFP)
	assert.Equal(t, "/data", cfg.DataRoot)
	assert.Equal(t, schedule.IntList{64, 128}, cfg.Height)
	assert.Equal(t, schedule.IntList{64}, cfg.Width)
	assert.Equal(t, []int{200}, cfg.ResolutionMilestones)
	assert.True(t, cfg.RequiresDepth)
	assert.Equal(t, 256, cfg.RandomCamera.EvalHeight)
	assert.Equal(t, 30.0, cfg.RandomCamera.FovyRange.Min)

	// untouched keys keep their defaults
	def := datasets.DefaultConfig()
	assert.Equal(t, def.DefaultCameraDistance, cfg.DefaultCameraDistance)
	assert.Equal(t, def.DefaultFovyDeg, cfg.DefaultFovyDeg)
	assert.Equal(t, def.RandomCamera.EvalWidth, cfg.RandomCamera.EvalWidth)
	assert.True(t, cfg.UseRandomCamera)
}

func TestLoadConfig_RejectsUnknownKeys(t *testing.T) {
	path := writeYAML(t, t.TempDir(), `
transform_fp: transforms.json
image_paths: [a.png]
`)
	_, err := datasets.LoadConfig(path)
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))
}

func TestLoadConfig_EmptyKeepsDefaults(t *testing.T) {
	for name, body := range map[string]string{
		"empty":    "",
		"comments": "# nothing configured yet\n# height: [64]",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := datasets.LoadConfig(writeYAML(t, t.TempDir(), body))
			require.NoError(t, err)
			assert.Equal(t, datasets.DefaultConfig(), cfg)
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, threeFrames())

	cfg := testConfig("transforms.json", 32)
	cfg.DataRoot = dir
	cfg.DefaultCameraDistance = 2.5
	cfg.RequiresNormal = true

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "transforms.json"), r.ManifestPath)
	require.Len(t, r.Frames, 3)
	require.Len(t, r.Tiers, 1)
	assert.Equal(t, schedule.Resolution{Height: 32, Width: 32}, r.Tiers[0].Resolution)
	assert.False(t, r.Depth.Present)
	assert.True(t, r.Normal.Present)

	for _, p := range r.Poses() {
		assert.InDelta(t, 2.5, p.Distance, 1e-9)
	}
}

func TestResolve_Invalid(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFixture(t, dir, threeFrames())

	tests := []struct {
		name   string
		mutate func(*datasets.Config)
		field  string
	}{
		{"no manifest", func(c *datasets.Config) { c.TransformFP = "" }, "transform_fp"},
		{"zero batch", func(c *datasets.Config) { c.BatchSize = 0 }, "batch_size"},
		{"bad distance", func(c *datasets.Config) { c.DefaultCameraDistance = 0 }, "default_camera_distance"},
		{"negative noise", func(c *datasets.Config) { c.RaysNoiseScale = -1 }, "rays_noise_scale"},
		{"wide fovy", func(c *datasets.Config) { c.DefaultFovyDeg = 200 }, "default_fovy_deg"},
		{"milestone mismatch", func(c *datasets.Config) {
			c.Height = schedule.IntList{32, 64}
			c.Width = schedule.IntList{32, 64}
			c.ResolutionMilestones = []int{10, 20}
		}, "resolution_milestones"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(manifest, 16)
			tt.mutate(&cfg)
			_, err := cfg.Resolve()
			require.Error(t, err)
			var ce *errs.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}
