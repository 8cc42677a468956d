package datasets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/multiview/datasets"
	"github.com/Noofbiz/multiview/errs"
)

func TestNormalizeDistances(t *testing.T) {
	got := datasets.NormalizeDistances([]float64{2, 4, 8}, 3.8)
	require.Len(t, got, 3)
	assert.InDelta(t, 3.8, got[0], 1e-9)
	assert.InDelta(t, 7.6, got[1], 1e-9)
	assert.InDelta(t, 15.2, got[2], 1e-9)

	// order does not matter, only the minimum
	got = datasets.NormalizeDistances([]float64{8, 2}, 1)
	assert.InDelta(t, 4, got[0], 1e-9)
	assert.InDelta(t, 1, got[1], 1e-9)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	frames := threeFrames()
	frames[0].distance, frames[1].distance, frames[2].distance = 2, 4, 8
	path := writeFixture(t, dir, frames)

	m, err := datasets.LoadManifest(path, 5, 3.8)
	require.NoError(t, err)
	require.Len(t, m.Frames, 3)
	assert.InDelta(t, 1.9, m.Scale, 1e-9)

	wantElev := []float64{-5, 5, 15}
	wantDist := []float64{3.8, 7.6, 15.2}
	for i, f := range m.Frames {
		assert.InDelta(t, wantElev[i], f.Pose.ElevationDeg, 1e-9, "frame %d", i)
		assert.InDelta(t, frames[i].azim, f.Pose.AzimuthDeg, 1e-9, "frame %d", i)
		assert.InDelta(t, wantDist[i], f.Pose.Distance, 1e-9, "frame %d", i)
		assert.Equal(t, filepath.Join(dir, frames[i].name+"_rgba.png"), f.Path)
	}
}

func TestLoadManifest_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := datasets.LoadManifest(filepath.Join(dir, "absent.json"), 0, 1)
	require.Error(t, err)
	assert.True(t, errs.IsMissingAsset(err))

	tests := []struct {
		name  string
		body  string
		frame int
	}{
		{"bad json", `{"frames": [`, -1},
		{"no frames", `{"frames": []}`, -1},
		{"missing path", `{"frames": [{"latlon": [0, 0, 1]}]}`, 0},
		{"short latlon", `{"frames": [{"file_path": "a_rgba.png", "latlon": [0, 0, 1]}, {"file_path": "b_rgba.png", "latlon": [0, 0]}]}`, 1},
		{"zero distance", `{"frames": [{"file_path": "a_rgba.png", "latlon": [0, 0, 0]}]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(tt.name+".json", tt.body)
			_, err := datasets.LoadManifest(path, 0, 1)
			require.Error(t, err)
			require.True(t, errs.IsManifestParse(err), "got %v", err)
			var pe *errs.ManifestParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, path, pe.Path)
			assert.Equal(t, tt.frame, pe.Frame)
		})
	}
}
