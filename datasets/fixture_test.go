package datasets_test

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/multiview/datasets"
	"github.com/Noofbiz/multiview/schedule"
)

// writePNG writes a w×h image filled with c to path.
func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

type fixtureFrame struct {
	name                   string
	elev, azim, distance   float64
	color                  color.NRGBA
	withDepth, withNormals bool
}

// writeFixture writes frames as <name>_rgba.png (plus companions) and a
// transforms.json listing them, returning the manifest path.
func writeFixture(t *testing.T, dir string, frames []fixtureFrame) string {
	t.Helper()
	type entry struct {
		FilePath string    `json:"file_path"`
		LatLon   []float64 `json:"latlon"`
	}
	var manifest struct {
		Frames []entry `json:"frames"`
	}
	for _, f := range frames {
		rel := f.name + "_rgba.png"
		writePNG(t, filepath.Join(dir, rel), 16, 16, f.color)
		if f.withDepth {
			writePNG(t, filepath.Join(dir, f.name+"_depth.png"), 16, 16, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
		if f.withNormals {
			writePNG(t, filepath.Join(dir, f.name+"_normal.png"), 16, 16, color.NRGBA{R: 255, G: 0, B: 128, A: 255})
		}
		// latlon stores the polar angle, the negated elevation
		manifest.Frames = append(manifest.Frames, entry{FilePath: rel, LatLon: []float64{-f.elev, f.azim, f.distance}})
	}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	path := filepath.Join(dir, "transforms.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// threeFrames is the canonical fixture: three views around the object at
// distance 5.
func threeFrames() []fixtureFrame {
	names := []string{"front", "left", "right"}
	elevs := []float64{-10, 0, 10}
	azims := []float64{0, 120, 240}
	out := make([]fixtureFrame, 3)
	for i := range out {
		out[i] = fixtureFrame{
			name:     names[i],
			elev:     elevs[i],
			azim:     azims[i],
			distance: 5,
			color:    color.NRGBA{R: uint8(60 * (i + 1)), G: 100, B: 200, A: 255},
		}
	}
	return out
}

// testConfig returns a config for manifest at a single resolution with the
// random camera stream scaled down.
func testConfig(manifest string, size int) datasets.Config {
	cfg := datasets.DefaultConfig()
	cfg.TransformFP = manifest
	cfg.Height = schedule.IntList{size}
	cfg.Width = schedule.IntList{size}
	cfg.RandomCamera.Height = schedule.IntList{8}
	cfg.RandomCamera.Width = schedule.IntList{8}
	cfg.RandomCamera.EvalHeight = 8
	cfg.RandomCamera.EvalWidth = 8
	cfg.RandomCamera.NTestViews = 4
	cfg.Seed = 3
	return cfg
}

func writeYAML(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(body)+"\n"), 0o644))
	return path
}
