package datasets_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/multiview/datasets"
	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/schedule"
)

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	frames := []fixtureFrame{
		{name: "opaque", distance: 1, color: color.NRGBA{R: 255, G: 0, B: 51, A: 255}, withDepth: true, withNormals: true},
		{name: "clear", distance: 1, color: color.NRGBA{R: 10, G: 20, B: 30, A: 0}, withDepth: true, withNormals: true},
	}
	m, err := datasets.LoadManifest(writeFixture(t, dir, frames), 0, 1)
	require.NoError(t, err)

	res := schedule.Resolution{Height: 4, Width: 6}
	present := func(suffix string) datasets.Modality { return datasets.Modality{Present: true, Suffix: suffix} }
	im, err := datasets.LoadImages(m.Frames, res, present("_depth.png"), present("_normal.png"))
	require.NoError(t, err)

	px := 4 * 6
	assert.Equal(t, 2, im.Len())
	require.Len(t, im.RGB, 2*px*3)
	require.Len(t, im.Mask, 2*px)
	require.Len(t, im.Depth, 2*px)
	require.Len(t, im.Normal, 2*px*3)

	for p := 0; p < px; p++ {
		assert.InDelta(t, 1, im.RGB[p*3], 1e-3)
		assert.InDelta(t, 0, im.RGB[p*3+1], 1e-3)
		assert.InDelta(t, 0.2, im.RGB[p*3+2], 1e-3)
		assert.Equal(t, float32(1), im.Mask[p])
		assert.Equal(t, float32(0), im.Mask[px+p])
		// fully transparent pixels keep their straight color
		assert.InDelta(t, 10.0/255, im.RGB[(px+p)*3], 1e-3)
		assert.InDelta(t, 20.0/255, im.RGB[(px+p)*3+1], 1e-3)
		assert.InDelta(t, 30.0/255, im.RGB[(px+p)*3+2], 1e-3)

		assert.InDelta(t, 128.0/255, im.Depth[p], 1e-3)
		assert.InDelta(t, 1, im.Normal[p*3], 1e-3)
		assert.InDelta(t, 0, im.Normal[p*3+1], 1e-3)
		assert.InDelta(t, 128.0/255, im.Normal[p*3+2], 1e-3)
	}
	for _, v := range append(im.RGB, im.Mask...) {
		assert.True(t, v >= 0 && v <= 1)
	}
}

func TestLoadImages_SkipsAbsentModalities(t *testing.T) {
	dir := t.TempDir()
	m, err := datasets.LoadManifest(writeFixture(t, dir, threeFrames()), 0, 1)
	require.NoError(t, err)

	im, err := datasets.LoadImages(m.Frames, schedule.Resolution{Height: 8, Width: 8}, datasets.Modality{}, datasets.Modality{})
	require.NoError(t, err)
	assert.Nil(t, im.Depth)
	assert.Nil(t, im.Normal)
	assert.Equal(t, 3, im.Len())
}

func TestLoadImages_MissingAssets(t *testing.T) {
	dir := t.TempDir()
	m, err := datasets.LoadManifest(writeFixture(t, dir, threeFrames()), 0, 1)
	require.NoError(t, err)
	res := schedule.Resolution{Height: 8, Width: 8}
	depth := datasets.Modality{Present: true, Suffix: "_depth.png"}

	// no depth companions were written
	_, err = datasets.LoadImages(m.Frames, res, depth, datasets.Modality{})
	require.Error(t, err)
	var me *errs.MissingAssetError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, filepath.Join(dir, "front_depth.png"), me.Path)
	assert.Equal(t, "depth", me.Kind)

	// an image without the _rgba.png suffix has no companion to look up
	plain := filepath.Join(dir, "plain.png")
	writePNG(t, plain, 4, 4, color.NRGBA{A: 255})
	_, err = datasets.LoadImages([]datasets.Frame{{Path: plain}}, res, depth, datasets.Modality{})
	require.Error(t, err)
	assert.True(t, errs.IsMissingAsset(err))
	assert.Contains(t, err.Error(), "does not contain _rgba.png")

	require.NoError(t, os.Remove(m.Frames[1].Path))
	_, err = datasets.LoadImages(m.Frames, res, datasets.Modality{}, datasets.Modality{})
	require.ErrorAs(t, err, &me)
	assert.Equal(t, m.Frames[1].Path, me.Path)
	assert.Equal(t, "image", me.Kind)
}
