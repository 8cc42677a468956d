package errs

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsHelpers_SeeThroughWrapping(t *testing.T) {
	cfg := errors.Wrap(Configf("height", "got %d entries", 2), "setup")
	asset := fmt.Errorf("load: %w", &MissingAssetError{Path: "/x/a_depth.png", Kind: "depth"})
	geom := errors.Wrapf(&DegenerateGeometryError{Index: 3, Message: "forward parallel to up"}, "frame %d", 3)
	parse := &ManifestParseError{Path: "t.json", Frame: -1, Err: errors.New("unexpected EOF")}

	assert.True(t, IsConfigError(cfg))
	assert.False(t, IsConfigError(asset))
	assert.True(t, IsMissingAsset(asset))
	assert.True(t, IsDegenerateGeometry(geom))
	assert.True(t, IsManifestParse(parse))
	assert.False(t, IsManifestParse(geom))
}

func TestErrorMessages_NameTheCulprit(t *testing.T) {
	assert.Equal(t, "config: resolution_milestones: mismatch", Configf("resolution_milestones", "mismatch").Error())
	assert.Equal(t, "missing image asset: could not find /data/0_rgba.png",
		(&MissingAssetError{Path: "/data/0_rgba.png", Kind: "image"}).Error())
	assert.Contains(t, (&DegenerateGeometryError{Index: 2, Message: "zero cross"}).Error(), "camera 2")
	assert.Contains(t, (&ManifestParseError{Path: "m.json", Frame: 4, Err: errors.New("latlon")}).Error(), "frame 4")
}
