package datasets

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/Noofbiz/multiview/randcam"
)

// Batch is one training record: B frames sampled from the manifest with their
// rays, matrices and pixels, plus an optional random camera batch.
type Batch struct {
	// Indices are the sampled frame indices.
	Indices []int

	Height, Width int

	RaysO           []float32 // B×H×W×3
	RaysD           []float32 // B×H×W×3
	MVP             []float32 // B×4×4
	CameraPositions []float32 // B×3
	LightPositions  []float32 // B×3
	Elevation       []float32 // B, degrees
	Azimuth         []float32 // B, degrees
	CameraDistances []float32 // B

	RGB  []float32 // B×H×W×3
	Mask []float32 // B×H×W×1

	// RefDepth (B×H×W×1) and RefNormal (B×H×W×3) are nil when the dataset
	// does not load them.
	RefDepth  []float32
	RefNormal []float32

	// RandomCamera is nil when the random camera stream is disabled.
	RandomCamera *randcam.Batch
}

// Size is the number of sampled frames.
func (b *Batch) Size() int { return len(b.Indices) }

// Input and label tensor keys, in Yield order.
var (
	InputKeys = []string{"rays_o", "rays_d", "mvp_mtx", "camera_positions", "light_positions",
		"elevation", "azimuth", "camera_distances", "height", "width"}
	LabelKeys = []string{"rgb", "mask", "ref_depth", "ref_normal"}
)

// RandomCameraPrefix prefixes the keys of the embedded random camera batch in
// Tensors.
const RandomCameraPrefix = "random_camera."

// Tensors converts the batch into gomlx tensors. Absent optional channels
// have no entry; the random camera batch is flattened under
// RandomCameraPrefix.
func (b *Batch) Tensors() map[string]*tensors.Tensor {
	B, H, W := b.Size(), b.Height, b.Width
	out := map[string]*tensors.Tensor{
		"rays_o":           tensors.FromFlatDataAndDimensions(b.RaysO, B, H, W, 3),
		"rays_d":           tensors.FromFlatDataAndDimensions(b.RaysD, B, H, W, 3),
		"mvp_mtx":          tensors.FromFlatDataAndDimensions(b.MVP, B, 4, 4),
		"camera_positions": tensors.FromFlatDataAndDimensions(b.CameraPositions, B, 3),
		"light_positions":  tensors.FromFlatDataAndDimensions(b.LightPositions, B, 3),
		"elevation":        tensors.FromFlatDataAndDimensions(b.Elevation, B),
		"azimuth":          tensors.FromFlatDataAndDimensions(b.Azimuth, B),
		"camera_distances": tensors.FromFlatDataAndDimensions(b.CameraDistances, B),
		"rgb":              tensors.FromFlatDataAndDimensions(b.RGB, B, H, W, 3),
		"mask":             tensors.FromFlatDataAndDimensions(b.Mask, B, H, W, 1),
		"height":           tensors.FromValue(int32(H)),
		"width":            tensors.FromValue(int32(W)),
	}
	if b.RefDepth != nil {
		out["ref_depth"] = tensors.FromFlatDataAndDimensions(b.RefDepth, B, H, W, 1)
	}
	if b.RefNormal != nil {
		out["ref_normal"] = tensors.FromFlatDataAndDimensions(b.RefNormal, B, H, W, 3)
	}
	if b.RandomCamera != nil {
		for k, t := range b.RandomCamera.Tensors() {
			out[RandomCameraPrefix+k] = t
		}
	}
	return out
}

// ordered picks the tensors of keys that are present, in order.
func ordered(all map[string]*tensors.Tensor, keys []string) []*tensors.Tensor {
	out := make([]*tensors.Tensor, 0, len(keys))
	for _, k := range keys {
		if t, ok := all[k]; ok {
			out = append(out, t)
		}
	}
	return out
}
