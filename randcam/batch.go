package randcam

import (
	"github.com/golang/geo/r3"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Batch holds B random cameras in packed float32 buffers.
type Batch struct {
	Size          int
	Height, Width int

	RaysO           []float32 // B×H×W×3
	RaysD           []float32 // B×H×W×3
	MVP             []float32 // B×4×4
	C2W             []float32 // B×3×4
	CameraPositions []float32 // B×3
	LightPositions  []float32 // B×3
	Elevation       []float32 // B, degrees
	Azimuth         []float32 // B, degrees
	CameraDistances []float32 // B
	Fovy            []float32 // B, degrees
}

func newBatch(size, height, width int) *Batch {
	pixels := height * width * 3
	return &Batch{
		Size:            size,
		Height:          height,
		Width:           width,
		RaysO:           make([]float32, size*pixels),
		RaysD:           make([]float32, size*pixels),
		MVP:             make([]float32, 0, size*16),
		C2W:             make([]float32, 0, size*12),
		CameraPositions: make([]float32, 0, size*3),
		LightPositions:  make([]float32, 0, size*3),
		Elevation:       make([]float32, size),
		Azimuth:         make([]float32, size),
		CameraDistances: make([]float32, size),
		Fovy:            make([]float32, size),
	}
}

func (b *Batch) rays(i int) (origins, dirs []float32) {
	n := b.Height * b.Width * 3
	return b.RaysO[i*n : (i+1)*n], b.RaysD[i*n : (i+1)*n]
}

// slice returns a single-camera view of camera i sharing b's buffers.
func (b *Batch) slice(i int) *Batch {
	o, d := b.rays(i)
	return &Batch{
		Size:            1,
		Height:          b.Height,
		Width:           b.Width,
		RaysO:           o,
		RaysD:           d,
		MVP:             b.MVP[i*16 : (i+1)*16],
		C2W:             b.C2W[i*12 : (i+1)*12],
		CameraPositions: b.CameraPositions[i*3 : (i+1)*3],
		LightPositions:  b.LightPositions[i*3 : (i+1)*3],
		Elevation:       b.Elevation[i : i+1],
		Azimuth:         b.Azimuth[i : i+1],
		CameraDistances: b.CameraDistances[i : i+1],
		Fovy:            b.Fovy[i : i+1],
	}
}

// Keys lists every key of Tensors in a stable order.
var Keys = []string{"rays_o", "rays_d", "mvp_mtx", "c2w", "camera_positions", "light_positions",
	"elevation", "azimuth", "camera_distances", "fovy", "height", "width"}

// Tensors converts the batch into gomlx tensors keyed like the manifest
// batch.
func (b *Batch) Tensors() map[string]*tensors.Tensor {
	B, H, W := b.Size, b.Height, b.Width
	return map[string]*tensors.Tensor{
		"rays_o":           tensors.FromFlatDataAndDimensions(b.RaysO, B, H, W, 3),
		"rays_d":           tensors.FromFlatDataAndDimensions(b.RaysD, B, H, W, 3),
		"mvp_mtx":          tensors.FromFlatDataAndDimensions(b.MVP, B, 4, 4),
		"c2w":              tensors.FromFlatDataAndDimensions(b.C2W, B, 3, 4),
		"camera_positions": tensors.FromFlatDataAndDimensions(b.CameraPositions, B, 3),
		"light_positions":  tensors.FromFlatDataAndDimensions(b.LightPositions, B, 3),
		"elevation":        tensors.FromFlatDataAndDimensions(b.Elevation, B),
		"azimuth":          tensors.FromFlatDataAndDimensions(b.Azimuth, B),
		"camera_distances": tensors.FromFlatDataAndDimensions(b.CameraDistances, B),
		"fovy":             tensors.FromFlatDataAndDimensions(b.Fovy, B),
		"height":           tensors.FromValue(int32(H)),
		"width":            tensors.FromValue(int32(W)),
	}
}

func appendVec(dst []float32, v r3.Vector) []float32 {
	return append(dst, float32(v.X), float32(v.Y), float32(v.Z))
}
