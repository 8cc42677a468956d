package camera

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// DirectionGrid caches per-pixel ray directions for a pinhole camera with
// focal length 1. The grid depends only on the resolution, so it is built once
// per tier and rescaled whenever the focal length changes.
type DirectionGrid struct {
	Height, Width int

	dirs []r3.Vector
}

// NewDirectionGrid computes unit-focal directions through pixel centres with
// the principal point at the image centre. x grows right, y grows up and the
// camera looks down -z.
func NewDirectionGrid(height, width int) *DirectionGrid {
	g := &DirectionGrid{
		Height: height,
		Width:  width,
		dirs:   make([]r3.Vector, height*width),
	}
	cx, cy := float64(width)/2, float64(height)/2
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			g.dirs[v*width+u] = r3.Vector{
				X: float64(u) + 0.5 - cx,
				Y: -(float64(v) + 0.5 - cy),
				Z: -1,
			}
		}
	}
	return g
}

// Len is the number of pixels.
func (g *DirectionGrid) Len() int { return len(g.dirs) }

// Scaled returns a fresh copy of the grid with x and y divided by focal.
func (g *DirectionGrid) Scaled(focal float64) []r3.Vector {
	out := make([]r3.Vector, len(g.dirs))
	for i, d := range g.dirs {
		out[i] = r3.Vector{X: d.X / focal, Y: d.Y / focal, Z: d.Z}
	}
	return out
}

// FocalLength converts a vertical field of view (radians) to a focal length in
// pixels for an image of the given height.
func FocalLength(height int, fovy float64) float64 {
	return 0.5 * float64(height) / math.Tan(0.5*fovy)
}

// Rays transforms camera-space directions to world space for the camera c2w
// and writes origins and unit directions as packed xyz float32 triples into
// origins and dirs, which must hold 3*len(local) values each.
//
// When noise > 0, isotropic Gaussian jitter of that scale is drawn from rng
// for every origin and direction on each call.
func Rays(local []r3.Vector, c2w Mat34, noise float64, rng *rand.Rand, origins, dirs []float32) {
	o := c2w.Translation()
	for i, d := range local {
		ro := o
		rd := c2w.Rotate(d)
		if noise > 0 {
			ro = ro.Add(gaussian3(rng).Mul(noise))
			rd = rd.Add(gaussian3(rng).Mul(noise))
		}
		rd = rd.Normalize()
		j := 3 * i
		origins[j], origins[j+1], origins[j+2] = float32(ro.X), float32(ro.Y), float32(ro.Z)
		dirs[j], dirs[j+1], dirs[j+2] = float32(rd.X), float32(rd.Y), float32(rd.Z)
	}
}

func gaussian3(rng *rand.Rand) r3.Vector {
	return r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
}
