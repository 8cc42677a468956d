package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/Noofbiz/multiview/errs"
)

// degenerateEps bounds the length of a look-at cross product below which the
// basis is considered undefined. Elevation ±90° evaluates to ~1e-16 in
// floating point rather than exactly zero.
const degenerateEps = 1e-9

var (
	// WorldUp is the fixed up vector used for every manifest camera.
	WorldUp = r3.Vector{X: 0, Y: 0, Z: 1}

	// Origin is the fixed look-at target.
	Origin = r3.Vector{}
)

// Pose is a camera placement on a sphere around the origin.
type Pose struct {
	ElevationDeg float64
	AzimuthDeg   float64
	Distance     float64
}

// Validate rejects non-finite angles and non-positive distances.
func (p Pose) Validate() error {
	for _, v := range []float64{p.ElevationDeg, p.AzimuthDeg, p.Distance} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("pose %+v has a non-finite component", p)
		}
	}
	if p.Distance <= 0 {
		return fmt.Errorf("pose distance must be positive, got %v", p.Distance)
	}
	return nil
}

// Position converts a spherical pose to Cartesian coordinates.
func Position(p Pose) r3.Vector {
	el := p.ElevationDeg * math.Pi / 180
	az := p.AzimuthDeg * math.Pi / 180
	return r3.Vector{
		X: p.Distance * math.Cos(el) * math.Cos(az),
		Y: p.Distance * math.Cos(el) * math.Sin(az),
		Z: p.Distance * math.Sin(el),
	}
}

// LookAt builds the camera-to-world transform of a camera at eye looking at
// target. The columns are right, re-orthogonalized up, -forward and eye.
//
// It fails with a *errs.DegenerateGeometryError when forward is parallel to
// up or the eye coincides with the target.
func LookAt(eye, target, up r3.Vector) (Mat34, error) {
	toTarget := target.Sub(eye)
	if toTarget.Norm() < degenerateEps {
		return Mat34{}, &errs.DegenerateGeometryError{Index: -1, Message: fmt.Sprintf("camera at %v coincides with its target", eye)}
	}
	forward := toTarget.Normalize()
	rightRaw := forward.Cross(up)
	if rightRaw.Norm() < degenerateEps*math.Max(1, up.Norm()) {
		return Mat34{}, &errs.DegenerateGeometryError{
			Index:   -1,
			Message: fmt.Sprintf("forward %v is parallel to up %v", forward, up),
		}
	}
	right := rightRaw.Normalize()
	trueUp := right.Cross(forward).Normalize()
	return NewMat34(right, trueUp, forward.Mul(-1), eye), nil
}
