package camera

import (
	"math"

	"github.com/Noofbiz/multiview/errs"
)

// Clip planes used for every manifest camera.
const (
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// ValidateFovy checks that fovy (radians) lies in the open interval (0, π).
func ValidateFovy(fovy float64) error {
	if !(fovy > 0 && fovy < math.Pi) {
		return errs.Configf("default_fovy_deg", "field of view must be in (0, 180) degrees, got %.4g", fovy*180/math.Pi)
	}
	return nil
}

// Projection returns an OpenGL-style perspective matrix. The y axis is negated
// because rasterized images are stored top row first.
func Projection(fovy, aspect, near, far float64) (Mat4, error) {
	if err := ValidateFovy(fovy); err != nil {
		return Mat4{}, err
	}
	if !(aspect > 0) {
		return Mat4{}, errs.Configf("width", "aspect ratio must be positive, got %v", aspect)
	}
	if !(near > 0 && far > near) {
		return Mat4{}, errs.Configf("near", "clip planes must satisfy 0 < near < far, got %v/%v", near, far)
	}
	t := math.Tan(fovy / 2)
	var P Mat4
	P.M[0][0] = 1 / (t * aspect)
	P.M[1][1] = -1 / t
	P.M[2][2] = -(far + near) / (far - near)
	P.M[2][3] = -2 * far * near / (far - near)
	P.M[3][2] = -1
	return P, nil
}

// MVP composes proj × inverse(c2w).
func MVP(c2w Mat34, proj Mat4) Mat4 {
	return proj.Mul(c2w.InverseRigid())
}
