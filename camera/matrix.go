package camera

import "github.com/golang/geo/r3"

// Mat34 is a row-major 3×4 camera-to-world transform: three rotation columns
// (right, up, back) followed by the translation column.
type Mat34 struct {
	M [3][4]float64
}

// Mat4 is a row-major 4×4 matrix.
type Mat4 struct {
	M [4][4]float64
}

// NewMat34 assembles a transform from its basis columns and translation.
func NewMat34(right, up, back, pos r3.Vector) Mat34 {
	return Mat34{M: [3][4]float64{
		{right.X, up.X, back.X, pos.X},
		{right.Y, up.Y, back.Y, pos.Y},
		{right.Z, up.Z, back.Z, pos.Z},
	}}
}

// Col returns column c (0..3) as a vector.
func (A Mat34) Col(c int) r3.Vector {
	return r3.Vector{X: A.M[0][c], Y: A.M[1][c], Z: A.M[2][c]}
}

// Translation is the camera position.
func (A Mat34) Translation() r3.Vector { return A.Col(3) }

// Rotate applies the 3×3 rotation block to v.
func (A Mat34) Rotate(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: A.M[0][0]*v.X + A.M[0][1]*v.Y + A.M[0][2]*v.Z,
		Y: A.M[1][0]*v.X + A.M[1][1]*v.Y + A.M[1][2]*v.Z,
		Z: A.M[2][0]*v.X + A.M[2][1]*v.Y + A.M[2][2]*v.Z,
	}
}

// homogeneous lifts the transform to 4×4 with a [0 0 0 1] bottom row.
func (A Mat34) homogeneous() Mat4 {
	var R Mat4
	for r := 0; r < 3; r++ {
		R.M[r] = A.M[r]
	}
	R.M[3][3] = 1
	return R
}

// InverseRigid inverts a rotation+translation transform: [Rᵀ | -Rᵀt].
func (A Mat34) InverseRigid() Mat4 {
	var R Mat4
	t := A.Translation()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = A.M[c][r]
		}
		R.M[r][3] = -(A.M[0][r]*t.X + A.M[1][r]*t.Y + A.M[2][r]*t.Z)
	}
	R.M[3][3] = 1
	return R
}

func identity4() Mat4 {
	return Mat4{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Mul returns A×B.
func (A Mat4) Mul(B Mat4) Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

// mulPoint multiplies the homogeneous point (p, w).
func (A Mat4) mulPoint(p r3.Vector, w float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = A.M[r][0]*p.X + A.M[r][1]*p.Y + A.M[r][2]*p.Z + A.M[r][3]*w
	}
	return out
}

// AppendFloat32 appends the matrix in row-major order.
func (A Mat4) AppendFloat32(dst []float32) []float32 {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			dst = append(dst, float32(A.M[r][c]))
		}
	}
	return dst
}

// AppendFloat32 appends the matrix in row-major order.
func (A Mat34) AppendFloat32(dst []float32) []float32 {
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			dst = append(dst, float32(A.M[r][c]))
		}
	}
	return dst
}
