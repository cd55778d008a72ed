package frames

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const deg = math.Pi / 180

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// RotZ rotates a vector by a degrees about z:
//
//	[c -s 0]
//	[s  c 0]
//	[0  0 1]
func RotZ(a float64) *mat.Dense {
	s, c := math.Sincos(a * deg)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// RotX rotates a vector by a degrees about x.
func RotX(a float64) *mat.Dense {
	s, c := math.Sincos(a * deg)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// FrameZ re-expresses a vector in axes turned by a degrees about z, the
// opposite sense of RotZ.
func FrameZ(a float64) *mat.Dense {
	s, c := math.Sincos(a * deg)
	return mat.NewDense(3, 3, []float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	})
}

// FrameY re-expresses a vector in axes turned by a degrees about y.
func FrameY(a float64) *mat.Dense {
	s, c := math.Sincos(a * deg)
	return mat.NewDense(3, 3, []float64{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	})
}

// Apply returns m*v.
func Apply(m mat.Matrix, v Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}
