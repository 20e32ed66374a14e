package math

// Vec4 is a homogeneous point or a plane equation (normal, d).
type Vec4 struct {
	X, Y, Z, W float32
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

func (v Vec4) Sub(o Vec4) Vec4 {
	return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W}
}

func (v Vec4) Div(s float32) Vec4 {
	return Vec4{v.X / s, v.Y / s, v.Z / s, v.W / s}
}

// MulMat returns the row vector v * m.
func (v Vec4) MulMat(m Mat4) Vec4 {
	var out [4]float32
	for j := range out {
		out[j] = v.X*m[0][j] + v.Y*m[1][j] + v.Z*m[2][j] + v.W*m[3][j]
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

// ToVec3 drops W.
func (v Vec4) ToVec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// ToVec3DivW applies the perspective divide. Directions (W = 0) pass
// through unchanged.
func (v Vec4) ToVec3DivW() Vec3 {
	if v.W == 0 {
		return v.ToVec3()
	}
	return v.ToVec3().Div(v.W)
}
