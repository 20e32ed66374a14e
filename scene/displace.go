package scene

import (
	"github.com/chewxy/math32"

	"gltf-scenes/math"
)

// DisplaceVertexShader pushes each vertex along its normal by a ripple
// centred on the mouse position in model-space XY.
const DisplaceVertexShader = `
uniform float time;
uniform vec2 mouse;
out vec2 vUv;

void main() {
	vUv = uv;
	float d = distance(mouse, position.xy);
	vec3 transformed = position + normal * sin(d * 10.0 - time * 5.0) * 0.2;
	gl_Position = projectionMatrix * modelViewMatrix * vec4(transformed, 1.0);
}
`

// BaseTextureFragmentShader outputs the base texture unlit.
const BaseTextureFragmentShader = `
uniform sampler2D baseTexture;
in vec2 vUv;

void main() {
	fragColor = texture(baseTexture, vUv);
}
`

// Displace is DisplaceVertexShader's displacement evaluated on the CPU.
func Displace(position, normal math.Vec3, mouse math.Vec2, time float32) math.Vec3 {
	d := mouse.Distance(position.XY())
	return position.Add(normal.Mul(math32.Sin(d*10-time*5) * 0.2))
}

// NewDisplaceMaterial builds the ripple material with time 0, mouse at the
// origin and the given base texture, which may be nil.
func NewDisplaceMaterial(name string, base *Texture) *ShaderMaterial {
	return &ShaderMaterial{
		Name:           name,
		VertexShader:   DisplaceVertexShader,
		FragmentShader: BaseTextureFragmentShader,
		Uniforms: map[string]*Uniform{
			"time":        {Value: float32(0)},
			"mouse":       {Value: math.Vec2Zero},
			"baseTexture": {Value: base},
		},
	}
}
