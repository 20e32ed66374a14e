package opengl

// Attribute locations shared by every program: 0 position, 1 normal, 2 uv.

const litVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 mvp;
uniform mat4 model;
uniform mat4 lightViewProj;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;
out vec4 vLightSpace;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = transpose(inverse(mat3(model))) * inNormal;
    vUV = inUV;
    vLightSpace = lightViewProj * world;
    gl_Position = mvp * vec4(inPosition, 1.0);
}
` + "\x00"

const litFragSrc = `
#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
in vec4 vLightSpace;

uniform vec4 matAlbedo;
uniform sampler2D albedoTex;
uniform vec3 ambientColor;

uniform int hasSpot;
uniform vec3 spotPos;
uniform vec3 spotDir;
uniform vec3 spotColor;
uniform float spotCosOuter;
uniform float spotCosInner;

uniform int hasShadows;
uniform int receiveShadow;
uniform float shadowBias;
uniform sampler2DShadow shadowMap;

out vec4 outColor;

float shadowFactor() {
    if (hasShadows == 0 || receiveShadow == 0) {
        return 1.0;
    }
    vec3 p = vLightSpace.xyz / vLightSpace.w * 0.5 + 0.5;
    if (p.z > 1.0) {
        return 1.0;
    }
    // 3x3 PCF over the hardware comparison sampler
    vec2 texel = 1.0 / vec2(textureSize(shadowMap, 0));
    float lit = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            lit += texture(shadowMap, vec3(p.xy + vec2(x, y) * texel, p.z + shadowBias));
        }
    }
    return lit / 9.0;
}

void main() {
    vec4 base = matAlbedo * texture(albedoTex, vUV);
    vec3 n = normalize(vNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    vec3 light = ambientColor;
    if (hasSpot == 1) {
        vec3 toLight = normalize(spotPos - vWorldPos);
        float cone = smoothstep(spotCosOuter, spotCosInner, dot(-toLight, normalize(spotDir)));
        float diffuse = max(dot(n, toLight), 0.0);
        light += spotColor * diffuse * cone * shadowFactor();
    }
    outColor = vec4(base.rgb * light, base.a);
}
` + "\x00"

const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 lightMVP;
void main() {
    gl_Position = lightMVP * vec4(inPosition, 1.0);
}
` + "\x00"

const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"

// Prepended to ShaderMaterial sources.
const customVertPrelude = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
layout(location = 2) in vec2 uv;
uniform mat4 modelMatrix;
uniform mat4 viewMatrix;
uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;
`

const customFragPrelude = `#version 410 core
out vec4 fragColor;
`
