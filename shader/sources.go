package shader

// FullscreenVertices is the number of vertices PassVertex expands into two
// triangles covering normalized device coordinates. No vertex buffer is bound;
// positions come from gl_VertexID.
const FullscreenVertices = 6

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// PassVertex is the vertex stage shared by every pass.
const PassVertex = `#version 330 core
out vec2 uv;
const vec2 verts[6] = vec2[6](
    vec2(-1.0, -1.0), vec2(1.0, -1.0), vec2(1.0, 1.0),
    vec2(-1.0, -1.0), vec2(1.0, 1.0), vec2(-1.0, 1.0));
void main(void) {
    uv = 0.5 * (vec2(1.0, 1.0) + verts[gl_VertexID]);
    gl_Position = vec4(verts[gl_VertexID], 0.0, 1.0);
}
`

// NoiseFragment writes sparse bright speckles. thres is the fraction of pixels
// left dark; curtime reseeds the hash.
const NoiseFragment = `#version 330 core
in vec2 uv;
layout(location = 0) out vec4 target;
uniform float thres;
uniform float curtime;
float rand(vec3 v) {
    float r = dot(sin(v), vec3(12.9898, 78.233, 37.719));
    return fract(sin(r) * 143758.5453);
}
void main(void) {
    float cutoff = smoothstep(0.98, 0.97, uv.x);
    float noise = step(clamp(thres, 0.01, 0.99), rand(vec3(100.0 * uv, curtime)));
    float color = 5.0 * cutoff * noise;
    target = vec4(vec3(color), 1.0);
}
`

// SmearFragment drags the previous pass to the right with a decaying trail.
const SmearFragment = `#version 330 core
in vec2 uv;
layout(location = 0) out vec4 target;
uniform vec2 resolution;
uniform float smear;
uniform sampler2D pfb;
void main(void) {
    const int steps = 16;
    const float fsteps = float(steps);
    float st = smear / resolution.x;
    target = vec4(0.0);
    for (int i = 1; i <= steps; ++i)
        target += texture(pfb, uv - vec2(float(i) * st, 0.0)) / float(i) * 16.0;
    target += texture(pfb, uv);
    target /= fsteps;
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

// PassVertexES is PassVertex in the WebGL2 dialect, used when a pass's fragment
// stage is written in GLSL ES and both stages go through the translator.
const PassVertexES = `#version 300 es
precision highp float;
out vec2 uv;
const vec2 verts[6] = vec2[6](
    vec2(-1.0, -1.0), vec2(1.0, -1.0), vec2(1.0, 1.0),
    vec2(-1.0, -1.0), vec2(1.0, 1.0), vec2(-1.0, 1.0));
void main() {
    uv = 0.5 * (vec2(1.0, 1.0) + verts[gl_VertexID]);
    gl_Position = vec4(verts[gl_VertexID], 0.0, 1.0);
}
`
