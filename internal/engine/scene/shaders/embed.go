// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ObjectVertexShader transforms interleaved position/normal/uv vertices.
//
//go:embed object.vert
var ObjectVertexShader string

// ObjectFragmentShader samples the material texture with simple
// directional lighting.
//
//go:embed object.frag
var ObjectFragmentShader string
