package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Attribute locations shared by the vertex shader and the VAO setup.
const (
	attribPosition = 0
	attribTexcoord = 1
	attribTint     = 2
)

// Positions arrive in clip space, so the vertex stage is a pass-through.
var vertexShader = `#version 330 core
layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aUV;
layout(location = 2) in vec4 aTint;
out vec2 vUV;
out vec4 vTint;
void main() {
	vUV = aUV;
	vTint = aTint;
	gl_Position = vec4(aPos, 0.0, 1.0);
}` + "\x00"

// The tint weight in vTint.a mixes the tint color over the texel; the texel
// alpha is kept.
var fragmentShader = `#version 330 core
in vec2 vUV;
in vec4 vTint;
uniform sampler2D uTex;
out vec4 fragColor;
void main() {
	vec4 c = texture(uTex, vUV);
	float w = clamp(vTint.a, 0.0, 1.0);
	fragColor = vec4(mix(c.rgb, vTint.rgb, w), c.a);
}` + "\x00"

func compileShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	cstrs, free := gl.Strs(src)
	gl.ShaderSource(sh, 1, cstrs, nil)
	free()
	gl.CompileShader(sh)
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &l)
		logstr := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(sh, l, nil, gl.Str(logstr))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("glbackend: shader compile: %s", strings.TrimRight(logstr, "\x00"))
	}
	return sh, nil
}

func linkProgram(vs, fs uint32) (uint32, error) {
	p := gl.CreateProgram()
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)
	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &l)
		logstr := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(p, l, nil, gl.Str(logstr))
		gl.DeleteProgram(p)
		return 0, fmt.Errorf("glbackend: link: %s", strings.TrimRight(logstr, "\x00"))
	}
	return p, nil
}

// newProgram builds the tint program and binds its sampler to unit 0.
func newProgram() (uint32, error) {
	vs, err := compileShader(vertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	prog, err := linkProgram(vs, fs)
	if err != nil {
		return 0, err
	}
	gl.UseProgram(prog)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("uTex\x00")), 0)
	return prog, nil
}
