// Package renderer provides OpenGL rendering for loaded models.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// Vertex shader: position + texcoord, MVP transform.
const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

uniform mat4 uMVP;

out vec2 vTexCoord;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vTexCoord = aTexCoord;
}
` + "\x00"

// Fragment shader: sampled texture modulated by the material diffuse
// color; untextured parts fall back to a 1x1 white texture so the
// diffuse color shows unmodified.
const meshFragmentShader = `
#version 410 core

in vec2 vTexCoord;

uniform sampler2D uTexture;
uniform vec3 uDiffuse;

out vec4 FragColor;

void main() {
	vec4 texColor = texture(uTexture, vTexCoord);
	FragColor = vec4(texColor.rgb * uDiffuse, texColor.a);
}
` + "\x00"

// drawPart is a material range of the uploaded mesh with its resolved
// GPU texture and diffuse color.
type drawPart struct {
	baseIndex  int32
	indexCount int32
	textureID  uint32
	diffuse    [3]float32
}

// Renderer uploads a loaded model to the GPU and draws it part by part.
type Renderer struct {
	program    uint32
	locMVP     int32
	locTexture int32
	locDiffuse int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	parts       []drawPart
	textures    []uint32
	fallbackTex uint32
}

// New creates a renderer. Must be called after the OpenGL context exists.
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	r := &Renderer{}

	program, err := shader.CompileProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.program = program
	r.locMVP = shader.GetUniform(program, "uMVP")
	r.locTexture = shader.GetUniform(program, "uTexture")
	r.locDiffuse = shader.GetUniform(program, "uDiffuse")

	r.createFallbackTexture()

	return r, nil
}

func (r *Renderer) createFallbackTexture() {
	gl.GenTextures(1, &r.fallbackTex)
	gl.BindTexture(gl.TEXTURE_2D, r.fallbackTex)
	white := []uint8{255, 255, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
}

// Upload pushes the model's mesh and textures to the GPU, replacing any
// previously uploaded model. Textures that fail to load degrade to the
// white fallback with a warning.
func (r *Renderer) Upload(m *model.Model) {
	r.clearModel()

	mesh := m.Mesh
	if mesh == nil || len(mesh.Indices) == 0 {
		return
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// TexCoord
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	r.indexCount = int32(len(mesh.Indices))
	gl.BindVertexArray(0)

	// One GPU texture per distinct diffuse map
	texCache := make(map[string]uint32)

	for _, part := range mesh.Parts {
		mat, _ := m.ResolveMaterial(part.MaterialName)

		dp := drawPart{
			baseIndex:  part.BaseIndex,
			indexCount: part.IndexCount,
			textureID:  r.fallbackTex,
			diffuse:    mat.Diffuse,
		}

		if mat.HasTexture() {
			texID, ok := texCache[mat.DiffuseMap]
			if !ok {
				texID = r.loadTexture(m.Dir, mat.DiffuseMap)
				texCache[mat.DiffuseMap] = texID
			}
			dp.textureID = texID
		}

		r.parts = append(r.parts, dp)
	}

	logger.Log.Info("model uploaded",
		zap.String("model", m.Name),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
		zap.Int("parts", len(r.parts)),
	)
}

// loadTexture decodes and uploads a diffuse map, returning the fallback
// texture on any failure.
func (r *Renderer) loadTexture(baseDir, relPath string) uint32 {
	img, err := texture.LoadFile(texture.ResolvePath(baseDir, relPath))
	if err != nil {
		logger.Log.Warn("texture load failed",
			zap.String("path", relPath),
			zap.Error(err),
		)
		return r.fallbackTex
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	r.textures = append(r.textures, texID)
	return texID
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Render draws the uploaded model with the given view-projection and
// placement matrices.
func (r *Renderer) Render(viewProj, placement math.Mat4) {
	if r.vao == 0 {
		return
	}

	mvp := viewProj.Mul(placement)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.locTexture, 0)

	gl.BindVertexArray(r.vao)
	for _, part := range r.parts {
		gl.Uniform3f(r.locDiffuse, part.diffuse[0], part.diffuse[1], part.diffuse[2])
		gl.BindTexture(gl.TEXTURE_2D, part.textureID)
		gl.DrawElementsWithOffset(gl.TRIANGLES, part.indexCount, gl.UNSIGNED_INT, uintptr(part.baseIndex*4))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) clearModel() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	for _, tex := range r.textures {
		if tex != 0 {
			gl.DeleteTextures(1, &tex)
		}
	}
	r.textures = nil
	r.parts = nil
	r.indexCount = 0
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	logger.Log.Info("closing renderer")
	r.clearModel()
	if r.fallbackTex != 0 {
		gl.DeleteTextures(1, &r.fallbackTex)
		r.fallbackTex = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
