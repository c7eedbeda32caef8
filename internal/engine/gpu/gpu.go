// Package gpu uploads mesh buffers and textures to OpenGL.
// All functions must be called on the thread owning the GL context.
package gpu

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objmesh/internal/engine/mesh"
	"github.com/Faultbox/objmesh/internal/engine/texture"
	"github.com/Faultbox/objmesh/internal/logger"
)

// ErrEmptyMesh is returned when uploading a buffer with no indices.
var ErrEmptyMesh = errors.New("empty mesh")

// Init loads the OpenGL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	logger.Named("gpu").Info("OpenGL initialized")
	return nil
}

// Textures uploads images as 2D textures. It satisfies assets.TextureUploader.
type Textures struct {
	// MaxAnisotropy is applied when greater than 1.
	MaxAnisotropy float32
}

// Upload creates a mipmapped, repeating RGBA texture from img. Rows are
// flipped so V=0 samples the bottom of the image.
func (t *Textures) Upload(img *image.RGBA) (texture.Handle, error) {
	if img == nil || len(img.Pix) == 0 {
		return 0, errors.New("empty image")
	}
	flipped := texture.FlipVertical(img)
	w, h := int32(flipped.Bounds().Dx()), int32(flipped.Bounds().Dy())

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&flipped.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if t.MaxAnisotropy > 1 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, t.MaxAnisotropy)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if id == 0 {
		return 0, errors.New("glGenTextures returned 0")
	}
	return texture.Handle(id), nil
}

// Release deletes the texture.
func (t *Textures) Release(h texture.Handle) {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
}

// Mesh is a mesh.Buffer resident in GPU memory.
type Mesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// NewMesh uploads buf. Attribute 0 is the position, 1 the normal and
// 2 the texture coordinate.
func NewMesh(buf *mesh.Buffer) (*Mesh, error) {
	if len(buf.Indices) == 0 {
		return nil, fmt.Errorf("material %s: %w", buf.Material, ErrEmptyMesh)
	}

	m := &Mesh{indexCount: int32(len(buf.Indices))}
	const floatSize = 4
	stride := int32(mesh.Stride * floatSize)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf.Vertices)*floatSize, unsafe.Pointer(&buf.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, mesh.PositionOffset*floatSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, mesh.NormalOffset*floatSize)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, mesh.UVOffset*floatSize)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, unsafe.Pointer(&buf.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

// IndexCount returns the number of indices drawn.
func (m *Mesh) IndexCount() int32 {
	return m.indexCount
}

// Draw issues the indexed draw call. The caller binds program and texture.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// Delete frees the GPU buffers.
func (m *Mesh) Delete() {
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	m.indexCount = 0
}
