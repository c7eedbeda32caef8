// Package mesh builds indexed, interleaved vertex buffers from parsed faces.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Stride is the number of float32 values per interleaved vertex.
const Stride = 8

// Float offsets of each attribute within one interleaved vertex.
const (
	PositionOffset = 0
	NormalOffset   = 3
	UVOffset       = 6
)

// Attribute values used for corners without a UV or normal reference.
var (
	DefaultUV     = mgl32.Vec2{0, 0}
	DefaultNormal = mgl32.Vec3{0, 1, 0}
)

// ErrIndexOutOfRange is matched by *IndexOutOfRangeError via errors.Is.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexOutOfRangeError reports a corner that references a missing
// attribute table entry.
type IndexOutOfRangeError struct {
	Attribute string // "position", "uv" or "normal"
	Index     int
	Len       int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s %s: %d (have %d)", e.Attribute, ErrIndexOutOfRange, e.Index, e.Len)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Vertex is one fully resolved corner.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// vertexKey is the bit pattern of a Vertex. Welding compares bits so that
// 0 and -0 stay distinct and identical NaNs still merge.
type vertexKey [Stride]uint32

func (v Vertex) key() vertexKey {
	return vertexKey{
		math.Float32bits(v.Position[0]),
		math.Float32bits(v.Position[1]),
		math.Float32bits(v.Position[2]),
		math.Float32bits(v.Normal[0]),
		math.Float32bits(v.Normal[1]),
		math.Float32bits(v.Normal[2]),
		math.Float32bits(v.UV[0]),
		math.Float32bits(v.UV[1]),
	}
}

// Bounds holds the axis-aligned bounding box of a set of positions.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], o.Min[i])
		b.Max[i] = max(b.Max[i], o.Max[i])
	}
	return b
}

func (b *Bounds) extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Buffer is the render-ready mesh of one material.
// Vertices are interleaved as [px,py,pz, nx,ny,nz, u,v].
type Buffer struct {
	Material string
	Vertices []float32
	Indices  []uint32
	Bounds   Bounds // Zero when the buffer is empty
}

// VertexCount returns the number of unique vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices) / Stride
}

// TriangleCount returns the number of triangles in the index list.
func (b *Buffer) TriangleCount() int {
	return len(b.Indices) / 3
}

// Vertex returns the i-th unique vertex.
func (b *Buffer) Vertex(i int) Vertex {
	v := b.Vertices[i*Stride : (i+1)*Stride]
	return Vertex{
		Position: mgl32.Vec3{v[0], v[1], v[2]},
		Normal:   mgl32.Vec3{v[3], v[4], v[5]},
		UV:       mgl32.Vec2{v[6], v[7]},
	}
}
