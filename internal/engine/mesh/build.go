package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objmesh/pkg/wavefront"
)

// Triangulate splits a polygon into a fan anchored at its first corner:
// (c0, c1, c2), (c0, c2, c3), ... Only convex, planar polygons come out
// correct; concave input yields overlapping triangles.
func Triangulate(face wavefront.Face) [][3]wavefront.Corner {
	if len(face) < 3 {
		return nil
	}
	tris := make([][3]wavefront.Corner, 0, len(face)-2)
	for i := 1; i < len(face)-1; i++ {
		tris = append(tris, [3]wavefront.Corner{face[0], face[i], face[i+1]})
	}
	return tris
}

// Build triangulates faces and welds bit-identical vertices into one
// indexed buffer. Indices are assigned in first-seen order.
func Build(material string, faces []wavefront.Face, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) (*Buffer, error) {
	buf := &Buffer{Material: material}
	bounds := Bounds{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	seen := make(map[vertexKey]uint32)

	for fi, face := range faces {
		for _, tri := range Triangulate(face) {
			for _, c := range tri {
				v, err := resolve(c, positions, normals, uvs)
				if err != nil {
					return nil, fmt.Errorf("material %s face %d: %w", material, fi, err)
				}

				k := v.key()
				idx, ok := seen[k]
				if !ok {
					idx = uint32(len(seen))
					seen[k] = idx
					buf.Vertices = append(buf.Vertices,
						v.Position[0], v.Position[1], v.Position[2],
						v.Normal[0], v.Normal[1], v.Normal[2],
						v.UV[0], v.UV[1],
					)
					bounds.extend(v.Position)
				}
				buf.Indices = append(buf.Indices, idx)
			}
		}
	}

	if len(seen) > 0 {
		buf.Bounds = bounds
	}
	return buf, nil
}

// resolve looks up the attributes of a corner, substituting defaults for
// absent UV and normal references.
func resolve(c wavefront.Corner, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) (Vertex, error) {
	v := Vertex{Normal: DefaultNormal, UV: DefaultUV}

	if c.Position < 0 || c.Position >= len(positions) {
		return Vertex{}, &IndexOutOfRangeError{Attribute: "position", Index: c.Position, Len: len(positions)}
	}
	v.Position = positions[c.Position]

	if c.Normal != wavefront.NoIndex {
		if c.Normal < 0 || c.Normal >= len(normals) {
			return Vertex{}, &IndexOutOfRangeError{Attribute: "normal", Index: c.Normal, Len: len(normals)}
		}
		v.Normal = normals[c.Normal]
	}

	if c.UV != wavefront.NoIndex {
		if c.UV < 0 || c.UV >= len(uvs) {
			return Vertex{}, &IndexOutOfRangeError{Attribute: "uv", Index: c.UV, Len: len(uvs)}
		}
		v.UV = uvs[c.UV]
	}

	return v, nil
}
