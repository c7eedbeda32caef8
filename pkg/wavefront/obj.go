// Package wavefront parses Wavefront OBJ model and MTL material texts.
//
// Only the geometry subset is understood: v, vn, vt, f, usemtl and mtllib.
// Other directives (o, g, s, curves) are skipped.
package wavefront

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// NoIndex marks a corner without a UV or normal reference.
const NoIndex = -1

// DefaultMaterial is the partition for faces that precede any usemtl.
const DefaultMaterial = "default"

// Corner references one vertex of a face. Indices are 0-based.
type Corner struct {
	Position int
	UV       int // NoIndex when absent
	Normal   int // NoIndex when absent
}

// Face is a polygon of three or more corners.
type Face []Corner

// OBJ holds the attribute tables and per-material face lists of a model.
type OBJ struct {
	Positions []mgl32.Vec3 // Scaled on read
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2

	Faces     map[string][]Face // Faces by material name
	Materials []string          // Material names in order of first face

	MaterialLibs []string // mtllib references, unresolved
}

// FaceCount returns the number of faces across all materials.
func (o *OBJ) FaceCount() int {
	n := 0
	for _, faces := range o.Faces {
		n += len(faces)
	}
	return n
}

// UniformScale returns a per-axis scale applying s to every axis.
func UniformScale(s float32) mgl32.Vec3 {
	return mgl32.Vec3{s, s, s}
}

// ParseOBJ parses OBJ text from r. Positions are multiplied per axis by scale.
func ParseOBJ(r io.Reader, scale mgl32.Vec3) (*OBJ, error) {
	return parseOBJ(r, "", scale)
}

// ParseOBJFile parses the OBJ file at path.
// Returns a *MissingFileError if the file does not exist.
func ParseOBJFile(path string, scale mgl32.Vec3) (*OBJ, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseOBJ(f, path, scale)
}

type objParser struct {
	obj    *OBJ
	scale  mgl32.Vec3
	active string
}

func parseOBJ(r io.Reader, file string, scale mgl32.Vec3) (*OBJ, error) {
	p := &objParser{
		obj:    &OBJ{Faces: make(map[string][]Face)},
		scale:  scale,
		active: DefaultMaterial,
	}
	if err := scanLines(r, file, p.line); err != nil {
		return nil, err
	}
	return p.obj, nil
}

func (p *objParser) line(l *line) error {
	var v [3]float32

	switch l.directive() {
	case "v":
		if err := l.floats(v[:3]); err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, mgl32.Vec3{
			v[0] * p.scale[0],
			v[1] * p.scale[1],
			v[2] * p.scale[2],
		})

	case "vn":
		if err := l.floats(v[:3]); err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, mgl32.Vec3{v[0], v[1], v[2]})

	case "vt":
		if err := l.floats(v[:2]); err != nil {
			return err
		}
		p.obj.UVs = append(p.obj.UVs, mgl32.Vec2{v[0], v[1]})

	case "usemtl":
		name := l.rest()
		if name == "" {
			return l.malformed("missing material name")
		}
		// The partition itself is created by the first face.
		p.active = name

	case "mtllib":
		if len(l.args()) == 0 {
			return l.malformed("missing library name")
		}
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, l.args()...)

	case "f":
		return p.face(l)
	}
	return nil
}

func (p *objParser) face(l *line) error {
	args := l.args()
	if len(args) < 3 {
		return l.malformed("expected at least 3 corners, got %d", len(args))
	}

	face := make(Face, len(args))
	for i, tok := range args {
		c, err := p.corner(l, tok)
		if err != nil {
			return err
		}
		face[i] = c
	}

	if _, ok := p.obj.Faces[p.active]; !ok {
		p.obj.Materials = append(p.obj.Materials, p.active)
	}
	p.obj.Faces[p.active] = append(p.obj.Faces[p.active], face)
	return nil
}

// corner parses "p", "p/t", "p//n" or "p/t/n".
func (p *objParser) corner(l *line, tok string) (Corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return Corner{}, l.malformed("corner %q has too many separators", tok)
	}
	if parts[0] == "" {
		return Corner{}, l.malformed("corner %q has no position index", tok)
	}

	c := Corner{UV: NoIndex, Normal: NoIndex}

	var err error
	if c.Position, err = resolveIndex(l, parts[0], len(p.obj.Positions)); err != nil {
		return Corner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.UV, err = resolveIndex(l, parts[1], len(p.obj.UVs)); err != nil {
			return Corner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveIndex(l, parts[2], len(p.obj.Normals)); err != nil {
			return Corner{}, err
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based or negative (relative to count) OBJ
// index to a 0-based one. Positive indices are not range checked here.
func resolveIndex(l *line, tok string, count int) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, l.numeric(tok, err)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		if count+n < 0 {
			return 0, l.malformed("relative index %d exceeds %d defined elements", n, count)
		}
		return count + n, nil
	default:
		return 0, l.malformed("index 0 is invalid")
	}
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}
