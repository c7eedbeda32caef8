package wavefront

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is one newmtl block of an MTL file.
type Material struct {
	Name       string
	Diffuse    mgl32.Vec3 // Kd, white when absent
	DiffuseMap string     // map_Kd file name as written, empty when absent
	Line       int        // Line of the newmtl directive
}

// MTL holds the materials of one MTL file.
type MTL struct {
	Materials map[string]*Material
	Order     []string // Names in declaration order
}

// Material returns the material with the given name.
func (m *MTL) Material(name string) (*Material, bool) {
	mat, ok := m.Materials[name]
	return mat, ok
}

// ParseMTL parses MTL text from r. Only newmtl, Kd and map_Kd are kept.
func ParseMTL(r io.Reader) (*MTL, error) {
	return parseMTL(r, "")
}

// ParseMTLFile parses the MTL file at path.
// Returns a *MissingFileError if the file does not exist.
func ParseMTLFile(path string) (*MTL, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseMTL(f, path)
}

func parseMTL(r io.Reader, file string) (*MTL, error) {
	mtl := &MTL{Materials: make(map[string]*Material)}
	var cur *Material

	err := scanLines(r, file, func(l *line) error {
		switch l.directive() {
		case "newmtl":
			name := l.rest()
			if name == "" {
				return l.malformed("missing material name")
			}
			// A redefinition replaces the earlier block but keeps its position.
			if _, ok := mtl.Materials[name]; !ok {
				mtl.Order = append(mtl.Order, name)
			}
			cur = &Material{Name: name, Diffuse: mgl32.Vec3{1, 1, 1}, Line: l.num}
			mtl.Materials[name] = cur

		case "Kd":
			if cur == nil {
				return l.malformed("Kd before newmtl")
			}
			var kd [3]float32
			if err := l.floats(kd[:]); err != nil {
				return err
			}
			cur.Diffuse = mgl32.Vec3{kd[0], kd[1], kd[2]}

		case "map_Kd":
			if cur == nil {
				return l.malformed("map_Kd before newmtl")
			}
			args := l.args()
			if len(args) == 0 {
				return l.malformed("missing texture path")
			}
			// Options such as -s or -o precede the file name.
			cur.DiffuseMap = args[len(args)-1]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mtl, nil
}
