package wavefront

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const triangleOBJ = `# single triangle
v 0 0 0
v 1 0 0
v 1 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 1 1
f 1/1/1 2/2/1 3/3/1
`

func mustParseOBJ(t *testing.T, src string) *OBJ {
	t.Helper()
	obj, err := ParseOBJ(strings.NewReader(src), UniformScale(1))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	return obj
}

func TestParseOBJ_Triangle(t *testing.T) {
	obj := mustParseOBJ(t, triangleOBJ)

	if len(obj.Positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(obj.Positions))
	}
	if len(obj.Normals) != 1 {
		t.Errorf("expected 1 normal, got %d", len(obj.Normals))
	}
	if len(obj.UVs) != 3 {
		t.Errorf("expected 3 uvs, got %d", len(obj.UVs))
	}
	if len(obj.Materials) != 1 || obj.Materials[0] != DefaultMaterial {
		t.Fatalf("expected single %q partition, got %v", DefaultMaterial, obj.Materials)
	}

	faces := obj.Faces[DefaultMaterial]
	if len(faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(faces))
	}
	want := Face{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}}
	for i, c := range faces[0] {
		if c != want[i] {
			t.Errorf("corner %d: got %+v, want %+v", i, c, want[i])
		}
	}
}

func TestParseOBJ_CornerForms(t *testing.T) {
	tests := []struct {
		name string
		face string
		want Corner
	}{
		{"position only", "f 1 2 3", Corner{0, NoIndex, NoIndex}},
		{"position and uv", "f 1/2 2/2 3/2", Corner{0, 1, NoIndex}},
		{"position and normal", "f 1//1 2//1 3//1", Corner{0, NoIndex, 0}},
		{"all three", "f 1/2/1 2/2/1 3/2/1", Corner{0, 1, 0}},
		{"negative indices", "f -3/-1/-1 -2/-1/-1 -1/-1/-1", Corner{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 1\nvn 0 0 1\n" + tt.face + "\n"
			obj := mustParseOBJ(t, src)

			got := obj.Faces[DefaultMaterial][0][0]
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOBJ_Scale(t *testing.T) {
	src := "v 1 2 3\nvn 1 2 3\n"

	obj, err := ParseOBJ(strings.NewReader(src), mgl32.Vec3{2, 3, 4})
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if want := (mgl32.Vec3{2, 6, 12}); obj.Positions[0] != want {
		t.Errorf("position: got %v, want %v", obj.Positions[0], want)
	}
	// Normals are never scaled.
	if want := (mgl32.Vec3{1, 2, 3}); obj.Normals[0] != want {
		t.Errorf("normal: got %v, want %v", obj.Normals[0], want)
	}

	obj, err = ParseOBJ(strings.NewReader(src), UniformScale(0.5))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if want := (mgl32.Vec3{0.5, 1, 1.5}); obj.Positions[0] != want {
		t.Errorf("uniform: got %v, want %v", obj.Positions[0], want)
	}
}

func TestParseOBJ_MaterialPartitions(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
usemtl Foo
f 1 2 3
usemtl Bar
f 1 2 3
f 3 2 1
usemtl Unused
`
	obj := mustParseOBJ(t, src)

	wantOrder := []string{DefaultMaterial, "Foo", "Bar"}
	if len(obj.Materials) != len(wantOrder) {
		t.Fatalf("expected partitions %v, got %v", wantOrder, obj.Materials)
	}
	for i, name := range wantOrder {
		if obj.Materials[i] != name {
			t.Errorf("partition %d: got %q, want %q", i, obj.Materials[i], name)
		}
	}

	counts := map[string]int{DefaultMaterial: 1, "Foo": 1, "Bar": 2}
	for name, want := range counts {
		if got := len(obj.Faces[name]); got != want {
			t.Errorf("%s: expected %d faces, got %d", name, want, got)
		}
	}
	if _, ok := obj.Faces["Unused"]; ok {
		t.Error("usemtl without faces must not create a partition")
	}
	if obj.FaceCount() != 4 {
		t.Errorf("expected 4 faces total, got %d", obj.FaceCount())
	}
}

func TestParseOBJ_SkipsCommentsAndUnknown(t *testing.T) {
	src := "\ufeff# header\n\n   \no cube\ng side\ns 1\nmtllib cube.mtl extra.mtl\nv 0 0 0 1\n"
	obj := mustParseOBJ(t, src)

	if len(obj.Positions) != 1 {
		t.Errorf("expected 1 position, got %d", len(obj.Positions))
	}
	if len(obj.MaterialLibs) != 2 || obj.MaterialLibs[0] != "cube.mtl" {
		t.Errorf("unexpected material libs %v", obj.MaterialLibs)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantErr  error
		wantLine int
	}{
		{"short vertex", "v 1 2\n", ErrMalformedLine, 1},
		{"short normal", "v 0 0 0\nvn 1\n", ErrMalformedLine, 2},
		{"short uv", "vt 1\n", ErrMalformedLine, 1},
		{"bad vertex number", "v 1 x 3\n", ErrNumericParse, 1},
		{"bad uv number", "# c\nvt 0.5 nope\n", ErrNumericParse, 2},
		{"two corner face", "v 0 0 0\nf 1 1\n", ErrMalformedLine, 2},
		{"bad corner index", "v 0 0 0\nf 1 a 1\n", ErrNumericParse, 2},
		{"zero index", "v 0 0 0\nf 0 1 1\n", ErrMalformedLine, 2},
		{"empty position", "v 0 0 0\nf /1 1 1\n", ErrMalformedLine, 2},
		{"too many separators", "v 0 0 0\nf 1/1/1/1 1 1\n", ErrMalformedLine, 2},
		{"relative index too far", "v 0 0 0\nf -2 1 1\n", ErrMalformedLine, 2},
		{"usemtl without name", "usemtl\n", ErrMalformedLine, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ(strings.NewReader(tt.src), UniformScale(1))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if obj != nil {
				t.Error("expected no partial result on error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}

			var line int
			var malformed *MalformedLineError
			var numeric *NumericParseError
			switch {
			case errors.As(err, &malformed):
				line = malformed.Line
			case errors.As(err, &numeric):
				line = numeric.Line
			}
			if line != tt.wantLine {
				t.Errorf("expected line %d, got %d (%v)", tt.wantLine, line, err)
			}
		})
	}
}

func TestParseOBJFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ+"f 1 2 x\n"), 0644); err != nil {
		t.Fatalf("failed to write test model: %v", err)
	}

	_, err := ParseOBJFile(path, UniformScale(1))
	if !errors.Is(err, ErrNumericParse) {
		t.Fatalf("expected numeric error, got %v", err)
	}
	if !strings.Contains(err.Error(), "tri.obj:10") {
		t.Errorf("expected file and line in %q", err.Error())
	}

	_, err = ParseOBJFile(filepath.Join(dir, "missing.obj"), UniformScale(1))
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("expected ErrMissingFile, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}
