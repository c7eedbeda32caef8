package wavefront

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParseMTL(t *testing.T) {
	src := `# materials
newmtl Wood
Kd 0.5 0.25 0.125
map_Kd textures/wood.jpg

newmtl Plain

newmtl Tiled
map_Kd -s 2 2 1 tile.tga
`
	mtl, err := ParseMTL(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMTL: %v", err)
	}

	wantOrder := []string{"Wood", "Plain", "Tiled"}
	if len(mtl.Order) != len(wantOrder) {
		t.Fatalf("expected %v, got %v", wantOrder, mtl.Order)
	}

	tests := []struct {
		name       string
		diffuse    mgl32.Vec3
		diffuseMap string
		line       int
	}{
		{"Wood", mgl32.Vec3{0.5, 0.25, 0.125}, "textures/wood.jpg", 2},
		{"Plain", mgl32.Vec3{1, 1, 1}, "", 6},
		{"Tiled", mgl32.Vec3{1, 1, 1}, "tile.tga", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mat, ok := mtl.Material(tt.name)
			if !ok {
				t.Fatalf("material %q not found", tt.name)
			}
			if mat.Diffuse != tt.diffuse {
				t.Errorf("diffuse: got %v, want %v", mat.Diffuse, tt.diffuse)
			}
			if mat.DiffuseMap != tt.diffuseMap {
				t.Errorf("map_Kd: got %q, want %q", mat.DiffuseMap, tt.diffuseMap)
			}
			if mat.Line != tt.line {
				t.Errorf("line: got %d, want %d", mat.Line, tt.line)
			}
		})
	}
}

func TestParseMTL_Redefinition(t *testing.T) {
	src := "newmtl A\nmap_Kd a.png\nnewmtl B\nnewmtl A\nmap_Kd a2.png\n"
	mtl, err := ParseMTL(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMTL: %v", err)
	}
	if len(mtl.Order) != 2 || mtl.Order[0] != "A" {
		t.Errorf("unexpected order %v", mtl.Order)
	}
	if mat, _ := mtl.Material("A"); mat.DiffuseMap != "a2.png" {
		t.Errorf("expected later definition to win, got %q", mat.DiffuseMap)
	}
}

func TestParseMTL_RawBytes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"latin-1 name", "newmtl A\nmap_Kd caf\xe9.png\n", "caf\xe9.png"},
		{"latin-1 after bom", "\ufeffnewmtl A\nmap_Kd caf\xe9.png\n", "caf\xe9.png"},
		{"utf-8 name", "newmtl A\nmap_Kd caf\u00e9.png\n", "caf\u00e9.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mtl, err := ParseMTL(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("ParseMTL: %v", err)
			}
			mat, ok := mtl.Material("A")
			if !ok {
				t.Fatal("material A not found")
			}
			if mat.DiffuseMap != tt.want {
				t.Errorf("got %q, want %q", mat.DiffuseMap, tt.want)
			}
		})
	}
}

func TestParseMTL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"map before newmtl", "map_Kd a.png\n", ErrMalformedLine},
		{"kd before newmtl", "Kd 1 1 1\n", ErrMalformedLine},
		{"missing name", "newmtl\n", ErrMalformedLine},
		{"missing path", "newmtl A\nmap_Kd\n", ErrMalformedLine},
		{"short kd", "newmtl A\nKd 1 1\n", ErrMalformedLine},
		{"bad kd", "newmtl A\nKd 1 red 1\n", ErrNumericParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMTL(strings.NewReader(tt.src))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseMTLFile_Missing(t *testing.T) {
	_, err := ParseMTLFile(filepath.Join(t.TempDir(), "none.mtl"))
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("expected ErrMissingFile, got %v", err)
	}

	var missing *MissingFileError
	if !errors.As(err, &missing) || !errors.Is(missing.Err, os.ErrNotExist) {
		t.Errorf("expected *MissingFileError wrapping os.ErrNotExist, got %v", err)
	}
}
