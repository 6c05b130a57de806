package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// unitSquareOBJ is two triangles sharing an edge, no texcoords, no
// material directives.
const unitSquareOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`

func TestParseOBJ_UnitSquare(t *testing.T) {
	obj, err := ParseOBJ([]byte(unitSquareOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(obj.Positions))
	}
	if len(obj.TexCoords) != 0 {
		t.Errorf("expected 0 texcoords, got %d", len(obj.TexCoords))
	}
	if len(obj.Faces) != 2 {
		t.Errorf("expected 2 faces, got %d", len(obj.Faces))
	}
	if len(obj.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(obj.Groups))
	}
	if obj.Groups[0].Material != DefaultMaterialName {
		t.Errorf("expected group %q, got %q", DefaultMaterialName, obj.Groups[0].Material)
	}
	if len(obj.Groups[0].Faces) != 2 {
		t.Errorf("expected 2 faces in default group, got %d", len(obj.Groups[0].Faces))
	}
	if len(obj.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", obj.Warnings)
	}

	// All texcoord references must be the sentinel.
	for fi, face := range obj.Faces {
		for vi, ref := range face {
			if ref.TexCoord != NoTexCoord {
				t.Errorf("face %d ref %d: expected NoTexCoord, got %d", fi, vi, ref.TexCoord)
			}
		}
	}
}

func TestParseOBJ_TexCoordReferences(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	want := Face{
		{Position: 0, TexCoord: 0},
		{Position: 1, TexCoord: 1},
		{Position: 2, TexCoord: 2},
	}
	if obj.Faces[0] != want {
		t.Errorf("face = %v, want %v", obj.Faces[0], want)
	}
}

func TestParseOBJ_NormalSuffixIgnored(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
f 1/1/5 2/1/6 3/1/7
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(obj.Faces))
	}
	for _, ref := range obj.Faces[0] {
		if ref.TexCoord != 0 {
			t.Errorf("expected texcoord 0, got %d", ref.TexCoord)
		}
	}
}

func TestParseOBJ_MalformedFaces(t *testing.T) {
	tests := []struct {
		name      string
		faceLine  string
		wantFaces int
		wantWarn  bool
	}{
		{"two references", "f 1 2", 1, true},
		{"four references", "f 1 2 3 4", 1, true},
		{"position index zero", "f 0 1 2", 1, true},
		{"position index negative", "f -1 1 2", 1, true},
		{"position index too large", "f 1 2 99", 1, true},
		{"garbage index", "f a b c", 1, true},
		{"valid", "f 1 2 3", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + tt.faceLine + "\nf 1 2 3\n"
			obj, err := ParseOBJ([]byte(src))
			if err != nil {
				t.Fatalf("ParseOBJ failed: %v", err)
			}
			if len(obj.Faces) != tt.wantFaces {
				t.Errorf("expected %d accepted faces, got %d", tt.wantFaces, len(obj.Faces))
			}
			if tt.wantWarn && len(obj.Warnings) == 0 {
				t.Error("expected a warning, got none")
			}
			if !tt.wantWarn && len(obj.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", obj.Warnings)
			}
		})
	}
}

func TestParseOBJ_TexCoordOutOfRangeDefaults(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.5 0.5
f 1/1 2/9 3/1
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	// The face survives; only the bad reference degrades.
	if len(obj.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(obj.Faces))
	}
	if obj.Faces[0][1].TexCoord != NoTexCoord {
		t.Errorf("expected NoTexCoord for out-of-range reference, got %d", obj.Faces[0][1].TexCoord)
	}
	if len(obj.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", obj.Warnings)
	}
}

func TestParseOBJ_MaterialGroups(t *testing.T) {
	src := `
mtllib m.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl stone
f 1 2 3
usemtl stone
f 1 2 3
usemtl wood
f 1 2 3
f 1 2 3
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.MTLLibs) != 1 || obj.MTLLibs[0] != "m.mtl" {
		t.Errorf("MTLLibs = %v, want [m.mtl]", obj.MTLLibs)
	}
	if len(obj.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(obj.Groups))
	}
	if obj.Groups[0].Material != "stone" || len(obj.Groups[0].Faces) != 2 {
		t.Errorf("group 0 = %q with %d faces, want stone with 2", obj.Groups[0].Material, len(obj.Groups[0].Faces))
	}
	if obj.Groups[1].Material != "wood" || len(obj.Groups[1].Faces) != 2 {
		t.Errorf("group 1 = %q with %d faces, want wood with 2", obj.Groups[1].Material, len(obj.Groups[1].Faces))
	}
	if obj.TotalGroupFaces() != len(obj.Faces) {
		t.Errorf("groups cover %d faces, want %d", obj.TotalGroupFaces(), len(obj.Faces))
	}
}

func TestParseOBJ_UsemtlWithoutFacesOpensNoGroup(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
usemtl empty
usemtl used
f 1 2 3
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(obj.Groups))
	}
	if obj.Groups[0].Material != "used" {
		t.Errorf("group material = %q, want used", obj.Groups[0].Material)
	}
}

func TestParseOBJ_NoGeometry(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty input", ""},
		{"positions only", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"faces all rejected", "v 0 0 0\nf 1 2 3\n"},
		{"comments only", "# nothing here\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.src))
			if !errors.Is(err, ErrNoGeometry) {
				t.Errorf("expected ErrNoGeometry, got %v", err)
			}
		})
	}
}

func TestParseOBJ_UnknownDirectivesIgnored(t *testing.T) {
	src := `
o thing
s 1
vn 0 0 1
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", obj.Warnings)
	}
	if len(obj.Faces) != 1 {
		t.Errorf("expected 1 face, got %d", len(obj.Faces))
	}
}

func TestParseOBJFile_NotFound(t *testing.T) {
	_, err := ParseOBJFile(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestParseOBJFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.obj")
	if err := os.WriteFile(path, []byte(unitSquareOBJ), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	obj, err := ParseOBJFile(path)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if len(obj.Faces) != 2 {
		t.Errorf("expected 2 faces, got %d", len(obj.Faces))
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{Line: 7, Message: "bad face"}
	if got := w.String(); !strings.Contains(got, "line 7") {
		t.Errorf("Warning.String() = %q, want line number included", got)
	}
	fileLevel := Warning{Message: "material library missing"}
	if got := fileLevel.String(); got != "material library missing" {
		t.Errorf("Warning.String() = %q", got)
	}
}
