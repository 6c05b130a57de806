package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/objview/pkg/formats"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_WithMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "m.mtl", `
newmtl stone
Ks 0.5 0.5 0.5
map_Kd stone.png
newmtl wood
Ks 0.1 0.1 0.1
`)
	objPath := writeFixture(t, dir, "scene.obj", `
mtllib m.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl stone
f 1 2 3
usemtl wood
f 1 2 3
`)

	m, err := Load(objPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(m.Mesh.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(m.Mesh.Parts))
	}
	if m.Mesh.Parts[0].MaterialName != "stone" || m.Mesh.Parts[1].MaterialName != "wood" {
		t.Errorf("part order = %q, %q", m.Mesh.Parts[0].MaterialName, m.Mesh.Parts[1].MaterialName)
	}

	for _, part := range m.Mesh.Parts {
		mat, found := m.ResolveMaterial(part.MaterialName)
		if !found {
			t.Errorf("material %q not resolved from library", part.MaterialName)
		}
		if mat.Name != part.MaterialName {
			t.Errorf("resolved %q, want %q", mat.Name, part.MaterialName)
		}
	}
	if mat, _ := m.ResolveMaterial("stone"); mat.DiffuseMap != "stone.png" {
		t.Errorf("stone DiffuseMap = %q", mat.DiffuseMap)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", m.Warnings)
	}
}

func TestLoad_MissingMTLIsRecoverable(t *testing.T) {
	dir := t.TempDir()
	objPath := writeFixture(t, dir, "scene.obj", `
mtllib missing.mtl
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	m, err := Load(objPath)
	if err != nil {
		t.Fatalf("Load must succeed with missing MTL, got: %v", err)
	}
	if len(m.Materials) != 0 {
		t.Errorf("expected no library materials, got %d", len(m.Materials))
	}
	if len(m.Warnings) == 0 {
		t.Error("expected a warning about the missing library")
	}

	// The default group still resolves to a synthesized material.
	mat, found := m.ResolveMaterial(formats.DefaultMaterialName)
	if found {
		t.Error("default material must be synthesized, not found in library")
	}
	if mat.HasTexture() {
		t.Error("synthesized material must be textureless")
	}
	if mat.Shininess != formats.DefaultShininess {
		t.Errorf("synthesized Shininess = %v", mat.Shininess)
	}
}

func TestLoad_UnknownMaterialWarns(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "m.mtl", "newmtl known\n")
	objPath := writeFixture(t, dir, "scene.obj", `
mtllib m.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl unknown
f 1 2 3
`)

	m, err := Load(objPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	found := false
	for _, w := range m.Warnings {
		if strings.Contains(w.Message, "unknown") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning naming the missing material, got %v", m.Warnings)
	}
}

func TestLoad_MissingOBJIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil {
		t.Fatal("expected error for missing OBJ")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoad_NoGeometryIsFatal(t *testing.T) {
	dir := t.TempDir()
	objPath := writeFixture(t, dir, "empty.obj", "# nothing\nv 0 0 0\n")

	_, err := Load(objPath)
	if !errors.Is(err, formats.ErrNoGeometry) {
		t.Errorf("expected ErrNoGeometry, got %v", err)
	}
}

func TestLoad_MalformedFaceRecovered(t *testing.T) {
	dir := t.TempDir()
	objPath := writeFixture(t, dir, "scene.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2
f 1 2 3
`)

	m, err := Load(objPath)
	if err != nil {
		t.Fatalf("Load must recover from isolated bad lines, got: %v", err)
	}
	if len(m.Mesh.Indices) != 3 {
		t.Errorf("expected 3 indices from the surviving face, got %d", len(m.Mesh.Indices))
	}
	if len(m.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", m.Warnings)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "m.mtl", "newmtl a\nnewmtl b\n")
	objPath := writeFixture(t, dir, "scene.obj", `
mtllib m.mtl
v 0 0 0
v 2 0 0
v 0 2 0
vt 0 0
vt 1 1
usemtl a
f 1/1 2/2 3/1
usemtl b
f 1/2 2/1 3/2
`)

	first, err := Load(objPath)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := Load(objPath)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if len(first.Mesh.Vertices) != len(second.Mesh.Vertices) {
		t.Fatal("vertex counts differ between loads")
	}
	for i := range first.Mesh.Vertices {
		if first.Mesh.Vertices[i] != second.Mesh.Vertices[i] {
			t.Errorf("vertex %d differs between loads", i)
		}
	}
	for i := range first.Mesh.Indices {
		if first.Mesh.Indices[i] != second.Mesh.Indices[i] {
			t.Errorf("index %d differs between loads", i)
		}
	}
	for i := range first.Mesh.Parts {
		if first.Mesh.Parts[i] != second.Mesh.Parts[i] {
			t.Errorf("part %d differs between loads", i)
		}
	}
}
