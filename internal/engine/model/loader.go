package model

import (
	"fmt"
	"path/filepath"

	"github.com/Faultbox/objview/pkg/formats"
)

// Model couples the assembled mesh with its resolved material library.
// Loading is synchronous and atomic: either a complete Model is
// returned or an error, never partial state.
type Model struct {
	Name      string
	Dir       string // OBJ's directory, base for texture paths
	Mesh      *Mesh
	Materials map[string]*formats.Material
	Warnings  []formats.Warning
}

// Load runs the full ingestion pipeline for an OBJ file: parse the
// geometry, resolve each mtllib relative to the OBJ's directory, and
// assemble the normalized, material-partitioned buffers.
//
// A missing or empty OBJ is fatal. A missing MTL is not: the affected
// groups fall back to the synthesized default material and a warning
// is recorded.
func Load(path string) (*Model, error) {
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	warnings := obj.Warnings

	materials := make(map[string]*formats.Material)
	for _, lib := range obj.MTLLibs {
		libPath := filepath.Join(dir, lib)
		parsed, err := formats.ParseMTLFile(libPath)
		if err != nil {
			warnings = append(warnings, formats.Warning{
				Message: fmt.Sprintf("material library %s unavailable, using default material: %v", lib, err),
			})
			continue
		}
		for name, mat := range parsed {
			materials[name] = mat
		}
	}

	mesh := BuildMesh(obj)

	// Flag parts whose material the libraries never defined; they are
	// drawn with the synthesized default.
	for _, part := range mesh.Parts {
		if part.MaterialName == formats.DefaultMaterialName {
			continue
		}
		if _, ok := materials[part.MaterialName]; !ok {
			warnings = append(warnings, formats.Warning{
				Message: fmt.Sprintf("material %q not found in any library, using default material", part.MaterialName),
			})
		}
	}

	return &Model{
		Name:      filepath.Base(path),
		Dir:       dir,
		Mesh:      mesh,
		Materials: materials,
		Warnings:  warnings,
	}, nil
}

// ResolveMaterial looks up a part's material by name. The second
// return value is false when the name was absent and a synthesized
// default (no texture, default coefficients) was substituted.
func (m *Model) ResolveMaterial(name string) (*formats.Material, bool) {
	if mat, ok := m.Materials[name]; ok {
		return mat, true
	}
	return formats.NewMaterial(name), false
}
