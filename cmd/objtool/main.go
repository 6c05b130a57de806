// objtool is a headless CLI utility for inspecting OBJ models.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(args)
	case "materials", "mtl":
		cmdMaterials(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - OBJ model inspection utility

Usage:
  objtool <command> [options]

Commands:
  info <model.obj>       Show mesh statistics and bounds
  validate <model.obj>   Parse the model and report warnings
  materials <model.obj>  List resolved materials

Examples:
  objtool info assets/crate.obj
  objtool validate assets/crate.obj
  objtool materials assets/crate.obj`)
}

func loadModel(args []string, usage string) *model.Model {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	m, err := model.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}

func cmdInfo(args []string) {
	m := loadModel(args, "Usage: objtool info <model.obj>")
	mesh := m.Mesh

	fmt.Printf("Model:     %s\n", m.Name)
	fmt.Printf("Vertices:  %d\n", len(mesh.Vertices))
	fmt.Printf("Indices:   %d (%d triangles)\n", len(mesh.Indices), len(mesh.Indices)/3)
	fmt.Printf("Parts:     %d\n", len(mesh.Parts))
	fmt.Printf("Bounds:    min(%.3f, %.3f, %.3f) max(%.3f, %.3f, %.3f)\n",
		mesh.Bounds.Min[0], mesh.Bounds.Min[1], mesh.Bounds.Min[2],
		mesh.Bounds.Max[0], mesh.Bounds.Max[1], mesh.Bounds.Max[2])
	fmt.Printf("Normalize: center(%.3f, %.3f, %.3f) scale %.5f\n",
		mesh.Norm.Center[0], mesh.Norm.Center[1], mesh.Norm.Center[2], mesh.Norm.Scale)
	fmt.Println()

	fmt.Println("Parts:")
	for _, part := range mesh.Parts {
		fmt.Printf("  %-24s base %-6d count %d\n", part.MaterialName, part.BaseIndex, part.IndexCount)
	}

	if len(m.Warnings) > 0 {
		fmt.Printf("\nWarnings: %d (run 'objtool validate' for details)\n", len(m.Warnings))
	}
}

func cmdValidate(args []string) {
	m := loadModel(args, "Usage: objtool validate <model.obj>")

	if len(m.Warnings) == 0 {
		fmt.Printf("%s: OK\n", m.Name)
		return
	}

	fmt.Printf("%s: %d warning(s)\n", m.Name, len(m.Warnings))
	for _, w := range m.Warnings {
		fmt.Printf("  %s\n", w.String())
	}
	os.Exit(1)
}

func cmdMaterials(args []string) {
	m := loadModel(args, "Usage: objtool materials <model.obj>")

	// Collect the names the mesh actually references, resolved or not.
	used := make(map[string]bool)
	for _, part := range m.Mesh.Parts {
		used[part.MaterialName] = true
	}

	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mat, resolved := m.ResolveMaterial(name)
		printMaterial(mat, resolved)
	}
}

func printMaterial(mat *formats.Material, resolved bool) {
	status := ""
	if !resolved && mat.Name != formats.DefaultMaterialName {
		status = " (not found, default substituted)"
	}
	fmt.Printf("%s%s\n", mat.Name, status)
	fmt.Printf("  ambient   %.3f %.3f %.3f\n", mat.Ambient[0], mat.Ambient[1], mat.Ambient[2])
	fmt.Printf("  diffuse   %.3f %.3f %.3f\n", mat.Diffuse[0], mat.Diffuse[1], mat.Diffuse[2])
	fmt.Printf("  specular  %.3f %.3f %.3f\n", mat.Specular[0], mat.Specular[1], mat.Specular[2])
	fmt.Printf("  shininess %.1f\n", mat.Shininess)
	if mat.HasTexture() {
		fmt.Printf("  map_Kd    %s\n", mat.DiffuseMap)
	}
}
