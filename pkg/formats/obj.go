// Package formats provides parsers for Wavefront model text formats.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrNoGeometry    = errors.New("OBJ contains no usable geometry")
	ErrMalformedFace = errors.New("malformed face")
)

// NoTexCoord marks a vertex reference without a usable texture
// coordinate. Such references resolve to (0, 0) at mesh assembly.
const NoTexCoord = -1

// DefaultMaterialName is the material group used for faces declared
// before any usemtl directive.
const DefaultMaterialName = "default"

// VertexRef is one corner of a face: 0-based indices into the OBJ's
// position and texcoord arrays, validated at parse time.
type VertexRef struct {
	Position int
	TexCoord int // NoTexCoord when absent or out of range
}

// Face is a triangle: exactly three vertex references in source order.
type Face [3]VertexRef

// MaterialGroup collects the faces drawn with one material, in the
// order the face lines appeared in the file.
type MaterialGroup struct {
	Material string
	Faces    []int // indices into OBJ.Faces
}

// Warning records a per-line problem that was recovered from during
// parsing. Line is 0 for problems not tied to a specific line.
type Warning struct {
	Line    int
	Message string
}

// String returns the warning as "line N: message".
func (w Warning) String() string {
	if w.Line == 0 {
		return w.Message
	}
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// OBJ represents a parsed OBJ file. Positions and texcoords keep their
// declaration order; faces keep source order, which material groups
// reference by index.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Faces     []Face
	Groups    []MaterialGroup
	MTLLibs   []string // material library names, unresolved
	Warnings  []Warning
}

// ParseOBJ parses OBJ data from a byte slice.
// Malformed face lines are skipped with a warning; the parse only
// fails when no positions or no faces survive (ErrNoGeometry).
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	material := DefaultMaterialName

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			pos, err := parseFloats3(fields[1:])
			if err != nil {
				obj.warnf(lineNo, "invalid vertex position: %v", err)
				continue
			}
			obj.Positions = append(obj.Positions, pos)

		case "vt":
			uv, err := parseFloats2(fields[1:])
			if err != nil {
				obj.warnf(lineNo, "invalid texture coordinate: %v", err)
				continue
			}
			obj.TexCoords = append(obj.TexCoords, uv)

		case "f":
			face, err := obj.parseFace(fields[1:], lineNo)
			if err != nil {
				obj.warnf(lineNo, "%v", err)
				continue
			}
			obj.addFace(face, material)

		case "mtllib":
			if len(fields) < 2 {
				obj.warnf(lineNo, "mtllib without a library name")
				continue
			}
			obj.MTLLibs = append(obj.MTLLibs, fields[1])

		case "usemtl":
			if len(fields) < 2 {
				obj.warnf(lineNo, "usemtl without a material name")
				continue
			}
			material = fields[1]
		}
		// Other directives (vn, s, o, g, ...) are out of scope and ignored.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning OBJ data: %w", err)
	}

	if len(obj.Positions) == 0 || len(obj.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return obj, nil
}

// parseFace parses the reference tokens of an f line into a validated
// triangle. References are "pos" or "pos/tex"; a trailing normal index
// ("pos/tex/norm") is ignored. Indices are 1-based in the file and
// converted here against the arrays seen so far.
func (obj *OBJ) parseFace(refs []string, lineNo int) (Face, error) {
	var face Face

	if len(refs) != 3 {
		return face, fmt.Errorf("%w: expected 3 vertex references, got %d", ErrMalformedFace, len(refs))
	}

	for i, ref := range refs {
		parts := strings.Split(ref, "/")

		posIdx, err := strconv.Atoi(parts[0])
		if err != nil {
			return face, fmt.Errorf("%w: invalid position index %q", ErrMalformedFace, parts[0])
		}
		posIdx-- // 1-based in the file
		if posIdx < 0 || posIdx >= len(obj.Positions) {
			return face, fmt.Errorf("%w: position index %d out of range [1, %d]", ErrMalformedFace, posIdx+1, len(obj.Positions))
		}

		texIdx := NoTexCoord
		if len(parts) >= 2 && parts[1] != "" {
			idx, err := strconv.Atoi(parts[1])
			if err != nil || idx-1 < 0 || idx-1 >= len(obj.TexCoords) {
				// A bad texcoord reference degrades to the default
				// (0, 0) instead of rejecting the whole face.
				obj.warnf(lineNo, "texture coordinate index %q out of range, using default", parts[1])
			} else {
				texIdx = idx - 1
			}
		}

		face[i] = VertexRef{Position: posIdx, TexCoord: texIdx}
	}

	return face, nil
}

// addFace appends a face under the given material, opening a new group
// when the material differs from the last open group's. Groups are
// only created once a face actually uses them, so usemtl directives
// without faces never produce empty groups.
func (obj *OBJ) addFace(face Face, material string) {
	obj.Faces = append(obj.Faces, face)

	if len(obj.Groups) == 0 || obj.Groups[len(obj.Groups)-1].Material != material {
		obj.Groups = append(obj.Groups, MaterialGroup{Material: material})
	}
	group := &obj.Groups[len(obj.Groups)-1]
	group.Faces = append(group.Faces, len(obj.Faces)-1)
}

func (obj *OBJ) warnf(line int, format string, args ...any) {
	obj.Warnings = append(obj.Warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

// parseFloats3 parses three float tokens (extra tokens are ignored).
func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("component %q: %w", fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFloats2 parses two float tokens (extra tokens are ignored).
func parseFloats2(fields []string) ([2]float32, error) {
	var out [2]float32
	if len(fields) < 2 {
		return out, fmt.Errorf("expected 2 components, got %d", len(fields))
	}
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("component %q: %w", fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// TotalGroupFaces returns the number of faces assigned across all
// material groups. It always equals len(obj.Faces) for a parsed OBJ.
func (obj *OBJ) TotalGroupFaces() int {
	total := 0
	for _, g := range obj.Groups {
		total += len(g.Faces)
	}
	return total
}

// GroupByMaterial returns the first group using the given material
// name, or nil if no group uses it.
func (obj *OBJ) GroupByMaterial(name string) *MaterialGroup {
	for i := range obj.Groups {
		if obj.Groups[i].Material == name {
			return &obj.Groups[i]
		}
	}
	return nil
}
