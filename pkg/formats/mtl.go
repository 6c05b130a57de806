package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Material attribute defaults, applied by NewMaterial.
var (
	DefaultAmbient   = [3]float32{0.1, 0.1, 0.1}
	DefaultDiffuse   = [3]float32{1, 1, 1}
	DefaultSpecular  = [3]float32{0.333333, 0.333333, 0.333333}
	DefaultShininess = float32(32)
)

// Material holds the attributes of one newmtl record. Records are
// immutable once parsing finishes; consumers look them up by name and
// never take ownership.
type Material struct {
	Name       string
	Ambient    [3]float32 // Ka
	Diffuse    [3]float32 // Kd
	Specular   [3]float32 // Ks
	Shininess  float32    // Ns
	DiffuseMap string     // map_Kd, relative path with forward slashes; "" = untextured
}

// NewMaterial returns a material with default attribute values.
func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		Ambient:   DefaultAmbient,
		Diffuse:   DefaultDiffuse,
		Specular:  DefaultSpecular,
		Shininess: DefaultShininess,
	}
}

// HasTexture reports whether the material references a diffuse texture.
func (m *Material) HasTexture() bool {
	return m.DiffuseMap != ""
}

// ParseMTL parses MTL data into a name -> material map.
// Attribute lines before the first newmtl and unknown directives are
// ignored; the format has no fatal conditions.
func ParseMTL(data []byte) map[string]*Material {
	materials := make(map[string]*Material)
	var current *Material

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				continue
			}
			current = NewMaterial(fields[1])
			materials[current.Name] = current
			continue
		}
		if current == nil {
			// No record to attach to yet.
			continue
		}

		switch fields[0] {
		case "Ka":
			parseColor(fields[1:], &current.Ambient)
		case "Kd":
			parseColor(fields[1:], &current.Diffuse)
		case "Ks":
			parseColor(fields[1:], &current.Specular)
		case "Ns":
			if len(fields) >= 2 {
				if f, err := strconv.ParseFloat(fields[1], 32); err == nil {
					current.Shininess = float32(f)
				}
			}
		case "map_Kd":
			if len(fields) >= 2 {
				// Exported paths frequently use backslashes.
				current.DiffuseMap = strings.ReplaceAll(fields[1], "\\", "/")
			}
		}
	}

	return materials
}

// ParseMTLFile parses an MTL file from disk. A missing file is a
// recoverable condition for model loading: callers fall back to a
// synthesized default material.
func ParseMTLFile(path string) (map[string]*Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	return ParseMTL(data), nil
}

// parseColor overwrites dst when the fields hold a valid color triple;
// malformed triples leave the current value untouched.
func parseColor(fields []string, dst *[3]float32) {
	rgb, err := parseFloats3(fields)
	if err != nil {
		return
	}
	*dst = rgb
}
