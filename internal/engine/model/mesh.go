package model

import (
	"github.com/Faultbox/objview/pkg/formats"
)

// dedupKey identifies a unique (position, texcoord) reference pair.
// Identical keys always resolve to the same output vertex slot.
type dedupKey struct {
	pos int
	tex int
}

// BuildMesh assembles the final vertex/index buffers from a parsed
// OBJ. Material groups are walked in the order they were opened, faces
// in source order, and each face's three references in source order.
// Deduplication is global: one shared vertex buffer with contiguous
// index ranges per part.
//
// The normalization transform is computed once from the raw positions
// and applied to each vertex exactly once as it is emitted.
func BuildMesh(obj *formats.OBJ) *Mesh {
	bounds := ComputeBounds(obj.Positions)
	norm := NormalizationFor(bounds)

	slots := make(map[dedupKey]uint32)
	vertices := make([]Vertex, 0, len(obj.Positions))
	indices := make([]uint32, 0, len(obj.Faces)*3)
	parts := make([]MeshPart, 0, len(obj.Groups))

	for _, group := range obj.Groups {
		base := int32(len(indices))

		for _, fi := range group.Faces {
			for _, ref := range obj.Faces[fi] {
				key := dedupKey{pos: ref.Position, tex: ref.TexCoord}
				slot, seen := slots[key]
				if !seen {
					slot = uint32(len(vertices))
					slots[key] = slot

					v := Vertex{Position: norm.Apply(obj.Positions[ref.Position])}
					if ref.TexCoord != formats.NoTexCoord {
						v.TexCoord = obj.TexCoords[ref.TexCoord]
					}
					vertices = append(vertices, v)
				}
				indices = append(indices, slot)
			}
		}

		parts = append(parts, MeshPart{
			BaseIndex:    base,
			IndexCount:   int32(len(indices)) - base,
			MaterialName: group.Material,
		})
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Parts:    parts,
		Bounds:   bounds,
		Norm:     norm,
	}
}
