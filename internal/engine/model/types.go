// Package model turns parsed OBJ/MTL data into normalized,
// material-partitioned vertex and index buffers ready for GPU upload.
package model

// Vertex is the final GPU-facing vertex layout and the deduplication
// unit: two face references resolving to bit-identical position and
// texcoord values collapse to one Vertex.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
}

// MeshPart is a contiguous run of the index array drawn with one
// material. Parts appear in the order their material groups were
// opened and cover the index array exactly.
type MeshPart struct {
	BaseIndex    int32
	IndexCount   int32
	MaterialName string
}

// Mesh holds the assembled buffers for one model.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Parts    []MeshPart
	Bounds   Bounds
	Norm     Normalization
}

// Bounds holds the axis-aligned bounding box of the raw positions,
// computed before normalization.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Extent returns the per-axis size of the box.
func (b Bounds) Extent() [3]float32 {
	return [3]float32{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// MaxExtent returns the largest axis size.
func (b Bounds) MaxExtent() float32 {
	e := b.Extent()
	max := e[0]
	if e[1] > max {
		max = e[1]
	}
	if e[2] > max {
		max = e[2]
	}
	return max
}
