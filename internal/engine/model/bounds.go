package model

// Normalization is the one-time center+scale transform baked into
// vertex positions at load time. It is distinct from the runtime
// placement transform and is never reapplied.
type Normalization struct {
	Center [3]float32
	Scale  float32
}

// IdentityNormalization returns a transform that leaves positions
// untouched.
func IdentityNormalization() Normalization {
	return Normalization{Scale: 1}
}

// Apply transforms a raw position: center first, then scale.
func (n Normalization) Apply(p [3]float32) [3]float32 {
	return [3]float32{
		n.Scale * (p[0] - n.Center[0]),
		n.Scale * (p[1] - n.Center[1]),
		n.Scale * (p[2] - n.Center[2]),
	}
}

// ComputeBounds returns the component-wise min/max box over the raw
// positions. An empty input yields a zero box.
func ComputeBounds(positions [][3]float32) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}

	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		updateBounds(&b, p)
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// NormalizedBounds returns the bounding box after the baked
// normalization transform, the box the emitted vertices actually
// occupy.
func (m *Mesh) NormalizedBounds() Bounds {
	return Bounds{
		Min: m.Norm.Apply(m.Bounds.Min),
		Max: m.Norm.Apply(m.Bounds.Max),
	}
}

// NormalizationFor derives the canonicalizing transform from a
// bounding box: geometry centered at the origin with its largest
// extent equal to 2 units. A degenerate box (single point, coincident
// geometry) gets scale 1 instead of a division by zero.
func NormalizationFor(b Bounds) Normalization {
	maxExtent := b.MaxExtent()
	if maxExtent <= 0 {
		return Normalization{Center: b.Center(), Scale: 1}
	}
	return Normalization{Center: b.Center(), Scale: 2 / maxExtent}
}
