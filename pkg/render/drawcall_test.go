package render

import "testing"

func TestDrawCallValidatePositionCountNotMultipleOf3(t *testing.T) {
	dc := DrawCall{Positions: []float64{0, 0, 0, 1, 0}, Mode: ModeTriangles}
	if err := dc.Validate(); err == nil {
		t.Error("expected an error for a position count not divisible by 3")
	}
}

func TestDrawCallValidateTriangleIndexCountNotMultipleOf3(t *testing.T) {
	dc := DrawCall{
		Positions: make([]float64, 12),
		Indices:   []uint32{0, 1, 2, 3},
		Mode:      ModeTriangles,
	}
	if err := dc.Validate(); err == nil {
		t.Error("expected an error for a triangle index count not divisible by 3")
	}
}

func TestDrawCallValidateLineIndexCountNotMultipleOf2(t *testing.T) {
	dc := DrawCall{
		Positions: make([]float64, 9),
		Indices:   []uint32{0, 1, 2},
		Mode:      ModeLines,
	}
	if err := dc.Validate(); err == nil {
		t.Error("expected an error for a line index count not divisible by 2")
	}
}

func TestDrawCallValidateIndexOutOfRange(t *testing.T) {
	dc := DrawCall{
		Positions: make([]float64, 9), // 3 vertices
		Indices:   []uint32{0, 1, 5},
		Mode:      ModeTriangles,
	}
	if err := dc.Validate(); err == nil {
		t.Error("expected an error for an out-of-range index")
	}
}

func TestDrawCallValidateMinimumVertexCount(t *testing.T) {
	triangle := DrawCall{Positions: make([]float64, 6), Mode: ModeTriangles} // 2 verts
	if err := triangle.Validate(); err == nil {
		t.Error("expected an error for a triangle draw call with fewer than 3 vertices")
	}

	line := DrawCall{Positions: make([]float64, 3), Mode: ModeLines} // 1 vert
	if err := line.Validate(); err == nil {
		t.Error("expected an error for a line draw call with fewer than 2 vertices")
	}
}

func TestDrawCallValidateAcceptsWellFormedTriangle(t *testing.T) {
	dc := DrawCall{Positions: make([]float64, 9), Mode: ModeTriangles}
	if err := dc.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEffectiveIndicesImplicitSequence(t *testing.T) {
	dc := DrawCall{Positions: make([]float64, 12)} // 4 vertices, no explicit indices
	got := dc.EffectiveIndices()
	want := []uint32{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %d indices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEffectiveIndicesPrefersExplicit(t *testing.T) {
	dc := DrawCall{Positions: make([]float64, 9), Indices: []uint32{2, 1, 0}}
	got := dc.EffectiveIndices()
	if got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Errorf("got %v, want explicit indices unchanged", got)
	}
}

func TestVertexColorStrideInference(t *testing.T) {
	rgb := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6} // 2 verts, stride 3
	c := vertexColor(rgb, 2, 1)
	if c != [4]float64{0.4, 0.5, 0.6, 1} {
		t.Errorf("rgb stride: got %v", c)
	}

	rgba := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8} // 2 verts, stride 4
	c = vertexColor(rgba, 2, 1)
	if c != [4]float64{0.5, 0.6, 0.7, 0.8} {
		t.Errorf("rgba stride: got %v", c)
	}
}

func TestVertexColorNilDefaultsToOpaqueWhite(t *testing.T) {
	if c := vertexColor(nil, 0, 0); c != [4]float64{1, 1, 1, 1} {
		t.Errorf("got %v, want opaque white", c)
	}
}
