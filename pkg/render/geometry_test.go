package render

import (
	"math"
	"testing"

	"github.com/taigrr/gltfraster/pkg/math3d"
)

func TestComputeWorldAABBEmptyIsDefault(t *testing.T) {
	aabb := ComputeWorldAABB(nil)
	if aabb.Min != math3d.V3(-1, -1, -1) || aabb.Max != math3d.V3(1, 1, 1) {
		t.Errorf("expected default unit box, got %+v", aabb)
	}
}

func TestComputeWorldAABBContainsTransformedPositions(t *testing.T) {
	dc := DrawCall{
		Positions: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Model:     math3d.Translate(math3d.V3(5, 0, 0)),
		Mode:      ModeTriangles,
	}
	aabb := ComputeWorldAABB([]DrawCall{dc})
	if aabb.Min.X > 5 || aabb.Max.X < 6 {
		t.Errorf("AABB %+v does not contain translated positions", aabb)
	}
}

func TestComputeSmoothNormalsAreUnitLength(t *testing.T) {
	positions := []float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		1, 1, 0,
	}
	indices := []uint32{0, 1, 2, 1, 3, 2}
	normals := ComputeSmoothNormals(positions, indices)

	for i := 0; i < len(normals)/3; i++ {
		n := math3d.V3(normals[i*3], normals[i*3+1], normals[i*3+2])
		if math.Abs(n.Len()-1) > 1e-5 {
			t.Errorf("vertex %d normal %+v is not unit length (len=%f)", i, n, n.Len())
		}
	}
}

func TestComputeSmoothNormalsDegenerateTriangleNoNaN(t *testing.T) {
	positions := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0}
	indices := []uint32{0, 1, 2}
	normals := ComputeSmoothNormals(positions, indices)
	for _, v := range normals {
		if math.IsNaN(v) {
			t.Fatal("degenerate triangle produced NaN normal")
		}
	}
}
