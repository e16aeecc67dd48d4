package render

import (
	"math"

	"github.com/taigrr/gltfraster/pkg/math3d"
)

// BuildGridDrawCall produces a line-mode draw call for an overlay grid sized
// from the scene's world-space AABB: axis extent times 1.2, rounded up to an
// even integer, centered on the AABB center in XZ and placed at aabb.min.y.
func BuildGridDrawCall(aabb AABB) DrawCall {
	extent := aabb.Max.Sub(aabb.Min)
	size := math.Max(extent.X, extent.Z) * 1.2
	size = math.Ceil(size/2) * 2
	if size <= 0 {
		size = 2
	}
	half := size / 2
	step := size / 10
	if step <= 0 {
		step = 1
	}
	center := aabb.Center()
	y := aabb.Min.Y

	var positions []float64
	addLine := func(a, b math3d.Vec3) {
		positions = append(positions, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}

	for x := -half; x <= half+1e-9; x += step {
		addLine(
			math3d.V3(center.X+x, y, center.Z-half),
			math3d.V3(center.X+x, y, center.Z+half),
		)
	}
	for z := -half; z <= half+1e-9; z += step {
		addLine(
			math3d.V3(center.X-half, y, center.Z+z),
			math3d.V3(center.X+half, y, center.Z+z),
		)
	}

	mat := DefaultMaterial()
	mat.BaseColorFactor = [4]float64{0.5, 0.5, 0.5, 1}

	return DrawCall{
		Positions: positions,
		Model:     math3d.Identity(),
		Material:  mat,
		Mode:      ModeLines,
	}
}
