package render

import "github.com/taigrr/gltfraster/pkg/math3d"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns half the length of the box's diagonal, used by the camera
// builder to size an auto-framed view.
func (b AABB) Radius() float64 {
	return b.Max.Sub(b.Min).Len() * 0.5
}

// defaultAABB is the bounding box used when no draw calls are present, so
// auto-framing still produces a valid camera.
func defaultAABB() AABB {
	return AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
}

// ComputeWorldAABB transforms every position of every draw call by its
// model matrix and reduces to axis-aligned min/max.
func ComputeWorldAABB(calls []DrawCall) AABB {
	var (
		min, max math3d.Vec3
		touched  bool
	)
	for _, dc := range calls {
		n := dc.VertexCount()
		for i := 0; i < n; i++ {
			world := dc.Model.MulVec3(vertexVec3(dc.Positions, i))
			if !touched {
				min, max = world, world
				touched = true
				continue
			}
			min = min.Min(world)
			max = max.Max(world)
		}
	}
	if !touched {
		return defaultAABB()
	}
	return AABB{Min: min, Max: max}
}

// ComputeSmoothNormals synthesizes a per-vertex smooth normal for a
// triangle-mode vertex/index pair: it sums the un-normalized face normal of
// every triangle into each of its three vertices, then normalizes each
// accumulator. Degenerate triangles contribute a zero vector and are
// silently skipped; a vertex touched by no non-degenerate triangle keeps a
// unit-length placeholder normal rather than NaN.
func ComputeSmoothNormals(positions []float64, indices []uint32) []float64 {
	n := len(positions) / 3
	accum := make([]math3d.Vec3, n)

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		p0 := vertexVec3(positions, int(i0))
		p1 := vertexVec3(positions, int(i1))
		p2 := vertexVec3(positions, int(i2))
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	}

	out := make([]float64, n*3)
	for i, a := range accum {
		var normal math3d.Vec3
		if a.Len() < 1e-12 {
			normal = math3d.V3(0, 0, 1)
		} else {
			normal = a.Normalize()
		}
		out[i*3], out[i*3+1], out[i*3+2] = normal.X, normal.Y, normal.Z
	}
	return out
}
