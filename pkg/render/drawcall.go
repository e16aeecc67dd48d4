package render

import "github.com/taigrr/gltfraster/pkg/math3d"

// PrimitiveMode selects which rasterizer path a draw call runs through.
type PrimitiveMode int

const (
	// ModeLines rasterizes index pairs as DDA line segments.
	ModeLines PrimitiveMode = 1
	// ModeTriangles rasterizes index triples as edge-function triangles.
	// It is also the effective mode of a zero-value DrawCall, matching
	// the documented default.
	ModeTriangles PrimitiveMode = 4
)

// DrawCall is an immutable primitive batch: positions plus optional
// attributes, a model matrix, a material, and a mode. The loader produces
// these; the rasterizer only ever reads them.
type DrawCall struct {
	Positions []float64 // 3*N, object-space XYZ
	Normals   []float64 // 3*N or nil (synthesized when absent)
	UVs       []float64 // 2*N or nil
	Colors    []float64 // 3*N or 4*N or nil, per-vertex multiplicative tint

	Indices []uint32 // vertex indices, or nil for implicit 0..N-1

	Model    math3d.Mat4
	Material Material
	Mode     PrimitiveMode
}

// VertexCount returns N, the number of vertices implied by Positions.
func (d *DrawCall) VertexCount() int {
	return len(d.Positions) / 3
}

// EffectiveIndices returns d.Indices, or the implicit 0..N-1 sequence when
// no explicit indices were supplied.
func (d *DrawCall) EffectiveIndices() []uint32 {
	if d.Indices != nil {
		return d.Indices
	}
	n := d.VertexCount()
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

// Validate checks the structural invariants §3 of the data model requires:
// position count divisible by 3, a mode-appropriate index count, and all
// indices within range.
func (d *DrawCall) Validate() error {
	if len(d.Positions)%3 != 0 {
		return newRenderError(InvalidGeometry, "position count %d is not a multiple of 3", len(d.Positions))
	}
	n := d.VertexCount()
	if d.Indices != nil {
		switch d.Mode {
		default: // ModeTriangles, and the zero-value mode
			if len(d.Indices)%3 != 0 {
				return newRenderError(InvalidGeometry, "triangle index count %d is not a multiple of 3", len(d.Indices))
			}
		case ModeLines:
			if len(d.Indices)%2 != 0 {
				return newRenderError(InvalidGeometry, "line index count %d is not a multiple of 2", len(d.Indices))
			}
		}
		for _, idx := range d.Indices {
			if int(idx) >= n {
				return newRenderError(InvalidGeometry, "index %d out of range for %d vertices", idx, n)
			}
		}
	}
	minVerts := 3
	if d.Mode == ModeLines {
		minVerts = 2
	}
	if n < minVerts {
		return newRenderError(InvalidGeometry, "draw call has %d vertices, need at least %d", n, minVerts)
	}
	return nil
}

// vertexVec3 returns attribute slot i of a 3*N float slice as a Vec3.
func vertexVec3(data []float64, i int) math3d.Vec3 {
	if data == nil || (i+1)*3 > len(data) {
		return math3d.Zero3()
	}
	return math3d.V3(data[i*3], data[i*3+1], data[i*3+2])
}

// vertexVec2 returns attribute slot i of a 2*N float slice as a Vec2.
func vertexVec2(data []float64, i int) math3d.Vec2 {
	if data == nil || (i+1)*2 > len(data) {
		return math3d.Zero2()
	}
	return math3d.V2(data[i*2], data[i*2+1])
}

// vertexColor returns per-vertex color i as RGBA, defaulting to opaque
// white when colors are absent. A draw call's Colors buffer is either 3*N
// (RGB, alpha implied 1) or 4*N (RGBA); the stride is inferred from which
// one divides evenly into N vertices.
func vertexColor(data []float64, n, i int) [4]float64 {
	if data == nil || n == 0 {
		return [4]float64{1, 1, 1, 1}
	}
	stride := len(data) / n
	switch stride {
	case 4:
		return [4]float64{data[i*4], data[i*4+1], data[i*4+2], data[i*4+3]}
	case 3:
		return [4]float64{data[i*3], data[i*3+1], data[i*3+2], 1}
	default:
		return [4]float64{1, 1, 1, 1}
	}
}
