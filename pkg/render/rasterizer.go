package render

import (
	"math"

	"github.com/taigrr/gltfraster/pkg/math3d"
)

// Target bundles the bitmap and depth buffer a render writes into. Both are
// owned exclusively by the rasterizer for the duration of a render and
// handed to the caller on return.
type Target struct {
	Bitmap *Bitmap
	Depth  []float64 // z01 in [0,1], row-major, len == Width*Height
}

// NewTarget allocates a bitmap and a depth buffer cleared to +Inf.
func NewTarget(width, height int) (*Target, error) {
	bmp, err := NewBitmap(width, height)
	if err != nil {
		return nil, err
	}
	depth := make([]float64, width*height)
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	return &Target{Bitmap: bmp, Depth: depth}, nil
}

// Clear resets the bitmap to the configured background (or transparent
// black) and the depth buffer to +Inf. The colored-clear path quantizes the
// given linear-range RGB directly, bypassing gamma encoding, per the
// documented clear semantics.
func (t *Target) Clear(background *[3]float64) {
	if background == nil {
		t.Bitmap.Clear(0, 0, 0, 0)
	} else {
		r := quantizeDirect(background[0])
		g := quantizeDirect(background[1])
		b := quantizeDirect(background[2])
		t.Bitmap.Clear(r, g, b, 255)
	}
	for i := range t.Depth {
		t.Depth[i] = math.Inf(1)
	}
}

func quantizeDirect(v float64) uint8 {
	return uint8(clampFloat(v, 0, 1)*255 + 0.5)
}

// srgbEncode applies the piecewise sRGB transfer function to a single
// linear-light channel.
func srgbEncode(l float64) float64 {
	if l <= 0.0031308 {
		return 12.92 * l
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

func encodeChannel(l float64, gamma bool) float64 {
	if gamma {
		return srgbEncode(clampFloat(l, 0, 1))
	}
	return clampFloat(l, 0, 1)
}

// edgeCoeffs returns the A, B, C coefficients of the 2D edge function
// edge(x,y) = A*x + B*y + C for the directed edge a->b, so that it can be
// evaluated incrementally while scanning a bounding box.
func edgeCoeffs(ax, ay, bx, by float64) (a, b, c float64) {
	a = ay - by
	b = bx - ax
	c = ax*by - bx*ay
	return
}

func evalEdge(a, b, c, x, y float64) float64 {
	return a*x + b*y + c
}

// triVertex is a triangle-mode vertex after clip-space transform.
type triVertex struct {
	sx, sy      float64 // rounded screen coordinates
	ndcZ        float64
	invW        float64
	worldNormal math3d.Vec3 // un-normalized
	uv          math3d.Vec2
	color       [4]float64
	clipped     bool
}

// RasterizeTriangles rasterizes every triangle of dc into target under cam
// and opts. dc.Mode must be ModeTriangles.
func RasterizeTriangles(target *Target, cam Camera, dc *DrawCall, opts RenderOptions) {
	width, height := target.Bitmap.Width, target.Bitmap.Height
	mvp := cam.Proj.Mul(cam.View).Mul(dc.Model)
	normalMatrix := math3d.NormalFromMat4(dc.Model)

	indices := dc.EffectiveIndices()
	normals := dc.Normals
	if normals == nil {
		normals = ComputeSmoothNormals(dc.Positions, indices)
	}

	n := dc.VertexCount()
	verts := make([]triVertex, n)
	for i := 0; i < n; i++ {
		pos := vertexVec3(dc.Positions, i)
		clip := mvp.MulVec4(math3d.V4FromV3(pos, 1))

		v := &verts[i]
		if clip.W <= 0 || math.IsNaN(clip.W) || math.IsInf(clip.W, 0) {
			v.clipped = true
			continue
		}
		invW := 1 / clip.W
		if math.IsNaN(invW) || math.IsInf(invW, 0) {
			v.clipped = true
			continue
		}
		v.invW = invW

		ndcX, ndcY, ndcZ := clip.X*invW, clip.Y*invW, clip.Z*invW
		v.ndcZ = ndcZ
		v.sx = math.Round((ndcX*0.5 + 0.5) * float64(width-1))
		v.sy = math.Round((1 - (ndcY*0.5 + 0.5)) * float64(height-1))

		v.worldNormal = normalMatrix.MulVec3(vertexVec3(normals, i))
		v.uv = vertexVec2(dc.UVs, i)
		v.color = vertexColor(dc.Colors, n, i)
	}

	// A texture is only sampled when the draw call carries UVs.
	mat := dc.Material
	if dc.UVs == nil {
		mat.BaseColorTexture = nil
	}

	for t := 0; t+2 < len(indices); t += 3 {
		rasterizeTriangle(target, verts[indices[t]], verts[indices[t+1]], verts[indices[t+2]], mat, opts, width, height)
	}
}

func rasterizeTriangle(target *Target, v0, v1, v2 triVertex, mat Material, opts RenderOptions, width, height int) {
	if v0.clipped || v1.clipped || v2.clipped {
		return
	}

	area := evalEdge(edgeCoeffsArgs(v0, v1, v2))
	if area == 0 {
		return
	}
	if *opts.Cull && area < 0 {
		return
	}

	minX := int(math.Max(0, math.Min(v0.sx, math.Min(v1.sx, v2.sx))))
	maxX := int(math.Min(float64(width-1), math.Max(v0.sx, math.Max(v1.sx, v2.sx))))
	minY := int(math.Max(0, math.Min(v0.sy, math.Min(v1.sy, v2.sy))))
	maxY := int(math.Min(float64(height-1), math.Max(v0.sy, math.Max(v1.sy, v2.sy))))
	if minX > maxX || minY > maxY {
		return
	}

	a0, b0, c0 := edgeCoeffs(v1.sx, v1.sy, v2.sx, v2.sy)
	a1, b1, c1 := edgeCoeffs(v2.sx, v2.sy, v0.sx, v0.sy)
	a2, b2, c2 := edgeCoeffs(v0.sx, v0.sy, v1.sx, v1.sy)
	invArea := 1 / area

	lightDir := opts.LightDir.Normalize()
	ambient := *opts.Ambient
	gamma := *opts.Gamma

	px0, py0 := float64(minX)+0.5, float64(minY)+0.5
	w0Row := evalEdge(a0, b0, c0, px0, py0)
	w1Row := evalEdge(a1, b1, c1, px0, py0)
	w2Row := evalEdge(a2, b2, c2, px0, py0)

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOff := y * width

		for x := minX; x <= maxX; x++ {
			if w0 < 0 || w1 < 0 || w2 < 0 {
				w0 += a0
				w1 += a1
				w2 += a2
				continue
			}

			l0, l1, l2 := w0*invArea, w1*invArea, w2*invArea
			z01 := (l0*v0.ndcZ+l1*v1.ndcZ+l2*v2.ndcZ)*0.5 + 0.5

			idx := rowOff + x
			if z01 >= target.Depth[idx] {
				w0 += a0
				w1 += a1
				w2 += a2
				continue
			}

			pw0, pw1, pw2 := l0*v0.invW, l1*v1.invW, l2*v2.invW
			denom := pw0 + pw1 + pw2
			if denom == 0 {
				w0 += a0
				w1 += a1
				w2 += a2
				continue
			}
			invDenom := 1 / denom

			uv := math3d.V2(
				(pw0*v0.uv.X+pw1*v1.uv.X+pw2*v2.uv.X)*invDenom,
				(pw0*v0.uv.Y+pw1*v1.uv.Y+pw2*v2.uv.Y)*invDenom,
			)
			normal := math3d.V3(
				(pw0*v0.worldNormal.X+pw1*v1.worldNormal.X+pw2*v2.worldNormal.X)*invDenom,
				(pw0*v0.worldNormal.Y+pw1*v1.worldNormal.Y+pw2*v2.worldNormal.Y)*invDenom,
				(pw0*v0.worldNormal.Z+pw1*v1.worldNormal.Z+pw2*v2.worldNormal.Z)*invDenom,
			)
			var vcolor [4]float64
			for k := 0; k < 4; k++ {
				vcolor[k] = (pw0*v0.color[k] + pw1*v1.color[k] + pw2*v2.color[k]) * invDenom
			}

			base := mat.BaseColorFactor
			if mat.BaseColorTexture != nil {
				tr, tg, tb, ta := mat.BaseColorTexture.SampleNearest(uv.X, uv.Y)
				base[0] *= tr
				base[1] *= tg
				base[2] *= tb
				base[3] *= ta
			}
			base[0] *= vcolor[0]
			base[1] *= vcolor[1]
			base[2] *= vcolor[2]

			n := normal.Normalize()
			ndotl := clampFloat(n.Dot(lightDir.Negate()), 0, 1)
			lit := ambient + (1-ambient)*ndotl
			base[0] *= lit
			base[1] *= lit
			base[2] *= lit

			switch mat.AlphaMode {
			case AlphaMask:
				if base[3] < mat.AlphaCutoff {
					w0 += a0
					w1 += a1
					w2 += a2
					continue
				}
				writeOpaque(target, idx, x, y, base, z01, gamma)
			case AlphaBlend:
				writeBlend(target, idx, x, y, base, gamma)
			default: // AlphaOpaque
				writeOpaque(target, idx, x, y, base, z01, gamma)
			}

			w0 += a0
			w1 += a1
			w2 += a2
		}

		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
}

func edgeCoeffsArgs(v0, v1, v2 triVertex) (a, b, c, x, y float64) {
	a, b, c = edgeCoeffs(v0.sx, v0.sy, v1.sx, v1.sy)
	return a, b, c, v2.sx, v2.sy
}

func writeOpaque(target *Target, idx, x, y int, rgba [4]float64, z01 float64, gamma bool) {
	r := uint8(encodeChannel(rgba[0], gamma)*255 + 0.5)
	g := uint8(encodeChannel(rgba[1], gamma)*255 + 0.5)
	b := uint8(encodeChannel(rgba[2], gamma)*255 + 0.5)
	target.Bitmap.SetPixel(x, y, r, g, b, 255)
	target.Depth[idx] = z01
}

func writeBlend(target *Target, idx, x, y int, rgba [4]float64, gamma bool) {
	srcR := encodeChannel(rgba[0], gamma)
	srcG := encodeChannel(rgba[1], gamma)
	srcB := encodeChannel(rgba[2], gamma)
	a := clampFloat(rgba[3], 0, 1)

	dr, dg, db, da := target.Bitmap.At(x, y)
	dstR, dstG, dstB, dstA := float64(dr)/255, float64(dg)/255, float64(db)/255, float64(da)/255

	outR := srcR*a + dstR*(1-a)
	outG := srcG*a + dstG*(1-a)
	outB := srcB*a + dstB*(1-a)
	outA := a + dstA*(1-a)

	target.Bitmap.SetPixel(x, y,
		uint8(clampFloat(outR, 0, 1)*255+0.5),
		uint8(clampFloat(outG, 0, 1)*255+0.5),
		uint8(clampFloat(outB, 0, 1)*255+0.5),
		uint8(clampFloat(outA, 0, 1)*255+0.5),
	)
}

// lineVertex is a line-mode vertex after clip-space transform, kept at
// sub-pixel precision (no rounding).
type lineVertex struct {
	x, y    float64
	z01     float64
	color   [4]float64
	clipped bool
}

// RasterizeLines rasterizes every segment of dc into target under cam and
// opts using integer DDA. dc.Mode must be ModeLines.
func RasterizeLines(target *Target, cam Camera, dc *DrawCall, opts RenderOptions) {
	width, height := target.Bitmap.Width, target.Bitmap.Height
	mvp := cam.Proj.Mul(cam.View).Mul(dc.Model)
	indices := dc.EffectiveIndices()
	n := dc.VertexCount()

	verts := make([]lineVertex, n)
	for i := 0; i < n; i++ {
		pos := vertexVec3(dc.Positions, i)
		clip := mvp.MulVec4(math3d.V4FromV3(pos, 1))

		v := &verts[i]
		if clip.W <= 0 || math.IsNaN(clip.W) || math.IsInf(clip.W, 0) {
			v.clipped = true
			continue
		}
		invW := 1 / clip.W
		if math.IsNaN(invW) || math.IsInf(invW, 0) {
			v.clipped = true
			continue
		}
		ndcX, ndcY, ndcZ := clip.X*invW, clip.Y*invW, clip.Z*invW
		v.z01 = ndcZ*0.5 + 0.5
		v.x = (ndcX*0.5 + 0.5) * float64(width-1)
		v.y = (1 - (ndcY*0.5 + 0.5)) * float64(height-1)
		v.color = vertexColor(dc.Colors, n, i)
	}

	gamma := *opts.Gamma
	for t := 0; t+1 < len(indices); t += 2 {
		a, b := verts[indices[t]], verts[indices[t+1]]
		rasterizeLine(target, a, b, dc.Material, gamma, width, height)
	}
}

func rasterizeLine(target *Target, a, b lineVertex, mat Material, gamma bool, width, height int) {
	if a.clipped || b.clipped {
		return
	}
	if (a.z01 < 0 && b.z01 < 0) || (a.z01 > 1 && b.z01 > 1) {
		return
	}

	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(math.Round(a.x + dx*t))
		y := int(math.Round(a.y + dy*t))
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		z01 := a.z01 + (b.z01-a.z01)*t
		idx := y*width + x
		if z01 >= target.Depth[idx] {
			continue
		}

		var color [4]float64
		for k := 0; k < 4; k++ {
			color[k] = a.color[k] + (b.color[k]-a.color[k])*t
		}

		if mat.AlphaMode == AlphaBlend && color[3] < 1 {
			writeBlend(target, idx, x, y, color, gamma)
		} else {
			writeOpaque(target, idx, x, y, color, z01, gamma)
		}
	}
}
