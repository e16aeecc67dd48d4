// Package render is the CPU rasterization core: it turns a set of draw
// calls into an RGBA bitmap without touching a GPU or platform 3D API.
package render

// Result is what a render call hands back to the caller.
type Result struct {
	Bitmap  *Bitmap
	Camera  Camera
	Options RenderOptions
}

// Render executes the full orchestrator pipeline: resolve options, build
// the camera, clear the target, optionally append a grid, and rasterize
// every draw call in opaque -> mask -> blend order.
func Render(calls []DrawCall, opts RenderOptions) (*Result, error) {
	resolved := ResolveOptions(opts)

	if resolved.Width <= 0 || resolved.Height <= 0 {
		return nil, newRenderError(DimensionError, "width and height must be positive, got %dx%d", resolved.Width, resolved.Height)
	}
	for i := range calls {
		if err := calls[i].Validate(); err != nil {
			return nil, err
		}
	}

	camera := BuildCamera(calls, resolved.Width, resolved.Height, *resolved.FOVDeg, resolved.CamPos, resolved.LookAt)

	target, err := NewTarget(resolved.Width, resolved.Height)
	if err != nil {
		return nil, err
	}
	target.Clear(resolved.Background)

	allCalls := calls
	if resolved.Grid {
		aabb := ComputeWorldAABB(calls)
		allCalls = append(append([]DrawCall{}, calls...), BuildGridDrawCall(aabb))
	}

	var opaque, mask, blend []DrawCall
	for _, dc := range allCalls {
		switch dc.Material.AlphaMode {
		case AlphaMask:
			mask = append(mask, dc)
		case AlphaBlend:
			blend = append(blend, dc)
		default:
			opaque = append(opaque, dc)
		}
	}

	for _, group := range [][]DrawCall{opaque, mask, blend} {
		for i := range group {
			dispatch(target, camera, &group[i], resolved)
		}
	}

	return &Result{Bitmap: target.Bitmap, Camera: camera, Options: resolved}, nil
}

func dispatch(target *Target, camera Camera, dc *DrawCall, opts RenderOptions) {
	switch dc.Mode {
	case ModeLines:
		RasterizeLines(target, camera, dc, opts)
	default:
		RasterizeTriangles(target, camera, dc, opts)
	}
}
