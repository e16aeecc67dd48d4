package render

import "github.com/taigrr/gltfraster/pkg/math3d"

// RenderOptions configures a single render. Pointer fields distinguish
// "unset, use default" from an explicit zero value (e.g. ambient=0 is a
// legitimate request for no ambient term, so it cannot share a sentinel
// with "caller didn't set this"). ResolveOptions performs the merge.
type RenderOptions struct {
	Width, Height int // 0 means "use default"

	FOVDeg *float64

	CamPos *math3d.Vec3
	LookAt *math3d.Vec3

	LightDir *math3d.Vec3
	Ambient  *float64

	Cull  *bool
	Gamma *bool

	// Background is linear-space RGB; nil means transparent clear.
	Background *[3]float64

	Grid bool
}

const (
	defaultWidth   = 800
	defaultHeight  = 600
	defaultFOVDeg  = 60.0
	defaultAmbient = 0.15
)

func defaultLightDir() math3d.Vec3 { return math3d.V3(-0.4, -0.9, -0.2) }

// ResolveOptions merges opts against the documented defaults, returning a
// fully populated copy. This is the one place partial options are merged;
// it does not mutate opts.
func ResolveOptions(opts RenderOptions) RenderOptions {
	resolved := opts

	if resolved.Width == 0 {
		resolved.Width = defaultWidth
	}
	if resolved.Height == 0 {
		resolved.Height = defaultHeight
	}
	if resolved.FOVDeg == nil {
		fov := defaultFOVDeg
		resolved.FOVDeg = &fov
	}
	if resolved.LightDir == nil {
		dir := defaultLightDir()
		resolved.LightDir = &dir
	}
	if resolved.Ambient == nil {
		a := defaultAmbient
		resolved.Ambient = &a
	} else {
		clamped := clampFloat(*resolved.Ambient, 0, 1)
		resolved.Ambient = &clamped
	}
	if resolved.Cull == nil {
		t := true
		resolved.Cull = &t
	}
	if resolved.Gamma == nil {
		t := true
		resolved.Gamma = &t
	}

	return resolved
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
