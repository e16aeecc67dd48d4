package render

import (
	"math"
	"testing"

	"github.com/taigrr/gltfraster/pkg/math3d"
)

func TestBuildCameraExplicitPositionAndLookAt(t *testing.T) {
	cam := math3d.V3(0, 0, 10)
	at := math3d.V3(0, 0, 0)
	camera := BuildCamera(nil, 100, 100, 60, &cam, &at)

	// The eye, placed explicitly, should map to the view-space origin.
	viewEye := camera.View.MulVec3(cam)
	if viewEye.Len() > 1e-9 {
		t.Errorf("eye did not transform to the view-space origin: %+v", viewEye)
	}
}

func TestBuildCameraExplicitPositionDefaultsLookAtToSceneCenter(t *testing.T) {
	dc := DrawCall{
		Positions: []float64{-1, -1, -1, 1, 1, 1},
		Model:     math3d.Identity(),
		Mode:      ModeLines,
	}
	cam := math3d.V3(0, 0, 20)
	camera := BuildCamera([]DrawCall{dc}, 100, 100, 60, &cam, nil)

	// The scene's AABB is centered on the origin, so looking at it from
	// (0,0,20) should put the origin directly ahead on the view -Z axis.
	viewOrigin := camera.View.MulVec3(math3d.Zero3())
	if math.Abs(viewOrigin.X) > 1e-6 || math.Abs(viewOrigin.Y) > 1e-6 {
		t.Errorf("origin is not centered in view space: %+v", viewOrigin)
	}
	if viewOrigin.Z >= 0 {
		t.Errorf("origin should be in front of the camera (negative view Z), got %f", viewOrigin.Z)
	}
}

func TestBuildCameraAutoFramesSceneAABB(t *testing.T) {
	dc := DrawCall{
		Positions: []float64{-2, -2, -2, 2, 2, 2},
		Model:     math3d.Identity(),
		Mode:      ModeLines,
	}
	camera := BuildCamera([]DrawCall{dc}, 100, 100, 60, nil, nil)

	origin := camera.View.MulVec3(math3d.Zero3())
	if origin.Z >= 0 {
		t.Errorf("auto-framed scene center should be in front of the camera, got view Z %f", origin.Z)
	}
}
