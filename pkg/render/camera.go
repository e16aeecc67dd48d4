package render

import (
	"math"

	"github.com/taigrr/gltfraster/pkg/math3d"
)

const (
	nearClip = 0.01
	farClip  = 1000.0
)

// Camera is the resolved (view, proj) pair the rasterizer transforms
// vertices by. Right-handed, Y-up in world space, Y-down on screen.
type Camera struct {
	View math3d.Mat4
	Proj math3d.Mat4
}

// BuildCamera derives a Camera for a draw-call set, given a requested
// viewport and field of view. If camPos is nil the eye is auto-framed from
// the scene's world-space AABB; otherwise camPos (and optionally lookAt)
// fix the view explicitly.
func BuildCamera(calls []DrawCall, width, height int, fovDeg float64, camPos, lookAt *math3d.Vec3) Camera {
	aspect := float64(width) / float64(height)
	proj := math3d.Perspective(fovDeg*math.Pi/180, aspect, nearClip, farClip)

	aabb := ComputeWorldAABB(calls)

	var eye, center math3d.Vec3
	switch {
	case camPos != nil && lookAt != nil:
		eye, center = *camPos, *lookAt
	case camPos != nil:
		eye, center = *camPos, aabb.Center()
	default:
		center = aabb.Center()
		radius := aabb.Radius()
		dist := radius/math.Tan(fovDeg*math.Pi/180/2) + 0.5*radius
		eye = center.Add(math3d.V3(dist, 0.3*dist, dist))
	}

	view := math3d.LookAt(eye, center, math3d.V3(0, 1, 0))

	return Camera{View: view, Proj: proj}
}
