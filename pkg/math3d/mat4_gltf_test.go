package math3d

import (
	"math"
	"testing"
)

func TestMat4FromSlice(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	m := Mat4FromSlice(s)
	for i := range s {
		if m[i] != s[i] {
			t.Errorf("index %d: got %f, want %f", i, m[i], s[i])
		}
	}
}

func TestQuatToMat4Identity(t *testing.T) {
	m := QuatToMat4(0, 0, 0, 1)
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) > 1e-10 {
			t.Errorf("index %d: got %f, want %f", i, m[i], id[i])
		}
	}
}

func TestQuatToMat4NinetyDegreesY(t *testing.T) {
	angle := math.Pi / 2
	qy, qw := math.Sin(angle/2), math.Cos(angle/2)
	m := QuatToMat4(0, qy, 0, qw)

	rotated := m.MulVec3Dir(V3(1, 0, 0))
	if math.Abs(rotated.X) > 1e-9 || math.Abs(rotated.Z+1) > 1e-9 {
		t.Errorf("90deg Y rotation should map (1,0,0) to (0,0,-1), got %+v", rotated)
	}
}

func TestFromRotationTranslationScaleIdentity(t *testing.T) {
	m := FromRotationTranslationScale(V3(0, 0, 0), 0, 0, 0, 1, V3(1, 1, 1))
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) > 1e-10 {
			t.Errorf("index %d: got %f, want %f", i, m[i], id[i])
		}
	}
}

func TestFromRotationTranslationScaleComposesInOrder(t *testing.T) {
	m := FromRotationTranslationScale(V3(5, 0, 0), 0, 0, 0, 1, V3(2, 2, 2))
	p := m.MulVec3(V3(1, 0, 0))
	want := V3(7, 0, 0) // scale by 2 then translate by 5
	if p.Sub(want).Len() > 1e-9 {
		t.Errorf("got %+v, want %+v", p, want)
	}
}
