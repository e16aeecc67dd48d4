package render

import "testing"

func TestNewBitmapRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := NewBitmap(0, 10); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewBitmap(10, -1); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestBitmapSetPixelOutOfBoundsIsNoop(t *testing.T) {
	b, err := NewBitmap(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	b.SetPixel(-1, 0, 255, 255, 255, 255)
	b.SetPixel(4, 0, 255, 255, 255, 255)
	for _, p := range b.Pix {
		if p != 0 {
			t.Fatal("out-of-bounds write affected the pixel buffer")
		}
	}
}

func TestBitmapClearFillsEveryPixel(t *testing.T) {
	b, err := NewBitmap(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	b.Clear(10, 20, 30, 40)
	for i := 0; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 10 || b.Pix[i+1] != 20 || b.Pix[i+2] != 30 || b.Pix[i+3] != 40 {
			t.Fatalf("pixel at byte %d not cleared: %v", i, b.Pix[i:i+4])
		}
	}
}

func TestSampleNearestNilIsOpaqueWhite(t *testing.T) {
	var b *Bitmap
	r, g, bl, a := b.SampleNearest(0.5, 0.5)
	if r != 1 || g != 1 || bl != 1 || a != 1 {
		t.Errorf("nil bitmap should sample opaque white, got (%f,%f,%f,%f)", r, g, bl, a)
	}
}

func TestSampleNearestClampsOutOfRangeUV(t *testing.T) {
	b, err := NewBitmap(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	b.SetPixel(1, 1, 200, 100, 50, 255)
	r, g, bl, _ := b.SampleNearest(5.0, 5.0)
	if r != 200.0/255 || g != 100.0/255 || bl != 50.0/255 {
		t.Errorf("expected clamped sample of corner pixel, got (%f,%f,%f)", r, g, bl)
	}
}
