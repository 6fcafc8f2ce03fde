package imgbuf

import (
	"testing"

	"github.com/MeKo-Christian/osdcompositor/internal/format"
)

func TestAllocBGRA(t *testing.T) {
	im, err := AllocBGRA(16, 8)
	if err != nil {
		t.Fatalf("AllocBGRA: %v", err)
	}
	if im.PlaneW[0] != 16 || im.PlaneH[0] != 8 {
		t.Errorf("plane dims = %dx%d, want 16x8", im.PlaneW[0], im.PlaneH[0])
	}
	if im.Stride[0] != 16*4 {
		t.Errorf("stride = %d, want %d", im.Stride[0], 16*4)
	}
}

func TestAllocSubsampledPlanes(t *testing.T) {
	im, err := Alloc(Params{Format: format.YUV420P8, W: 17, H: 9})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if im.PlaneW[1] != 9 || im.PlaneH[1] != 5 {
		t.Errorf("chroma plane dims = %dx%d, want 9x5 (ceil(17/2)xceil(9/2))", im.PlaneW[1], im.PlaneH[1])
	}
}

func TestCropZeroCopy(t *testing.T) {
	im, err := AllocBGRA(32, 32)
	if err != nil {
		t.Fatalf("AllocBGRA: %v", err)
	}
	crop, err := im.Crop(4, 4, 12, 12)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if crop.Params.W != 8 || crop.Params.H != 8 {
		t.Fatalf("crop dims = %dx%d, want 8x8", crop.Params.W, crop.Params.H)
	}
	crop.PixelPointer(0, 0, 0)[0] = 0xAB
	if im.PixelPointer(0, 4, 4)[0] != 0xAB {
		t.Error("Crop should alias the parent image's backing bytes")
	}
}

func TestCropOutOfBounds(t *testing.T) {
	im, _ := AllocBGRA(10, 10)
	if _, err := im.Crop(-1, 0, 5, 5); err == nil {
		t.Error("Crop with negative origin should error")
	}
	if _, err := im.Crop(0, 0, 11, 5); err == nil {
		t.Error("Crop past width should error")
	}
}

func TestClearRect(t *testing.T) {
	im, _ := AllocBGRA(8, 8)
	row := im.PixelPointer(0, 0, 2)
	for i := range row[:8*4] {
		row[i] = 0xFF
	}
	im.ClearRect(0, 2, 8, 3)
	for i, b := range im.PixelPointer(0, 0, 2)[:8*4] {
		if b != 0 {
			t.Fatalf("byte %d not cleared: %d", i, b)
		}
	}
}

func TestGrayView(t *testing.T) {
	im, err := Alloc(Params{Format: format.YUV420P8, W: 16, H: 16})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if _, err := im.GrayView(); err == nil {
		t.Error("GrayView on an alpha-less format should error")
	}

	withAlpha, _ := format.Lookup(format.YUV420P8)
	ad, _ := withAlpha.WithAlpha()
	id, ok := format.Find(ad)
	if !ok {
		t.Fatal("no format id for YUV420P8+alpha")
	}
	im2, err := Alloc(Params{Format: id, W: 16, H: 16})
	if err != nil {
		t.Fatalf("Alloc with alpha: %v", err)
	}
	view, err := im2.GrayView()
	if err != nil {
		t.Fatalf("GrayView: %v", err)
	}
	view.PixelPointer(0, 0, 0)[0] = 0x7F
	if im2.PixelPointer(3, 0, 0)[0] != 0x7F {
		t.Error("GrayView should alias the source image's alpha plane")
	}
}

func TestWrapBGRA(t *testing.T) {
	bitmap := make([]byte, 10*4*10)
	stride := 10 * 4
	bitmap[2*stride+3*4+1] = 0x55 // G channel at (3,2)
	view := WrapBGRA(bitmap, stride, 1, 1, 5, 5)
	if view.PixelPointer(0, 2, 1)[1] != 0x55 {
		t.Error("WrapBGRA should address the bitmap at the given offset")
	}
}
