package scale

import (
	"testing"

	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

func TestPremulIdempotence(t *testing.T) {
	straight, err := imgbuf.AllocBGRA(4, 4)
	if err != nil {
		t.Fatalf("AllocBGRA: %v", err)
	}
	straight.Params.Alpha = imgbuf.AlphaStraight
	row := straight.PixelPointer(0, 0, 0)
	row[0], row[1], row[2], row[3] = 200, 100, 50, 128 // B,G,R,A

	fs := NewFloatScaler()
	premul, _ := imgbuf.AllocBGRA(4, 4)
	if err := fs.Scale(premul, straight); err != nil {
		t.Fatalf("straight->premul: %v", err)
	}
	if premul.Params.Alpha != imgbuf.AlphaPremultiplied {
		t.Fatal("premul destination should end up marked premultiplied")
	}

	back, _ := imgbuf.AllocBGRA(4, 4)
	back.Params.Alpha = imgbuf.AlphaStraight
	if err := fs.Scale(back, premul); err != nil {
		t.Fatalf("premul->straight: %v", err)
	}

	orig := straight.PixelPointer(0, 0, 0)
	got := back.PixelPointer(0, 0, 0)
	for i := 0; i < 4; i++ {
		if diff := int(orig[i]) - int(got[i]); diff < -1 || diff > 1 {
			t.Errorf("channel %d: got %d, want ~%d", i, got[i], orig[i])
		}
	}
}

func TestResampleSameFormatDownsamples(t *testing.T) {
	src, _ := imgbuf.Alloc(imgbuf.Params{Format: format.Gray8, W: 4, H: 4})
	for y := 0; y < 4; y++ {
		row := src.PixelPointer(0, 0, y)
		for x := 0; x < 4; x++ {
			row[x] = byte(y*4 + x)
		}
	}
	dst, _ := imgbuf.Alloc(imgbuf.Params{Format: format.Gray8, W: 2, H: 2})
	fs := NewFloatScaler()
	if err := fs.Scale(dst, src); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if dst.PlaneW[0] != 2 || dst.PlaneH[0] != 2 {
		t.Fatalf("dst dims = %dx%d, want 2x2", dst.PlaneW[0], dst.PlaneH[0])
	}
}

func TestDrawScalerSupports(t *testing.T) {
	ds := NewDrawScaler()
	if !ds.Supports(format.BGRA8, format.BGRA8) {
		t.Error("DrawScaler should support BGRA8->BGRA8")
	}
	if ds.Supports(format.YUV420P8, format.BGRA8) {
		t.Error("DrawScaler should not support cross-format conversion")
	}
}

func TestDrawScalerScaleUpsizes(t *testing.T) {
	src, _ := imgbuf.AllocBGRA(2, 2)
	row0 := src.PixelPointer(0, 0, 0)
	row0[0], row0[1], row0[2], row0[3] = 10, 20, 30, 255
	row1 := src.PixelPointer(0, 1, 0)
	row1[0], row1[1], row1[2], row1[3] = 200, 210, 220, 255

	dst, _ := imgbuf.AllocBGRA(8, 8)
	ds := NewDrawScaler()
	if err := ds.Scale(dst, src); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	// The top-left corner should stay close to the source's top-left
	// sample; interpolation kernels may overshoot slightly at edges but
	// should not invert the gradient direction entirely.
	corner := dst.PixelPointer(0, 0, 0)
	farCorner := dst.PixelPointer(0, 7, 0)
	if corner[0] >= farCorner[0] {
		t.Errorf("expected increasing B channel across the upsized row, got %d at x=0 and %d at x=7", corner[0], farCorner[0])
	}
}

func TestConvertBGRAToVideoNonSubsampled(t *testing.T) {
	src, _ := imgbuf.AllocBGRA(2, 2)
	row := src.PixelPointer(0, 0, 0)
	row[0], row[1], row[2], row[3] = 255, 255, 255, 255 // white, opaque

	withAlpha, _ := format.Lookup(format.YUV444P8)
	ad, _ := withAlpha.WithAlpha()
	id, ok := format.Find(ad)
	if !ok {
		t.Fatal("no format id for YUV444P8+alpha")
	}
	dst, err := imgbuf.Alloc(imgbuf.Params{Format: id, W: 2, H: 2, Matrix: imgbuf.MatrixBT601, Range: imgbuf.RangeFull})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	fs := NewFloatScaler()
	if err := fs.Scale(dst, src); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	y := dst.PixelPointer(0, 0, 0)[0]
	if y < 250 {
		t.Errorf("white input should map to near-white luma, got %d", y)
	}
}
