package repack

import (
	"testing"

	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

// TestYUV420P8RoundTrip pushes a limited-range 4:2:0 buffer through
// int->float32->int and checks the values survive within integer
// quantization error.
func TestYUV420P8RoundTrip(t *testing.T) {
	src, err := imgbuf.Alloc(imgbuf.Params{Format: format.YUV420P8, W: 8, H: 4, Range: imgbuf.RangeLimited})
	if err != nil {
		t.Fatalf("Alloc src: %v", err)
	}
	for y := 0; y < 4; y++ {
		row := src.PixelPointer(0, 0, y)
		for x := 0; x < 8; x++ {
			row[x] = byte(16 + x*20)
		}
	}
	for y := 0; y < 2; y++ {
		u := src.PixelPointer(1, 0, y)
		v := src.PixelPointer(2, 0, y)
		for x := 0; x < 4; x++ {
			u[x] = byte(100 + x*10)
			v[x] = byte(140 + x*10)
		}
	}

	floatImg, err := imgbuf.Alloc(imgbuf.Params{Format: format.YUV420P8, W: 8, H: 4})
	if err != nil {
		t.Fatalf("Alloc float companion target size: %v", err)
	}
	floatImg.Desc = FloatCompanion(src.Desc)
	for p := 0; p < floatImg.Desc.PlaneCount; p++ {
		pw, ph := floatImg.PlaneW[p], floatImg.PlaneH[p]
		floatImg.Planes[p] = make([]byte, pw*ph*4)
		floatImg.Stride[p] = pw * 4
	}

	toFloat, err := CreatePlanar(format.YUV420P8, false, FlagNone)
	if err != nil {
		t.Fatalf("CreatePlanar forward: %v", err)
	}
	if err := toFloat.ConfigBuffers([4]int{}, floatImg, [4]int{}, src); err != nil {
		t.Fatalf("ConfigBuffers forward: %v", err)
	}
	for y := 0; y < 4; y++ {
		if err := toFloat.Line(0, y, 0, y, 8); err != nil {
			t.Fatalf("Line forward row %d: %v", y, err)
		}
	}

	dst, err := imgbuf.Alloc(imgbuf.Params{Format: format.YUV420P8, W: 8, H: 4, Range: imgbuf.RangeLimited})
	if err != nil {
		t.Fatalf("Alloc dst: %v", err)
	}
	fromFloat, err := CreatePlanar(format.YUV420P8, true, FlagNone)
	if err != nil {
		t.Fatalf("CreatePlanar reverse: %v", err)
	}
	if err := fromFloat.ConfigBuffers([4]int{}, dst, [4]int{}, floatImg); err != nil {
		t.Fatalf("ConfigBuffers reverse: %v", err)
	}
	for y := 0; y < 4; y++ {
		if err := fromFloat.Line(0, y, 0, y, 8); err != nil {
			t.Fatalf("Line reverse row %d: %v", y, err)
		}
	}

	for y := 0; y < 4; y++ {
		srow := src.PixelPointer(0, 0, y)
		drow := dst.PixelPointer(0, 0, y)
		for x := 0; x < 8; x++ {
			if diff := int(srow[x]) - int(drow[x]); diff < -1 || diff > 1 {
				t.Errorf("luma (%d,%d): got %d, want ~%d", x, y, drow[x], srow[x])
			}
		}
	}
}
