package osdcompositor

import "testing"

func TestCompositeBGRA8EndToEnd(t *testing.T) {
	frame, err := AllocFrame(FrameParams{Format: BGRA8, Width: 32, Height: 32})
	if err != nil {
		t.Fatalf("AllocFrame: %v", err)
	}
	base := make([]byte, 32*32*4)
	for i := range base {
		base[i] = 7
	}
	frame.SetBGRA8(base, 32*4)

	cache := NewCache()
	bitmap := make([]byte, 4*4)
	for i := range bitmap {
		bitmap[i] = 255
	}
	overlay := &Overlay{
		ChangeID: 1, W: 32, H: 32,
		Items: []OverlayItem{{
			Index: 0, Format: FormatLIBASS, ChangeID: 1,
			LibassParts: []GlyphPart{{X: 10, Y: 10, W: 4, H: 4, Bitmap: bitmap, Stride: 4, Color: 0xFFFFFF00}},
		}},
	}

	drawn, err := cache.Composite(frame, overlay)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !drawn {
		t.Fatal("expected something drawn")
	}

	pixels, stride := frame.BGRA8()
	o := 12*stride + 12*4
	if pixels[o] != 255 {
		t.Errorf("pixel under the glyph = %d, want 255 (fully covered)", pixels[o])
	}
}

func TestSupportedFormatsExposed(t *testing.T) {
	if !SupportedFormats[FormatLIBASS] || !SupportedFormats[FormatRGBA] {
		t.Error("both bitmap formats should be marked supported")
	}
}

func TestDebugInfoExposed(t *testing.T) {
	cache := NewCache()
	if got := cache.DebugInfo(); got == "" {
		t.Error("DebugInfo should never return an empty string")
	}
}
