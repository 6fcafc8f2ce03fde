// Command osdview is a small interactive demo: it composites a
// synthetic subtitle glyph and an RGBA logo onto an animated BGRA8
// test pattern and presents the result in an SDL2 window, the same
// role the teacher's own SDL2 demos play for its drawing API.
package main

import (
	"log"
	"math"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	osdcompositor "github.com/MeKo-Christian/osdcompositor"
)

const (
	winW = 640
	winH = 360
)

func main() {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("sdl init: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("osdview", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		winW, winH, sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, winW, winH)
	if err != nil {
		log.Fatalf("create texture: %v", err)
	}
	defer texture.Destroy()

	frame, err := osdcompositor.AllocFrame(osdcompositor.FrameParams{
		Format: osdcompositor.BGRA8,
		Width:  winW,
		Height: winH,
		Alpha:  osdcompositor.AlphaNone,
	})
	if err != nil {
		log.Fatalf("alloc frame: %v", err)
	}

	cache := osdcompositor.NewCache()
	glyph := demoGlyph()
	logo := demoLogo()

	frameN := 0
	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				running = false
			}
		}

		pixels := renderTestPattern(frameN)
		overlay := &osdcompositor.Overlay{
			ChangeID: 1,
			W:        winW,
			H:        winH,
			Items: []osdcompositor.OverlayItem{
				{Index: 0, Format: osdcompositor.FormatLIBASS, ChangeID: 1,
					LibassParts: []osdcompositor.GlyphPart{glyph}},
				{Index: 1, Format: osdcompositor.FormatRGBA, ChangeID: 1,
					RGBAParts: []osdcompositor.ImagePart{logo}},
			},
		}

		frame.SetBGRA8(pixels, winW*4)
		if _, err := cache.Composite(frame, overlay); err != nil {
			log.Fatalf("composite: %v", err)
		}

		composited, stride := frame.BGRA8()
		if err := texture.Update(nil, unsafe.Pointer(&composited[0]), stride); err != nil {
			log.Fatalf("texture update: %v", err)
		}
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		sdl.Delay(16)
		frameN++
	}
}

// renderTestPattern returns a BGRA8 animated color bar pattern.
func renderTestPattern(frameN int) []byte {
	buf := make([]byte, winW*winH*4)
	phase := float64(frameN) * 0.05
	for y := 0; y < winH; y++ {
		for x := 0; x < winW; x++ {
			o := (y*winW + x) * 4
			buf[o+0] = byte(128 + 127*math.Sin(float64(x)/40+phase))
			buf[o+1] = byte(128 + 127*math.Sin(float64(y)/40+phase*1.3))
			buf[o+2] = byte(128 + 127*math.Cos(phase*0.7))
			buf[o+3] = 255
		}
	}
	return buf
}

// demoGlyph synthesizes a small triangular coverage ramp, standing in
// for one rasterized subtitle glyph.
func demoGlyph() osdcompositor.GlyphPart {
	const w, h = 48, 24
	bitmap := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 255 - (255 * y / h)
			if x < y || x > w-y {
				v = 0
			}
			bitmap[y*w+x] = byte(v)
		}
	}
	return osdcompositor.GlyphPart{
		X: 40, Y: winH - 60, W: w, H: h,
		Bitmap: bitmap, Stride: w,
		Color: 0xFFFFFF00, // white, fully opaque (low byte is inverse alpha)
	}
}

// demoLogo synthesizes a small premultiplied BGRA square, standing in
// for a pre-decoded RGBA image part.
func demoLogo() osdcompositor.ImagePart {
	const w, h = 64, 64
	bitmap := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			bitmap[o+0] = 31  // B (40 premultiplied by 200/255)
			bitmap[o+1] = 157 // G (200 premultiplied)
			bitmap[o+2] = 173 // R (220 premultiplied)
			bitmap[o+3] = 200 // A
		}
	}
	return osdcompositor.ImagePart{
		X: winW - 100, Y: 20, W: w, H: h,
		DW: 80, DH: 80,
		Bitmap: bitmap, Stride: w * 4,
		BitmapIndex: 0,
	}
}
