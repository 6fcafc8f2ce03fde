package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

func newRGBAForTest(w, h int) (*imgbuf.Image, error) {
	return imgbuf.AllocBGRA(w, h)
}
