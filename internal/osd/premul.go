package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

// blendWithPremulWrap is the Premul Wrap (spec.md §4.G): when dst
// doesn't already carry premultiplied alpha, it is copied into
// premul_tmp as premultiplied, blended there, and the result is
// un-premultiplied back into dst. The only alpha-bearing destination
// format in this compositor's format table (internal/format) is BGRA8
// (the table's planar "+a" ids are overlay formats only), and BGRA8 is
// the one format premulConvert (internal/scale) converts both ways, so
// needPremul is only ever true for a BGRA8 destination. premulConvert
// returns an error for any other format.
func (c *Cache) blendWithPremulWrap(dst *imgbuf.Image) error {
	if !c.needPremul {
		return c.blend(dst)
	}

	if err := c.premulScaler.Scale(c.premulTmp, dst); err != nil {
		return errorf("osd: premultiplying destination: %v", err)
	}
	if err := c.blend(c.premulTmp); err != nil {
		return err
	}
	if err := c.premulScaler.Scale(dst, c.premulTmp); err != nil {
		return errorf("osd: un-premultiplying destination: %v", err)
	}
	return nil
}
