package osd

// convertOverlay turns the BGRA rgba_overlay into video_overlay in the
// video colorspace (spec.md §4.D). When the overlay format IS BGRA8
// (videoOverlay == nil) there is nothing to convert: rgba_overlay
// coincides with the overlay used by the Blender.
func (c *Cache) convertOverlay() error {
	if c.videoOverlay == nil {
		return nil
	}

	if !c.tiled {
		if err := c.rgbaToOverlay.Scale(c.videoOverlay, c.rgbaOverlay); err != nil {
			return errorf("osd: converting overlay: %v", err)
		}
		return c.convertChromaAlpha()
	}

	tileColumns := c.dirty.TileColumns()
	tileRows := c.videoOverlay.Params.H / TileH
	for ty := 0; ty < tileRows; ty++ {
		for sx := 0; sx < tileColumns; sx++ {
			if !c.dirty.TileNonEmpty(ty, sx) {
				continue
			}
			x0 := sx * SliceW
			y0 := ty * TileH
			srcTile, err := c.rgbaOverlay.Crop(x0, y0, x0+SliceW, y0+TileH)
			if err != nil {
				return errorf("osd: cropping overlay tile: %v", err)
			}
			dstTile, err := c.videoOverlay.Crop(x0, y0, x0+SliceW, y0+TileH)
			if err != nil {
				return errorf("osd: cropping video_overlay tile: %v", err)
			}
			if err := c.rgbaToOverlay.Scale(dstTile, srcTile); err != nil {
				return errorf("osd: converting overlay tile (%d,%d): %v", sx, ty, err)
			}
		}
	}
	return c.convertChromaAlpha()
}

// convertChromaAlpha rescales alpha_overlay down to chroma resolution
// when the overlay format is subsampled (spec.md §4.D's "then, if
// chroma is subsampled, rescale alpha_overlay -> calpha_overlay").
func (c *Cache) convertChromaAlpha() error {
	if c.calphaOverlay == nil {
		return nil
	}
	if err := c.alphaToCalpha.Scale(c.calphaOverlay, c.alphaOverlay); err != nil {
		return errorf("osd: downsampling chroma alpha: %v", err)
	}
	return nil
}
