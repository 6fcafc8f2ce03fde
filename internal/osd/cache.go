package osd

import (
	"fmt"

	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

// Composite is the compositor's single entry point (spec.md §2):
// rebuild the pipeline if dst's parameters changed, re-render and
// re-convert the overlay only if overlay's change_id advanced, then
// blend every dirty region into dst. It reports whether anything was
// drawn (false means dst was left untouched and callers may skip a
// display update).
func (c *Cache) Composite(dst *imgbuf.Image, overlay *OverlayList) (bool, error) {
	if dst == nil || overlay == nil {
		return false, errorf("osd: Composite called with a nil argument")
	}
	if !c.built || !c.params.Equal(dst.Params) {
		if err := c.build(dst.Params); err != nil {
			return false, err
		}
	}

	if overlay.ChangeID != c.changeID {
		if err := c.renderOverlay(overlay); err != nil {
			return false, err
		}
		c.changeID = overlay.ChangeID
	}

	if !c.anyOSD {
		return false, nil
	}

	if err := c.blendWithPremulWrap(dst); err != nil {
		return false, err
	}
	return true, nil
}

// renderOverlay clears rgba_overlay and the dirty map, re-rasterizes
// every item's parts, and converts the result into video_overlay when
// the destination isn't BGRA8 itself.
func (c *Cache) renderOverlay(overlay *OverlayList) error {
	c.dirty.ClearOverlay(c.rgbaOverlay)

	for _, item := range overlay.Items {
		assertf(item.Index >= 0 && item.Index < MaxOSDParts,
			"osd: overlay item index %d out of range [0,%d)", item.Index, MaxOSDParts)

		switch item.Format {
		case FormatLIBASS:
			for _, p := range item.LibassParts {
				blendASSGlyph(c.rgbaOverlay, c.dirty, p.X, p.Y, p.W, p.H, p.Bitmap, p.Stride, p.Color)
			}
		case FormatRGBA:
			for _, p := range item.RGBAParts {
				if err := c.stageRGBA(item.Index, p.BitmapIndex, item.ChangeID, p); err != nil {
					return err
				}
			}
		default:
			return errorf("osd: overlay item %d has unsupported bitmap format %v", item.Index, item.Format)
		}
	}

	c.anyOSD = c.dirty.AnyOSD()
	if !c.anyOSD {
		return nil
	}
	return c.convertOverlay()
}

// DebugInfo reports the Cache's current pipeline shape for diagnostics
// (spec.md §6): whether it's built, the chosen overlay format, tiling,
// and premultiplication mode.
func (c *Cache) DebugInfo() string {
	if !c.built {
		return "osd.Cache: unbuilt"
	}
	return fmt.Sprintf(
		"osd.Cache: dst=%dx%d overlay_format=%v tiled=%v premul_wrap=%v align=(%d,%d) any_osd=%v",
		c.w, c.h, c.overlayFormat, c.tiled, c.needPremul, c.alignX, c.alignY, c.anyOSD,
	)
}
