package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

// Slice is a tile-local dirty column range (spec.md §3). An empty
// slice is canonically (SliceW, 0).
type Slice struct {
	X0, X1 int
}

func emptySlice() Slice { return Slice{X0: SliceW, X1: 0} }

// Empty reports whether the slice carries no dirty pixels.
func (s Slice) Empty() bool { return s.X0 > s.X1 }

// DirtyMap is the per-row, per-tile-column dirty record spec.md §4.A
// describes, grounded on the run-length span bookkeeping in AGG's
// internal/scanline/storage_aa.go, specialized to one dirty run per
// tile column per row.
type DirtyMap struct {
	w, h           int
	alignX, alignY int
	sw             int
	slices         [][]Slice
	anyOSD         bool
}

// NewDirtyMap allocates a dirty map for an overlay of size w×h, aligned
// to (alignX, alignY).
func NewDirtyMap(w, h, alignX, alignY int) *DirtyMap {
	sw := (w + SliceW - 1) / SliceW
	slices := make([][]Slice, h)
	for y := range slices {
		row := make([]Slice, sw)
		for i := range row {
			row[i] = emptySlice()
		}
		slices[y] = row
	}
	return &DirtyMap{w: w, h: h, alignX: alignX, alignY: alignY, sw: sw, slices: slices}
}

// AnyOSD reports whether the overlay is known to carry any pixels.
func (d *DirtyMap) AnyOSD() bool { return d.anyOSD }

// TileColumns returns the number of SliceW-wide tile columns.
func (d *DirtyMap) TileColumns() int { return d.sw }

func floorTo(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v / align) * align
}

func ceilTo(v, align int) int {
	if align <= 1 {
		return v
	}
	return ((v + align - 1) / align) * align
}

// MarkRect snaps (x0,y0)-(x1,y1) outward to the alignment grid and
// marks every touched slice dirty (spec.md §4.A). It panics if the
// snapped rectangle falls outside [0,w]x[0,h] — a precondition
// violation is a programming error per spec.md §7.4, not a soft error.
func (d *DirtyMap) MarkRect(x0, y0, x1, y1 int) {
	x0 = floorTo(x0, d.alignX)
	y0 = floorTo(y0, d.alignY)
	x1 = ceilTo(x1, d.alignX)
	y1 = ceilTo(y1, d.alignY)
	assertf(x0 >= 0 && y0 >= 0 && x1 <= d.w && y1 <= d.h,
		"osd: mark_rect (%d,%d)-(%d,%d) out of bounds for %dx%d", x0, y0, x1, y1, d.w, d.h)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	for y := y0; y < y1; y++ {
		d.markRow(y, x0, x1)
	}
	d.anyOSD = true
}

// markRow marks columns [x0,x1) dirty on row y. This is a literal
// rewrite of spec.md §4.A's sx0/sx1/modulo description that resolves
// the boundary ambiguity left open when x1 lands exactly on a tile
// edge (x1 mod SliceW == 0): in that case the tile at x1/SliceW is not
// touched at all, since the range is exclusive of x1.
func (d *DirtyMap) markRow(y, x0, x1 int) {
	row := d.slices[y]
	sx0, lx0 := x0/SliceW, x0%SliceW
	sx1, lx1 := x1/SliceW, x1%SliceW
	if lx1 == 0 {
		sx1--
		lx1 = SliceW
	}
	if sx0 == sx1 {
		s := row[sx0]
		if lx0 < s.X0 {
			s.X0 = lx0
		}
		if lx1 > s.X1 {
			s.X1 = lx1
		}
		row[sx0] = s
		return
	}
	first := row[sx0]
	if lx0 < first.X0 {
		first.X0 = lx0
	}
	first.X1 = SliceW
	row[sx0] = first

	last := row[sx1]
	last.X0 = 0
	if lx1 > last.X1 {
		last.X1 = lx1
	}
	row[sx1] = last

	for sx := sx0 + 1; sx < sx1; sx++ {
		row[sx] = Slice{X0: 0, X1: SliceW}
	}
}

// ClearOverlay zeros every dirty pixel of rgba (the BGRA premul
// overlay) and resets every slice to empty (spec.md §4.A).
func (d *DirtyMap) ClearOverlay(rgba *imgbuf.Image) {
	for y := 0; y < d.h; y++ {
		row := d.slices[y]
		for sx, s := range row {
			if s.Empty() {
				continue
			}
			x0 := sx*SliceW + s.X0
			x1 := sx*SliceW + s.X1
			rgba.ClearRect(x0, y, x1, y+1)
			row[sx] = emptySlice()
		}
	}
	d.anyOSD = false
}

// RowSlice returns the slice at (y, sx), used by the Blender to find
// which tile-wide column ranges need repacking.
func (d *DirtyMap) RowSlice(y, sx int) Slice {
	return d.slices[y][sx]
}

// TileNonEmpty reports whether any of the TileH rows starting at
// tileRow*TileH has a non-empty slice at tile column sx. This resolves
// spec.md §9's Open Question 1 in favor of "any row in the tile, at
// the tile's own column" rather than always inspecting column 0.
func (d *DirtyMap) TileNonEmpty(tileRow, sx int) bool {
	y0 := tileRow * TileH
	y1 := y0 + TileH
	if y1 > d.h {
		y1 = d.h
	}
	for y := y0; y < y1; y++ {
		if !d.slices[y][sx].Empty() {
			return true
		}
	}
	return false
}
