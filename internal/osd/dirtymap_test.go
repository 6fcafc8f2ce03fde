package osd

import "testing"

func TestMarkRectWithinOneTile(t *testing.T) {
	d := NewDirtyMap(512, 16, 1, 1)
	d.MarkRect(10, 2, 100, 3)
	s := d.RowSlice(2, 0)
	if s.X0 != 10 || s.X1 != 100 {
		t.Fatalf("slice = %+v, want X0=10 X1=100", s)
	}
	if !d.AnyOSD() {
		t.Error("AnyOSD should be true after MarkRect")
	}
}

func TestMarkRectSpansTiles(t *testing.T) {
	d := NewDirtyMap(768, 8, 1, 1)
	d.MarkRect(200, 0, 600, 1)
	s0 := d.RowSlice(0, 0)
	s1 := d.RowSlice(0, 1)
	s2 := d.RowSlice(0, 2)
	if s0.X0 != 200 || s0.X1 != SliceW {
		t.Errorf("tile 0 = %+v, want X0=200 X1=%d", s0, SliceW)
	}
	if s1.X0 != 0 || s1.X1 != SliceW {
		t.Errorf("tile 1 = %+v, want full tile", s1)
	}
	if s2.X0 != 0 || s2.X1 != 600-2*SliceW {
		t.Errorf("tile 2 = %+v, want X0=0 X1=%d", s2, 600-2*SliceW)
	}
}

func TestMarkRectExactTileBoundaryExcludesNextTile(t *testing.T) {
	d := NewDirtyMap(768, 8, 1, 1)
	d.MarkRect(0, 0, SliceW, 1)
	s0 := d.RowSlice(0, 0)
	if s0.X0 != 0 || s0.X1 != SliceW {
		t.Errorf("tile 0 = %+v, want full tile", s0)
	}
	s1 := d.RowSlice(0, 1)
	if !s1.Empty() {
		t.Errorf("tile 1 should be untouched when x1 lands exactly on the tile boundary, got %+v", s1)
	}
}

func TestTileNonEmptyChecksOwnColumn(t *testing.T) {
	d := NewDirtyMap(768, 8, 1, 1)
	d.MarkRect(300, 2, 320, 3) // row 2, tile column 1 only
	if d.TileNonEmpty(0, 0) {
		t.Error("tile row 0, column 0 should be empty")
	}
	if !d.TileNonEmpty(0, 1) {
		t.Error("tile row 0, column 1 should be non-empty (row 2 falls in tile row 0, TileH=4)")
	}
}

func TestClearOverlayResetsSlices(t *testing.T) {
	d := NewDirtyMap(64, 4, 1, 1)
	d.MarkRect(0, 0, 32, 4)
	rgba, err := newRGBAForTest(64, 4)
	if err != nil {
		t.Fatalf("newRGBAForTest: %v", err)
	}
	d.ClearOverlay(rgba)
	if d.AnyOSD() {
		t.Error("AnyOSD should be false after ClearOverlay")
	}
	if !d.RowSlice(0, 0).Empty() {
		t.Error("slice should be empty after ClearOverlay")
	}
}
