package format

import "testing"

func TestLookupFindRoundTrip(t *testing.T) {
	ids := []ID{BGRA8, Gray8, YUV420P8, YUV422P8, YUV444P8, YUV420P10, NV12}
	for _, id := range ids {
		d, ok := Lookup(id)
		if !ok {
			t.Fatalf("Lookup(%v): not found", id)
		}
		got, ok := Find(d)
		if !ok {
			t.Fatalf("Find(Lookup(%v)): not found", id)
		}
		if got != id {
			t.Errorf("Find(Lookup(%v)) = %v, want %v", id, got, id)
		}
	}
}

func TestAlphaPlane(t *testing.T) {
	d, _ := Lookup(BGRA8)
	if d.AlphaPlane() != 0 {
		t.Errorf("BGRA8 AlphaPlane() = %d, want 0", d.AlphaPlane())
	}
	d, _ = Lookup(YUV420P8)
	if d.AlphaPlane() != -1 {
		t.Errorf("YUV420P8 AlphaPlane() = %d, want -1", d.AlphaPlane())
	}
}

func TestWithAlpha(t *testing.T) {
	d, _ := Lookup(YUV420P8)
	withAlpha, ok := d.WithAlpha()
	if !ok {
		t.Fatal("WithAlpha: expected ok")
	}
	if withAlpha.PlaneCount != 4 || !withAlpha.HasAlpha {
		t.Fatalf("WithAlpha() = %+v, want PlaneCount=4 HasAlpha=true", withAlpha)
	}
	if withAlpha.AlphaPlane() != 3 {
		t.Errorf("AlphaPlane() = %d, want 3", withAlpha.AlphaPlane())
	}

	bgra, _ := Lookup(BGRA8)
	if _, ok := bgra.WithAlpha(); !ok {
		t.Error("WithAlpha on an already-alpha format should be a no-op success")
	}
}

func TestSubsampled(t *testing.T) {
	d, _ := Lookup(YUV420P8)
	if !d.Subsampled() {
		t.Error("YUV420P8 should report Subsampled() true")
	}
	d, _ = Lookup(YUV444P8)
	if d.Subsampled() {
		t.Error("YUV444P8 should report Subsampled() false")
	}
}
