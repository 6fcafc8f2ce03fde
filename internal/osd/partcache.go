package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

// partCacheEntry holds the pre-scaled RGBA bitmaps for one overlay
// input index, keyed by change_id (spec.md §3's Part Cache).
type partCacheEntry struct {
	changeID int64
	scaled   map[int]*imgbuf.Image
}

// partCache owns up to MaxOSDParts entries, one per overlay-input
// index. An entry's bitmaps are discarded only on a change_id mismatch
// (get), and a scaled bitmap is added only on a cache miss (the RGBA
// Bitmap Stager).
type partCache struct {
	entries [MaxOSDParts]partCacheEntry
}

// get returns the entry for index, discarding its cached bitmaps first
// if changeID differs from what's cached.
func (pc *partCache) get(index int, changeID int64) *partCacheEntry {
	e := &pc.entries[index]
	if e.scaled == nil || e.changeID != changeID {
		e.scaled = make(map[int]*imgbuf.Image)
		e.changeID = changeID
	}
	return e
}

func (pc *partCache) reset() {
	for i := range pc.entries {
		pc.entries[i] = partCacheEntry{}
	}
}
