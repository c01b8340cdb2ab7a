package main

import "testing"

func TestParseGeometry(t *testing.T) {
	w, h, l, err := parseGeometry("40x20x40")
	if err != nil {
		t.Fatalf("parseGeometry: %v", err)
	}
	if w != 40 || h != 20 || l != 40 {
		t.Fatalf("got %dx%dx%d, want 40x20x40", w, h, l)
	}

	if _, _, _, err := parseGeometry(" 16 x 16 x 16 "); err != nil {
		t.Fatalf("spaced geometry rejected: %v", err)
	}

	for _, bad := range []string{"", "16x16", "16x16x16x16", "0x16x16", "ax16x16"} {
		if _, _, _, err := parseGeometry(bad); err == nil {
			t.Fatalf("parseGeometry(%q) accepted", bad)
		}
	}
}

func TestUniverseCount(t *testing.T) {
	if got := newRaster(16, 16, 16).universeCount(); got != 25 {
		t.Fatalf("16x16x16 universes = %d, want 25", got)
	}
	if got := newRaster(4, 4, 4).universeCount(); got != 1 {
		t.Fatalf("4x4x4 universes = %d, want 1", got)
	}
}

func TestSetUniverseMapping(t *testing.T) {
	r := newRaster(4, 4, 4)

	// Voxel 21 sits at x=1, y=1, z=1 in scan order.
	data := make([]byte, channelsPerUniverse)
	data[21*3] = 10
	data[21*3+1] = 20
	data[21*3+2] = 30
	if !r.setUniverse(0, data) {
		t.Fatal("setUniverse rejected universe 0")
	}
	r.flip()

	if c := r.at(1, 1, 1); c != (rgb{10, 20, 30}) {
		t.Fatalf("voxel (1,1,1) = %+v, want {10 20 30}", c)
	}
	if c := r.at(0, 0, 0); c != (rgb{}) {
		t.Fatalf("voxel (0,0,0) = %+v, want black", c)
	}
}

func TestSetUniverseOutOfRange(t *testing.T) {
	r := newRaster(4, 4, 4)
	if r.setUniverse(1, []byte{1, 2, 3}) {
		t.Fatal("universe past the raster accepted")
	}
	if r.setUniverse(-1, []byte{1, 2, 3}) {
		t.Fatal("negative universe accepted")
	}
}

func TestFlipIsolation(t *testing.T) {
	r := newRaster(2, 2, 2)
	r.setBack(1, 0, 1, rgb{255, 0, 0})
	if c := r.at(1, 0, 1); c != (rgb{}) {
		t.Fatalf("unflipped write visible: %+v", c)
	}
	r.flip()
	if c := r.at(1, 0, 1); c != (rgb{255, 0, 0}) {
		t.Fatalf("flipped voxel = %+v, want red", c)
	}
}

func TestSnapshotActive(t *testing.T) {
	r := newRaster(3, 3, 3)
	r.setBack(0, 0, 0, rgb{1, 0, 0})
	r.setBack(2, 2, 2, rgb{0, 0, 1})
	r.flip()

	buf, active := r.snapshot(nil)
	if active != 2 {
		t.Fatalf("active = %d, want 2", active)
	}
	if len(buf) != 3*3*3*3 {
		t.Fatalf("snapshot len = %d, want %d", len(buf), 3*3*3*3)
	}

	// Reuse path must not reallocate.
	buf2, _ := r.snapshot(buf)
	if &buf2[0] != &buf[0] {
		t.Fatal("snapshot reallocated despite sufficient capacity")
	}
}
