package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// DMX allows 512 channels per universe; only 510 are used so a voxel's three
// channels never straddle a universe boundary.
const (
	channelsPerUniverse = 510
	voxelsPerUniverse   = channelsPerUniverse / 3
)

type rgb struct {
	R, G, B byte
}

// raster holds the voxel grid as two flat RGB buffers in Z-then-Y-then-X scan
// order. DMX data lands in the back buffer; flip publishes it to the front
// buffer the renderer reads.
type raster struct {
	w, h, l int

	mu    sync.Mutex
	front []byte
	back  []byte
}

func newRaster(w, h, l int) *raster {
	n := w * h * l * 3
	return &raster{
		w:     w,
		h:     h,
		l:     l,
		front: make([]byte, n),
		back:  make([]byte, n),
	}
}

// parseGeometry parses a WxHxL grid size string such as "16x16x16".
func parseGeometry(s string) (w, h, l int, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("geometry %q: want WxHxL", s)
	}
	dims := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return 0, 0, 0, fmt.Errorf("geometry %q: bad dimension %q", s, p)
		}
		dims[i] = n
	}
	return dims[0], dims[1], dims[2], nil
}

// universeCount returns how many DMX universes cover the raster.
func (r *raster) universeCount() int {
	voxels := r.w * r.h * r.l
	return (voxels + voxelsPerUniverse - 1) / voxelsPerUniverse
}

// setUniverse copies one universe's channel data into the back buffer.
// Universes map to voxels in scan order: universe 0 carries voxels 0..169,
// universe 1 voxels 170..339, and so on. Out-of-range universes and trailing
// channels beyond the raster are dropped.
func (r *raster) setUniverse(universe int, data []byte) bool {
	if universe < 0 || universe >= r.universeCount() {
		return false
	}
	if len(data) > channelsPerUniverse {
		data = data[:channelsPerUniverse]
	}
	off := universe * channelsPerUniverse
	r.mu.Lock()
	n := copy(r.back[off:], data)
	r.mu.Unlock()
	return n > 0
}

// flip publishes the back buffer to the renderer. The back buffer keeps its
// contents so partial universe updates persist across frames, matching how a
// physical display latches channel data.
func (r *raster) flip() {
	r.mu.Lock()
	copy(r.front, r.back)
	r.mu.Unlock()
}

// at returns the published color of the voxel at (x, y, z).
func (r *raster) at(x, y, z int) rgb {
	i := ((z*r.h+y)*r.w + x) * 3
	r.mu.Lock()
	c := rgb{r.front[i], r.front[i+1], r.front[i+2]}
	r.mu.Unlock()
	return c
}

// setBack writes a single voxel into the back buffer. Generator scenes use
// this; network input goes through setUniverse.
func (r *raster) setBack(x, y, z int, c rgb) {
	i := ((z*r.h+y)*r.w + x) * 3
	r.back[i] = c.R
	r.back[i+1] = c.G
	r.back[i+2] = c.B
}

// snapshot copies the published buffer and counts lit voxels.
func (r *raster) snapshot(dst []byte) (out []byte, active int) {
	r.mu.Lock()
	if cap(dst) < len(r.front) {
		dst = make([]byte, len(r.front))
	}
	dst = dst[:len(r.front)]
	copy(dst, r.front)
	r.mu.Unlock()
	for i := 0; i < len(dst); i += 3 {
		if dst[i] != 0 || dst[i+1] != 0 || dst[i+2] != 0 {
			active++
		}
	}
	return dst, active
}
