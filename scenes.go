package main

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/remeh/sizedwaitgroup"
)

const sceneFPS = 30

// sceneFunc fills one Z layer of the back buffer for time t (seconds).
// Layers are filled in parallel, so a scene must only touch its own layer.
type sceneFunc func(r *raster, z int, t float64)

var scenes = map[string]sceneFunc{
	"rainbow": sceneRainbow,
	"plasma":  scenePlasma,
	"ripple":  sceneRipple,
}

func sceneNames() []string {
	names := make([]string, 0, len(scenes))
	for n := range scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sceneByName(name string) (sceneFunc, error) {
	fn, ok := scenes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have: %s)", name, strings.Join(sceneNames(), ", "))
	}
	return fn, nil
}

// hsvToRGB converts h in [0,1) at full saturation/value scaled by v.
func hsvToRGB(h, v float64) rgb {
	h = h - math.Floor(h)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := 0.0
	q := v * (1 - f)
	t := v * f
	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return rgb{byte(r * 255), byte(g * 255), byte(b * 255)}
}

// sceneRainbow sweeps a diagonal hue gradient through the volume.
func sceneRainbow(r *raster, z int, t float64) {
	span := float64(r.w + r.h + r.l)
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			h := float64(x+y+z)/span + t*0.1
			r.setBack(x, y, z, hsvToRGB(h, 1))
		}
	}
}

// scenePlasma mixes three moving sine fields, the classic demo effect.
func scenePlasma(r *raster, z int, t float64) {
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			v := math.Sin(float64(x)*0.4+t) +
				math.Sin(float64(y)*0.35+t*1.3) +
				math.Sin(float64(z)*0.3+t*0.7) +
				math.Sin(math.Sqrt(float64(x*x+y*y+z*z))*0.25+t)
			r.setBack(x, y, z, hsvToRGB(v*0.125+t*0.05, 1))
		}
	}
}

// sceneRipple is an expanding spherical wave from the grid center; voxels
// near the wavefront light up, everything else stays dark.
func sceneRipple(r *raster, z int, t float64) {
	cx, cy, cz := float64(r.w-1)/2, float64(r.h-1)/2, float64(r.l-1)/2
	maxR := math.Sqrt(cx*cx + cy*cy + cz*cz)
	wave := math.Mod(t*5, maxR+2)
	const thickness = 1.5
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if diff := math.Abs(d - wave); diff < thickness {
				v := 1 - diff/thickness
				r.setBack(x, y, z, hsvToRGB(d/maxR, v))
			} else {
				r.setBack(x, y, z, rgb{})
			}
		}
	}
}

// renderSceneFrame fills every layer for time t and publishes the frame.
func renderSceneFrame(r *raster, fn sceneFunc, t float64) {
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for z := 0; z < r.l; z++ {
		wg.Add()
		go func(z int) {
			defer wg.Done()
			fn(r, z, t)
		}(z)
	}
	wg.Wait()
	r.flip()
	netStats.addFrame()
}

// runScene drives a generator scene at a fixed rate until ctx is cancelled.
// It stands in for a network source when no Art-Net sender is around.
func runScene(ctx context.Context, r *raster, fn sceneFunc) {
	ticker := time.NewTicker(time.Second / sceneFPS)
	defer ticker.Stop()
	begin := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			renderSceneFrame(r, fn, now.Sub(begin).Seconds())
		}
	}
}
