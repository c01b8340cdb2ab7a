package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	"golang.org/x/image/font/gofont/goregular"
)

// gameStarted is closed once the first Update has run, so sources that need
// a live window (pcap replay) can wait on it.
var gameStarted = make(chan struct{})

var shortUnits durafmt.Units

func init() {
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")
}

type Game struct {
	raster *raster

	overlayFace text.Face
	started     bool

	frameBuf []byte
	active   int

	// Source frame rate, sampled once a second.
	srcFPS     float64
	lastSample time.Time
	lastFrames uint64

	width, height int
}

func newGame(r *raster) *Game {
	g := &Game{raster: r, lastSample: time.Now()}
	if src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err == nil {
		g.overlayFace = &text.GoTextFace{Source: src, Size: 14}
	} else {
		log.Printf("parse overlay font: %v", err)
	}
	return g
}

func (g *Game) Update() error {
	if !g.started {
		g.started = true
		close(gameStarted)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		gs.Fullscreen = !gs.Fullscreen
		ebiten.SetFullscreen(gs.Fullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		gs.ShowStats = !gs.ShowStats
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		buf, _ := g.raster.snapshot(nil)
		go saveSnapshot(g.raster.w, g.raster.h, g.raster.l, buf)
	}

	g.frameBuf, g.active = g.raster.snapshot(g.frameBuf)

	if now := time.Now(); now.Sub(g.lastSample) >= time.Second {
		_, frames, _ := netStats.snapshot()
		g.srcFPS = float64(frames-g.lastFrames) / now.Sub(g.lastSample).Seconds()
		g.lastFrames = frames
		g.lastSample = now
	}
	return nil
}

// Draw renders the volume as a grid of Z slices, front layer first.
func (g *Game) Draw(screen *ebiten.Image) {
	r := g.raster
	cols := int(math.Ceil(math.Sqrt(float64(r.l))))
	rows := (r.l + cols - 1) / cols

	const margin = 8
	availW := g.width - margin*2
	availH := g.height - margin*2 - 24
	cell := min(availW/(cols*r.w), availH/(rows*r.h))
	if cell < 1 {
		cell = 1
	}
	gap := gs.VoxelGap
	if gap >= cell {
		gap = cell - 1
	}

	for z := 0; z < r.l; z++ {
		ox := margin + (z%cols)*cell*r.w
		oy := margin + (z/cols)*cell*r.h
		for y := 0; y < r.h; y++ {
			for x := 0; x < r.w; x++ {
				i := ((z*r.h+y)*r.w + x) * 3
				cr, cg, cb := g.frameBuf[i], g.frameBuf[i+1], g.frameBuf[i+2]
				if cr == 0 && cg == 0 && cb == 0 {
					continue
				}
				c := color.RGBA{
					R: byte(float64(cr) * gs.Brightness),
					G: byte(float64(cg) * gs.Brightness),
					B: byte(float64(cb) * gs.Brightness),
					A: 255,
				}
				vector.DrawFilledRect(screen,
					float32(ox+x*cell), float32(oy+y*cell),
					float32(cell-gap), float32(cell-gap), c, false)
			}
		}
	}

	if gs.ShowStats && g.overlayFace != nil {
		_, _, rxBytes := netStats.snapshot()
		up := durafmt.Parse(time.Since(startTime).Round(time.Second)).LimitFirstN(2).Format(shortUnits)
		line := fmt.Sprintf("%dx%dx%d  %0.0f fps (draw %0.0f)  %d lit  rx %s  up %s",
			r.w, r.h, r.l, g.srcFPS, ebiten.ActualFPS(), g.active,
			humanize.Bytes(rxBytes), up)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(margin), float64(g.height-20))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, g.overlayFace, op)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// saveSnapshot writes the published frame as a PNG of slice tiles, one voxel
// per pixel, under the data directory.
func saveSnapshot(w, h, l int, frame []byte) {
	cols := int(math.Ceil(math.Sqrt(float64(l))))
	rows := (l + cols - 1) / cols
	img := image.NewRGBA(image.Rect(0, 0, cols*w, rows*h))
	for z := 0; z < l; z++ {
		ox, oy := (z%cols)*w, (z/cols)*h
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := ((z*h+y)*w + x) * 3
				img.SetRGBA(ox+x, oy+y, color.RGBA{frame[i], frame[i+1], frame[i+2], 255})
			}
		}
	}

	dir := filepath.Join(dataDirPath, "snapshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		logError("snapshot: %v", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("govox-%s.png", time.Now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		logError("snapshot: %v", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		logError("snapshot: %v", err)
		return
	}
	logInfo("snapshot written to %s", path)
}

func runGame(r *raster) {
	ebiten.SetWindowTitle("govox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if gs.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	if err := ebiten.RunGame(newGame(r)); err != nil {
		log.Printf("ebiten: %v", err)
	}
	saveSettings()
}
