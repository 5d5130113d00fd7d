package overlay

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const fpsRefresh = 500 * time.Millisecond

// FPSCounter shows Ebitengine's measured FPS and TPS, refreshed twice a
// second.
type FPSCounter struct {
	img     *ebiten.Image
	elapsed time.Duration
}

// NewFPSCounter creates an FPS readout control drawn above its siblings.
func (u *UI) NewFPSCounter() *Control {
	c := u.NewControl(&FPSCounter{})
	c.Name = "fps"
	c.SetSize(image.Pt(100, 32))
	c.SetZIndex(tooltipZIndex - 1)
	c.SetCaptureInput(CaptureNone)
	return c
}

func (f *FPSCounter) Update(c *Control, gt GameTime) {
	f.elapsed += gt.Elapsed
	if f.img != nil && f.elapsed < fpsRefresh {
		return
	}
	f.elapsed = 0
	if f.img == nil {
		f.img = ebiten.NewImage(100, 32)
	}
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (f *FPSCounter) Paint(c *Control, p *Painter, bounds image.Rectangle) {
	if f.img == nil {
		return
	}
	p.DrawTexture(f.img, bounds, ColorWhite)
}

func (f *FPSCounter) Dispose(*Control) {
	if f.img != nil {
		f.img.Deallocate()
		f.img = nil
	}
}
