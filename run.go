package overlay

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// game adapts a Screen to ebiten.Game.
type game struct {
	screen *Screen
	gt     GameTime
	last   time.Time
}

func (g *game) Update() error {
	now := time.Now()
	step := time.Second / time.Duration(ebiten.TPS())
	if !g.last.IsZero() {
		step = now.Sub(g.last)
	}
	g.last = now
	g.gt = g.gt.Advance(step)
	return g.screen.Update(g.gt)
}

func (g *game) Draw(target *ebiten.Image) {
	g.screen.Draw(target)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if v := g.screen.Viewport(); v.X != outsideWidth || v.Y != outsideHeight {
		g.screen.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the overlay window described by the screen's config and runs it
// until the window closes or Update returns an error.
func Run(s *Screen) error {
	cfg := s.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowFloating(cfg.Floating)
	ebiten.SetTPS(cfg.TPS)
	if cfg.ShowFPS {
		s.Root().AddChild(s.UI().NewFPSCounter())
	}

	err := ebiten.RunGameWithOptions(&game{screen: s}, &ebiten.RunGameOptions{
		ScreenTransparent: cfg.Transparent,
	})
	if err != nil {
		return fmt.Errorf("overlay: run: %w", err)
	}
	return nil
}
