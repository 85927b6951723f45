package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
	"golang.org/x/image/colornames"
)

const captureHint = "click to capture the pointer"

// HUD is the per-frame overlay state.
type HUD struct {
	FPS        float64
	Stats      projectile.Stats
	Captured   bool
	Spectators int
}

// DrawHUD prints frame stats and draws the player's health bar.
func DrawHUD(w *ecs.World, screen *ebiten.Image, hud HUD) {
	if w == nil || screen == nil {
		return
	}

	text := fmt.Sprintf("FPS %.0f\nprojectiles %d (fired %d)", hud.FPS, hud.Stats.Live, hud.Stats.Spawned)
	if hud.Spectators > 0 {
		text += fmt.Sprintf("\nspectators %d", hud.Spectators)
	}
	ebitenutil.DebugPrintAt(screen, text, 8, 8)

	b := screen.Bounds()
	if player, ok := w.First(component.PlayerTagComponent.Kind()); ok {
		if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h.Max > 0 {
			x, y := float32(8), float32(b.Dy()-20)
			drawBar(screen, x, y, 160, float32(h.Current)/float32(h.Max), colornames.Limegreen)
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d/%d", h.Current, h.Max), 176, b.Dy()-26)
		}
	}

	if !hud.Captured {
		ebitenutil.DebugPrintAt(screen, captureHint, b.Dx()/2-len(captureHint)*3, b.Dy()/2+40)
	}
}
