package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const defaultZoom = 28.0

// view maps the arena floor onto the screen: +X right, +Z up, centred on the
// camera.
type view struct {
	camX, camZ   float64
	zoom         float64
	halfW, halfH float64
}

func viewFor(w *ecs.World, camEntity ecs.Entity, screen *ebiten.Image) view {
	b := screen.Bounds()
	v := view{zoom: defaultZoom, halfW: float64(b.Dx()) / 2, halfH: float64(b.Dy()) / 2}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		v.camX, v.camZ = cam.X, cam.Z
		if cam.Zoom > 0 {
			v.zoom = cam.Zoom
		}
	}
	return v
}

func (v view) toScreen(x, z float64) (float32, float32) {
	return float32((x-v.camX)*v.zoom + v.halfW), float32(-(z-v.camZ)*v.zoom + v.halfH)
}

func (v view) scale(d float64) float32 {
	return float32(d * v.zoom)
}
