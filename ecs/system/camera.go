package system

import (
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

type CameraSystem struct {
	camEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update eases the camera centre toward the player.
func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}
	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}

	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}

	k := cam.Smoothness * common.DeltaTime
	if k <= 0 || k > 1 {
		k = 1
	}
	cam.X = common.Lerp(cam.X, t.Position.X(), k)
	cam.Z = common.Lerp(cam.Z, t.Position.Z(), k)
}
