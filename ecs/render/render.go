package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
	"golang.org/x/image/colornames"
)

const (
	gridStep         = 2.0
	wallStroke       = 4
	facingLength     = 0.6
	minProjectilePx  = 2.5
	altitudeTintStep = 0.12
)

var (
	backgroundColor = color.RGBA{R: 0x1b, G: 0x1f, B: 0x24, A: 0xff}
	floorColor      = color.RGBA{R: 0x2c, G: 0x33, B: 0x3a, A: 0xff}
	gridColor       = color.RGBA{R: 0x3a, G: 0x43, B: 0x4d, A: 0xff}
	lavaTint        = []float32{0.55, 0.05, 0.02}
)

// RenderSystem draws the arena top-down around the camera entity.
type RenderSystem struct {
	camEntity  ecs.Entity
	lavaShader *ebiten.Shader
}

// NewRenderSystem returns a renderer. A nil shader draws lava as a flat
// circle.
func NewRenderSystem(lavaShader *ebiten.Shader) *RenderSystem {
	return &RenderSystem{lavaShader: lavaShader}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}
	v := viewFor(w, r.camEntity, screen)

	screen.Fill(backgroundColor)
	r.drawFloor(w, screen, v)
	r.drawLava(w, screen, v)
	r.drawCrates(w, screen, v)
	r.drawMonsters(w, screen, v)
	r.drawPlayer(w, screen, v)
	r.drawProjectiles(w, screen, v)
}

func (r *RenderSystem) drawFloor(w *ecs.World, screen *ebiten.Image, v view) {
	e, ok := w.First(component.ArenaBoundsComponent.Kind())
	if !ok {
		return
	}
	b, ok := ecs.Get(w, e, component.ArenaBoundsComponent.Kind())
	if !ok {
		return
	}

	x0, y0 := v.toScreen(-b.HalfWidth, b.HalfDepth)
	x1, y1 := v.toScreen(b.HalfWidth, -b.HalfDepth)
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, floorColor, false)

	for x := -b.HalfWidth + gridStep; x < b.HalfWidth; x += gridStep {
		sx, _ := v.toScreen(x, 0)
		vector.StrokeLine(screen, sx, y0, sx, y1, 1, gridColor, false)
	}
	for z := -b.HalfDepth + gridStep; z < b.HalfDepth; z += gridStep {
		_, sy := v.toScreen(0, z)
		vector.StrokeLine(screen, x0, sy, x1, sy, 1, gridColor, false)
	}
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, wallStroke, colornames.Slategray, false)
}

func (r *RenderSystem) drawLava(w *ecs.World, screen *ebiten.Image, v view) {
	ecs.ForEach2(w, component.LavaComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, lava *component.Lava, t *component.Transform) {
		cx, cy := v.toScreen(t.Position.X(), t.Position.Z())
		radius := v.scale(lava.Radius)
		if radius <= 0 {
			return
		}
		if r.lavaShader == nil {
			vector.FillCircle(screen, cx, cy, radius, colornames.Orangered, true)
			return
		}

		size := int(math.Ceil(float64(radius)*2)) + 2
		left, top := float64(cx-radius)-1, float64(cy-radius)-1
		op := &ebiten.DrawRectShaderOptions{
			Uniforms: map[string]interface{}{
				"Time":   float32(lava.Elapsed),
				"Center": []float32{cx, cy},
				"Radius": radius,
				"Tint":   lavaTint,
			},
		}
		op.GeoM.Translate(left, top)
		screen.DrawRectShader(size, size, r.lavaShader, op)
	})
}

type crateDraw struct {
	t    *component.Transform
	body *component.PhysicsBody
}

func (r *RenderSystem) drawCrates(w *ecs.World, screen *ebiten.Image, v view) {
	var crates []crateDraw
	ecs.ForEach3(w, component.CrateTagComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, _ *component.CrateTag, t *component.Transform, body *component.PhysicsBody) {
		crates = append(crates, crateDraw{t: t, body: body})
	})
	// Higher crates cover the ones they rest on.
	sort.SliceStable(crates, func(i, j int) bool {
		return crates[i].t.Position.Y() < crates[j].t.Position.Y()
	})

	img := pixel()
	for _, c := range crates {
		sx, sy := v.toScreen(c.t.Position.X(), c.t.Position.Z())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-0.5, -0.5)
		op.GeoM.Scale(float64(v.scale(c.body.Width)), float64(v.scale(c.body.Depth)))
		op.GeoM.Rotate(c.t.Yaw())
		op.GeoM.Translate(float64(sx), float64(sy))

		lift := float32(1 + altitudeTintStep*math.Max(0, c.t.Position.Y()-c.body.HalfHeight()))
		op.ColorScale.ScaleWithColor(colornames.Burlywood)
		op.ColorScale.Scale(lift, lift, lift, 1)
		screen.DrawImage(img, op)
	}
}

func (r *RenderSystem) drawMonsters(w *ecs.World, screen *ebiten.Image, v view) {
	ecs.ForEach3(w, component.MonsterComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, m *component.Monster, t *component.Transform, body *component.PhysicsBody) {
		cx, cy := v.toScreen(t.Position.X(), t.Position.Z())
		radius := v.scale(body.Radius)

		h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
		if h.Dead() {
			vector.StrokeCircle(screen, cx, cy, radius, 1, colornames.Dimgray, true)
			return
		}

		var clr color.Color = colornames.Crimson
		if h != nil && h.Flash > 0 {
			clr = colornames.White
		}
		vector.FillCircle(screen, cx, cy, radius, clr, true)
		drawFacing(screen, v, t.Position.X(), t.Position.Z(), m.Yaw, body.Radius, colornames.Mistyrose)
		if h != nil && h.Max > 0 {
			drawBar(screen, cx-radius, cy-radius-6, radius*2, float32(h.Current)/float32(h.Max), colornames.Crimson)
		}
	})
}

func (r *RenderSystem) drawPlayer(w *ecs.World, screen *ebiten.Image, v view) {
	e, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	radius := 0.4
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Radius > 0 {
		radius = body.Radius
	}
	yaw := t.Yaw()
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		yaw = p.Yaw
	}

	var clr color.Color = colornames.Dodgerblue
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Flash > 0 {
		clr = colornames.White
	}
	cx, cy := v.toScreen(t.Position.X(), t.Position.Z())
	vector.FillCircle(screen, cx, cy, v.scale(radius), clr, true)
	drawFacing(screen, v, t.Position.X(), t.Position.Z(), yaw, radius, colornames.Lightskyblue)
}

func (r *RenderSystem) drawProjectiles(w *ecs.World, screen *ebiten.Image, v view) {
	ecs.ForEach3(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, p *component.Projectile, t *component.Transform, body *component.PhysicsBody) {
		for i := 1; i < len(p.Trail); i++ {
			a, b := p.Trail[i-1], p.Trail[i]
			ax, ay := v.toScreen(a.X(), a.Z())
			bx, by := v.toScreen(b.X(), b.Z())
			alpha := uint8(255 * i / len(p.Trail))
			vector.StrokeLine(screen, ax, ay, bx, by, 1.5, color.RGBA{R: alpha, G: alpha, B: 0, A: alpha}, true)
		}

		clr := colornames.Yellow
		if p.State == projectile.StatePending.String() {
			clr = colornames.Gray
		}
		cx, cy := v.toScreen(t.Position.X(), t.Position.Z())
		radius := v.scale(body.Radius)
		if radius < minProjectilePx {
			radius = minProjectilePx
		}
		vector.FillCircle(screen, cx, cy, radius, clr, true)
	})
}

func drawFacing(screen *ebiten.Image, v view, x, z, yaw, radius float64, clr color.Color) {
	sin, cos := math.Sincos(yaw)
	x0, y0 := v.toScreen(x, z)
	x1, y1 := v.toScreen(x+sin*(radius+facingLength), z+cos*(radius+facingLength))
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
}

func drawBar(screen *ebiten.Image, x, y, width, fill float32, clr color.Color) {
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	vector.FillRect(screen, x, y, width, 3, colornames.Black, false)
	vector.FillRect(screen, x, y, width*fill, 3, clr, false)
}
