package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawPhysicsDebug outlines every cp shape. cp's Y axis is world Z.
func DrawPhysicsDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil {
		return
	}

	camEntity, _ := w.First(component.CameraComponent.Kind())
	drawer := &physicsDebugDrawer{
		screen: screen,
		view:   viewFor(w, camEntity, screen),
	}
	cp.DrawSpace(space, drawer)
}

// DrawStateDebug prints the player's body state, the monster's AI state,
// launcher termination counts and system timings.
func DrawStateDebug(w *ecs.World, screen *ebiten.Image, stats projectile.Stats, timings []ecs.Timing) {
	if w == nil || screen == nil {
		return
	}

	var lines []string
	if player, ok := w.First(component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			lines = append(lines, fmt.Sprintf("player (%.2f, %.2f, %.2f)", t.Position.X(), t.Position.Y(), t.Position.Z()))
		}
		if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok {
			lines = append(lines, fmt.Sprintf("grounded %v vy %.2f", body.Grounded, body.VelocityY))
		}
	}
	if monster, ok := w.First(component.MonsterTagComponent.Kind()); ok {
		if st, ok := ecs.Get(w, monster, component.AIStateComponent.Kind()); ok {
			lines = append(lines, fmt.Sprintf("monster %s %.1fs", st.Current, st.Elapsed))
		}
	}

	reasons := make([]string, 0, len(stats.Terminated))
	for reason := range stats.Terminated {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		lines = append(lines, fmt.Sprintf("%s: %d", reason, stats.Terminated[projectile.Reason(reason)]))
	}
	if stats.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("skipped: %d", stats.Skipped))
	}

	for _, t := range timings {
		lines = append(lines, fmt.Sprintf("%s %v", strings.TrimPrefix(t.Name, "*system."), t.Duration.Round(time.Microsecond)))
	}

	b := screen.Bounds()
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), b.Dx()-240, 8)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   view
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.view.toScreen(pos.X, pos.Y)
	vector.FillCircle(d.screen, x, y, float32(size/2), toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, clr cp.FColor) {
	x1, y1 := d.view.toScreen(a.X, a.Y)
	x2, y2 := d.view.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(clr), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, clr cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, clr cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, clr)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
