package system

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeCrate
	collisionTypePlayer
	collisionTypeMonster
	collisionTypeProjectile
)

const (
	defaultSubsteps = 4
	spaceDamping    = 0.3
	wallThickness   = 0.25
	// supportSlack lets a body settle onto a surface it has sunk into slightly.
	supportSlack = 0.05
	// overlapSlack keeps stacked boxes from colliding through their shared face.
	overlapSlack = 1e-3
)

// PhysicsSystem steps a Chipmunk space in the horizontal plane and integrates
// the vertical axis itself. cp X maps to world X and cp Y maps to world Z.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	substeps      int

	entities map[ecs.Entity]*bodyInfo
	owners   map[*cp.Shape]ecs.Entity
	bounds   ecs.Entity

	impacts map[ecs.Entity]*component.ProjectileImpact
	pushes  []cratePush
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
	kind   component.BodyKind

	y     float64
	halfH float64
	halfW float64
	halfD float64
}

type cratePush struct {
	crate   ecs.Entity
	impulse cp.Vector
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		substeps: defaultSubsteps,
		entities: make(map[ecs.Entity]*bodyInfo),
		owners:   make(map[*cp.Shape]ecs.Entity),
		impacts:  make(map[ecs.Entity]*component.ProjectileImpact),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	space.SetDamping(spaceDamping)
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BodyCount returns the number of entities with a live cp body.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.cleanupEntities(w)
	ps.syncWorldBounds(w)
	ps.syncEntities(w)
	ps.integrateVertical(w, common.DeltaTime)

	steps := ps.substeps
	if steps <= 0 {
		steps = 1
	}
	dt := common.DeltaTime / float64(steps)
	for i := 0; i < steps; i++ {
		ps.space.Step(dt)
	}

	ps.applyPushes(w)
	ps.syncTransforms(w)
	ps.flushImpacts(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	solidTypes := []cp.CollisionType{collisionTypeSolid, collisionTypeCrate, collisionTypePlayer, collisionTypeMonster}
	for i, a := range solidTypes {
		for _, b := range solidTypes[i:] {
			if a == collisionTypeSolid && b == collisionTypeSolid {
				continue
			}
			handler := ps.space.NewCollisionHandler(a, b)
			handler.UserData = ps
			handler.PreSolveFunc = verticalPreSolve
		}
	}

	projectileWall := ps.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeSolid)
	projectileWall.UserData = ps
	projectileWall.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		proj, _, ok := sys.contactPair(arb)
		if !ok {
			return false
		}
		sys.impact(proj).Wall = true
		return true
	}

	projectileMonster := ps.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeMonster)
	projectileMonster.UserData = ps
	projectileMonster.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		proj, target, ok := sys.contactPair(arb)
		if !ok {
			return false
		}
		imp := sys.impact(proj)
		imp.Targets = append(imp.Targets, uint64(target))
		return true
	}

	// Projectiles pass through crates and shove them instead of bouncing off.
	projectileCrate := ps.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeCrate)
	projectileCrate.UserData = ps
	projectileCrate.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return false
		}
		proj, crate, ok := sys.contactPair(arb)
		if !ok {
			return false
		}
		info := sys.entities[proj]
		if info == nil || info.body == nil {
			return false
		}
		sys.pushes = append(sys.pushes, cratePush{
			crate:   crate,
			impulse: info.body.Velocity().Mult(info.body.Mass()),
		})
		return false
	}

	for _, other := range []cp.CollisionType{collisionTypeProjectile, collisionTypePlayer} {
		ignore := ps.space.NewCollisionHandler(collisionTypeProjectile, other)
		ignore.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			return false
		}
	}

	ps.handlersReady = true
}

// verticalPreSolve drops contacts between bodies whose vertical extents do
// not overlap, so a body can pass over or rest on another.
func verticalPreSolve(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	sys, ok := userData.(*PhysicsSystem)
	if !ok || sys == nil {
		return true
	}
	a, b := arb.Shapes()
	return sys.verticalOverlap(sys.owners[a], sys.owners[b])
}

// contactPair resolves the arbiter's shapes to (first, second) entities in
// handler order and checks vertical overlap.
func (ps *PhysicsSystem) contactPair(arb *cp.Arbiter) (ecs.Entity, ecs.Entity, bool) {
	a, b := arb.Shapes()
	ea, okA := ps.owners[a]
	eb, okB := ps.owners[b]
	if !okA || !okB {
		return 0, 0, false
	}
	if !ps.verticalOverlap(ea, eb) {
		return 0, 0, false
	}
	return ea, eb, true
}

func (ps *PhysicsSystem) verticalOverlap(a, b ecs.Entity) bool {
	ia := ps.entities[a]
	ib := ps.entities[b]
	if ia == nil || ib == nil {
		return true
	}
	return math.Abs(ia.y-ib.y) < ia.halfH+ib.halfH-overlapSlack
}

func (ps *PhysicsSystem) impact(e ecs.Entity) *component.ProjectileImpact {
	imp := ps.impacts[e]
	if imp == nil {
		imp = &component.ProjectileImpact{}
		ps.impacts[e] = imp
	}
	return imp
}

func collisionTypeFor(kind component.BodyKind) cp.CollisionType {
	switch kind {
	case component.BodyCrate:
		return collisionTypeCrate
	case component.BodyPlayer:
		return collisionTypePlayer
	case component.BodyMonster:
		return collisionTypeMonster
	case component.BodyProjectile:
		return collisionTypeProjectile
	default:
		return collisionTypeSolid
	}
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := w.First(component.ArenaBoundsComponent.Kind())
	if !ok || boundsEntity == ps.bounds {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.ArenaBoundsComponent.Kind())
	if !ok || bounds.HalfWidth <= 0 || bounds.HalfDepth <= 0 {
		return
	}

	hw, hd := bounds.HalfWidth, bounds.HalfDepth
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: -hw, Y: -hd}, b: cp.Vector{X: hw, Y: -hd}},
		{a: cp.Vector{X: -hw, Y: hd}, b: cp.Vector{X: hw, Y: hd}},
		{a: cp.Vector{X: -hw, Y: -hd}, b: cp.Vector{X: -hw, Y: hd}},
		{a: cp.Vector{X: hw, Y: -hd}, b: cp.Vector{X: hw, Y: hd}},
	}

	height := bounds.WallHeight
	if height <= 0 {
		height = 3
	}
	info := &bodyInfo{
		static: true,
		body:   ps.space.StaticBody,
		kind:   component.BodySolid,
		y:      bounds.FloorY + height/2,
		halfH:  height / 2,
	}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, wallThickness)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
		ps.owners[shape] = boundsEntity
	}

	ps.entities[boundsEntity] = info
	ps.bounds = boundsEntity
}

// syncEntities inserts bodies for entities that gained a PhysicsBody since the
// last tick and flags them ready.
func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		info := ps.createBodyInfo(transform, bodyComp)
		if info == nil {
			continue
		}
		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.owners[shape] = e
		}

		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
		bodyComp.Ready = true
		if common.Debug {
			log.Printf("physics: body for entity=%v kind=%d at (%.2f, %.2f, %.2f)", e, bodyComp.Kind, transform.Position.X(), transform.Position.Y(), transform.Position.Z())
		}
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	width, depth, radius := bodyComp.Width, bodyComp.Depth, bodyComp.Radius
	if radius <= 0 && (width <= 0 || depth <= 0) {
		width, depth = 1, 1
	}

	info := &bodyInfo{
		static: bodyComp.Static,
		kind:   bodyComp.Kind,
		y:      transform.Position.Y(),
		halfH:  bodyComp.HalfHeight(),
		halfW:  width / 2,
		halfD:  depth / 2,
	}
	if radius > 0 {
		info.halfW, info.halfD = radius, radius
	}

	pos := cp.Vector{X: transform.Position.X(), Y: transform.Position.Z()}
	collisionType := collisionTypeFor(bodyComp.Kind)

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, pos)
		} else {
			bb := cp.BB{L: pos.X - width/2, B: pos.Y - depth/2, R: pos.X + width/2, T: pos.Y + depth/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionType)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	switch {
	case bodyComp.FixedRotation:
		moment = math.Inf(1)
	case radius > 0:
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	default:
		moment = cp.MomentForBox(mass, width, depth)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(pos)
	body.SetAngle(-transform.Yaw())
	body.SetAngularVelocity(0)
	if bodyComp.Undamped {
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, cp.Vector{}, 1, dt)
		})
	}

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, depth, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionType)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shapes = []*cp.Shape{shape}
	return info
}

// integrateVertical applies gravity to each dynamic body and rests it on the
// floor or on the highest crate beneath it. The floor only holds bodies that
// are over the arena and were not already below it.
func (ps *PhysicsSystem) integrateVertical(w *ecs.World, dt float64) {
	bounds, hasBounds := ecs.Get(w, ps.bounds, component.ArenaBoundsComponent.Kind())

	for e, info := range ps.entities {
		if info.static {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		prev := transform.Position.Y()
		bodyComp.VelocityY += common.Gravity * bodyComp.GravityScale * dt
		y := prev + bodyComp.VelocityY*dt

		if bodyComp.GravityScale != 0 {
			bodyComp.Grounded = false
			rest := ps.supportHeight(e, info, prev)
			if hasBounds && overFloor(bounds, transform.Position, prev-info.halfH) {
				rest = math.Max(rest, bounds.FloorY)
			}
			if y-info.halfH <= rest && bodyComp.VelocityY <= 0 {
				y = rest + info.halfH
				bodyComp.VelocityY = 0
				bodyComp.Grounded = true
			}
		}

		transform.Position[1] = y
		info.y = y
	}
}

func overFloor(b *component.ArenaBounds, p mgl64.Vec3, bottom float64) bool {
	if math.Abs(p.X()) > b.HalfWidth || math.Abs(p.Z()) > b.HalfDepth {
		return false
	}
	return bottom >= b.FloorY-supportSlack
}

// supportHeight returns the top of the highest crate under e whose top is at
// or below e's bottom when e sits at height y.
func (ps *PhysicsSystem) supportHeight(e ecs.Entity, info *bodyInfo, y float64) float64 {
	best := math.Inf(-1)
	if info.body == nil {
		return best
	}
	p := info.body.Position()
	bottom := y - info.halfH
	for other, oi := range ps.entities {
		if other == e || oi.kind != component.BodyCrate || oi.body == nil {
			continue
		}
		top := oi.y + oi.halfH
		if top > bottom+supportSlack {
			continue
		}
		q := oi.body.Position()
		if math.Abs(p.X-q.X) >= (info.halfW+oi.halfW)*0.9 || math.Abs(p.Y-q.Y) >= (info.halfD+oi.halfD)*0.9 {
			continue
		}
		if top > best {
			best = top
		}
	}
	return best
}

func (ps *PhysicsSystem) applyPushes(w *ecs.World) {
	for _, push := range ps.pushes {
		info := ps.entities[push.crate]
		if info == nil || info.static || info.body == nil || !w.IsAlive(push.crate) {
			continue
		}
		info.body.ApplyImpulseAtLocalPoint(push.impulse, cp.Vector{})
	}
	ps.pushes = ps.pushes[:0]
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static || info.body == nil {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.Position[0] = pos.X
		transform.Position[1] = info.y
		transform.Position[2] = pos.Y
		transform.Rotation = component.YawRotation(-info.body.Angle())
	}
}

func (ps *PhysicsSystem) flushImpacts(w *ecs.World) {
	for e, imp := range ps.impacts {
		delete(ps.impacts, e)
		if !w.IsAlive(e) {
			continue
		}
		if existing, ok := ecs.Get(w, e, component.ProjectileImpactComponent.Kind()); ok {
			existing.Targets = append(existing.Targets, imp.Targets...)
			existing.Wall = existing.Wall || imp.Wall
			continue
		}
		if err := ecs.Add(w, e, component.ProjectileImpactComponent.Kind(), imp); err != nil {
			panic("physics system: record impact: " + err.Error())
		}
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) {
			if e == ps.bounds && ecs.Has(w, e, component.ArenaBoundsComponent.Kind()) {
				continue
			}
			if e != ps.bounds && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
				continue
			}
		}

		for _, shape := range info.shapes {
			if shape == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.owners, shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
		delete(ps.impacts, e)
		if e == ps.bounds {
			ps.bounds = 0
		}
	}
}

// Teleport moves e's body, including its vertical position, and clears its
// velocity.
func (ps *PhysicsSystem) Teleport(w *ecs.World, e ecs.Entity, x, y, z float64) {
	if ps == nil || w == nil {
		return
	}
	if transform, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		transform.Position[0], transform.Position[1], transform.Position[2] = x, y, z
	}
	if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		bodyComp.VelocityY = 0
	}
	info := ps.entities[e]
	if info == nil || info.static || info.body == nil {
		return
	}
	info.body.SetPosition(cp.Vector{X: x, Y: z})
	info.body.SetVelocity(0, 0)
	info.y = y
}
