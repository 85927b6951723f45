package projectile

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

//go:generate go tool mockgen -destination=./mocks/physics_mock.go -package=mocks . Physics,ImmediatePhysics

var (
	ErrNilDependency = errors.New("projectile: nil dependency")
	ErrInvalidConfig = errors.New("projectile: invalid config")
	ErrNoPlayer      = errors.New("projectile: no player transform")
)

// BodyHandle is an opaque reference to a rigid body owned by the physics
// engine.
type BodyHandle uint64

// Physics is the slice of a physics engine the launcher drives. Methods must
// not call back into the Launcher.
type Physics interface {
	CreateBody(position mgl64.Vec3) (BodyHandle, error)
	SetVelocity(h BodyHandle, v mgl64.Vec3)
	RemoveBody(h BodyHandle)
}

// ImmediatePhysics is implemented by engines that can create a body and set
// its velocity in the same tick. The launcher then skips the ready handshake.
type ImmediatePhysics interface {
	CreateBodyWithVelocity(position, velocity mgl64.Vec3) (BodyHandle, error)
}

// PlayerSource reports the player's current world pose. ok is false when no
// player exists.
type PlayerSource interface {
	PlayerPose() (pose Pose, ok bool)
}

// CaptureSource reports whether pointer capture is active.
type CaptureSource interface {
	Captured() bool
}

type PlayerFunc func() (Pose, bool)

func (f PlayerFunc) PlayerPose() (Pose, bool) { return f() }

type CaptureFunc func() bool

func (f CaptureFunc) Captured() bool { return f() }

// State is the lifecycle stage of a projectile.
type State int

const (
	// StatePending means the body was requested and velocity is not applied.
	StatePending State = iota
	// StateInFlight means the launch velocity has been injected.
	StateInFlight
	// StateTerminated means the record and its body are gone.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInFlight:
		return "in_flight"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reason records why a projectile was terminated.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonExpired     Reason = "expired"
	ReasonOutOfBounds Reason = "out_of_bounds"
	ReasonHit         Reason = "hit"
	ReasonEvicted     Reason = "evicted"
	ReasonCleared     Reason = "cleared"
)

// Projectile is the launcher's record of one shot.
type Projectile struct {
	ID              uint64
	SpawnPosition   mgl64.Vec3
	InitialVelocity mgl64.Vec3
	Handle          BodyHandle
	State           State
	Age             float64
	Reason          Reason
}

// Stats counts launcher activity since construction.
type Stats struct {
	Spawned    uint64
	Skipped    uint64
	Live       int
	Terminated map[Reason]uint64
}

// Launcher turns trigger events into posed, launched projectiles and owns the
// live list until each projectile is terminated.
type Launcher struct {
	mu sync.Mutex

	cfg     Config
	physics Physics
	player  PlayerSource
	capture CaptureSource

	nextID   uint64
	live     []*Projectile
	byID     map[uint64]*Projectile
	byHandle map[BodyHandle]uint64

	spawned    uint64
	skipped    uint64
	terminated map[Reason]uint64
}

func NewLauncher(cfg Config, physics Physics, player PlayerSource, capture CaptureSource) (*Launcher, error) {
	if physics == nil || player == nil || capture == nil {
		return nil, ErrNilDependency
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Launcher{
		cfg:        cfg,
		physics:    physics,
		player:     player,
		capture:    capture,
		byID:       make(map[uint64]*Projectile),
		byHandle:   make(map[BodyHandle]uint64),
		terminated: make(map[Reason]uint64),
	}, nil
}

// Config returns the active tuning.
func (l *Launcher) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// SetConfig swaps tuning for future triggers. Live projectiles keep the
// velocity they were launched with.
func (l *Launcher) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
	return nil
}

// Trigger handles one aim-trigger event. Without pointer capture it does
// nothing and reports spawned=false with a nil error. The launch direction is
// read here and cached on the record; PhysicsReady never re-reads the player.
func (l *Launcher) Trigger() (Projectile, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.capture.Captured() {
		l.skipped++
		return Projectile{}, false, nil
	}

	pose, ok := l.player.PlayerPose()
	if !ok {
		return Projectile{}, false, ErrNoPlayer
	}

	aim := ComputeAim(pose, l.cfg)

	state := StatePending
	var (
		handle BodyHandle
		err    error
	)
	if immediate, ok := l.physics.(ImmediatePhysics); ok {
		handle, err = immediate.CreateBodyWithVelocity(aim.Position, aim.Velocity)
		state = StateInFlight
	} else {
		handle, err = l.physics.CreateBody(aim.Position)
	}
	if err != nil {
		return Projectile{}, false, fmt.Errorf("projectile: create body: %w", err)
	}

	l.nextID++
	p := &Projectile{
		ID:              l.nextID,
		SpawnPosition:   aim.Position,
		InitialVelocity: aim.Velocity,
		Handle:          handle,
		State:           state,
	}
	l.live = append(l.live, p)
	l.byID[p.ID] = p
	l.byHandle[handle] = p.ID
	l.spawned++

	if l.cfg.MaxLive > 0 {
		for len(l.live) > l.cfg.MaxLive {
			l.terminateLocked(l.live[0].ID, ReasonEvicted)
		}
	}

	return *p, true, nil
}

// PhysicsReady injects the cached launch velocity once the engine confirms
// the body exists. It applies at most once per projectile and reports whether
// it did so on this call.
func (l *Launcher) PhysicsReady(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.byID[id]
	if !ok || p.State != StatePending {
		return false
	}
	l.physics.SetVelocity(p.Handle, p.InitialVelocity)
	p.State = StateInFlight
	return true
}

// Advance ages live projectiles by dt seconds and expires those past their
// lifetime. The expired records are returned.
func (l *Launcher) Advance(dt float64) []Projectile {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	var expired []uint64
	for _, p := range l.live {
		p.Age += dt
		if l.cfg.Lifetime > 0 && p.Age >= l.cfg.Lifetime {
			expired = append(expired, p.ID)
		}
	}

	out := make([]Projectile, 0, len(expired))
	for _, id := range expired {
		if p, ok := l.terminateLocked(id, ReasonExpired); ok {
			out = append(out, p)
		}
	}
	return out
}

// Terminate removes a projectile from the live list and its body from the
// physics engine together.
func (l *Launcher) Terminate(id uint64, reason Reason) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.terminateLocked(id, reason)
	return ok
}

// Clear terminates every live projectile.
func (l *Launcher) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, 0, len(l.live))
	for _, p := range l.live {
		ids = append(ids, p.ID)
	}
	for _, id := range ids {
		l.terminateLocked(id, ReasonCleared)
	}
	return len(ids)
}

func (l *Launcher) terminateLocked(id uint64, reason Reason) (Projectile, bool) {
	p, ok := l.byID[id]
	if !ok {
		return Projectile{}, false
	}
	l.physics.RemoveBody(p.Handle)

	for i, q := range l.live {
		if q.ID == id {
			copy(l.live[i:], l.live[i+1:])
			l.live[len(l.live)-1] = nil
			l.live = l.live[:len(l.live)-1]
			break
		}
	}
	delete(l.byID, id)
	delete(l.byHandle, p.Handle)

	p.State = StateTerminated
	p.Reason = reason
	l.terminated[reason]++
	return *p, true
}

// Projectiles returns a copy of the live list in spawn order.
func (l *Launcher) Projectiles() []Projectile {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Projectile, len(l.live))
	for i, p := range l.live {
		out[i] = *p
	}
	return out
}

// Pending returns the ids still waiting for PhysicsReady.
func (l *Launcher) Pending() []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []uint64
	for _, p := range l.live {
		if p.State == StatePending {
			out = append(out, p.ID)
		}
	}
	return out
}

func (l *Launcher) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

func (l *Launcher) Get(id uint64) (Projectile, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.byID[id]
	if !ok {
		return Projectile{}, false
	}
	return *p, true
}

// LookupHandle maps a physics handle back to its projectile id.
func (l *Launcher) LookupHandle(h BodyHandle) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.byHandle[h]
	return id, ok
}

func (l *Launcher) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	terminated := make(map[Reason]uint64, len(l.terminated))
	for k, v := range l.terminated {
		terminated[k] = v
	}
	return Stats{
		Spawned:    l.spawned,
		Skipped:    l.skipped,
		Live:       len(l.live),
		Terminated: terminated,
	}
}
