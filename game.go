package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/arena/assets"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/entity"
	"github.com/milk9111/arena/ecs/render"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
	"github.com/milk9111/arena/projectile"
	"github.com/milk9111/arena/stream"
)

const (
	arenaPrefab    = "arena.yaml"
	launcherPrefab = "launcher.yaml"
	lavaShaderPath = "lava.kage"
	// snapshotEvery publishes a spectator frame every 50ms at 60 TPS.
	snapshotEvery = 3
)

type gameOptions struct {
	debug      bool
	horizontal bool
	seed       uint64
	hub        *stream.Hub
}

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	arena     entity.Arena

	input   *InputSystem
	physics *system.PhysicsSystem
	shots   *system.ProjectileSystem
	ai      *system.MonsterAISystem

	renderer *render.RenderSystem
	pauseUI  *ebitenui.UI

	watcher   *prefabs.Watcher
	hub       *stream.Hub
	shotSound *audio.Player

	horizontal bool
	tick       uint64
}

func NewGame(opts gameOptions) (*Game, error) {
	common.Debug = opts.debug

	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	w := ecs.NewWorld()
	arena, err := entity.LoadArena(w, arenaPrefab, rng)
	if err != nil {
		return nil, fmt.Errorf("build arena: %w", err)
	}

	cfg, damage, err := entity.LoadLauncherConfig()
	if err != nil {
		return nil, err
	}
	if opts.horizontal {
		cfg.Mode = projectile.AimHorizontal
	}

	physics := system.NewPhysicsSystem()
	shots, err := system.NewProjectileSystem(cfg, damage)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:      w,
		arena:      arena,
		input:      NewInputSystem(),
		physics:    physics,
		shots:      shots,
		ai:         system.NewMonsterAISystem(physics, rng),
		hub:        opts.hub,
		horizontal: opts.horizontal,
	}
	g.scheduler = ecs.NewScheduler(
		g.input,
		system.NewPlayerControllerSystem(),
		g.ai,
		g.shots,
		g.physics,
		system.NewLavaSystem(),
		system.NewHealthSystem(physics),
		system.NewCameraSystem(),
	)
	g.scheduler.Profile = opts.debug

	shader, err := assets.LoadShader(lavaShaderPath)
	if err != nil {
		log.Printf("render: lava shader unavailable, drawing flat: %v", err)
	}
	g.renderer = render.NewRenderSystem(shader)

	g.loadShotSound()
	shots.OnSpawn = g.playShot

	watcher, err := prefabs.NewWatcher(prefabs.Dir)
	if err != nil {
		log.Printf("prefabs: hot reload disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	g.pauseUI = NewPauseUI(g)

	log.Printf("arena: seed=%d crates=%d launcher mode=%s speed=%.1f", seed, len(arena.Crates), cfg.Mode, cfg.LaunchSpeed)
	return g, nil
}

func (g *Game) Update() error {
	g.drainReloads()
	g.scheduler.Update(g.world)
	g.tick++

	if g.hub != nil && g.tick%snapshotEvery == 0 {
		if err := g.hub.Publish(stream.Capture(g.world, g.shots.Launcher(), g.tick)); err != nil && !errors.Is(err, stream.ErrHubClosed) {
			log.Printf("stream: publish: %v", err)
		}
	}

	if !g.input.Captured() {
		g.pauseUI.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.world, screen)

	if common.Debug {
		render.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		render.DrawStateDebug(g.world, screen, g.shots.Launcher().Stats(), g.scheduler.Timings())
	}

	hud := render.HUD{
		FPS:      ebiten.ActualFPS(),
		Stats:    g.shots.Launcher().Stats(),
		Captured: g.input.Captured(),
	}
	if g.hub != nil {
		hud.Spectators = g.hub.Clients()
	}
	render.DrawHUD(g.world, screen, hud)

	if !hud.Captured {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the prefab watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("prefabs: close watcher: %v", err)
		}
		g.watcher = nil
	}
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefabs: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch {
	case change.Kind == prefabs.ChangeScript:
		g.ai.Reload(change.Name)
		log.Printf("prefabs: reloaded script %s", change.Name)
	case change.Name == launcherPrefab:
		g.reloadLauncher()
	default:
		log.Printf("prefabs: %s changed; restart to rebuild the arena", change.Name)
	}
}

func (g *Game) reloadLauncher() {
	cfg, damage, err := entity.LoadLauncherConfig()
	if err != nil {
		log.Printf("prefabs: reload %s: %v", launcherPrefab, err)
		return
	}
	if g.horizontal {
		cfg.Mode = projectile.AimHorizontal
	}
	if err := g.shots.SetConfig(cfg); err != nil {
		log.Printf("prefabs: apply %s: %v", launcherPrefab, err)
		return
	}
	g.shots.Damage = damage
	g.loadShotSound()
	log.Printf("prefabs: reloaded %s (speed=%.1f mode=%s lifetime=%.1fs)", launcherPrefab, cfg.LaunchSpeed, cfg.Mode, cfg.Lifetime)
}

// toggleAimMode flips between full and horizontal aiming for future shots.
func (g *Game) toggleAimMode() projectile.AimMode {
	cfg := g.shots.Launcher().Config()
	cfg.Mode = projectile.AimHorizontal
	if g.horizontal {
		cfg.Mode = projectile.AimFull
	}
	if err := g.shots.SetConfig(cfg); err != nil {
		log.Printf("projectile: set aim mode %s: %v", cfg.Mode, err)
		return g.shots.Launcher().Config().Mode
	}
	g.horizontal = cfg.Mode == projectile.AimHorizontal
	log.Printf("projectile: aim mode %s", cfg.Mode)
	return cfg.Mode
}

func (g *Game) loadShotSound() {
	spec, err := prefabs.LoadLauncherSpec()
	if err != nil || spec.Sound == nil || spec.Sound.Frequency <= 0 || spec.Sound.Duration <= 0 {
		g.shotSound = nil
		return
	}
	volume := spec.Sound.Volume
	if volume <= 0 {
		volume = 1
	}
	g.shotSound = assets.NewTonePlayer(spec.Sound.Frequency, spec.Sound.Duration, volume)
}

func (g *Game) playShot(projectile.Projectile) {
	if g.shotSound == nil {
		return
	}
	if err := g.shotSound.SetPosition(0); err != nil {
		log.Printf("audio: rewind shot: %v", err)
		return
	}
	g.shotSound.Play()
}
