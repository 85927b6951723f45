package entity

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/prefabs"
	"github.com/milk9111/arena/projectile"
)

// LauncherConfig converts a launcher spec into launcher tuning plus the
// damage each hit deals. Fields missing from the YAML keep their defaults.
func LauncherConfig(spec prefabs.LauncherSpec) (projectile.Config, int, error) {
	cfg := projectile.DefaultConfig()

	setIf(&cfg.Standoff, spec.Standoff)
	setIf(&cfg.VerticalOffset, spec.VerticalOffset)
	setIf(&cfg.LaunchSpeed, spec.LaunchSpeed)
	if len(spec.LocalForward) > 0 {
		if len(spec.LocalForward) != 3 {
			return projectile.Config{}, 0, fmt.Errorf("launcher: local_forward needs 3 components, got %d", len(spec.LocalForward))
		}
		cfg.LocalForward = mgl64.Vec3{spec.LocalForward[0], spec.LocalForward[1], spec.LocalForward[2]}
	}
	if mode := strings.TrimSpace(spec.Mode); mode != "" {
		cfg.Mode = projectile.AimMode(strings.ToLower(mode))
	}
	setIf(&cfg.Radius, spec.Radius)
	setIf(&cfg.Mass, spec.Mass)
	setIf(&cfg.Lifetime, spec.Lifetime)
	setIf(&cfg.MaxLive, spec.MaxLive)

	damage := spec.Damage
	if damage <= 0 {
		damage = 1
	}

	if err := cfg.Validate(); err != nil {
		return projectile.Config{}, 0, fmt.Errorf("launcher: %w", err)
	}
	return cfg, damage, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// LoadLauncherConfig reads launcher.yaml and converts it.
func LoadLauncherConfig() (projectile.Config, int, error) {
	spec, err := prefabs.LoadLauncherSpec()
	if err != nil {
		return projectile.Config{}, 0, err
	}
	return LauncherConfig(spec)
}
