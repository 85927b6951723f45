package projectile

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds launcher tuning. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	Standoff       float64
	VerticalOffset float64
	LaunchSpeed    float64
	LocalForward   mgl64.Vec3
	Mode           AimMode

	// Radius and Mass describe the rigid body requested for each shot.
	Radius float64
	Mass   float64

	// Lifetime is the maximum age in seconds; zero disables expiry.
	Lifetime float64
	// MaxLive caps the live list; zero disables the cap.
	MaxLive int
}

func DefaultConfig() Config {
	return Config{
		Standoff:       1.0,
		VerticalOffset: 0.1,
		LaunchSpeed:    30,
		LocalForward:   DefaultLocalForward,
		Mode:           AimFull,
		Radius:         0.025,
		Mass:           0.05,
		Lifetime:       4,
		MaxLive:        256,
	}
}

func (c Config) Validate() error {
	if c.LaunchSpeed <= 0 {
		return fmt.Errorf("%w: launch speed must be positive, got %v", ErrInvalidConfig, c.LaunchSpeed)
	}
	if c.Standoff < 0 {
		return fmt.Errorf("%w: standoff must not be negative, got %v", ErrInvalidConfig, c.Standoff)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, c.Radius)
	}
	if c.Mass < 0 {
		return fmt.Errorf("%w: mass must not be negative, got %v", ErrInvalidConfig, c.Mass)
	}
	if c.Lifetime < 0 {
		return fmt.Errorf("%w: lifetime must not be negative, got %v", ErrInvalidConfig, c.Lifetime)
	}
	if c.MaxLive < 0 {
		return fmt.Errorf("%w: max live must not be negative, got %d", ErrInvalidConfig, c.MaxLive)
	}
	switch c.Mode {
	case AimFull, AimHorizontal:
	default:
		return fmt.Errorf("%w: unknown aim mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}
