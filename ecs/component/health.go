package component

type Health struct {
	Current int
	Max     int
	// Invulnerable counts down in seconds after a hit.
	Invulnerable float64
	// Accumulated holds fractional damage from damage-over-time sources.
	Accumulated float64
	// Flash counts down after a hit so the renderer can tint the entity.
	Flash float64
}

const hitFlashSeconds = 0.15

var HealthComponent = NewComponent[Health]("health")

// Damage subtracts amount unless the entity is in its invulnerability window
// and reports whether health changed.
func (h *Health) Damage(amount int, iframes float64) bool {
	if h == nil || amount <= 0 || h.Invulnerable > 0 || h.Current <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	h.Invulnerable = iframes
	h.Flash = hitFlashSeconds
	return true
}

func (h *Health) Dead() bool {
	return h != nil && h.Current <= 0
}

// Reset restores full health and clears timers.
func (h *Health) Reset() {
	if h == nil {
		return
	}
	h.Current = h.Max
	h.Invulnerable = 0
	h.Accumulated = 0
	h.Flash = 0
}
