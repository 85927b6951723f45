package ecs

import (
	"fmt"
	"time"
)

// System updates a world once per tick.
type System interface {
	Update(w *World)
}

// Timing is how long one system took on the last tick.
type Timing struct {
	Name     string
	Duration time.Duration
}

// Scheduler runs systems in registration order. With Profile set it records
// per-system durations for the debug overlay.
type Scheduler struct {
	systems []System
	timings []Timing
	Profile bool
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
	s.timings = append(s.timings, Timing{Name: systemName(system)})
}

func (s *Scheduler) Update(w *World) {
	if !s.Profile {
		for _, system := range s.systems {
			system.Update(w)
		}
		return
	}
	for i, system := range s.systems {
		start := time.Now()
		system.Update(w)
		s.timings[i].Duration = time.Since(start)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// Timings returns the durations recorded on the last profiled tick.
func (s *Scheduler) Timings() []Timing {
	timings := make([]Timing, 0, len(s.timings))
	return append(timings, s.timings...)
}

func systemName(system System) string {
	if named, ok := system.(fmt.Stringer); ok {
		return named.String()
	}
	return fmt.Sprintf("%T", system)
}
