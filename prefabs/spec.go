package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArenaSpec lays out one arena: its bounds and where each prefab goes.
type ArenaSpec struct {
	Name    string          `yaml:"name"`
	Bounds  ArenaBoundsSpec `yaml:"bounds"`
	Player  PlacementSpec   `yaml:"player"`
	Monster MonsterSpawn    `yaml:"monster"`
	Crates  CrateFieldSpec  `yaml:"crates"`
	Lava    []PlacementSpec `yaml:"lava"`
	Camera  PlacementSpec   `yaml:"camera"`
}

type ArenaBoundsSpec struct {
	HalfWidth  float64 `yaml:"half_width"`
	HalfDepth  float64 `yaml:"half_depth"`
	FloorY     float64 `yaml:"floor_y"`
	CeilingY   float64 `yaml:"ceiling_y"`
	KillY      float64 `yaml:"kill_y"`
	WallHeight float64 `yaml:"wall_height"`
	Margin     float64 `yaml:"margin"`
}

// PlacementSpec puts a prefab at a fixed position.
type PlacementSpec struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Yaw    float64 `yaml:"yaw"`
}

type MonsterSpawn struct {
	Prefab string  `yaml:"prefab"`
	Z      float64 `yaml:"z"`
	// Range spreads the spawn along X in ±Range.
	Range float64 `yaml:"range"`
}

// CrateFieldSpec scatters Count crates within ±Range and stacks a tower of
// TowerHeight crates at the origin.
type CrateFieldSpec struct {
	Prefab      string  `yaml:"prefab"`
	Count       int     `yaml:"count"`
	Range       float64 `yaml:"range"`
	TowerHeight int     `yaml:"tower_height"`
	TowerX      float64 `yaml:"tower_x"`
	TowerZ      float64 `yaml:"tower_z"`
}

// LauncherSpec is the on-disk form of the projectile launcher tuning. Nil
// tuning fields were absent from the file; an explicit 0 is kept.
type LauncherSpec struct {
	Standoff       *float64   `yaml:"standoff"`
	VerticalOffset *float64   `yaml:"vertical_offset"`
	LaunchSpeed    *float64   `yaml:"launch_speed"`
	LocalForward   []float64  `yaml:"local_forward"`
	Mode           string     `yaml:"mode"`
	Radius         *float64   `yaml:"radius"`
	Mass           *float64   `yaml:"mass"`
	Lifetime       *float64   `yaml:"lifetime"`
	MaxLive        *int       `yaml:"max_live"`
	Damage         int        `yaml:"damage"`
	Sound          *SoundSpec `yaml:"sound"`
}

type SoundSpec struct {
	Frequency float64 `yaml:"frequency"`
	Duration  float64 `yaml:"duration"`
	Volume    float64 `yaml:"volume"`
}

func LoadArenaSpec(name string) (ArenaSpec, error) {
	return LoadSpec[ArenaSpec](name)
}

func LoadLauncherSpec() (LauncherSpec, error) {
	return LoadSpec[LauncherSpec]("launcher.yaml")
}
