package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func withDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestLoadArenaSpec_Embedded(t *testing.T) {
	withDir(t, t.TempDir())

	spec, err := LoadArenaSpec("arena.yaml")
	if err != nil {
		t.Fatalf("LoadArenaSpec: %v", err)
	}
	if spec.Bounds.HalfWidth <= 0 || spec.Bounds.HalfDepth <= 0 {
		t.Fatalf("expected positive bounds, got %+v", spec.Bounds)
	}
	if spec.Crates.Count != 10 || spec.Crates.TowerHeight != 3 {
		t.Fatalf("unexpected crate field %+v", spec.Crates)
	}
	if spec.Player.Prefab != "player.yaml" || spec.Monster.Prefab != "monster.yaml" {
		t.Fatalf("unexpected prefabs: player=%q monster=%q", spec.Player.Prefab, spec.Monster.Prefab)
	}
	if len(spec.Lava) != 1 {
		t.Fatalf("expected one lava pool, got %d", len(spec.Lava))
	}
}

func TestLoadLauncherSpec_Defaults(t *testing.T) {
	withDir(t, t.TempDir())

	spec, err := LoadLauncherSpec()
	if err != nil {
		t.Fatalf("LoadLauncherSpec: %v", err)
	}
	if spec.Standoff == nil || spec.VerticalOffset == nil || spec.LaunchSpeed == nil {
		t.Fatalf("embedded launcher.yaml should set every tuning field, got %+v", spec)
	}
	if *spec.Standoff != 1 || *spec.VerticalOffset != 0.1 || *spec.LaunchSpeed != 30 {
		t.Fatalf("unexpected launch tuning %+v", spec)
	}
	if len(spec.LocalForward) != 3 || spec.LocalForward[2] != 1 {
		t.Fatalf("unexpected local forward %v", spec.LocalForward)
	}
	if spec.Sound == nil || spec.Sound.Frequency <= 0 {
		t.Fatalf("expected sound spec, got %+v", spec.Sound)
	}
}

func TestLoad_DiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "launcher.yaml"), []byte("launch_speed: 12\nmode: horizontal\nlifetime: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadLauncherSpec()
	if err != nil {
		t.Fatalf("LoadLauncherSpec: %v", err)
	}
	if spec.LaunchSpeed == nil || *spec.LaunchSpeed != 12 || spec.Mode != "horizontal" {
		t.Fatalf("expected disk override, got %+v", spec)
	}
	if spec.Lifetime == nil || *spec.Lifetime != 0 {
		t.Fatalf("explicit lifetime 0 should decode as set, got %v", spec.Lifetime)
	}
	if spec.MaxLive != nil {
		t.Fatalf("absent max_live should stay nil, got %v", *spec.MaxLive)
	}
	if _, ok := ModTime("prefabs/launcher.yaml"); !ok {
		t.Fatalf("expected ModTime for disk prefab")
	}
}

func TestLoadSpec_Errors(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)

	if _, err := LoadArenaSpec("missing.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("bounds: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArenaSpec("broken.yaml"); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestLoadScript_Paths(t *testing.T) {
	withDir(t, t.TempDir())

	for _, name := range []string{"monster.tengo", "scripts/monster.tengo", "prefabs/scripts/monster.tengo"} {
		t.Run(name, func(t *testing.T) {
			data, err := LoadScript(name)
			if err != nil {
				t.Fatalf("LoadScript(%q): %v", name, err)
			}
			if len(data) == 0 {
				t.Fatalf("empty script")
			}
		})
	}
}

func TestEntityBuildSpecs(t *testing.T) {
	withDir(t, t.TempDir())

	spec, err := LoadEntityBuildSpec("monster.yaml")
	if err != nil {
		t.Fatalf("LoadEntityBuildSpec: %v", err)
	}
	if spec.Name != "monster" {
		t.Fatalf("expected name monster, got %q", spec.Name)
	}

	body, err := DecodeComponentSpec[PhysicsBodyComponentSpec](spec.Components["physics_body"])
	if err != nil {
		t.Fatalf("decode physics_body: %v", err)
	}
	if body.Kind != "monster" || body.Height != 2 || !body.FixedRotation {
		t.Fatalf("unexpected physics body %+v", body)
	}
	if body.GravityScale == nil || *body.GravityScale != 1 {
		t.Fatalf("expected gravity_scale 1, got %v", body.GravityScale)
	}

	script, err := DecodeComponentSpec[AIScriptComponentSpec](spec.Components["ai_script"])
	if err != nil {
		t.Fatalf("decode ai_script: %v", err)
	}
	if script.Path != "scripts/monster.tengo" {
		t.Fatalf("unexpected script path %q", script.Path)
	}

	empty, err := DecodeComponentSpec[HealthComponentSpec](nil)
	if err != nil || empty.Max != 0 {
		t.Fatalf("expected zero spec for nil raw, got %+v, %v", empty, err)
	}
}

func TestWatcher_ClassifiesChanges(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	want := map[string]ChangeKind{
		"launcher.yaml":         ChangeSpec,
		"scripts/monster.tengo": ChangeScript,
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for name := range want {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	seen := make(map[string]bool)
	timeout := time.After(5 * time.Second)
	for len(seen) < len(want) {
		select {
		case change := <-w.Events:
			kind, ok := want[change.Name]
			if !ok {
				t.Fatalf("unexpected change %+v", change)
			}
			if change.Kind != kind {
				t.Fatalf("change %q: kind = %d, want %d", change.Name, change.Kind, kind)
			}
			seen[change.Name] = true
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("timed out waiting for %v", want)
		}
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("expected Events closed")
	}
}
