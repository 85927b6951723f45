package system

import (
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/arena/prefabs"
)

type aiScriptRuntime struct {
	scriptPath  string
	compiled    *tengo.Compiled
	stateData   *tengo.Map
	initial     string
	initialized bool
	pending     string
}

const aiLifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// monsterContext is what a script can observe and do for one monster tick.
type monsterContext struct {
	position      func() (x, z float64)
	player        func() (x, z float64, ok bool)
	moveToward    func(x, z float64)
	stop          func()
	attack        func() bool
	elapsed       float64
	chaseRange    float64
	attackRange   float64
	moveSpeed     float64
	currentHealth int
}

func compileAIScript(path string) (*aiScriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ai: empty script path")
	}
	scriptBytes, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}

	src := string(scriptBytes) + "\n" + aiLifecycleDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &aiScriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
		initial:    "idle",
	}

	// Resolve optional initial state from script global `initial_state`.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", rt.initial, noop); err != nil {
		return nil, err
	}
	if compiled.IsDefined("initial_state") {
		s := strings.TrimSpace(compiled.Get("initial_state").String())
		if s != "" {
			rt.initial = s
		}
	}
	return rt, nil
}

// step runs enter (first time), update, and any requested exit/enter pair,
// returning the state the entity is in afterwards.
func (rt *aiScriptRuntime) step(current string, ctx *monsterContext) (string, error) {
	if current == "" {
		current = rt.initial
		rt.initialized = false
	}
	engine := rt.engine(ctx)

	if !rt.initialized {
		if err := rt.runPhase("enter", current, engine); err != nil {
			return current, fmt.Errorf("onEnter: %w", err)
		}
		rt.initialized = true
	}

	if err := rt.runPhase("update", current, engine); err != nil {
		return current, fmt.Errorf("update: %w", err)
	}

	if rt.pending == "" || rt.pending == current {
		rt.pending = ""
		return current, nil
	}

	if err := rt.runPhase("exit", current, engine); err != nil {
		return current, fmt.Errorf("onExit: %w", err)
	}
	next := rt.pending
	rt.pending = ""

	if err := rt.runPhase("enter", next, engine); err != nil {
		return next, fmt.Errorf("onEnter: %w", err)
	}
	return next, nil
}

func (rt *aiScriptRuntime) runPhase(phase string, current string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", current); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (rt *aiScriptRuntime) engine(ctx *monsterContext) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = name
		return tengo.TrueValue, nil
	}}

	if ctx == nil {
		return &tengo.ImmutableMap{Value: values}
	}

	values["chase_range"] = &tengo.Float{Value: ctx.chaseRange}
	values["attack_range"] = &tengo.Float{Value: ctx.attackRange}
	values["move_speed"] = &tengo.Float{Value: ctx.moveSpeed}
	values["health"] = &tengo.Int{Value: int64(ctx.currentHealth)}

	values["elapsed"] = &tengo.UserFunction{Name: "elapsed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctx.elapsed}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, z := ctx.position()
		return vec2Object(x, z), nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, z, ok := ctx.player()
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vec2Object(x, z), nil
	}}

	values["distance_to_player"] = &tengo.UserFunction{Name: "distance_to_player", Value: func(args ...tengo.Object) (tengo.Object, error) {
		px, pz, ok := ctx.player()
		if !ok {
			return &tengo.Float{Value: math.Inf(1)}, nil
		}
		x, z := ctx.position()
		return &tengo.Float{Value: math.Hypot(px-x, pz-z)}, nil
	}}

	values["move_toward"] = &tengo.UserFunction{Name: "move_toward", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		z, okZ := tengo.ToFloat64(args[1])
		if !okX || !okZ {
			return tengo.FalseValue, nil
		}
		ctx.moveToward(x, z)
		return tengo.TrueValue, nil
	}}

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		ctx.stop()
		return tengo.TrueValue, nil
	}}

	values["attack"] = &tengo.UserFunction{Name: "attack", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.attack() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vec2Object(x, z float64) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: z}}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
