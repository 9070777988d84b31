package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/veldt/engine/internal/vmath"
)

// Engine wraps a single gopher-lua VM for placement and tuning formulas.
// Single-goroutine access only (frame loop). Hot-reload planned via atomic swap.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Load shared helpers first, then feature scripts
	corePath := filepath.Join(scriptsDir, "core")
	if err := e.loadDir(corePath); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load core scripts: %w", err)
	}

	for _, sub := range []string{"spawn", "tuning"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// PlacementContext holds pre-packed data for one placement decision.
type PlacementContext struct {
	Category  string
	Initial   bool
	Viewpoint vmath.Vec3
	MinRadius float64
	MaxRadius float64
}

// PlacementResult is returned by the Lua place_feature function.
type PlacementResult struct {
	Position vmath.Vec3
	Scale    float64
	Variant  string
}

// PlaceFeature calls the Lua place_feature function. A missing function is
// not an error: the caller falls back to uniform ring placement.
func (e *Engine) PlaceFeature(ctx PlacementContext) (PlacementResult, bool) {
	fn := e.vm.GetGlobal("place_feature")
	if fn == lua.LNil {
		return PlacementResult{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("category", lua.LString(ctx.Category))
	t.RawSetString("initial", lua.LBool(ctx.Initial))
	t.RawSetString("min_radius", lua.LNumber(ctx.MinRadius))
	t.RawSetString("max_radius", lua.LNumber(ctx.MaxRadius))

	vp := e.vm.NewTable()
	vp.RawSetString("x", lua.LNumber(ctx.Viewpoint.X))
	vp.RawSetString("y", lua.LNumber(ctx.Viewpoint.Y))
	vp.RawSetString("z", lua.LNumber(ctx.Viewpoint.Z))
	t.RawSetString("viewpoint", vp)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua place_feature error", zap.Error(err))
		return PlacementResult{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		// nil return means "no opinion for this category"
		if result != lua.LNil {
			e.log.Error("lua place_feature returned non-table")
		}
		return PlacementResult{}, false
	}

	res := PlacementResult{
		Position: vmath.Vec3{
			X: float64(lua.LVAsNumber(rt.RawGetString("x"))),
			Y: float64(lua.LVAsNumber(rt.RawGetString("y"))),
			Z: float64(lua.LVAsNumber(rt.RawGetString("z"))),
		},
		Scale:   float64(lua.LVAsNumber(rt.RawGetString("scale"))),
		Variant: string(lua.LVAsString(rt.RawGetString("variant"))),
	}
	if res.Scale <= 0 {
		res.Scale = 1
	}
	return res, true
}

// DensityScale calls the Lua density_scale function to bias a category's
// population against the current quality budget. Returns 1.0 when the
// function is absent or fails.
func (e *Engine) DensityScale(category string, vegetationDensity float64) float64 {
	fn := e.vm.GetGlobal("density_scale")
	if fn == lua.LNil {
		return 1
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(category), lua.LNumber(vegetationDensity)); err != nil {
		e.log.Error("lua density_scale error", zap.Error(err))
		return 1
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n := float64(lua.LVAsNumber(result))
	if n <= 0 {
		return 1
	}
	return n
}
