// Package scripting runs sandboxed GopherLua scripts that build custom
// combat programs. A script calls step-builder globals (skill, item, attack,
// flee, abort, again) and the emitted steps become a program.Sequence usable
// anywhere the strategy table accepts a custom program.
//
// The sandbox has no dependency on live game state; scripts are pure
// program constructors.
package scripting

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/mharker/skirmish/internal/combat/program"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script when no override is configured. Program-builder scripts are tiny;
// anything near this limit is runaway.
const DefaultInstructionLimit = 50_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's main loop calls Done() once per opcode, making this an exact
// instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}
}

// newSandboxedState creates an LState with only the safe stdlib loaded
// (base, table, string, math), dangerous globals stripped, and execution
// capped at instLimit opcodes.
func newSandboxedState(instLimit int) *lua.LState {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(newCountingContext(instLimit))
	return L
}

// builder accumulates steps emitted by the script.
type builder struct {
	steps program.Sequence
}

// registerBuilders installs the step-emitting globals into L, appending to b.
//
// Each named builder takes the skill or item name; the try_ variants mark
// the step best-effort. The niladic builders take no arguments. "again" maps
// to the repeat-from-top step ("repeat" is a Lua keyword).
func registerBuilders(L *lua.LState, b *builder) {
	emitNamed := func(make func(string) program.Step) lua.LGFunction {
		return func(L *lua.LState) int {
			name := L.CheckString(1)
			b.steps = append(b.steps, make(name))
			return 0
		}
	}
	emit := func(step program.Step) lua.LGFunction {
		return func(L *lua.LState) int {
			b.steps = append(b.steps, step)
			return 0
		}
	}

	L.SetGlobal("skill", L.NewFunction(emitNamed(program.Skill)))
	L.SetGlobal("try_skill", L.NewFunction(emitNamed(program.TrySkill)))
	L.SetGlobal("item", L.NewFunction(emitNamed(program.Item)))
	L.SetGlobal("try_item", L.NewFunction(emitNamed(program.TryItem)))
	L.SetGlobal("attack", L.NewFunction(emit(program.Attack())))
	L.SetGlobal("flee", L.NewFunction(emit(program.Flee())))
	L.SetGlobal("abort", L.NewFunction(emit(program.Abort())))
	L.SetGlobal("again", L.NewFunction(emit(program.Repeat())))
}

// CompileBytes runs src as a Lua chunk in a fresh sandbox and returns the
// program it built.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: returns a validated, non-empty sequence or an error; a
// script that emits no steps is an error.
func CompileBytes(src []byte, chunkName string, instLimit int) (program.Sequence, error) {
	L := newSandboxedState(instLimit)
	defer L.Close()

	b := &builder{}
	registerBuilders(L, b)

	if err := L.DoString(string(src)); err != nil {
		return nil, fmt.Errorf("scripting: running %s: %w", chunkName, err)
	}
	if err := b.steps.Validate(); err != nil {
		return nil, fmt.Errorf("scripting: %s: %w", chunkName, err)
	}
	return b.steps, nil
}

// CompileFile runs the Lua script at path and returns the program it built.
//
// Precondition: path must be a readable Lua file.
func CompileFile(path string, instLimit int) (program.Sequence, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading %q: %w", path, err)
	}
	return CompileBytes(src, path, instLimit)
}
