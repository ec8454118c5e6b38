package strategy

import (
	"sort"

	"go.uber.org/zap"

	"github.com/mharker/skirmish/internal/combat/program"
)

// BuiltStrategy is the assembled decision program for one encounter, plus
// the resolved banish and flee-override programs from the build context.
//
// The turn engine replays Program (via Select) once per round until the
// encounter ends or an abort step is reached. The only mutation after Build
// is HandleMonster/HandleMonsterProgram, which prepend highest-priority
// rules in place; that mutation is not synchronized, so a BuiltStrategy must
// be owned by exactly one encounter loop.
type BuiltStrategy struct {
	prog         *program.Program
	banish       program.Sequence
	fleeOverride program.Sequence
	ctx          Context
	boss         bool
}

// Build assembles the table into one ordered decision program under the
// given live context.
//
// Priority order, highest first: special-encounter forced rules, explicit
// per-opponent programs, per-opponent intents not shadowed by a program, the
// default custom program, the compiled default intent. Per-opponent groups
// are laid out in opponent-key order so the result is deterministic.
//
// Precondition: table must not be nil; ctx.Attacker must not be nil.
// Postcondition: the table is not retained; it may be discarded or reused.
func Build(table *Table, ctx Context) *BuiltStrategy {
	if table == nil {
		panic("strategy.Build: table must not be nil")
	}
	if ctx.Attacker == nil {
		panic("strategy.Build: ctx.Attacker must not be nil")
	}

	// Base program: the default custom program, if any, runs before the
	// compiled default intent.
	fallback := Compile(table.defaultIntent, nil, ctx)
	if table.defaultProgram != nil {
		fallback = append(table.defaultProgram.Clone(), fallback...)
	}
	prog := program.New(fallback)

	// Special encounters always override table entries.
	for _, sp := range ctx.Specials {
		steps := append(program.Sequence{sp.Action}, Compile(IntentKillHard, sp.Target, ctx)...)
		prog.Append(program.Rule{MatchKey: sp.Target.Key(), Steps: steps})
	}

	// Explicit per-opponent programs outrank per-opponent intents.
	for _, key := range sortedKeys(table.programs) {
		b := table.programs[key]
		prog.Append(program.Rule{MatchKey: key, Steps: b.steps.Clone()})
	}

	// Per-opponent intents, except where a program entry shadows them.
	for _, key := range sortedKeys(table.intents) {
		if _, shadowed := table.programs[key]; shadowed {
			continue
		}
		b := table.intents[key]
		prog.Append(program.Rule{MatchKey: key, Steps: Compile(b.intent, b.opp, ctx)})
	}

	ctx.logger().Debug("strategy built",
		zap.Int("rules", len(prog.Rules())),
		zap.Int("specials", len(ctx.Specials)),
		zap.Bool("boss", table.boss),
	)

	var banish program.Sequence
	if ctx.Banish != nil {
		banish = program.Sequence{*ctx.Banish}
	}
	return &BuiltStrategy{
		prog:         prog,
		banish:       banish,
		fleeOverride: ctx.FleeOverride.Clone(),
		ctx:          ctx,
		boss:         table.boss,
	}
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Program returns the assembled decision program.
func (b *BuiltStrategy) Program() *program.Program { return b.prog }

// Select resolves the sequence to run against opp this round.
func (b *BuiltStrategy) Select(opp Opponent) program.Sequence {
	return b.prog.Select(opp.Key())
}

// BanishProgram returns the resolved banish action as a one-step program, or
// nil when no banish resource was available at build time.
func (b *BuiltStrategy) BanishProgram() program.Sequence { return b.banish.Clone() }

// FleeProgram returns the flee-override program from the build context, or
// nil when none was provided.
func (b *BuiltStrategy) FleeProgram() program.Sequence { return b.fleeOverride.Clone() }

// IsBoss reports whether the source table marked the encounter as a boss
// encounter.
func (b *BuiltStrategy) IsBoss() bool { return b.boss }

// HandleMonster prepends a new highest-priority rule compiling intent for
// opp, overriding every existing entry for that opponent. Used for
// encounter-specific, runtime-discovered overrides. Repeated calls stack;
// the most recent call wins.
//
// Not safe for concurrent use with Select or other mutations.
func (b *BuiltStrategy) HandleMonster(opp Opponent, intent Intent) {
	b.prog.PushFront(program.Rule{MatchKey: opp.Key(), Steps: Compile(intent, opp, b.ctx)})
}

// HandleMonsterProgram is HandleMonster with an already-built custom program
// instead of an intent.
//
// Precondition: steps must be non-empty.
func (b *BuiltStrategy) HandleMonsterProgram(opp Opponent, steps program.Sequence) {
	b.prog.PushFront(program.Rule{MatchKey: opp.Key(), Steps: steps.Clone()})
}
