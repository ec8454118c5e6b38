package strategy

import (
	"fmt"

	"github.com/mharker/skirmish/internal/combat/program"
)

// intentBinding pairs an opponent with the intent chosen for it. The
// opponent is retained so Compile can consult its stats at build time.
type intentBinding struct {
	opp    Opponent
	intent Intent
}

// programBinding pairs an opponent with an explicit custom program.
type programBinding struct {
	opp   Opponent
	steps program.Sequence
}

// Table is the declarative strategy table for one encounter setup: a default
// intent, an optional default custom program, per-opponent intent and
// program entries, and a boss flag.
//
// Mutators follow the builder style and return the table for chaining.
// Later writes overwrite earlier ones for the same opponent key. An opponent
// may hold both an intent and a program entry; the program entry wins when
// the table is built.
//
// A Table is read-only from Build's perspective and is discarded after the
// program is assembled.
type Table struct {
	defaultIntent  Intent
	defaultProgram program.Sequence
	intents        map[string]intentBinding
	programs       map[string]programBinding
	boss           bool
}

// NewTable creates an empty table whose default intent is IntentRunAway.
func NewTable() *Table {
	return &Table{
		defaultIntent: IntentRunAway,
		intents:       make(map[string]intentBinding),
		programs:      make(map[string]programBinding),
	}
}

// Apply sets the intent for each given opponent, or the table default when
// no opponents are given. Later calls overwrite earlier ones per key.
//
// Precondition: intent must be a valid Intent.
func (t *Table) Apply(intent Intent, opponents ...Opponent) *Table {
	if len(opponents) == 0 {
		t.defaultIntent = intent
		return t
	}
	for _, o := range opponents {
		t.intents[o.Key()] = intentBinding{opp: o, intent: intent}
	}
	return t
}

// Kill is shorthand for Apply(IntentKill, opponents...).
func (t *Table) Kill(opponents ...Opponent) *Table { return t.Apply(IntentKill, opponents...) }

// KillHard is shorthand for Apply(IntentKillHard, opponents...).
func (t *Table) KillHard(opponents ...Opponent) *Table { return t.Apply(IntentKillHard, opponents...) }

// Flee is shorthand for Apply(IntentRunAway, opponents...).
func (t *Table) Flee(opponents ...Opponent) *Table { return t.Apply(IntentRunAway, opponents...) }

// Abort is shorthand for Apply(IntentAbort, opponents...).
func (t *Table) Abort(opponents ...Opponent) *Table { return t.Apply(IntentAbort, opponents...) }

// Banish sets IntentBanish for each given opponent. Unlike the other
// shorthands it returns an error instead of the table: banishing everything
// by default is never sensible, so calling it with zero opponents is
// rejected with ErrInvalidConfiguration.
func (t *Table) Banish(opponents ...Opponent) error {
	if len(opponents) == 0 {
		return fmt.Errorf("%w: banish requires at least one opponent", ErrInvalidConfiguration)
	}
	t.Apply(IntentBanish, opponents...)
	return nil
}

// SetProgram installs an explicit custom program for each given opponent, or
// as the table default when no opponents are given. Any intent entry for the
// same opponent is left in place; the program entry takes priority when the
// table is built.
//
// Precondition: steps must be non-empty.
func (t *Table) SetProgram(steps program.Sequence, opponents ...Opponent) *Table {
	if len(opponents) == 0 {
		t.defaultProgram = steps.Clone()
		return t
	}
	for _, o := range opponents {
		t.programs[o.Key()] = programBinding{opp: o, steps: steps.Clone()}
	}
	return t
}

// ItemShortcut is sugar for SetProgram with a single-item program.
func (t *Table) ItemShortcut(item string, opponents ...Opponent) *Table {
	return t.SetProgram(program.Sequence{program.Item(item)}, opponents...)
}

// MarkBoss flags the encounter as a boss encounter. The strategy layer does
// not consult the flag; it is exposed for callers.
func (t *Table) MarkBoss() *Table {
	t.boss = true
	return t
}

// IsBoss reports whether the encounter was marked as a boss encounter.
func (t *Table) IsBoss() bool { return t.boss }

// DefaultIntent returns the table's default intent.
func (t *Table) DefaultIntent() Intent { return t.defaultIntent }

// Can reports whether intent is the default or assigned to any opponent.
func (t *Table) Can(intent Intent) bool {
	if t.defaultIntent == intent {
		return true
	}
	for _, b := range t.intents {
		if b.intent == intent {
			return true
		}
	}
	return false
}

// Where returns all opponents mapped to intent, with no duplicates and in
// no guaranteed order.
func (t *Table) Where(intent Intent) []Opponent {
	var out []Opponent
	for _, b := range t.intents {
		if b.intent == intent {
			out = append(out, b.opp)
		}
	}
	return out
}
