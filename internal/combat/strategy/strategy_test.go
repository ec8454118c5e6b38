package strategy_test

import (
	"testing"

	"github.com/mharker/skirmish/internal/combat/loadout"
	"github.com/mharker/skirmish/internal/combat/program"
	"github.com/mharker/skirmish/internal/combat/strategy"
)

// fakeOpponent is a minimal strategy.Opponent for tests.
type fakeOpponent struct {
	id     string
	def    int
	resist int
}

func (f fakeOpponent) Key() string             { return f.id }
func (f fakeOpponent) DefenseRating() int      { return f.def }
func (f fakeOpponent) PhysicalResistance() int { return f.resist }

// fakeAttacker is a minimal strategy.Attacker for tests.
type fakeAttacker struct {
	offense int
	cat     loadout.Category
}

func (f fakeAttacker) OffenseRating() int               { return f.offense }
func (f fakeAttacker) WeaponCategory() loadout.Category { return f.cat }

// mightCtx returns a context with a strong might-weapon attacker and no
// optional resources.
func mightCtx() strategy.Context {
	return strategy.Context{Attacker: fakeAttacker{offense: 100, cat: loadout.CategoryMight}}
}

// finisher returns the step immediately before the trailing repeat, failing
// the test if the sequence does not end with one.
func finisher(t *testing.T, seq program.Sequence) program.Step {
	t.Helper()
	if len(seq) < 2 {
		t.Fatalf("sequence too short for a finisher: %+v", seq)
	}
	if seq[len(seq)-1].Kind != program.StepRepeat {
		t.Fatalf("sequence does not end with repeat: %+v", seq)
	}
	return seq[len(seq)-2]
}
