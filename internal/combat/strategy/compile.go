package strategy

import (
	"go.uber.org/zap"

	"github.com/mharker/skirmish/internal/combat/loadout"
	"github.com/mharker/skirmish/internal/combat/program"
)

// Ability and item names the compiler emits. The turn engine resolves them
// against the actual character at run time; the compiler does not check
// that they are possessed.
const (
	// Debuff prefix, in priority order.
	SkillHexbrand       = "hexbrand"
	SkillSunderGuard    = "sunder-guard"
	ItemFlashPowder     = "flash-powder"
	ItemTanglefootSack  = "tanglefoot-sack"
	SkillHarrowingShout = "harrowing-shout"

	// Finishers and the flee-path buff.
	SkillMaelstrom       = "maelstrom"        // area damage; bypasses physical resistance
	SkillExecutionersArc = "executioners-arc" // specialized melee finisher
	SkillIronhideWard    = "ironhide-ward"    // area buff cast when flight fails
)

// escalationFactor scales the opponent's defense when deciding whether the
// straightforward kill rotation is too weak.
const escalationFactor = 1.25

// physResistThreshold is the physical resistance percentage at or above
// which physical finishers are pointless and the area skill is used instead.
const physResistThreshold = 70

// Attacker exposes the attacker-side stats the compiler consults.
// Implementations are externally owned; the compiler never mutates them.
type Attacker interface {
	// OffenseRating returns the current effective offensive stat,
	// including equipped gear.
	OffenseRating() int
	// WeaponCategory returns the equipped weapon's damage category.
	WeaponCategory() loadout.Category
}

// SpecialEncounter is a transient, highest-priority forced rule supplied by
// the live context: when Target is faced, Action is performed and the fight
// is pressed with the hardened kill rotation.
type SpecialEncounter struct {
	Target Opponent
	Action program.Step
}

// Context is the live state consulted while compiling: attacker stats,
// transient special encounters, and the optional banish and flee resources.
// It is read once per Build and captured by the resulting BuiltStrategy for
// later HandleMonster calls.
type Context struct {
	// Attacker must be non-nil.
	Attacker Attacker
	// Specials are checked above every table entry, in the given order.
	Specials []SpecialEncounter
	// Banish is the action that neutralizes an opponent; nil means banishing
	// is not currently possible.
	Banish *program.Step
	// FleeOverride replaces the built-in run-away fallback when non-nil.
	FleeOverride program.Sequence
	// Logger receives compile-time decisions (escalation at debug, banish
	// degradation at warn). Nil disables logging.
	Logger *zap.Logger
}

// logger returns the context logger, or a nop logger when none is set.
func (c Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// debuffPrefix returns a fresh copy of the fixed best-effort debuff opener
// shared by the kill rotations: five attempts in strict priority order, each
// skipped silently if unusable, never retried.
func debuffPrefix() program.Sequence {
	return program.Sequence{
		program.TrySkill(SkillHexbrand),
		program.TrySkill(SkillSunderGuard),
		program.TryItem(ItemFlashPowder),
		program.TryItem(ItemTanglefootSack),
		program.TrySkill(SkillHarrowingShout),
	}
}

// abortSequence returns a fresh one-step abort program.
func abortSequence() program.Sequence {
	return program.Sequence{program.Abort()}
}

// Compile translates an intent into an action-program fragment for the given
// opponent under the given live context. It is pure aside from logging:
// compiling the same inputs twice yields structurally identical sequences,
// and every valid intent compiles for every possible context.
//
// opp may be nil (default-intent compilation); opponent-dependent heuristics
// then fall to their lenient side.
//
// Precondition: ctx.Attacker must be non-nil when intent is IntentKill or
// IntentKillHard.
// Postcondition: returns a non-empty sequence for every valid intent;
// returns an abort sequence for invalid intents.
func Compile(intent Intent, opp Opponent, ctx Context) program.Sequence {
	// Escalation: the straightforward kill path is too weak against this
	// opponent's defense, so use the hardened rotation instead.
	if intent == IntentKill && opp != nil &&
		float64(opp.DefenseRating())*escalationFactor > float64(ctx.Attacker.OffenseRating()) {
		ctx.logger().Debug("escalating kill to kill-hard",
			zap.String("opponent", opp.Key()),
			zap.Int("defense", opp.DefenseRating()),
			zap.Int("offense", ctx.Attacker.OffenseRating()),
		)
		intent = IntentKillHard
	}

	switch intent {
	case IntentKill:
		seq := debuffPrefix()
		if opp != nil && opp.PhysicalResistance() >= physResistThreshold {
			seq = append(seq, program.Skill(SkillMaelstrom))
		} else {
			seq = append(seq, program.Attack())
		}
		return append(seq, program.Repeat())

	case IntentKillHard:
		seq := debuffPrefix()
		resistant := opp != nil && opp.PhysicalResistance() >= physResistThreshold
		if resistant || ctx.Attacker.WeaponCategory() != loadout.CategoryMight {
			seq = append(seq, program.Skill(SkillMaelstrom))
		} else {
			seq = append(seq, program.Skill(SkillExecutionersArc))
		}
		return append(seq, program.Repeat())

	case IntentRunAway:
		if ctx.FleeOverride != nil {
			return ctx.FleeOverride.Clone()
		}
		// Try to leave; if flight fails, shore up and swing until the next
		// opening.
		return program.Sequence{
			program.Flee(),
			program.TrySkill(SkillIronhideWard),
			program.Attack(),
			program.Repeat(),
		}

	case IntentBanish:
		if ctx.Banish != nil {
			return program.Sequence{*ctx.Banish}
		}
		// The opponent should already be banished, or we are out of
		// banishes; pressing on blindly is unsafe, so halt instead.
		key := ""
		if opp != nil {
			key = opp.Key()
		}
		ctx.logger().Warn("no banish resource available, degrading to abort",
			zap.String("opponent", key),
		)
		return abortSequence()

	case IntentAbort:
		return abortSequence()

	default:
		// Unreachable for well-typed input; halting is the safe total
		// behavior for anything else.
		return abortSequence()
	}
}
