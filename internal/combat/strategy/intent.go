// Package strategy compiles a declarative per-opponent policy table into a
// single ordered decision program the turn engine replays every combat round.
//
// Callers never write programs by hand: they describe intent per opponent
// (plus exceptions and contextually available resources), and Build resolves
// priority, escalation, and fallback behavior deterministically.
package strategy

import "errors"

// ErrInvalidConfiguration reports caller misuse at table-build time.
var ErrInvalidConfiguration = errors.New("strategy: invalid configuration")

// Intent is a declarative behavior choice not yet bound to concrete actions.
// The zero value (IntentUnknown) is intentionally invalid.
type Intent int

const (
	IntentUnknown Intent = iota // zero value; intentionally invalid
	IntentRunAway               // leave the encounter
	IntentKill                  // standard kill rotation
	IntentKillHard              // hardened kill rotation; never falls back to a plain attack
	IntentBanish                // neutralize via the context's banish resource
	IntentAbort                 // halt the encounter immediately
)

// String returns the human-readable intent name.
// Postcondition: returns "run-away", "kill", "kill-hard", "banish", "abort", or "unknown".
func (i Intent) String() string {
	switch i {
	case IntentRunAway:
		return "run-away"
	case IntentKill:
		return "kill"
	case IntentKillHard:
		return "kill-hard"
	case IntentBanish:
		return "banish"
	case IntentAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Valid reports whether i is one of the five defined intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentRunAway, IntentKill, IntentKillHard, IntentBanish, IntentAbort:
		return true
	default:
		return false
	}
}

// ParseIntent converts a content-file intent name to an Intent.
//
// Postcondition: returns a valid Intent, or an error for unrecognized names.
func ParseIntent(s string) (Intent, error) {
	switch s {
	case "run-away":
		return IntentRunAway, nil
	case "kill":
		return IntentKill, nil
	case "kill-hard":
		return IntentKillHard, nil
	case "banish":
		return IntentBanish, nil
	case "abort":
		return IntentAbort, nil
	default:
		return IntentUnknown, errors.New("strategy: unknown intent " + s)
	}
}

// Opponent is the externally owned entity faced in one round of an encounter.
// Identity is the Key; numeric attributes are consulted by the compiler and
// never mutated.
type Opponent interface {
	// Key returns the identity key used for table entries and branch matching.
	Key() string
	// DefenseRating returns the opponent's defensive rating.
	DefenseRating() int
	// PhysicalResistance returns resistance to physical damage as a percentage (0-100).
	PhysicalResistance() int
}
