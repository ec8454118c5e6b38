// Package program defines the action-program vocabulary consumed by the
// strategy compiler and replayed by the turn engine. A program is pure data:
// the engine interprets it once per combat round; nothing in this package
// executes anything.
package program

import "fmt"

// StepKind identifies the primitive action a Step performs.
// The zero value (StepUnknown) is intentionally invalid.
type StepKind int

const (
	StepUnknown StepKind = iota // zero value; intentionally invalid
	StepSkill                   // use the named skill
	StepItem                    // use the named item
	StepAttack                  // basic weapon attack
	StepFlee                    // attempt to leave the encounter
	StepAbort                   // halt the encounter immediately
	StepRepeat                  // re-evaluate the whole program from the top
)

// String returns the human-readable name of the StepKind.
// Postcondition: returns "skill", "item", "attack", "flee", "abort", "repeat", or "unknown".
func (k StepKind) String() string {
	switch k {
	case StepSkill:
		return "skill"
	case StepItem:
		return "item"
	case StepAttack:
		return "attack"
	case StepFlee:
		return "flee"
	case StepAbort:
		return "abort"
	case StepRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// MarshalYAML renders the kind as its name, so dumped programs stay
// readable.
func (k StepKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Step is one primitive action in a program.
//
// BestEffort marks the step as attempt-only: if the skill or item is not
// usable when the engine reaches it, the step is skipped silently and is
// never retried. BestEffort is meaningful only for skill and item steps.
type Step struct {
	Kind       StepKind `yaml:"kind"`
	Name       string   `yaml:"name,omitempty"` // skill or item name; empty otherwise
	BestEffort bool     `yaml:"try,omitempty"`
}

// Skill returns a mandatory skill step.
func Skill(name string) Step { return Step{Kind: StepSkill, Name: name} }

// TrySkill returns a best-effort skill step (skipped silently if unusable).
func TrySkill(name string) Step { return Step{Kind: StepSkill, Name: name, BestEffort: true} }

// Item returns a mandatory item step.
func Item(name string) Step { return Step{Kind: StepItem, Name: name} }

// TryItem returns a best-effort item step (skipped silently if unusable).
func TryItem(name string) Step { return Step{Kind: StepItem, Name: name, BestEffort: true} }

// Attack returns a basic weapon attack step.
func Attack() Step { return Step{Kind: StepAttack} }

// Flee returns a flee-attempt step. Steps following a flee step execute only
// if the flight attempt fails.
func Flee() Step { return Step{Kind: StepFlee} }

// Abort returns an unconditional abort step.
func Abort() Step { return Step{Kind: StepAbort} }

// Repeat returns a repeat-from-top step. The engine re-evaluates the entire
// program on the next round.
func Repeat() Step { return Step{Kind: StepRepeat} }

// Validate checks the step's internal invariants.
//
// Postcondition: nil return guarantees Kind is a known kind, Name is
// non-empty exactly when Kind requires one, and BestEffort is only set on
// skill or item steps.
func (s Step) Validate() error {
	switch s.Kind {
	case StepSkill, StepItem:
		if s.Name == "" {
			return fmt.Errorf("program: %s step requires a name", s.Kind)
		}
	case StepAttack, StepFlee, StepAbort, StepRepeat:
		if s.Name != "" {
			return fmt.Errorf("program: %s step must not carry a name (got %q)", s.Kind, s.Name)
		}
		if s.BestEffort {
			return fmt.Errorf("program: %s step cannot be best-effort", s.Kind)
		}
	default:
		return fmt.Errorf("program: unknown step kind %d", int(s.Kind))
	}
	return nil
}

// Sequence is an ordered, branch-free run of steps.
type Sequence []Step

// Clone returns an independent copy of the sequence.
// Postcondition: mutating the result never affects the receiver.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	cp := make(Sequence, len(s))
	copy(cp, s)
	return cp
}

// Validate checks every step in the sequence.
//
// Postcondition: returns nil iff the sequence is non-empty and every step
// passes Step.Validate.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("program: sequence must not be empty")
	}
	for i, st := range s {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("program: step %d: %w", i, err)
		}
	}
	return nil
}
