package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mharker/skirmish/internal/combat/program"
)

// LookupFunc resolves an opponent ID from a strategy document to the
// externally owned opponent entity.
type LookupFunc func(id string) (Opponent, bool)

// yamlStep is the on-disk shape of one program step.
type yamlStep struct {
	Kind string `yaml:"kind"` // skill, item, attack, flee, abort, repeat
	Name string `yaml:"name"`
	Try  bool   `yaml:"try"`
}

// yamlIntentGroup assigns one intent to a group of opponents. An empty
// opponent list sets the table default.
type yamlIntentGroup struct {
	Intent    string   `yaml:"intent"`
	Opponents []string `yaml:"opponents"`
}

// yamlItemGroup is the item_shortcut sugar: a single-item program per opponent.
type yamlItemGroup struct {
	Item      string   `yaml:"item"`
	Opponents []string `yaml:"opponents"`
}

// yamlProgramGroup installs an inline custom program for a group of
// opponents, or as the table default when the opponent list is empty.
type yamlProgramGroup struct {
	Opponents []string   `yaml:"opponents"`
	Steps     []yamlStep `yaml:"steps"`
}

// yamlStrategy is the top-level strategy document.
type yamlStrategy struct {
	Default  string             `yaml:"default"`
	Boss     bool               `yaml:"boss"`
	Intents  []yamlIntentGroup  `yaml:"intents"`
	Items    []yamlItemGroup    `yaml:"items"`
	Programs []yamlProgramGroup `yaml:"programs"`
}

// yamlStrategyFile wraps the YAML top-level key.
type yamlStrategyFile struct {
	Strategy *yamlStrategy `yaml:"strategy"`
}

// decodeStep converts one on-disk step to a program.Step.
func decodeStep(s yamlStep) (program.Step, error) {
	var st program.Step
	switch s.Kind {
	case "skill":
		st = program.Step{Kind: program.StepSkill, Name: s.Name, BestEffort: s.Try}
	case "item":
		st = program.Step{Kind: program.StepItem, Name: s.Name, BestEffort: s.Try}
	case "attack":
		st = program.Attack()
	case "flee":
		st = program.Flee()
	case "abort":
		st = program.Abort()
	case "repeat":
		st = program.Repeat()
	default:
		return program.Step{}, fmt.Errorf("unknown step kind %q", s.Kind)
	}
	if err := st.Validate(); err != nil {
		return program.Step{}, err
	}
	return st, nil
}

// decodeSequence converts an on-disk step list to a validated sequence.
func decodeSequence(steps []yamlStep) (program.Sequence, error) {
	seq := make(program.Sequence, 0, len(steps))
	for i, s := range steps {
		st, err := decodeStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		seq = append(seq, st)
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return seq, nil
}

// resolve maps opponent IDs through lookup, erroring on unknowns.
func resolve(ids []string, lookup LookupFunc) ([]Opponent, error) {
	out := make([]Opponent, 0, len(ids))
	for _, id := range ids {
		o, ok := lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown opponent %q", id)
		}
		out = append(out, o)
	}
	return out, nil
}

// LoadTableBytes parses a declarative strategy document into a Table,
// resolving opponent IDs through lookup.
//
// Precondition: lookup must not be nil.
// Postcondition: returns a table ready for Build, or an error naming the
// offending entry. A banish group with no opponents fails with
// ErrInvalidConfiguration, matching Table.Banish.
func LoadTableBytes(data []byte, lookup LookupFunc) (*Table, error) {
	var f yamlStrategyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("strategy: parsing document: %w", err)
	}
	if f.Strategy == nil {
		return nil, fmt.Errorf("strategy: document missing top-level 'strategy' key")
	}
	doc := f.Strategy

	table := NewTable()
	if doc.Boss {
		table.MarkBoss()
	}
	if doc.Default != "" {
		intent, err := ParseIntent(doc.Default)
		if err != nil {
			return nil, fmt.Errorf("strategy: default: %w", err)
		}
		table.Apply(intent)
	}

	for i, g := range doc.Intents {
		intent, err := ParseIntent(g.Intent)
		if err != nil {
			return nil, fmt.Errorf("strategy: intents[%d]: %w", i, err)
		}
		opps, err := resolve(g.Opponents, lookup)
		if err != nil {
			return nil, fmt.Errorf("strategy: intents[%d]: %w", i, err)
		}
		if intent == IntentBanish {
			if err := table.Banish(opps...); err != nil {
				return nil, fmt.Errorf("strategy: intents[%d]: %w", i, err)
			}
			continue
		}
		if len(opps) == 0 {
			table.Apply(intent)
			continue
		}
		table.Apply(intent, opps...)
	}

	for i, g := range doc.Items {
		if g.Item == "" {
			return nil, fmt.Errorf("strategy: items[%d]: item must not be empty", i)
		}
		opps, err := resolve(g.Opponents, lookup)
		if err != nil {
			return nil, fmt.Errorf("strategy: items[%d]: %w", i, err)
		}
		table.ItemShortcut(g.Item, opps...)
	}

	for i, g := range doc.Programs {
		seq, err := decodeSequence(g.Steps)
		if err != nil {
			return nil, fmt.Errorf("strategy: programs[%d]: %w", i, err)
		}
		opps, err := resolve(g.Opponents, lookup)
		if err != nil {
			return nil, fmt.Errorf("strategy: programs[%d]: %w", i, err)
		}
		table.SetProgram(seq, opps...)
	}

	return table, nil
}

// LoadTableFile reads and parses a strategy YAML file.
//
// Precondition: path must be a readable YAML file; lookup must not be nil.
func LoadTableFile(path string, lookup LookupFunc) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("strategy: reading %q: %w", path, err)
	}
	return LoadTableBytes(data, lookup)
}
