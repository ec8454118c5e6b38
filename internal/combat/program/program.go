package program

// Rule is one conditional branch of an assembled program: if the current
// opponent's identity key equals MatchKey, the engine runs Steps; otherwise
// it falls through to the next rule.
type Rule struct {
	MatchKey string   `yaml:"match"`
	Steps    Sequence `yaml:"steps"`
}

// Program is a fully assembled, ordered decision program: a rule list
// evaluated first-match-wins, with a fallback sequence when no rule matches.
//
// The rule list is mutable only through Append and PushFront. Mutation is
// not synchronized; a Program is owned by exactly one encounter loop
// (single-writer discipline).
type Program struct {
	rules    []Rule
	fallback Sequence
}

// New creates a Program with the given fallback and no rules.
//
// Precondition: fallback must be non-empty.
func New(fallback Sequence) *Program {
	return &Program{fallback: fallback}
}

// Append adds a rule at the end of the list, below every existing rule.
func (p *Program) Append(r Rule) {
	p.rules = append(p.rules, r)
}

// PushFront inserts a rule at the head of the list, making it strictly
// highest priority. Repeated calls stack; the most recent insertion is
// checked first.
func (p *Program) PushFront(r Rule) {
	p.rules = append([]Rule{r}, p.rules...)
}

// Select resolves the sequence the engine should run against the opponent
// identified by key: the steps of the first rule whose MatchKey equals key,
// or the fallback when none matches.
//
// Postcondition: never returns nil; returns a copy safe for the caller to
// hold across later PushFront calls.
func (p *Program) Select(key string) Sequence {
	for _, r := range p.rules {
		if r.MatchKey == key {
			return r.Steps.Clone()
		}
	}
	return p.fallback.Clone()
}

// Rules returns a copy of the rule list, highest priority first.
func (p *Program) Rules() []Rule {
	cp := make([]Rule, len(p.rules))
	copy(cp, p.rules)
	return cp
}

// Fallback returns a copy of the fallback sequence.
func (p *Program) Fallback() Sequence {
	return p.fallback.Clone()
}
