// Package loadout models the attacker's equipped gear and exposes the
// effective offensive stats the strategy compiler consults at build time.
package loadout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category classifies a weapon by the stat that drives it.
// The zero value (CategoryUnknown) is intentionally invalid.
type Category int

const (
	CategoryUnknown Category = iota // zero value; intentionally invalid
	CategoryMight                   // muscle-driven melee weapons
	CategoryFinesse                 // precision and ranged weapons
	CategoryArcane                  // focus weapons channelling spells
)

// String returns the human-readable category name.
// Postcondition: returns "might", "finesse", "arcane", or "unknown".
func (c Category) String() string {
	switch c {
	case CategoryMight:
		return "might"
	case CategoryFinesse:
		return "finesse"
	case CategoryArcane:
		return "arcane"
	default:
		return "unknown"
	}
}

// ParseCategory converts a content-file category name to a Category.
//
// Postcondition: returns a valid Category, or an error for unrecognized names.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "might":
		return CategoryMight, nil
	case "finesse":
		return CategoryFinesse, nil
	case "arcane":
		return CategoryArcane, nil
	default:
		return CategoryUnknown, fmt.Errorf("loadout: unknown weapon category %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler so category names in content
// files decode directly into Category values.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML renders the category as its name.
func (c Category) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Weapon is the currently wielded weapon.
type Weapon struct {
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	// Power is the weapon's contribution to the effective offense rating.
	Power int `yaml:"power"`
}

// Trinket is a worn accessory contributing a flat offense bonus.
type Trinket struct {
	Name         string `yaml:"name"`
	OffenseBonus int    `yaml:"offense_bonus"`
}

// Loadout is the attacker's equipped gear plus base stats. It satisfies the
// strategy compiler's attacker-context interface.
type Loadout struct {
	// BaseOffense is the attacker's unequipped offensive stat.
	BaseOffense int       `yaml:"base_offense"`
	Weapon      Weapon    `yaml:"weapon"`
	Trinkets    []Trinket `yaml:"trinkets"`
}

// OffenseRating returns the attacker's current effective offensive stat:
// base offense plus weapon power plus all trinket bonuses.
func (l *Loadout) OffenseRating() int {
	total := l.BaseOffense + l.Weapon.Power
	for _, t := range l.Trinkets {
		total += t.OffenseBonus
	}
	return total
}

// WeaponCategory returns the equipped weapon's damage category.
func (l *Loadout) WeaponCategory() Category {
	return l.Weapon.Category
}

// Validate checks the loadout's invariants.
//
// Postcondition: nil return guarantees BaseOffense >= 0, a named weapon with
// a valid category and Power >= 0, and named trinkets with bonuses >= 0.
func (l *Loadout) Validate() error {
	if l.BaseOffense < 0 {
		return fmt.Errorf("loadout: base_offense must be >= 0, got %d", l.BaseOffense)
	}
	if l.Weapon.Name == "" {
		return fmt.Errorf("loadout: weapon name must not be empty")
	}
	if l.Weapon.Category == CategoryUnknown {
		return fmt.Errorf("loadout: weapon %q has no category", l.Weapon.Name)
	}
	if l.Weapon.Power < 0 {
		return fmt.Errorf("loadout: weapon %q power must be >= 0, got %d", l.Weapon.Name, l.Weapon.Power)
	}
	for _, t := range l.Trinkets {
		if t.Name == "" {
			return fmt.Errorf("loadout: trinket has empty name")
		}
		if t.OffenseBonus < 0 {
			return fmt.Errorf("loadout: trinket %q offense_bonus must be >= 0, got %d", t.Name, t.OffenseBonus)
		}
	}
	return nil
}

// LoadBytes parses a loadout from raw YAML bytes.
//
// Postcondition: returns a validated *Loadout, or an error.
func LoadBytes(data []byte) (*Loadout, error) {
	var l Loadout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("loadout: parsing YAML: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads and parses a loadout YAML file.
//
// Precondition: path must be a readable YAML file.
func LoadFile(path string) (*Loadout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadout: reading %q: %w", path, err)
	}
	return LoadBytes(data)
}
