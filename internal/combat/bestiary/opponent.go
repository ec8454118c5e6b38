// Package bestiary provides opponent template definitions, the YAML catalog
// they load from, and live encounter instances.
package bestiary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Opponent defines a reusable opponent archetype loaded from YAML.
// Identity for strategy purposes is the ID; two encounters with the same
// species share strategy entries.
type Opponent struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Defense is the opponent's defensive rating, compared against the
	// attacker's offense rating by the escalation heuristic.
	Defense int `yaml:"defense"`
	// PhysResist is the opponent's resistance to physical damage as a
	// percentage (0-100). At 70 or above, physical finishers are futile.
	PhysResist int `yaml:"physical_resistance"`
	// Boss marks encounter-defining opponents. The strategy layer does not
	// consult it; it is carried for callers.
	Boss bool `yaml:"boss"`
}

// Key returns the opponent's identity key.
func (o *Opponent) Key() string { return o.ID }

// DefenseRating returns the opponent's defensive rating.
func (o *Opponent) DefenseRating() int { return o.Defense }

// PhysicalResistance returns the opponent's physical damage resistance (0-100).
func (o *Opponent) PhysicalResistance() int { return o.PhysResist }

// Validate checks that the opponent satisfies basic invariants.
//
// Precondition: o must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Defense >= 0,
// and PhysResist is within 0-100; returns an error on the first violation.
func (o *Opponent) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("bestiary: opponent id must not be empty")
	}
	if o.Name == "" {
		return fmt.Errorf("bestiary: opponent %q: name must not be empty", o.ID)
	}
	if o.Defense < 0 {
		return fmt.Errorf("bestiary: opponent %q: defense must be >= 0, got %d", o.ID, o.Defense)
	}
	if o.PhysResist < 0 || o.PhysResist > 100 {
		return fmt.Errorf("bestiary: opponent %q: physical_resistance must be 0-100, got %d", o.ID, o.PhysResist)
	}
	return nil
}

// Instance is a live opponent occupying one encounter. It embeds the
// template, so strategy identity (Key) remains the species ID while UID
// distinguishes simultaneous spawns for the turn engine.
type Instance struct {
	*Opponent
	// UID uniquely identifies this runtime instance.
	UID string
}

// Spawn creates a live instance of the opponent with a fresh UID.
//
// Precondition: o must not be nil and must have passed Validate.
func Spawn(o *Opponent) *Instance {
	return &Instance{Opponent: o, UID: uuid.NewString()}
}

// Catalog holds all loaded opponent templates, keyed by ID.
//
// Invariant: IDs are unique; every entry has passed Validate.
type Catalog struct {
	byID map[string]*Opponent
}

// Lookup returns the opponent with the given ID, or false if not found.
func (c *Catalog) Lookup(id string) (*Opponent, bool) {
	o, ok := c.byID[id]
	return o, ok
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int { return len(c.byID) }

// yamlCatalogFile wraps the YAML top-level key.
type yamlCatalogFile struct {
	Opponents []*Opponent `yaml:"opponents"`
}

// loadBytes parses opponent templates from raw YAML bytes into the catalog,
// rejecting duplicate IDs.
func (c *Catalog) loadBytes(data []byte, source string) error {
	var f yamlCatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("bestiary: parsing %s: %w", source, err)
	}
	if len(f.Opponents) == 0 {
		return fmt.Errorf("bestiary: %s missing top-level 'opponents' key or has no entries", source)
	}
	for _, o := range f.Opponents {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("bestiary: %s: %w", source, err)
		}
		if _, dup := c.byID[o.ID]; dup {
			return fmt.Errorf("bestiary: %s: duplicate opponent ID %q", source, o.ID)
		}
		c.byID[o.ID] = o
	}
	return nil
}

// LoadCatalog reads all *.yaml files from dir and returns the merged catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns an error if any YAML file fails to parse or
// validate, or if any opponent ID appears twice across files. An empty
// directory yields an empty catalog; callers should treat that as a
// configuration error if opponents are required.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("bestiary: reading %q: %w", dir, err)
	}
	cat := &Catalog{byID: make(map[string]*Opponent)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("bestiary: reading %s: %w", e.Name(), err)
		}
		if err := cat.loadBytes(data, e.Name()); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// NewCatalog builds a catalog directly from templates, for callers that do
// not load content from disk (tests, embedded fixtures).
//
// Postcondition: returns an error on the first invalid or duplicate template.
func NewCatalog(opponents ...*Opponent) (*Catalog, error) {
	cat := &Catalog{byID: make(map[string]*Opponent, len(opponents))}
	for _, o := range opponents {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if _, dup := cat.byID[o.ID]; dup {
			return nil, fmt.Errorf("bestiary: duplicate opponent ID %q", o.ID)
		}
		cat.byID[o.ID] = o
	}
	return cat, nil
}
