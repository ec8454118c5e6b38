package bestiary_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mharker/skirmish/internal/combat/bestiary"
)

func validOpponent() *bestiary.Opponent {
	return &bestiary.Opponent{
		ID:         "ganger",
		Name:       "Ganger",
		Defense:    12,
		PhysResist: 0,
	}
}

func TestOpponent_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*bestiary.Opponent)
		wantOK bool
	}{
		{"valid", func(o *bestiary.Opponent) {}, true},
		{"empty id", func(o *bestiary.Opponent) { o.ID = "" }, false},
		{"empty name", func(o *bestiary.Opponent) { o.Name = "" }, false},
		{"negative defense", func(o *bestiary.Opponent) { o.Defense = -1 }, false},
		{"resistance below range", func(o *bestiary.Opponent) { o.PhysResist = -1 }, false},
		{"resistance above range", func(o *bestiary.Opponent) { o.PhysResist = 101 }, false},
		{"resistance at bounds", func(o *bestiary.Opponent) { o.PhysResist = 100 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOpponent()
			tc.mutate(o)
			err := o.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.wantOK && err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestOpponent_StrategyAccessors(t *testing.T) {
	o := &bestiary.Opponent{ID: "wraith", Name: "Wraith", Defense: 40, PhysResist: 90}
	if o.Key() != "wraith" {
		t.Errorf("Key() = %q, want wraith", o.Key())
	}
	if o.DefenseRating() != 40 {
		t.Errorf("DefenseRating() = %d, want 40", o.DefenseRating())
	}
	if o.PhysicalResistance() != 90 {
		t.Errorf("PhysicalResistance() = %d, want 90", o.PhysicalResistance())
	}
}

func TestSpawn_InstanceIdentity(t *testing.T) {
	o := validOpponent()
	a := bestiary.Spawn(o)
	b := bestiary.Spawn(o)

	if a.UID == "" || b.UID == "" {
		t.Fatal("Spawn produced empty UID")
	}
	if a.UID == b.UID {
		t.Error("two spawns share a UID")
	}
	// Strategy identity stays the species key.
	if a.Key() != "ganger" || b.Key() != "ganger" {
		t.Errorf("instance Key() = %q/%q, want species ID", a.Key(), b.Key())
	}
}

func TestNewCatalog(t *testing.T) {
	cat, err := bestiary.NewCatalog(
		validOpponent(),
		&bestiary.Opponent{ID: "wraith", Name: "Wraith", Defense: 40, PhysResist: 90},
	)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cat.Len())
	}
	if _, ok := cat.Lookup("wraith"); !ok {
		t.Error("Lookup(wraith) not found")
	}
	if _, ok := cat.Lookup("nobody"); ok {
		t.Error("Lookup(nobody) unexpectedly found")
	}

	_, err = bestiary.NewCatalog(validOpponent(), validOpponent())
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate IDs: error = %v, want duplicate error", err)
	}
}

const catalogYAML = `
opponents:
  - id: ganger
    name: Ganger
    defense: 12
  - id: warden
    name: Hollow Warden
    defense: 80
    physical_resistance: 70
    boss: true
`

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "core.yaml"), []byte(catalogYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	// Non-YAML files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o600); err != nil {
		t.Fatal(err)
	}

	cat, err := bestiary.LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}
	warden, ok := cat.Lookup("warden")
	if !ok {
		t.Fatal("Lookup(warden) not found")
	}
	if !warden.Boss || warden.PhysResist != 70 {
		t.Errorf("warden = %+v, want boss with 70 resistance", warden)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		if _, err := bestiary.LoadCatalog(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("duplicate across files", func(t *testing.T) {
		dir := t.TempDir()
		one := "opponents:\n  - id: ganger\n    name: Ganger\n    defense: 12\n"
		if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(one), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(one), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := bestiary.LoadCatalog(dir); err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Fatalf("error = %v, want duplicate error", err)
		}
	})

	t.Run("invalid entry", func(t *testing.T) {
		dir := t.TempDir()
		bad := "opponents:\n  - id: ganger\n    name: Ganger\n    defense: -5\n"
		if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := bestiary.LoadCatalog(dir); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("missing opponents key", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("other: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := bestiary.LoadCatalog(dir); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
