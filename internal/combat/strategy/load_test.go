package strategy_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mharker/skirmish/internal/combat/program"
	"github.com/mharker/skirmish/internal/combat/strategy"
)

// testLookup resolves the fixed opponents used by the loader tests.
func testLookup(id string) (strategy.Opponent, bool) {
	known := map[string]fakeOpponent{
		"ganger":    {id: "ganger", def: 10},
		"dire-wolf": {id: "dire-wolf", def: 30},
		"wraith":    {id: "wraith", def: 20, resist: 90},
		"warden":    {id: "warden", def: 80},
	}
	o, ok := known[id]
	return o, ok
}

const fullDoc = `
strategy:
  default: kill
  boss: true
  intents:
    - intent: run-away
      opponents: [dire-wolf]
    - intent: banish
      opponents: [wraith]
  items:
    - item: flash-powder
      opponents: [ganger]
  programs:
    - opponents: [warden]
      steps:
        - kind: skill
          name: hexbrand
          try: true
        - kind: attack
        - kind: repeat
`

func TestLoadTableBytes_FullDocument(t *testing.T) {
	table, err := strategy.LoadTableBytes([]byte(fullDoc), testLookup)
	require.NoError(t, err)

	assert.Equal(t, strategy.IntentKill, table.DefaultIntent())
	assert.True(t, table.IsBoss())

	fled := table.Where(strategy.IntentRunAway)
	require.Len(t, fled, 1)
	assert.Equal(t, "dire-wolf", fled[0].Key())

	banished := table.Where(strategy.IntentBanish)
	require.Len(t, banished, 1)
	assert.Equal(t, "wraith", banished[0].Key())

	// Item shortcut and inline program come out of a build as written.
	built := strategy.Build(table, mightCtx())

	ganger, _ := testLookup("ganger")
	assert.Equal(t, program.Sequence{program.Item("flash-powder")}, built.Select(ganger))

	warden, _ := testLookup("warden")
	assert.Equal(t, program.Sequence{
		program.TrySkill("hexbrand"),
		program.Attack(),
		program.Repeat(),
	}, built.Select(warden))
}

func TestLoadTableBytes_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing top-level key", `other: {}`},
		{"unknown default intent", "strategy:\n  default: massacre\n"},
		{"unknown intent", "strategy:\n  intents:\n    - intent: massacre\n      opponents: [ganger]\n"},
		{"unknown opponent", "strategy:\n  intents:\n    - intent: kill\n      opponents: [nobody]\n"},
		{"empty item", "strategy:\n  items:\n    - item: \"\"\n      opponents: [ganger]\n"},
		{"bad step kind", "strategy:\n  programs:\n    - opponents: [ganger]\n      steps:\n        - kind: dance\n"},
		{"nameless skill step", "strategy:\n  programs:\n    - opponents: [ganger]\n      steps:\n        - kind: skill\n"},
		{"empty program", "strategy:\n  programs:\n    - opponents: [ganger]\n      steps: []\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := strategy.LoadTableBytes([]byte(tc.doc), testLookup)
			assert.Error(t, err)
		})
	}
}

func TestLoadTableBytes_BanishWithoutOpponents(t *testing.T) {
	doc := "strategy:\n  intents:\n    - intent: banish\n      opponents: []\n"
	_, err := strategy.LoadTableBytes([]byte(doc), testLookup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, strategy.ErrInvalidConfiguration))
}

func TestLoadTableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullDoc), 0o600))

	table, err := strategy.LoadTableFile(path, testLookup)
	require.NoError(t, err)
	assert.True(t, table.Can(strategy.IntentBanish))

	_, err = strategy.LoadTableFile(filepath.Join(dir, "missing.yaml"), testLookup)
	assert.Error(t, err)
}
