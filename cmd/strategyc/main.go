// Package main provides the strategy compiler CLI: it loads game content and
// a declarative strategy document, assembles the decision program, and dumps
// the ordered rule list to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mharker/skirmish/internal/combat/bestiary"
	"github.com/mharker/skirmish/internal/combat/loadout"
	"github.com/mharker/skirmish/internal/combat/program"
	"github.com/mharker/skirmish/internal/combat/scripting"
	"github.com/mharker/skirmish/internal/combat/strategy"
	"github.com/mharker/skirmish/internal/config"
	"github.com/mharker/skirmish/internal/observability"
)

// programDump is the stdout shape of an assembled program.
type programDump struct {
	Boss     bool             `yaml:"boss"`
	Rules    []program.Rule   `yaml:"rules"`
	Fallback program.Sequence `yaml:"fallback"`
}

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	strategyPath := flag.String("strategy", "", "path to strategy YAML document")
	fleeScript := flag.String("flee-script", "", "optional Lua script overriding the run-away fallback")
	banishItem := flag.String("banish-item", "", "optional item providing the banish action")
	flag.Parse()

	if *strategyPath == "" {
		log.Fatal("missing required -strategy flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	catalog, err := bestiary.LoadCatalog(cfg.Content.OpponentsDir)
	if err != nil {
		log.Fatalf("loading opponent catalog: %v", err)
	}
	if catalog.Len() == 0 {
		log.Fatalf("opponent catalog %q is empty", cfg.Content.OpponentsDir)
	}

	gear, err := loadout.LoadFile(cfg.Content.LoadoutFile)
	if err != nil {
		log.Fatalf("loading loadout: %v", err)
	}

	table, err := strategy.LoadTableFile(*strategyPath, func(id string) (strategy.Opponent, bool) {
		return catalog.Lookup(id)
	})
	if err != nil {
		log.Fatalf("loading strategy document: %v", err)
	}

	ctx := strategy.Context{
		Attacker: gear,
		Logger:   logger,
	}
	if *banishItem != "" {
		step := program.Item(*banishItem)
		ctx.Banish = &step
	}
	if *fleeScript != "" {
		seq, err := compileFleeScript(cfg, *fleeScript)
		if err != nil {
			log.Fatalf("compiling flee script: %v", err)
		}
		ctx.FleeOverride = seq
	}

	built := strategy.Build(table, ctx)

	dump := programDump{
		Boss:     built.IsBoss(),
		Rules:    built.Program().Rules(),
		Fallback: built.Program().Fallback(),
	}
	out, err := yaml.Marshal(dump)
	if err != nil {
		log.Fatalf("encoding program: %v", err)
	}
	fmt.Fprint(os.Stdout, string(out))
}

// compileFleeScript resolves name against the configured scripts directory
// and compiles it into a program.
func compileFleeScript(cfg config.Config, name string) (program.Sequence, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Content.ScriptsDir, name)
	}
	return scripting.CompileFile(path, cfg.Scripting.InstructionLimit)
}
