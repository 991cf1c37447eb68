// cmd/parley/main.go
//
// Entry point for the parley CLI. It loads parley.yaml, assembles the
// agent rosters from the configured provider, and plays one match:
// either inside the terminal viewer (default) or headless with a
// printed summary. Finished matches are written out as a markdown
// report plus a row in the CSV results ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kingrea/parley/internal/agent"
	"github.com/kingrea/parley/internal/agent/llm"
	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/config"
	"github.com/kingrea/parley/internal/debate"
	"github.com/kingrea/parley/internal/engine"
	"github.com/kingrea/parley/internal/gamelog"
	"github.com/kingrea/parley/internal/logbook"
	"github.com/kingrea/parley/internal/match"
	"github.com/kingrea/parley/internal/report"
	"github.com/kingrea/parley/internal/tui"
	"github.com/kingrea/parley/internal/wordlist"
)

func main() {
	configPath := flag.String("config", "", "path to parley.yaml (defaults to ./parley.yaml)")
	headless := flag.Bool("headless", false, "play the match without the terminal viewer")
	provider := flag.String("provider", "", "agent provider override (random or openai)")
	seedFlag := flag.Int64("seed", 0, "board seed override (0 keeps the configured seed)")
	flag.Parse()

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		die("load config: %v", err)
	}
	if p := strings.ToLower(strings.TrimSpace(*provider)); p != "" {
		cfg.Agents.Provider = p
	}
	seed := cfg.Match.Seed
	if *seedFlag != 0 {
		seed = seedFlag
	}

	words := wordlist.Default()
	if cfg.WordList != "" {
		words, err = wordlist.Load(cfg.WordList)
		if err != nil {
			die("load word list: %v", err)
		}
	}

	runID := uuid.NewString()[:8]
	lb, err := logbook.New(cfg.MatchLogPath(runID))
	if err != nil {
		die("open logbook: %v", err)
	}
	events, err := gamelog.NewWriter(cfg.EventLogPath(runID))
	if err != nil {
		die("open event log: %v", err)
	}

	registry := agent.NewRegistry()
	registerProviders(registry)

	baseSeed := time.Now().UnixNano()
	if seed != nil {
		baseSeed = *seed
	}

	eng := engine.New(words)
	red, err := buildRoster(registry, cfg, board.TeamRed, baseSeed, lb)
	if err != nil {
		die("assemble red roster: %v", err)
	}
	blue, err := buildRoster(registry, cfg, board.TeamBlue, baseSeed+1000, lb)
	if err != nil {
		die("assemble blue roster: %v", err)
	}

	runner, err := match.NewRunner(eng, debate.NewManager(cfg.Match.DebateRounds, baseSeed), red, blue, match.Options{
		MaxTurns: cfg.Match.MaxTurns,
		Log:      lb,
		Events:   events,
	})
	if err != nil {
		die("assemble runner: %v", err)
	}

	if *headless {
		outcome, err := runner.Run(context.Background(), seed)
		if err != nil {
			die("run match: %v", err)
		}
		printSummary(outcome)
		persist(cfg, eng, outcome, runID)
		return
	}

	app, err := tui.NewApp(eng, runner, lb, seed)
	if err != nil {
		die("assemble viewer: %v", err)
	}
	if err := tui.Run(app); err != nil {
		die("run viewer: %v", err)
	}
	if outcome, ok := app.Outcome(); ok {
		printSummary(outcome)
		persist(cfg, eng, outcome, runID)
	}
}

// registerProviders installs the built-in agent providers. The random
// provider needs no credentials; openai reads the key from the config
// map populated by buildRoster.
func registerProviders(registry *agent.Registry) {
	registry.MustRegisterSpymaster("random", func(name string, team board.Team, cfg agent.Config) (agent.Spymaster, error) {
		return agent.NewRandomSpymaster(name, team, configInt64(cfg, "seed")), nil
	})
	registry.MustRegisterOperative("random", func(name string, team board.Team, cfg agent.Config) (agent.Operative, error) {
		return agent.NewRandomOperative(name, team, configInt64(cfg, "seed")), nil
	})
	registry.MustRegisterSpymaster("openai", func(name string, team board.Team, cfg agent.Config) (agent.Spymaster, error) {
		return llm.NewSpymaster(name, team, llm.Config{
			APIKey: configString(cfg, "api_key"),
			Model:  configString(cfg, "model"),
		})
	})
	registry.MustRegisterOperative("openai", func(name string, team board.Team, cfg agent.Config) (agent.Operative, error) {
		return llm.NewOperative(name, team, llm.Config{
			APIKey: configString(cfg, "api_key"),
			Model:  configString(cfg, "model"),
		})
	})
}

// buildRoster constructs one team's agents and wraps every one of them
// with the safe fallback layer, so a hung or failing provider can never
// stall a match.
func buildRoster(registry *agent.Registry, cfg config.Config, team board.Team, baseSeed int64, lb *logbook.Logbook) (match.Roster, error) {
	agentCfg := func(seed int64) agent.Config {
		return agent.Config{
			"model":   cfg.Agents.Model,
			"api_key": os.Getenv("OPENAI_API_KEY"),
			"seed":    seed,
		}
	}

	spy, err := registry.NewSpymaster(cfg.Agents.Provider, fmt.Sprintf("%s-spymaster", team), team, agentCfg(baseSeed))
	if err != nil {
		return match.Roster{}, err
	}
	roster := match.Roster{
		Spymaster: agent.NewSafeSpymaster(spy, team, cfg.Agents.Timeout(), baseSeed, lb),
	}

	count := cfg.Match.RedOperatives
	if team == board.TeamBlue {
		count = cfg.Match.BlueOperatives
	}
	for i := 0; i < count; i++ {
		seed := baseSeed + int64(i) + 1
		op, err := registry.NewOperative(cfg.Agents.Provider, fmt.Sprintf("%s-operative-%d", team, i+1), team, agentCfg(seed))
		if err != nil {
			return match.Roster{}, err
		}
		roster.Operatives = append(roster.Operatives, agent.NewSafeOperative(op, cfg.Agents.Timeout(), seed, lb))
	}
	return roster, nil
}

func persist(cfg config.Config, eng *engine.Engine, outcome match.Outcome, runID string) {
	g, ok := eng.Game(outcome.GameID)
	if !ok {
		die("finished game %s not found", outcome.GameID)
	}
	reportPath := cfg.ReportPath(runID)
	if err := report.WriteMarkdown(reportPath, outcome, g); err != nil {
		die("write report: %v", err)
	}
	ledgerPath := cfg.ResultsPath()
	if err := report.AppendCSV(ledgerPath, outcome, g.Seed); err != nil {
		die("append results: %v", err)
	}
	fmt.Printf("Report: %s\nResults: %s\n", reportPath, ledgerPath)
}

func printSummary(outcome match.Outcome) {
	if outcome.Winner == "" {
		fmt.Printf("No winner after %d turns: %s (%s)\n", outcome.Turns, outcome.WinReason, outcome.Duration.Round(time.Millisecond))
		return
	}
	fmt.Printf("%s won in %d turns: %s (%s)\n", outcome.Winner, outcome.Turns, outcome.WinReason, outcome.Duration.Round(time.Millisecond))
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func configString(cfg agent.Config, key string) string {
	if value, ok := cfg[key].(string); ok {
		return value
	}
	return ""
}

func configInt64(cfg agent.Config, key string) int64 {
	switch value := cfg[key].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	default:
		return time.Now().UnixNano()
	}
}
