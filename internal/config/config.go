// Package config loads the parley.yaml match configuration: roster
// sizes, agent providers, debate settings and log locations.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is looked up in the working directory when no
	// config path is given.
	DefaultFileName = "parley.yaml"

	defaultProvider      = "random"
	defaultModel         = "gpt-4o"
	defaultDebateRounds  = 2
	defaultMaxTurns      = 20
	defaultOperatives    = 2
	defaultAgentTimeout  = 45 * time.Second
	defaultLogDirName    = "logs"
	providerRandomID     = "random"
	providerOpenAIID     = "openai"
	minimumDebateRounds  = 1
	minimumMaxTurns      = 1
	minimumTeamOperators = 1
)

// MatchConfig shapes one game.
type MatchConfig struct {
	RedOperatives  int    `yaml:"red_operatives"`
	BlueOperatives int    `yaml:"blue_operatives"`
	DebateRounds   int    `yaml:"debate_rounds"`
	MaxTurns       int    `yaml:"max_turns"`
	Seed           *int64 `yaml:"seed,omitempty"`
}

// AgentConfig selects and tunes the agent provider.
type AgentConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call agent timeout.
func (a AgentConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return defaultAgentTimeout
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Config models parley.yaml.
type Config struct {
	Version  int         `yaml:"version"`
	Match    MatchConfig `yaml:"match"`
	Agents   AgentConfig `yaml:"agents"`
	WordList string      `yaml:"word_list,omitempty"`
	LogDir   string      `yaml:"log_dir"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Version: 1,
		Match: MatchConfig{
			RedOperatives:  defaultOperatives,
			BlueOperatives: defaultOperatives,
			DebateRounds:   defaultDebateRounds,
			MaxTurns:       defaultMaxTurns,
		},
		Agents: AgentConfig{
			Provider: defaultProvider,
			Model:    defaultModel,
		},
		LogDir: defaultLogDirName,
	}
}

// Load reads a config file, applying defaults for absent fields. A
// missing file at the default location is not an error; an explicit
// path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.normalize(filepath.Dir(path))
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize(base string) {
	if c.Version == 0 {
		c.Version = 1
	}
	c.Agents.Provider = strings.ToLower(strings.TrimSpace(c.Agents.Provider))
	if c.Agents.Provider == "" {
		c.Agents.Provider = defaultProvider
	}
	c.Agents.Model = strings.TrimSpace(c.Agents.Model)
	if c.Agents.Model == "" {
		c.Agents.Model = defaultModel
	}
	if c.LogDir == "" {
		c.LogDir = defaultLogDirName
	}
	c.LogDir = resolvePath(base, c.LogDir)
	c.WordList = resolvePath(base, c.WordList)
}

func (c Config) validate() error {
	if c.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if c.Match.RedOperatives < minimumTeamOperators || c.Match.BlueOperatives < minimumTeamOperators {
		return fmt.Errorf("team sizes must be positive, got red=%d blue=%d", c.Match.RedOperatives, c.Match.BlueOperatives)
	}
	if c.Match.DebateRounds < minimumDebateRounds {
		return fmt.Errorf("debate_rounds must be >= %d", minimumDebateRounds)
	}
	if c.Match.MaxTurns < minimumMaxTurns {
		return fmt.Errorf("max_turns must be >= %d", minimumMaxTurns)
	}
	switch c.Agents.Provider {
	case providerRandomID, providerOpenAIID:
	default:
		return fmt.Errorf("agents.provider must be %q or %q", providerRandomID, providerOpenAIID)
	}
	if c.Agents.TimeoutSeconds < 0 {
		return fmt.Errorf("agents.timeout_seconds must be >= 0")
	}
	return nil
}

// MatchLogPath returns the logbook location for a game.
func (c Config) MatchLogPath(gameID string) string {
	return filepath.Join(c.LogDir, gameID+".log")
}

// EventLogPath returns the JSON event log location for a game.
func (c Config) EventLogPath(gameID string) string {
	return filepath.Join(c.LogDir, gameID+".events.jsonl")
}

// ReportPath returns the markdown report location for a game.
func (c Config) ReportPath(gameID string) string {
	return filepath.Join(c.LogDir, gameID+".report.md")
}

// ResultsPath returns the CSV ledger shared by every match.
func (c Config) ResultsPath() string {
	return filepath.Join(c.LogDir, "results.csv")
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
