package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scoreboard limits used when no rules file overrides them.
const (
	defaultMaxFouls     = 5
	defaultMaxTimeouts  = 3
	defaultMaxPeriods   = 4
	defaultPeriodLength = 12 * time.Minute
	defaultGroupOrder   = "desc"
)

// LeagueRules are the per-league limits for scoreboards and the standings group order.
type LeagueRules struct {
	MaxFouls     int
	MaxTimeouts  int
	MaxPeriods   int
	PeriodLength time.Duration
	GroupOrder   string
}

// DefaultLeagueRules returns the built-in rules.
func DefaultLeagueRules() LeagueRules {
	return LeagueRules{
		MaxFouls:     defaultMaxFouls,
		MaxTimeouts:  defaultMaxTimeouts,
		MaxPeriods:   defaultMaxPeriods,
		PeriodLength: defaultPeriodLength,
		GroupOrder:   defaultGroupOrder,
	}
}

type leagueRulesFile struct {
	Scoreboard struct {
		MaxFouls     int    `yaml:"maxFouls"`
		MaxTimeouts  int    `yaml:"maxTimeouts"`
		MaxPeriods   int    `yaml:"maxPeriods"`
		PeriodLength string `yaml:"periodLength"`
	} `yaml:"scoreboard"`
	Standings struct {
		GroupOrder string `yaml:"groupOrder"`
	} `yaml:"standings"`
}

// LoadLeagueRules reads a YAML rules file over the defaults. Missing or zero
// fields keep their default.
func LoadLeagueRules(path string) (LeagueRules, error) {
	rules := DefaultLeagueRules()
	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read league rules: %w", err)
	}
	return parseLeagueRules(raw, rules)
}

func parseLeagueRules(raw []byte, rules LeagueRules) (LeagueRules, error) {
	var file leagueRulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return rules, fmt.Errorf("parse league rules: %w", err)
	}

	sb := file.Scoreboard
	if sb.MaxFouls < 0 || sb.MaxTimeouts < 0 || sb.MaxPeriods < 0 {
		return rules, errors.New("parse league rules: limits must not be negative")
	}
	if sb.MaxFouls > 0 {
		rules.MaxFouls = sb.MaxFouls
	}
	if sb.MaxTimeouts > 0 {
		rules.MaxTimeouts = sb.MaxTimeouts
	}
	if sb.MaxPeriods > 0 {
		rules.MaxPeriods = sb.MaxPeriods
	}
	if sb.PeriodLength != "" {
		d, err := time.ParseDuration(sb.PeriodLength)
		if err != nil || d <= 0 {
			return rules, fmt.Errorf("parse league rules: bad periodLength %q", sb.PeriodLength)
		}
		rules.PeriodLength = d
	}
	if file.Standings.GroupOrder != "" {
		rules.GroupOrder = file.Standings.GroupOrder
	}
	return rules, nil
}

func loadLeague() (LeagueRules, error) {
	rules := DefaultLeagueRules()
	if path := envOrDefault(envLeagueRulesFile, ""); path != "" {
		loaded, err := LoadLeagueRules(path)
		if err != nil {
			return rules, err
		}
		rules = loaded
	}
	rules.GroupOrder = envOrDefault(envLeagueGroupOrder, rules.GroupOrder)
	return rules, nil
}
