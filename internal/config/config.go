// Package config loads league settings from a YAML file with environment
// overrides. Server wiring (ports, DSNs, drivers) stays on plain env vars.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// League holds scoring and roster construction settings
type League struct {
	Name          string             `yaml:"name"`
	Scoring       models.ScoringType `yaml:"scoring"`
	TeamCount     int                `yaml:"team_count"`
	Rounds        int                `yaml:"rounds"`
	Season        int                `yaml:"season"`
	Week          int                `yaml:"week"`
	RosterTargets map[string]int     `yaml:"roster_targets"`
}

// DefaultLeague returns settings for a typical 12-team PPR league
func DefaultLeague() League {
	return League{
		Name:      "My League",
		Scoring:   models.ScoringPPR,
		TeamCount: 12,
		Rounds:    15,
		Season:    2024,
		Week:      1,
		RosterTargets: map[string]int{
			"QB": 1,
			"RB": 2,
			"WR": 2,
			"TE": 1,
		},
	}
}

// Load reads league settings. A missing path means defaults; a present but
// unreadable or invalid file is an error. Environment overrides apply last.
func Load(path string) (League, error) {
	league := DefaultLeague()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return league, fmt.Errorf("failed to read league config: %w", err)
		}
		if err := yaml.Unmarshal(data, &league); err != nil {
			return league, fmt.Errorf("failed to parse league config: %w", err)
		}
	}

	applyEnvOverrides(&league)

	if err := league.Validate(); err != nil {
		return league, err
	}
	return league, nil
}

func applyEnvOverrides(league *League) {
	if v := os.Getenv("LEAGUE_SCORING"); v != "" {
		league.Scoring = models.ScoringType(v)
	}
	if v := os.Getenv("LEAGUE_TEAM_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			league.TeamCount = n
		}
	}
	if v := os.Getenv("LEAGUE_SEASON"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			league.Season = n
		}
	}
	if v := os.Getenv("LEAGUE_WEEK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			league.Week = n
		}
	}
}

// Validate checks the settings for values the engine cannot work with
func (l League) Validate() error {
	switch l.Scoring {
	case models.ScoringStandard, models.ScoringPPR, models.ScoringHalfPPR:
	default:
		return fmt.Errorf("unknown scoring type: %s", l.Scoring)
	}
	if l.TeamCount < 2 {
		return fmt.Errorf("team_count must be at least 2, got %d", l.TeamCount)
	}
	if l.Rounds < 1 {
		return fmt.Errorf("rounds must be positive, got %d", l.Rounds)
	}
	for pos := range l.RosterTargets {
		if !models.ParsePosition(pos).Valid() {
			return fmt.Errorf("unknown position in roster_targets: %s", pos)
		}
	}
	return nil
}

// Targets converts the YAML roster targets to typed positions
func (l League) Targets() map[models.Position]int {
	targets := make(map[models.Position]int, len(l.RosterTargets))
	for pos, count := range l.RosterTargets {
		targets[models.ParsePosition(pos)] = count
	}
	return targets
}
