package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	league, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if league.Scoring != models.ScoringPPR {
		t.Errorf("Scoring = %s, want ppr default", league.Scoring)
	}
	if league.TeamCount != 12 {
		t.Errorf("TeamCount = %d, want 12", league.TeamCount)
	}
	if league.RosterTargets["RB"] != 2 {
		t.Errorf("RB target = %d, want 2", league.RosterTargets["RB"])
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league.yaml")
	yaml := `
name: Dynasty League
scoring: half_ppr
team_count: 10
rounds: 16
season: 2025
week: 3
roster_targets:
  QB: 2
  RB: 2
  WR: 3
  TE: 1
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	league, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if league.Name != "Dynasty League" {
		t.Errorf("Name = %q", league.Name)
	}
	if league.Scoring != models.ScoringHalfPPR {
		t.Errorf("Scoring = %s, want half_ppr", league.Scoring)
	}
	if league.TeamCount != 10 || league.Rounds != 16 {
		t.Errorf("TeamCount/Rounds = %d/%d", league.TeamCount, league.Rounds)
	}
	if league.RosterTargets["WR"] != 3 {
		t.Errorf("WR target = %d, want 3", league.RosterTargets["WR"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/league.yaml"); err == nil {
		t.Error("expected error for unreadable config path")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEAGUE_SCORING", "standard")
	t.Setenv("LEAGUE_TEAM_COUNT", "8")
	t.Setenv("LEAGUE_WEEK", "7")

	league, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if league.Scoring != models.ScoringStandard {
		t.Errorf("Scoring = %s, want standard from env", league.Scoring)
	}
	if league.TeamCount != 8 {
		t.Errorf("TeamCount = %d, want 8 from env", league.TeamCount)
	}
	if league.Week != 7 {
		t.Errorf("Week = %d, want 7 from env", league.Week)
	}
}

func TestValidateRejectsBadScoring(t *testing.T) {
	t.Setenv("LEAGUE_SCORING", "superflex")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown scoring type")
	}
}

func TestTargetsNormalizesPositions(t *testing.T) {
	league := DefaultLeague()
	league.RosterTargets = map[string]int{"QB": 1, "DST": 1}

	targets := league.Targets()
	if targets[models.PositionDEF] != 1 {
		t.Errorf("DST not normalized to DEF: %v", targets)
	}
}
