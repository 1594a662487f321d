package dal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// LoadPlayersCSV parses a header-driven player stats export. Columns are
// matched by name so season files and trade value files with different
// column orders both load. Rows with no name are skipped.
func LoadPlayersCSV(r io.Reader) ([]models.PlayerRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.Trim(h, `"`))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("player csv missing name column")
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(strings.Trim(row[i], `"`))
	}
	num := func(row []string, col string) float64 {
		v, err := strconv.ParseFloat(field(row, col), 64)
		if err != nil {
			return 0
		}
		return v
	}

	players := []models.PlayerRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		name := field(row, "name")
		if name == "" {
			continue
		}

		p := models.PlayerRecord{
			Name:               name,
			Team:               field(row, "team"),
			Position:           models.ParsePosition(field(row, "position")),
			TotalFantasyPoints: num(row, "total_fantasy_points"),
			AvgFantasyPoints:   num(row, "avg_fantasy_points"),
			Volatility:         num(row, "volatility"),
			PredictedValue:     num(row, "predicted_value"),
			GamesPlayed:        int(num(row, "games_played")),
			Season:             int(num(row, "season")),
			Totals: models.SeasonTotals{
				FumblesLost: num(row, "fumbles_fl_sum"),
			},
		}

		if _, ok := index["passing_yds_sum"]; ok {
			p.Totals.Passing = &models.PassingTotals{
				Yards:         num(row, "passing_yds_sum"),
				Touchdowns:    num(row, "passing_td_sum"),
				Interceptions: num(row, "passing_int_sum"),
			}
		}
		if _, ok := index["rushing_yds_sum"]; ok {
			p.Totals.Rushing = &models.RushingTotals{
				Yards:      num(row, "rushing_yds_sum"),
				Touchdowns: num(row, "rushing_td_sum"),
			}
		}
		if _, ok := index["receiving_yds_sum"]; ok {
			p.Totals.Receiving = &models.ReceivingTotals{
				Yards:      num(row, "receiving_yds_sum"),
				Touchdowns: num(row, "receiving_td_sum"),
				Receptions: num(row, "receiving_rec_sum"),
			}
		}
		if _, ok := index["def_tackles_solo_sum"]; ok {
			p.Totals.Defense = &models.DefenseTotals{
				SoloTackles:      num(row, "def_tackles_solo_sum"),
				AssistTackles:    num(row, "def_tackles_ast_sum"),
				Sacks:            num(row, "def_sacks_sum"),
				Interceptions:    num(row, "def_int_sum"),
				PassesDefended:   num(row, "def_passes_defended_sum"),
				ForcedFumbles:    num(row, "def_forced_fumbles_sum"),
				FumbleRecoveries: num(row, "def_fumbles_rec_sum"),
				Touchdowns:       num(row, "def_td_sum"),
			}
		}

		players = append(players, p)
	}

	return players, nil
}

// LoadInjuredCSV parses an injury report, locating the player name column
// by looking for a header containing "name" or "player".
func LoadInjuredCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read injury csv header: %w", err)
	}

	nameIndex := -1
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(strings.Trim(h, `"`)))
		if strings.Contains(lower, "name") || strings.Contains(lower, "player") {
			nameIndex = i
			break
		}
	}
	if nameIndex == -1 {
		return nil, fmt.Errorf("injury csv has no name column")
	}

	names := []string{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read injury csv row: %w", err)
		}
		if nameIndex >= len(row) {
			continue
		}
		name := strings.TrimSpace(strings.Trim(row[nameIndex], `"`))
		if name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}
