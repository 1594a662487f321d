package dal

import (
	"sort"
	"strings"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

const replacementLimit = 5

// Available filters out players that appear in the pick log
func Available(players []models.PlayerRecord, picks []models.DraftPick) []models.PlayerRecord {
	drafted := make(map[string]bool, len(picks))
	for _, pick := range picks {
		drafted[pick.PlayerName] = true
	}

	available := []models.PlayerRecord{}
	for _, p := range players {
		if !drafted[p.Name] {
			available = append(available, p)
		}
	}
	return available
}

// ByPosition returns players at the given position in pool order
func ByPosition(players []models.PlayerRecord, pos models.Position) []models.PlayerRecord {
	matched := []models.PlayerRecord{}
	for _, p := range players {
		if p.Position == pos {
			matched = append(matched, p)
		}
	}
	return matched
}

// TopPlayers returns the n highest scorers by total fantasy points
func TopPlayers(players []models.PlayerRecord, n int) []models.PlayerRecord {
	sorted := make([]models.PlayerRecord, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalFantasyPoints > sorted[j].TotalFantasyPoints
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Search matches players whose name or team contains the query, case
// insensitively. An empty query matches everyone.
func Search(players []models.PlayerRecord, query string) []models.PlayerRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		matched := make([]models.PlayerRecord, len(players))
		copy(matched, players)
		return matched
	}

	matched := []models.PlayerRecord{}
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Team), q) {
			matched = append(matched, p)
		}
	}
	return matched
}

// ReplacementSuggestions finds up to five healthy players at the same
// position as the given player, best predicted value first.
func ReplacementSuggestions(players []models.PlayerRecord, forPlayer *models.PlayerRecord, isInjured func(string) bool) []models.PlayerRecord {
	candidates := []models.PlayerRecord{}
	for _, p := range players {
		if p.Position != forPlayer.Position || p.Name == forPlayer.Name {
			continue
		}
		if isInjured(p.Name) {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PredictedValue > candidates[j].PredictedValue
	})

	if len(candidates) > replacementLimit {
		candidates = candidates[:replacementLimit]
	}
	return candidates
}
