package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gridiron-labs/gridiron-edge/internal/cache"
	"github.com/gridiron-labs/gridiron-edge/internal/config"
	"github.com/gridiron-labs/gridiron-edge/internal/dal"
	"github.com/gridiron-labs/gridiron-edge/internal/draft"
	"github.com/gridiron-labs/gridiron-edge/internal/logger"
	"github.com/gridiron-labs/gridiron-edge/internal/metrics"
	"github.com/gridiron-labs/gridiron-edge/internal/models"
	"github.com/gridiron-labs/gridiron-edge/internal/pubsub"
	"github.com/gridiron-labs/gridiron-edge/internal/roster"
	"github.com/gridiron-labs/gridiron-edge/internal/trade"
	"github.com/gridiron-labs/gridiron-edge/internal/valuation"
	"github.com/gridiron-labs/gridiron-edge/internal/warehouse"
)

const recommendationTTL = 30 * time.Second

// APIHandlers contains all API handler methods
type APIHandlers struct {
	store     dal.Store
	pubsub    *pubsub.PubSub
	cache     cache.Cache
	warehouse warehouse.StatsSource // optional, nil when no warehouse is configured
	league    config.League
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(store dal.Store, ps *pubsub.PubSub, c cache.Cache, wh warehouse.StatsSource, league config.League) *APIHandlers {
	return &APIHandlers{
		store:     store,
		pubsub:    ps,
		cache:     c,
		warehouse: wh,
		league:    league,
	}
}

func (h *APIHandlers) injuredFunc() (func(string) bool, error) {
	names, err := h.store.InjuredNames()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// ListPlayers returns the player pool, optionally filtered by search query,
// position, or availability.
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.State()
	if err != nil {
		logger.Error("failed to load league state", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	players := state.Players
	if q := r.URL.Query().Get("q"); q != "" {
		players = dal.Search(players, q)
	}
	if pos := r.URL.Query().Get("position"); pos != "" {
		position := models.ParsePosition(pos)
		if !position.Valid() {
			http.Error(w, "unknown position: "+pos, http.StatusBadRequest)
			return
		}
		players = dal.ByPosition(players, position)
	}
	if r.URL.Query().Get("available") == "true" {
		players = dal.Available(players, state.Picks)
	}

	metrics.PoolSize.Set(float64(len(state.Players)))
	writeJSON(w, players)
}

// TopPlayers returns the highest scorers in the pool
func (h *APIHandlers) TopPlayers(w http.ResponseWriter, r *http.Request) {
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid n parameter", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	players, err := h.store.Players()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, dal.TopPlayers(players, n))
}

// PlayerProfile is the extended player view with derived valuation fields
type PlayerProfile struct {
	Player           *models.PlayerRecord        `json:"player"`
	Injured          bool                        `json:"injured"`
	Consistency      valuation.ConsistencyBucket `json:"consistency"`
	Upside           valuation.UpsideBucket      `json:"upside"`
	PerformanceGrade valuation.Grade             `json:"performance_grade"`
	ConsistencyScore float64                     `json:"consistency_score"`
	Replacements     []models.PlayerRecord       `json:"replacements"`
}

// GetPlayerProfile returns a player with valuation buckets and suggested
// replacements.
func (h *APIHandlers) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Missing name parameter", http.StatusBadRequest)
		return
	}

	player, err := h.store.PlayerByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	isInjured, err := h.injuredFunc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	players, err := h.store.Players()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	profile := PlayerProfile{
		Player:           player,
		Injured:          isInjured(player.Name),
		Consistency:      valuation.Consistency(player.Volatility),
		Upside:           valuation.Upside(player),
		PerformanceGrade: valuation.PerformanceGrade(player),
		ConsistencyScore: valuation.ConsistencyScore(player.Volatility),
		Replacements:     dal.ReplacementSuggestions(players, player, isInjured),
	}

	writeJSON(w, profile)
}

// GetReplacements suggests healthy same-position players
func (h *APIHandlers) GetReplacements(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Missing name parameter", http.StatusBadRequest)
		return
	}

	player, err := h.store.PlayerByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	isInjured, err := h.injuredFunc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	players, err := h.store.Players()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, dal.ReplacementSuggestions(players, player, isInjured))
}

// ListInjuries returns currently injured players
func (h *APIHandlers) ListInjuries(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.InjuredNames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, names)
}

// SetInjury flags or clears a player's injury status
func (h *APIHandlers) SetInjury(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name    string `json:"name"`
		Injured bool   `json:"injured"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SetInjured(req.Name, req.Injured); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventInjuryUpdate,
		Payload: map[string]interface{}{
			"name":    req.Name,
			"injured": req.Injured,
		},
	})

	writeJSON(w, map[string]bool{"ok": true})
}

// AnalyzeTrade evaluates a one-for-one trade between two named players
func (h *APIHandlers) AnalyzeTrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Player1 string `json:"player1"`
		Player2 string `json:"player2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("failed to decode trade request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Player1 == "" || req.Player2 == "" {
		http.Error(w, "player1 and player2 are required", http.StatusBadRequest)
		return
	}
	if req.Player1 == req.Player2 {
		http.Error(w, "cannot trade a player for themselves", http.StatusBadRequest)
		return
	}

	playerA, err := h.store.PlayerByName(req.Player1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	playerB, err := h.store.PlayerByName(req.Player2)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	isInjured, err := h.injuredFunc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	eval := trade.Evaluate(playerA, playerB, isInjured)

	metrics.TradeEvaluations.WithLabelValues(string(eval.Recommendation)).Inc()
	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventTradeAnalyzed,
		Payload: map[string]interface{}{
			"player1":        playerA.Name,
			"player2":        playerB.Name,
			"recommendation": string(eval.Recommendation),
			"confidence":     eval.Confidence,
		},
	})

	if h.warehouse != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.warehouse.RecordTradeEvaluation(ctx, eval); err != nil {
				logger.Warn("failed to record trade evaluation", "error", err)
			}
		}()
	}

	writeJSON(w, eval)
}

// GetDraftRecommendations ranks available players for the next pick
func (h *APIHandlers) GetDraftRecommendations(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.State()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	draft.CalculateCurrentPick(state)

	pick := state.CurrentPick
	if v := r.URL.Query().Get("pick"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid pick parameter", http.StatusBadRequest)
			return
		}
		pick = parsed
	}

	rosterID := r.URL.Query().Get("rosterId")
	if rosterID == "" {
		rosterID = state.CurrentRosterID
	}
	var myRoster []models.PlayerRecord
	for _, ros := range state.Rosters {
		if ros.ID == rosterID {
			myRoster = ros.Players
			break
		}
	}

	cacheKey := fmt.Sprintf("draft:recs:%s:%d:%d", rosterID, pick, len(state.Picks))
	var cached []models.DraftRecommendation
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		metrics.DraftRecommendations.Inc()
		writeJSON(w, cached)
		return
	}

	isInjured, err := h.injuredFunc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	available := dal.Available(state.Players, state.Picks)
	recs := draft.RecommendWithTargets(available, myRoster, pick, h.league.Scoring, isInjured, h.league.Targets())

	if err := h.cache.Set(r.Context(), cacheKey, recs, recommendationTTL); err != nil {
		logger.Debug("failed to cache recommendations", "error", err)
	}

	metrics.DraftRecommendations.Inc()
	writeJSON(w, recs)
}

// DraftPick records a draft selection
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PlayerName string `json:"playerName"`
		RosterID   string `json:"rosterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("failed to decode draft pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("drafting player", "player", req.PlayerName, "roster", req.RosterID)
	pick, err := h.store.DraftPlayer(req.PlayerName, req.RosterID)
	if err != nil {
		logger.Error("failed to draft player", "error", err, "player", req.PlayerName)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.DraftPicks.Inc()
	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventDraftPick,
		Payload: map[string]interface{}{
			"playerName": pick.PlayerName,
			"rosterId":   pick.RosterID,
			"number":     pick.Number,
		},
	})

	writeJSON(w, pick)
}

// ResetDraft clears all picks and restores the seed pool
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger.Info("resetting draft")
	if err := h.store.Reset(); err != nil {
		logger.Error("failed to reset draft", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.pubsub.Publish(pubsub.Event{Type: pubsub.EventDraftReset})
	writeJSON(w, map[string]bool{"ok": true})
}

// GetDraftState returns the league state with the current pick computed
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.State()
	if err != nil {
		logger.Error("failed to load league state", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	draft.CalculateCurrentPick(state)
	writeJSON(w, state)
}

// ListRosters returns all managed rosters
func (h *APIHandlers) ListRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.store.Rosters()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rosters)
}

// AddRoster creates a new managed roster
func (h *APIHandlers) AddRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Owner string `json:"owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ros, err := h.store.AddRoster(req.Name, req.Owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, ros)
}

// GetRosterStats returns aggregate stats for a roster
func (h *APIHandlers) GetRosterStats(w http.ResponseWriter, r *http.Request) {
	ros, err := h.findRoster(r.URL.Query().Get("rosterId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	isInjured, err := h.injuredFunc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, roster.Stats(ros.Players, isInjured))
}

// GetRosterLineup returns the optimal starting lineup for a roster
func (h *APIHandlers) GetRosterLineup(w http.ResponseWriter, r *http.Request) {
	ros, err := h.findRoster(r.URL.Query().Get("rosterId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, roster.Lineup(ros.Players))
}

// GetOpportunities returns weekly pickup suggestions from the healthy pool
func (h *APIHandlers) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	week := h.league.Week
	if v := r.URL.Query().Get("week"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid week parameter", http.StatusBadRequest)
			return
		}
		week = parsed
	}

	players, err := h.store.Players()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	isInjured, err := h.injuredFunc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	healthy := []models.PlayerRecord{}
	for _, p := range players {
		if !isInjured(p.Name) {
			healthy = append(healthy, p)
		}
	}

	writeJSON(w, roster.WeeklyOpportunities(healthy, week))
}

func (h *APIHandlers) findRoster(rosterID string) (*models.Roster, error) {
	if rosterID == "" {
		return nil, fmt.Errorf("missing rosterId parameter")
	}
	rosters, err := h.store.Rosters()
	if err != nil {
		return nil, err
	}
	for i := range rosters {
		if rosters[i].ID == rosterID {
			return &rosters[i], nil
		}
	}
	return nil, fmt.Errorf("roster not found: %s", rosterID)
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	metrics.SSEClients.Inc()
	defer metrics.SSEClients.Dec()

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
