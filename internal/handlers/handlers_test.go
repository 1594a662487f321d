package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gridiron-labs/gridiron-edge/internal/cache"
	"github.com/gridiron-labs/gridiron-edge/internal/config"
	"github.com/gridiron-labs/gridiron-edge/internal/dal"
	"github.com/gridiron-labs/gridiron-edge/internal/logger"
	"github.com/gridiron-labs/gridiron-edge/internal/mocks"
	"github.com/gridiron-labs/gridiron-edge/internal/models"
	"github.com/gridiron-labs/gridiron-edge/internal/pubsub"
)

func newTestHandlers() (*APIHandlers, *mocks.MockWarehouse) {
	logger.Init()
	wh := mocks.NewMockWarehouse()
	return NewAPIHandlers(
		dal.NewMemoryStore(),
		pubsub.New(),
		cache.NewMemoryCache(),
		wh,
		config.DefaultLeague(),
	), wh
}

func TestListPlayers(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	w := httptest.NewRecorder()
	h.ListPlayers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var players []models.PlayerRecord
	if err := json.NewDecoder(w.Body).Decode(&players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 10 {
		t.Errorf("got %d players, want 10", len(players))
	}
}

func TestListPlayersFiltered(t *testing.T) {
	h, _ := newTestHandlers()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"search by name", "?q=allen", 1},
		{"filter by position", "?position=WR", 3},
		{"search and position", "?q=BAL&position=QB", 1},
		{"no match", "?q=nonexistent", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/players"+tt.query, nil)
			w := httptest.NewRecorder()
			h.ListPlayers(w, req)

			var players []models.PlayerRecord
			json.NewDecoder(w.Body).Decode(&players)
			if len(players) != tt.want {
				t.Errorf("got %d players, want %d", len(players), tt.want)
			}
		})
	}
}

func TestListPlayersBadPosition(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/players?position=XYZ", nil)
	w := httptest.NewRecorder()
	h.ListPlayers(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTopPlayers(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/players/top?n=3", nil)
	w := httptest.NewRecorder()
	h.TopPlayers(w, req)

	var players []models.PlayerRecord
	if err := json.NewDecoder(w.Body).Decode(&players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("got %d players, want 3", len(players))
	}
	if players[0].Name != "Josh Allen" {
		t.Errorf("top player = %s, want Josh Allen", players[0].Name)
	}
}

func TestGetPlayerProfile(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/players/profile?name=Josh+Allen", nil)
	w := httptest.NewRecorder()
	h.GetPlayerProfile(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var profile PlayerProfile
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Player.Name != "Josh Allen" {
		t.Errorf("player = %s", profile.Player.Name)
	}
	// 387.2 / 17 = 22.8 per game
	if profile.PerformanceGrade != "A+" {
		t.Errorf("grade = %s, want A+", profile.PerformanceGrade)
	}
	if profile.Injured {
		t.Error("Josh Allen should not be injured")
	}
}

func TestGetPlayerProfileErrors(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/players/profile", nil)
	w := httptest.NewRecorder()
	h.GetPlayerProfile(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: status = %d, want 400", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/players/profile?name=Nobody", nil)
	w = httptest.NewRecorder()
	h.GetPlayerProfile(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown player: status = %d, want 404", w.Code)
	}
}

func TestGetReplacements(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/players/replacements?name=Christian+McCaffrey", nil)
	w := httptest.NewRecorder()
	h.GetReplacements(w, req)

	var replacements []models.PlayerRecord
	if err := json.NewDecoder(w.Body).Decode(&replacements); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(replacements) != 2 {
		t.Fatalf("got %d replacements, want 2", len(replacements))
	}
	if replacements[0].Name != "Saquon Barkley" {
		t.Errorf("first replacement = %s, want Saquon Barkley", replacements[0].Name)
	}
	for _, r := range replacements {
		if r.Position != models.PositionRB {
			t.Errorf("replacement %s has position %s", r.Name, r.Position)
		}
	}
}

func TestAnalyzeTrade(t *testing.T) {
	h, wh := newTestHandlers()

	body := bytes.NewBufferString(`{"player1":"Josh Allen","player2":"Lamar Jackson"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/trade/analyze", body)
	w := httptest.NewRecorder()
	h.AnalyzeTrade(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var eval models.TradeEvaluation
	if err := json.NewDecoder(w.Body).Decode(&eval); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eval.PlayerA.Name != "Josh Allen" || eval.PlayerB.Name != "Lamar Jackson" {
		t.Errorf("players = %s / %s", eval.PlayerA.Name, eval.PlayerB.Name)
	}
	if eval.Confidence < 50 || eval.Confidence > 95 {
		t.Errorf("confidence = %d out of range", eval.Confidence)
	}

	// Recording happens off the request path
	time.Sleep(50 * time.Millisecond)
	if len(wh.RecordedEvaluations()) != 1 {
		t.Errorf("recorded %d evaluations, want 1", len(wh.RecordedEvaluations()))
	}
}

func TestAnalyzeTradeErrors(t *testing.T) {
	h, _ := newTestHandlers()

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{not json", http.StatusBadRequest},
		{"missing players", http.MethodPost, `{}`, http.StatusBadRequest},
		{"self trade", http.MethodPost, `{"player1":"Josh Allen","player2":"Josh Allen"}`, http.StatusBadRequest},
		{"unknown player", http.MethodPost, `{"player1":"Josh Allen","player2":"Nobody"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/trade/analyze", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.AnalyzeTrade(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestSetInjuryPublishesEvent(t *testing.T) {
	h, _ := newTestHandlers()

	events := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(events)

	body := bytes.NewBufferString(`{"name":"Tyreek Hill","injured":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/injuries", body)
	w := httptest.NewRecorder()
	h.SetInjury(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	select {
	case event := <-events:
		if event.Type != pubsub.EventInjuryUpdate {
			t.Errorf("event type = %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no injury event published")
	}

	injured, err := h.store.IsInjured("Tyreek Hill")
	if err != nil {
		t.Fatalf("IsInjured: %v", err)
	}
	if !injured {
		t.Error("Tyreek Hill should be injured after update")
	}
}

func TestDraftPickAndState(t *testing.T) {
	h, _ := newTestHandlers()

	body := bytes.NewBufferString(`{"playerName":"Josh Allen","rosterId":"roster_1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick", body)
	w := httptest.NewRecorder()
	h.DraftPick(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var pick models.DraftPick
	if err := json.NewDecoder(w.Body).Decode(&pick); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pick.Number != 1 || pick.PlayerName != "Josh Allen" {
		t.Errorf("pick = %+v", pick)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/draft/state", nil)
	w = httptest.NewRecorder()
	h.GetDraftState(w, req)

	var state models.LeagueState
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.CurrentPick != 2 {
		t.Errorf("current pick = %d, want 2", state.CurrentPick)
	}
	if len(state.Picks) != 1 {
		t.Errorf("picks = %d, want 1", len(state.Picks))
	}
}

func TestDraftPickAlreadyDrafted(t *testing.T) {
	h, _ := newTestHandlers()

	for i := 0; i < 2; i++ {
		body := bytes.NewBufferString(`{"playerName":"Josh Allen","rosterId":"roster_1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/draft/pick", body)
		w := httptest.NewRecorder()
		h.DraftPick(w, req)

		if i == 0 && w.Code != http.StatusOK {
			t.Fatalf("first pick: status = %d", w.Code)
		}
		if i == 1 && w.Code != http.StatusBadRequest {
			t.Errorf("duplicate pick: status = %d, want 400", w.Code)
		}
	}
}

func TestResetDraft(t *testing.T) {
	h, _ := newTestHandlers()

	body := bytes.NewBufferString(`{"playerName":"Josh Allen","rosterId":"roster_1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick", body)
	h.DraftPick(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/draft/reset", nil)
	w := httptest.NewRecorder()
	h.ResetDraft(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/draft/state", nil)
	w = httptest.NewRecorder()
	h.GetDraftState(w, req)

	var state models.LeagueState
	json.NewDecoder(w.Body).Decode(&state)
	if len(state.Picks) != 0 {
		t.Errorf("picks after reset = %d, want 0", len(state.Picks))
	}
	if state.CurrentPick != 1 {
		t.Errorf("current pick after reset = %d, want 1", state.CurrentPick)
	}
}

func TestGetDraftRecommendations(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/draft/recommendations?rosterId=roster_1", nil)
	w := httptest.NewRecorder()
	h.GetDraftRecommendations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var recs []models.DraftRecommendation
	if err := json.NewDecoder(w.Body).Decode(&recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) == 0 || len(recs) > 10 {
		t.Fatalf("got %d recommendations", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Value > recs[i-1].Value {
			t.Errorf("recommendations not sorted at index %d", i)
		}
	}

	// Second request should hit the cache and agree with the first
	w2 := httptest.NewRecorder()
	h.GetDraftRecommendations(w2, httptest.NewRequest(http.MethodGet, "/api/draft/recommendations?rosterId=roster_1", nil))

	var cached []models.DraftRecommendation
	json.NewDecoder(w2.Body).Decode(&cached)
	if len(cached) != len(recs) {
		t.Errorf("cached %d recs vs %d fresh", len(cached), len(recs))
	}
}

func TestAddRosterAndList(t *testing.T) {
	h, _ := newTestHandlers()

	body := bytes.NewBufferString(`{"name":"Rivals","owner":"Alex"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rosters", body)
	w := httptest.NewRecorder()
	h.AddRoster(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/rosters", nil)
	w = httptest.NewRecorder()
	h.ListRosters(w, req)

	var rosters []models.Roster
	json.NewDecoder(w.Body).Decode(&rosters)
	if len(rosters) != 2 {
		t.Errorf("got %d rosters, want 2", len(rosters))
	}
}

func TestGetRosterStats(t *testing.T) {
	h, _ := newTestHandlers()

	body := bytes.NewBufferString(`{"playerName":"Josh Allen","rosterId":"roster_1"}`)
	h.DraftPick(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/draft/pick", body))

	req := httptest.NewRequest(http.MethodGet, "/api/roster/stats?rosterId=roster_1", nil)
	w := httptest.NewRecorder()
	h.GetRosterStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var stats struct {
		TotalPoints    float64 `json:"total_points"`
		HealthyPlayers int     `json:"healthy_players"`
		RosterSize     int     `json:"roster_size"`
	}
	json.NewDecoder(w.Body).Decode(&stats)
	if stats.RosterSize != 1 || stats.HealthyPlayers != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalPoints != 387.2 {
		t.Errorf("totalPoints = %f, want 387.2", stats.TotalPoints)
	}
}

func TestGetRosterStatsUnknownRoster(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/roster/stats?rosterId=nope", nil)
	w := httptest.NewRecorder()
	h.GetRosterStats(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetOpportunities(t *testing.T) {
	h, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/roster/opportunities?week=14", nil)
	w := httptest.NewRecorder()
	h.GetOpportunities(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var opportunities []models.WeeklyOpportunity
	if err := json.NewDecoder(w.Body).Decode(&opportunities); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Healthy WR, RB and TE all exist in the demo pool
	if len(opportunities) != 3 {
		t.Fatalf("got %d opportunities, want 3", len(opportunities))
	}
	for _, o := range opportunities {
		if o.Week != 14 {
			t.Errorf("week = %d, want 14", o.Week)
		}
		if o.Player.Name == "Christian McCaffrey" || o.Player.Name == "Travis Kelce" {
			t.Errorf("injured player %s suggested", o.Player.Name)
		}
	}
}

func TestEventsSSE(t *testing.T) {
	h, _ := newTestHandlers()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.EventsSSE(w, req)
		close(done)
	}()

	// Give the handler time to subscribe, then push an event through
	time.Sleep(50 * time.Millisecond)
	h.pubsub.Publish(pubsub.Event{Type: pubsub.EventDraftReset})
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SSE handler did not exit on context cancel")
	}

	body := w.Body.String()
	if !strings.Contains(body, `"type":"connected"`) {
		t.Errorf("missing connected frame: %q", body)
	}
	if !strings.Contains(body, pubsub.EventDraftReset) {
		t.Errorf("missing published event: %q", body)
	}
}
