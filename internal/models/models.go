package models

// Position identifies a player's roster position
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// SkillPositions are the positions considered by the draft ranker
var SkillPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// ParsePosition normalizes a raw position code. DST is an alias for DEF.
func ParsePosition(s string) Position {
	if s == "DST" {
		return PositionDEF
	}
	return Position(s)
}

// Valid reports whether the position is one of the known set
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF:
		return true
	}
	return false
}

// ScoringType identifies the league scoring format
type ScoringType string

const (
	ScoringStandard ScoringType = "standard"
	ScoringPPR      ScoringType = "ppr"
	ScoringHalfPPR  ScoringType = "half_ppr"
)

// PassingTotals holds season passing sums (quarterbacks)
type PassingTotals struct {
	Yards         float64 `json:"passing_yds_sum"`
	Touchdowns    float64 `json:"passing_td_sum"`
	Interceptions float64 `json:"passing_int_sum"`
}

// RushingTotals holds season rushing sums (quarterbacks and running backs)
type RushingTotals struct {
	Yards      float64 `json:"rushing_yds_sum"`
	Touchdowns float64 `json:"rushing_td_sum"`
}

// ReceivingTotals holds season receiving sums (backs, receivers, tight ends)
type ReceivingTotals struct {
	Yards      float64 `json:"receiving_yds_sum"`
	Touchdowns float64 `json:"receiving_td_sum"`
	Receptions float64 `json:"receiving_rec_sum"`
}

// DefenseTotals holds season defensive sums (team defenses)
type DefenseTotals struct {
	SoloTackles      float64 `json:"def_tackles_solo_sum"`
	AssistTackles    float64 `json:"def_tackles_ast_sum"`
	Sacks            float64 `json:"def_sacks_sum"`
	Interceptions    float64 `json:"def_int_sum"`
	PassesDefended   float64 `json:"def_passes_defended_sum"`
	ForcedFumbles    float64 `json:"def_forced_fumbles_sum"`
	FumbleRecoveries float64 `json:"def_fumbles_rec_sum"`
	Touchdowns       float64 `json:"def_td_sum"`
}

// SeasonTotals groups the position-specific stat blocks. Only the blocks
// meaningful for the player's position are set; nil blocks read as zero for
// display and never feed the value model.
type SeasonTotals struct {
	Passing     *PassingTotals   `json:"passing,omitempty"`
	Rushing     *RushingTotals   `json:"rushing,omitempty"`
	Receiving   *ReceivingTotals `json:"receiving,omitempty"`
	Defense     *DefenseTotals   `json:"defense,omitempty"`
	FumblesLost float64          `json:"fumbles_fl_sum,omitempty"`
}

// PlayerRecord is a single player-season row from the stats pipeline
type PlayerRecord struct {
	Name               string       `json:"name"`
	Team               string       `json:"team"`
	Position           Position     `json:"position"`
	TotalFantasyPoints float64      `json:"total_fantasy_points"`
	AvgFantasyPoints   float64      `json:"avg_fantasy_points"`
	Volatility         float64      `json:"volatility"`
	PredictedValue     float64      `json:"predicted_value"`
	GamesPlayed        int          `json:"games_played"`
	Season             int          `json:"season"`
	Totals             SeasonTotals `json:"totals"`
}

// TradeVerdict is the directional outcome of a trade evaluation
type TradeVerdict string

const (
	TradeAccept  TradeVerdict = "accept"
	TradeDecline TradeVerdict = "decline"
	TradeNeutral TradeVerdict = "neutral"
)

// TradeEvaluation compares two players from the perspective of the side
// holding PlayerA. Reasoning entries are ordered by rule evaluation.
type TradeEvaluation struct {
	PlayerA         *PlayerRecord `json:"player1"`
	PlayerB         *PlayerRecord `json:"player2"`
	ValueDifference float64       `json:"value_difference"`
	Recommendation  TradeVerdict  `json:"recommendation"`
	Reasoning       []string      `json:"reasoning"`
	Confidence      int           `json:"confidence"`
}

// DraftRecommendation is a ranked draft candidate with justification
type DraftRecommendation struct {
	Player       *PlayerRecord `json:"player"`
	Value        float64       `json:"value"`
	Tier         int           `json:"tier"`
	PositionRank int           `json:"position_rank"`
	OverallRank  int           `json:"overall_rank"`
	Reasoning    []string      `json:"reasoning"`
}

// Roster represents a managed fantasy team
type Roster struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Owner   string         `json:"owner"`
	Players []PlayerRecord `json:"players"`
}

// DraftPick records a completed selection
type DraftPick struct {
	Number     int    `json:"number"`
	PlayerName string `json:"playerName"`
	RosterID   string `json:"rosterId"`
}

// LeagueState is a read-only snapshot of the player pool and draft
type LeagueState struct {
	Players           []PlayerRecord `json:"players"`
	Rosters           []Roster       `json:"rosters"`
	Injured           []string       `json:"injured"`
	Picks             []DraftPick    `json:"picks"`
	CurrentPick       int            `json:"currentPick"`
	CurrentRosterID   string         `json:"currentRosterId,omitempty"`
	CurrentRosterName string         `json:"currentRosterName,omitempty"`
}

// OpportunityType classifies a weekly opportunity
type OpportunityType string

const (
	OpportunityTrendingUp   OpportunityType = "trending_up"
	OpportunityMatchup      OpportunityType = "matchup"
	OpportunityInjuryReturn OpportunityType = "injury_return"
	OpportunityWaiverTarget OpportunityType = "waiver_target"
)

// WeeklyOpportunity is a suggested roster action for the current week
type WeeklyOpportunity struct {
	Type       OpportunityType `json:"type"`
	Player     *PlayerRecord   `json:"player"`
	Reason     string          `json:"reason"`
	Confidence int             `json:"confidence"`
	Action     string          `json:"action"`
	Week       int             `json:"week,omitempty"`
}
