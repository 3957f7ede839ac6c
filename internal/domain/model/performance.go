package model

import "time"

// Summoner is a tracked player.
type Summoner struct {
	ID         int64
	Name       string
	Region     string
	AccountID  int64
	SummonerID int64
	UpdatedAt  time.Time
}

// Team is one side of a match.
type Team struct {
	ID             int64
	Side           int // 100 (blue) or 200 (red)
	TowerKills     int
	InhibitorKills int
	BaronKills     int
	DragonKills    int
}

// Match is a recorded game.
type Match struct {
	ID           int64
	GameID       int64
	QueueID      int
	SeasonID     int
	Region       string
	GameDuration int
	// WinningSide is the Side of the winning team.
	WinningSide  int
	Teams        []Team
	Performances []Performance
}

// Performance is one summoner's line in one match.
type Performance struct {
	ID                   int64
	SummonerID           int64
	MatchID              int64
	TeamID               int64
	Side                 int
	ParticipantID        int
	ChampionID           int64
	Role                 Role
	Kills                int
	Deaths               int
	Assists              int
	GoldEarned           int
	TotalMinionsKilled   int
	VisionScore          int
	DamageToChampions    int
	TotalHealingDone     int
	LargestKillingSpree  int
	NeutralMinionsKilled int
	// Victorious is true when the performance's team won the match.
	Victorious bool
}

// Metric implements aggregate.Record.
func (p Performance) Metric(field string) (float64, bool) {
	switch field {
	case "kills":
		return float64(p.Kills), true
	case "deaths":
		return float64(p.Deaths), true
	case "assists":
		return float64(p.Assists), true
	case "gold_earned":
		return float64(p.GoldEarned), true
	case "total_minions_killed":
		return float64(p.TotalMinionsKilled), true
	case "cs":
		return float64(p.TotalMinionsKilled + p.NeutralMinionsKilled), true
	case "vision_score":
		return float64(p.VisionScore), true
	case "damage_to_champions":
		return float64(p.DamageToChampions), true
	case "total_healing_done":
		return float64(p.TotalHealingDone), true
	case "largest_killing_spree":
		return float64(p.LargestKillingSpree), true
	case "won", "victorious":
		if p.Victorious {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// PerformanceStats are the per-game fields a summoner can be ranked by,
// with their spoken names.
var PerformanceStats = []Stat{
	{Key: "kda", Spoken: "KDA"},
	{Key: "kills", Spoken: "kills"},
	{Key: "deaths", Spoken: "deaths"},
	{Key: "assists", Spoken: "assists"},
	{Key: "won", Spoken: "win rate", Rate: true},
	{Key: "gold_earned", Spoken: "gold earned"},
	{Key: "cs", Spoken: "creep score"},
	{Key: "vision_score", Spoken: "vision score"},
	{Key: "damage_to_champions", Spoken: "damage to champions"},
	{Key: "games", Spoken: "games played"},
}
