package api

import "net/http"

// SummonersHandler serves the recorded game webhooks.
type SummonersHandler struct {
	championPerformance http.HandlerFunc
	championRanking     http.HandlerFunc
}

// NewSummonersHandler creates a new summoners handler.
func NewSummonersHandler(deps SummonerDependencies) *SummonersHandler {
	return &SummonersHandler{
		championPerformance: webhook(deps, deps.ChampionPerformance),
		championRanking:     webhook(deps, deps.SummonerChampionRanking),
	}
}

// HandleChampionPerformance handles POST /summoners/champion_performance requests.
func (h *SummonersHandler) HandleChampionPerformance(w http.ResponseWriter, r *http.Request) {
	h.championPerformance(w, r)
}

// HandleChampionRanking handles POST /summoners/champion_ranking requests.
func (h *SummonersHandler) HandleChampionRanking(w http.ResponseWriter, r *http.Request) {
	h.championRanking(w, r)
}
