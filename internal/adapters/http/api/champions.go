package api

import "net/http"

// ChampionsHandler serves the champion statistics webhooks.
type ChampionsHandler struct {
	ranking        http.HandlerFunc
	matchupRanking http.HandlerFunc
	matchup        http.HandlerFunc
	summary        http.HandlerFunc
}

// NewChampionsHandler creates a new champions handler.
func NewChampionsHandler(deps ChampionDependencies) *ChampionsHandler {
	return &ChampionsHandler{
		ranking:        webhook(deps, deps.ChampionRanking),
		matchupRanking: webhook(deps, deps.MatchupRanking),
		matchup:        webhook(deps, deps.Matchup),
		summary:        webhook(deps, deps.RolePerformanceSummary),
	}
}

// HandleRanking handles POST /champions/ranking requests.
func (h *ChampionsHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	h.ranking(w, r)
}

// HandleMatchupRanking handles POST /champions/matchup_ranking requests.
func (h *ChampionsHandler) HandleMatchupRanking(w http.ResponseWriter, r *http.Request) {
	h.matchupRanking(w, r)
}

// HandleMatchup handles POST /champions/matchup requests.
func (h *ChampionsHandler) HandleMatchup(w http.ResponseWriter, r *http.Request) {
	h.matchup(w, r)
}

// HandleRolePerformanceSummary handles POST /champions/role_performance_summary requests.
func (h *ChampionsHandler) HandleRolePerformanceSummary(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r)
}
