// Package api declares the webhook contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ChampionDependencies
	SummonerDependencies
	RefreshDependencies
}

// Explainer turns a query error into the sentence spoken to the user.
type Explainer interface {
	Explain(ctx context.Context, err error) string
}

// ChampionDependencies answers champion statistics questions.
type ChampionDependencies interface {
	Explainer
	ChampionRanking(ctx context.Context, q types.ChampionRanking) (string, error)
	MatchupRanking(ctx context.Context, q types.MatchupRanking) (string, error)
	Matchup(ctx context.Context, q types.Matchup) (string, error)
	RolePerformanceSummary(ctx context.Context, q types.RolePerformanceSummary) (string, error)
}

// SummonerDependencies answers questions about recorded player games.
type SummonerDependencies interface {
	Explainer
	ChampionPerformance(ctx context.Context, q types.ChampionPerformance) (string, error)
	SummonerChampionRanking(ctx context.Context, q types.SummonerChampionRanking) (string, error)
}

// RefreshDependencies accepts cache refresh jobs.
type RefreshDependencies interface {
	// Enqueue reports false with a nil error when the job is already in flight.
	Enqueue(ctx context.Context, job model.RefreshJob) (bool, error)
}

// Server wires HTTP routes for the webhook API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	championsHandler *ChampionsHandler
	summonersHandler *SummonersHandler
	refreshHandler   *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		championsHandler: NewChampionsHandler(deps),
		summonersHandler: NewSummonersHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))

	mux.HandleFunc("/champions/ranking", MetricsMiddleware(s.championsHandler.HandleRanking, "champions_ranking"))
	mux.HandleFunc("/champions/matchup_ranking", MetricsMiddleware(s.championsHandler.HandleMatchupRanking, "champions_matchup_ranking"))
	mux.HandleFunc("/champions/matchup", MetricsMiddleware(s.championsHandler.HandleMatchup, "champions_matchup"))
	mux.HandleFunc("/champions/role_performance_summary", MetricsMiddleware(s.championsHandler.HandleRolePerformanceSummary, "champions_role_performance_summary"))

	mux.HandleFunc("/summoners/champion_performance", MetricsMiddleware(s.summonersHandler.HandleChampionPerformance, "summoners_champion_performance"))
	mux.HandleFunc("/summoners/champion_ranking", MetricsMiddleware(s.summonersHandler.HandleChampionRanking, "summoners_champion_ranking"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
