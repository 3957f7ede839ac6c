package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/rift/internal/adapters/mq/queue"
	"github.com/okian/rift/internal/domain/model"
)

// RefreshHandler queues cache refresh jobs.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// refreshRequest names one cached collection.
type refreshRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=rankings matchups champions"`
	Position    string `json:"position" validate:"required_if=Kind rankings"`
	Role        string `json:"role" validate:"required_if=Kind rankings"`
	Elo         string `json:"elo"`
	Champion    string `json:"champion" validate:"required_if=Kind matchups"`
	MatchupRole string `json:"matchup_role" validate:"required_if=Kind matchups"`
}

func (req refreshRequest) job() (model.RefreshJob, error) {
	job := model.RefreshJob{Kind: model.RefreshKind(req.Kind)}
	if job.Kind == model.RefreshChampions {
		return job, nil
	}
	elo, err := model.ParseElo(req.Elo)
	if err != nil {
		return job, err
	}
	if job.Kind == model.RefreshMatchups {
		role, err := model.ParseMatchupRole(req.MatchupRole)
		if err != nil {
			return job, err
		}
		job.Matchup = model.MatchupKey{Champion: req.Champion, Role: role, Elo: elo}
		return job, nil
	}
	stat, err := model.LookupStat(model.Positions, req.Position)
	if err != nil {
		return job, err
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return job, err
	}
	job.Ranking = model.RankingKey{Position: stat.Key, Elo: elo, Role: role}
	return job, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Job       string `json:"job"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostRefresh handles POST /refresh requests.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req refreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := checkParameters(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	job, err := req.job()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	queued, err := h.deps.Enqueue(r.Context(), job)
	switch {
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%w: %v", ErrBackpressure, err))
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
		return
	case !queued:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Job: job.ID(), Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Job: job.ID()})
}
