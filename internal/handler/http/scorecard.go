package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
	"github.com/callcoach/scorecard-backend-go/internal/handler/http/middleware"
	"github.com/callcoach/scorecard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScorecardHandler interface {
	// Get returns the monthly or yearly scorecard view for an agent
	Get(w http.ResponseWriter, r *http.Request)
	// Upsert creates or replaces the record for (agent, month, year)
	Upsert(w http.ResponseWriter, r *http.Request)
	// Delete removes one record by natural key
	Delete(w http.ResponseWriter, r *http.Request)
	// ListAgents returns the agents visible to the caller
	ListAgents(w http.ResponseWriter, r *http.Request)
}

type scorecardHandlerImpl struct {
	scorecardService scorecard.ScorecardService
}

func NewScorecardHandler(scorecardService scorecard.ScorecardService) ScorecardHandler {
	return &scorecardHandlerImpl{scorecardService: scorecardService}
}

// Get handles GET /agents/{agentID}/scorecards?year=&month=
// year defaults to the current year; omitting month selects the yearly view.
func (h *scorecardHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	agentID := chi.URLParam(r, "agentID")

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "invalid year", nil)
			return
		}
	}

	var month *int
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			response.BadRequest(w, "invalid month", nil)
			return
		}
		month = &m
	}

	result, err := h.scorecardService.Get(r.Context(), principal, agentID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upsert handles PUT /agents/{agentID}/scorecards
func (h *scorecardHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req scorecard.UpsertScorecardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}
	req.AgentID = chi.URLParam(r, "agentID")

	persisted, err := h.scorecardService.Upsert(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scorecard saved", persisted)
}

// Delete handles DELETE /agents/{agentID}/scorecards/{year}/{month}
func (h *scorecardHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	agentID := chi.URLParam(r, "agentID")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "invalid year", nil)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(w, "invalid month", nil)
		return
	}

	if err := h.scorecardService.Delete(r.Context(), principal, agentID, month, year); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scorecard deleted", nil)
}

// ListAgents handles GET /agents
func (h *scorecardHandlerImpl) ListAgents(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	agents, err := h.scorecardService.ListVisibleAgents(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summaries := make([]scorecard.AgentSummary, 0, len(agents))
	for _, a := range agents {
		summaries = append(summaries, toAgentSummary(a))
	}

	response.Success(w, summaries)
}

func toAgentSummary(u user.User) scorecard.AgentSummary {
	return scorecard.AgentSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		TeamLeaderID: u.TeamLeaderID,
	}
}
