package scorecard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/cache"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/metrics"
	"github.com/callcoach/scorecard-backend-go/internal/service/access"
	"golang.org/x/sync/errgroup"
)

type ScorecardServiceImpl struct {
	users    user.UserRepository
	records  scorecard.ScorecardRepository
	resolver *access.Resolver
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewScorecardService(
	users user.UserRepository,
	records scorecard.ScorecardRepository,
	resolver *access.Resolver,
	c cache.Cache,
	cacheTTL time.Duration,
) scorecard.ScorecardService {
	return &ScorecardServiceImpl{
		users:    users,
		records:  records,
		resolver: resolver,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// cacheKey composes the view key. The payload is identical for every
// authorized viewer (authorization runs before any cache lookup), so the
// principal is deliberately not part of the key.
func cacheKey(agentID string, year int, month *int) string {
	if month == nil {
		return fmt.Sprintf("scorecard:%s:%d:all", agentID, year)
	}
	return fmt.Sprintf("scorecard:%s:%d:%d", agentID, year, *month)
}

// agentCachePrefix matches every cached view for an agent, across all
// year/month combinations.
func agentCachePrefix(agentID string) string {
	return "scorecard:" + agentID + ":"
}

func (s *ScorecardServiceImpl) Get(ctx context.Context, principal user.Principal, agentID string, year int, month *int) (*scorecard.ScorecardResponse, error) {
	allowed, err := s.resolver.CanView(ctx, principal, agentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.ScorecardOps.WithLabelValues("get", metrics.OutcomeForbidden).Inc()
		return nil, scorecard.ErrForbidden
	}

	key := cacheKey(agentID, year, month)
	if cached, ok := s.cache.Get(key); ok {
		if resp, ok := cached.(*scorecard.ScorecardResponse); ok {
			metrics.CacheHits.Inc()
			metrics.ScorecardOps.WithLabelValues("get", metrics.OutcomeOK).Inc()
			return resp, nil
		}
	}
	metrics.CacheMisses.Inc()

	var (
		agent       user.User
		yearRecs    []scorecard.AgentMetric
		previous    *scorecard.AgentMetric
		seeEveryone = principal.Role.CanSeeEveryone()
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		agent, err = s.users.GetByID(gCtx, agentID)
		if errors.Is(err, user.ErrUserNotFound) {
			// Restricted principals already passed the visibility check, so
			// the target exists for them; only roles that can see everyone
			// learn that an agent is missing.
			if seeEveryone {
				return scorecard.ErrAgentNotFound
			}
			return scorecard.ErrForbidden
		}
		return err
	})

	g.Go(func() error {
		var err error
		yearRecs, err = s.records.ListByAgentYear(gCtx, agentID, year)
		return err
	})

	if month != nil {
		prevMonth, prevYear := PreviousPeriod(*month, year)
		g.Go(func() error {
			rec, err := s.records.GetByNaturalKey(gCtx, agentID, prevMonth, prevYear)
			if errors.Is(err, scorecard.ErrScorecardNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			previous = &rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, scorecard.ErrForbidden) || errors.Is(err, scorecard.ErrAgentNotFound) {
			metrics.ScorecardOps.WithLabelValues("get", metrics.OutcomeForbidden).Inc()
			return nil, err
		}
		metrics.ScorecardOps.WithLabelValues("get", metrics.OutcomeError).Inc()
		return nil, err
	}

	resp := s.composeResponse(agent, yearRecs, previous, month)
	s.cache.Set(key, resp, s.cacheTTL)
	metrics.ScorecardOps.WithLabelValues("get", metrics.OutcomeOK).Inc()
	return resp, nil
}

// composeResponse builds the monthly view (one record plus trends when the
// previous period exists) or the yearly view (all records plus the yearly
// average when at least one record exists).
func (s *ScorecardServiceImpl) composeResponse(agent user.User, yearRecs []scorecard.AgentMetric, previous *scorecard.AgentMetric, month *int) *scorecard.ScorecardResponse {
	resp := &scorecard.ScorecardResponse{
		Agent: scorecard.AgentSummary{
			ID:           agent.ID,
			Name:         agent.Name,
			Email:        agent.Email,
			TeamLeaderID: agent.TeamLeaderID,
		},
		Metrics: []scorecard.MetricResponse{},
	}

	if month == nil {
		for _, rec := range yearRecs {
			resp.Metrics = append(resp.Metrics, toMetricResponse(rec))
		}
		resp.YearlyAverage = YearlyAverage(yearRecs)
		return resp
	}

	var current *scorecard.AgentMetric
	for i := range yearRecs {
		if yearRecs[i].Month == *month {
			current = &yearRecs[i]
			break
		}
	}
	if current != nil {
		resp.Metrics = append(resp.Metrics, toMetricResponse(*current))
		resp.Trends = Trend(current, previous)
	}
	return resp
}

func (s *ScorecardServiceImpl) Upsert(ctx context.Context, principal user.Principal, req scorecard.UpsertScorecardRequest) (*scorecard.AgentMetric, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	allowed, err := s.resolver.CanModify(ctx, principal, req.AgentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.ScorecardOps.WithLabelValues("upsert", metrics.OutcomeForbidden).Inc()
		return nil, scorecard.ErrForbidden
	}

	if _, err := s.users.GetByID(ctx, req.AgentID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			if principal.Role.CanSeeEveryone() {
				return nil, scorecard.ErrAgentNotFound
			}
			return nil, scorecard.ErrForbidden
		}
		return nil, err
	}

	metric := scorecard.AgentMetric{
		AgentID: req.AgentID,
		Month:   req.Month,
		Year:    req.Year,
		Notes:   req.Notes,
	}

	if req.RawData != nil {
		metric.Scheme = scorecard.SchemeRaw
		metric.Raw = req.RawData
		metric.Metrics = Normalize(*req.RawData)
		metric.MetricWeights = ApplyMetricWeightOverrides(req.Weights)
		metric.LegacyWeights = DefaultLegacyWeights()
		metric.TotalScore, metric.Percentage = ScoreMetrics(metric.Metrics, metric.MetricWeights)
	} else {
		metric.Scheme = scorecard.SchemeLegacy
		metric.Legacy = ValidateLegacyScores(*req.LegacyMetrics)
		metric.LegacyWeights = ApplyLegacyWeightOverrides(req.Weights)
		metric.MetricWeights = DefaultMetricWeights()
		metric.TotalScore, metric.Percentage = ScoreLegacy(metric.Legacy, metric.LegacyWeights)
	}

	persisted, err := s.records.Upsert(ctx, metric)
	if err != nil {
		metrics.ScorecardOps.WithLabelValues("upsert", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("upsert scorecard: %w", err)
	}

	// The write is only complete once the agent's cached views are gone; a
	// failed invalidation fails the write so no stale entry survives.
	if err := s.cache.InvalidatePrefix(agentCachePrefix(req.AgentID)); err != nil {
		metrics.ScorecardOps.WithLabelValues("upsert", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("invalidate scorecard cache: %w", err)
	}

	metrics.ScorecardOps.WithLabelValues("upsert", metrics.OutcomeOK).Inc()
	return &persisted, nil
}

func (s *ScorecardServiceImpl) Delete(ctx context.Context, principal user.Principal, agentID string, month, year int) error {
	allowed, err := s.resolver.CanDelete(ctx, principal, agentID)
	if err != nil {
		return err
	}
	if !allowed {
		metrics.ScorecardOps.WithLabelValues("delete", metrics.OutcomeForbidden).Inc()
		return scorecard.ErrForbidden
	}

	if err := s.records.Delete(ctx, agentID, month, year); err != nil {
		if errors.Is(err, scorecard.ErrScorecardNotFound) {
			return err
		}
		metrics.ScorecardOps.WithLabelValues("delete", metrics.OutcomeError).Inc()
		return fmt.Errorf("delete scorecard: %w", err)
	}

	if err := s.cache.InvalidatePrefix(agentCachePrefix(agentID)); err != nil {
		metrics.ScorecardOps.WithLabelValues("delete", metrics.OutcomeError).Inc()
		return fmt.Errorf("invalidate scorecard cache: %w", err)
	}

	metrics.ScorecardOps.WithLabelValues("delete", metrics.OutcomeOK).Inc()
	return nil
}

func (s *ScorecardServiceImpl) ListVisibleAgents(ctx context.Context, principal user.Principal) ([]user.User, error) {
	switch principal.Role {
	case user.RoleManager, user.RoleAdmin:
		return s.users.ListAgents(ctx)
	case user.RoleTeamLeader:
		return s.users.ListAgentsByTeamLeader(ctx, principal.ID)
	case user.RoleAgent:
		self, err := s.users.GetByID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		return []user.User{self}, nil
	default:
		return nil, scorecard.ErrForbidden
	}
}

func toMetricResponse(m scorecard.AgentMetric) scorecard.MetricResponse {
	resp := scorecard.MetricResponse{
		ID:         m.ID,
		AgentID:    m.AgentID,
		Month:      m.Month,
		Year:       m.Year,
		Scheme:     m.Scheme,
		TotalScore: m.TotalScore,
		Percentage: m.Percentage,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  m.UpdatedAt.Format(time.RFC3339),
	}

	switch m.Scheme {
	case scorecard.SchemeRaw:
		mm := m.Metrics
		mw := m.MetricWeights
		resp.Metrics = &mm
		resp.MetricWeights = &mw
		resp.Raw = m.Raw
	case scorecard.SchemeLegacy:
		ls := m.Legacy
		lw := m.LegacyWeights
		resp.Legacy = &ls
		resp.LegacyWeights = &lw
	}

	return resp
}
