package scorecard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
	"github.com/callcoach/scorecard-backend-go/internal/service/access"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== fakes =====

type fakeUserRepo struct {
	users map[string]user.User
	edges map[string][]string
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListAgentIDsByTeamLeader(ctx context.Context, teamLeaderID string) ([]string, error) {
	return f.edges[teamLeaderID], nil
}

func (f *fakeUserRepo) ListAgentsByTeamLeader(ctx context.Context, teamLeaderID string) ([]user.User, error) {
	var agents []user.User
	for _, id := range f.edges[teamLeaderID] {
		agents = append(agents, f.users[id])
	}
	return agents, nil
}

func (f *fakeUserRepo) ListAgents(ctx context.Context) ([]user.User, error) {
	var agents []user.User
	for _, u := range f.users {
		if u.Role == user.RoleAgent {
			agents = append(agents, u)
		}
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents, nil
}

type naturalKey struct {
	agentID     string
	month, year int
}

type fakeScorecardRepo struct {
	mu        sync.Mutex
	records   map[naturalKey]scorecard.AgentMetric
	listCalls int
}

func newFakeScorecardRepo() *fakeScorecardRepo {
	return &fakeScorecardRepo{records: make(map[naturalKey]scorecard.AgentMetric)}
}

func (f *fakeScorecardRepo) GetByNaturalKey(ctx context.Context, agentID string, month, year int) (scorecard.AgentMetric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.records[naturalKey{agentID, month, year}]
	if !ok {
		return scorecard.AgentMetric{}, scorecard.ErrScorecardNotFound
	}
	return m, nil
}

func (f *fakeScorecardRepo) ListByAgentYear(ctx context.Context, agentID string, year int) ([]scorecard.AgentMetric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []scorecard.AgentMetric
	for key, m := range f.records {
		if key.agentID == agentID && key.year == year {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (f *fakeScorecardRepo) Upsert(ctx context.Context, metric scorecard.AgentMetric) (scorecard.AgentMetric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := naturalKey{metric.AgentID, metric.Month, metric.Year}
	if existing, ok := f.records[key]; ok {
		metric.ID = existing.ID
		metric.CreatedAt = existing.CreatedAt
	} else {
		metric.ID = uuid.NewString()
		metric.CreatedAt = time.Now()
	}
	metric.UpdatedAt = time.Now()
	f.records[key] = metric
	return metric, nil
}

func (f *fakeScorecardRepo) Delete(ctx context.Context, agentID string, month, year int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := naturalKey{agentID, month, year}
	if _, ok := f.records[key]; !ok {
		return scorecard.ErrScorecardNotFound
	}
	delete(f.records, key)
	return nil
}

// recordingCache captures invalidations so tests can assert them directly.
type recordingCache struct {
	mu            sync.Mutex
	entries       map[string]interface{}
	invalidations []string
	failNext      error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]interface{})}
}

func (c *recordingCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *recordingCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *recordingCache) InvalidatePrefix(prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext != nil {
		err := c.failNext
		c.failNext = nil
		return err
	}
	c.invalidations = append(c.invalidations, prefix)
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
	return nil
}

// ===== fixture =====

type fixture struct {
	users   *fakeUserRepo
	records *fakeScorecardRepo
	cache   *recordingCache
	svc     scorecard.ScorecardService
}

func newFixture() *fixture {
	tl := "t1"
	users := &fakeUserRepo{
		users: map[string]user.User{
			"a1": {ID: "a1", Name: "Agent One", Email: "a1@callcoach.test", Role: user.RoleAgent, TeamLeaderID: &tl},
			"a2": {ID: "a2", Name: "Agent Two", Email: "a2@callcoach.test", Role: user.RoleAgent, TeamLeaderID: &tl},
			"a3": {ID: "a3", Name: "Agent Three", Email: "a3@callcoach.test", Role: user.RoleAgent},
			"t1": {ID: "t1", Name: "Leader One", Email: "t1@callcoach.test", Role: user.RoleTeamLeader},
			"m1": {ID: "m1", Name: "Manager One", Email: "m1@callcoach.test", Role: user.RoleManager},
		},
		edges: map[string][]string{"t1": {"a1", "a2"}},
	}
	records := newFakeScorecardRepo()
	c := newRecordingCache()
	svc := NewScorecardService(users, records, access.NewResolver(users), c, 2*time.Minute)
	return &fixture{users: users, records: records, cache: c, svc: svc}
}

var (
	agentA1 = user.Principal{ID: "a1", Role: user.RoleAgent}
	leader  = user.Principal{ID: "t1", Role: user.RoleTeamLeader}
	manager = user.Principal{ID: "m1", Role: user.RoleManager}
)

func seedRaw(t *testing.T, fx *fixture, agentID string, month, year int, counters scorecard.RawCounters) *scorecard.AgentMetric {
	t.Helper()
	persisted, err := fx.svc.Upsert(context.Background(), manager, scorecard.UpsertScorecardRequest{
		AgentID: agentID,
		Month:   month,
		Year:    year,
		RawData: &counters,
	})
	require.NoError(t, err)
	return persisted
}

func perfectCounters() scorecard.RawCounters {
	return scorecard.RawCounters{
		ScheduledHours:    fp(160),
		ActualHours:       fp(160),
		ScheduledDays:     fp(20),
		DaysPresent:       fp(20),
		TotalShifts:       fp(20),
		OnTimeArrivals:    fp(20),
		TotalBreaks:       fp(40),
		BreaksWithinLimit: fp(40),
		TasksAssigned:     fp(200),
		TasksCompleted:    fp(200),
		ExpectedOutput:    fp(100),
		ActualOutput:      fp(100),
		TotalTasks:        fp(200),
		ErrorFreeTasks:    fp(200),
		StandardTime:      fp(300),
		ActualTimeSpent:   fp(300),
	}
}

// ===== read path =====

func TestService_Get_ForbiddenForOtherAgent(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	_, err := fx.svc.Get(context.Background(), agentA1, "a2", 2025, nil)
	assert.ErrorIs(t, err, scorecard.ErrForbidden)
	// Denied before any store or cache access.
	assert.Equal(t, 0, fx.records.listCalls)
}

func TestService_Get_NonExistentAgentSignals(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	// A restricted principal probing a missing agent gets the same denial as
	// probing a real agent outside their visibility.
	_, err := fx.svc.Get(ctx, agentA1, "ghost", 2025, nil)
	assert.ErrorIs(t, err, scorecard.ErrForbidden)

	_, errReal := fx.svc.Get(ctx, agentA1, "a3", 2025, nil)
	assert.ErrorIs(t, errReal, scorecard.ErrForbidden)

	// Managers can see everyone, so a missing agent is a plain not-found.
	_, err = fx.svc.Get(ctx, manager, "ghost", 2025, nil)
	assert.ErrorIs(t, err, scorecard.ErrAgentNotFound)
}

func TestService_Get_YearlyViewWithAverage(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	seedRaw(t, fx, "a1", 1, 2025, perfectCounters())
	seedRaw(t, fx, "a1", 2, 2025, perfectCounters())

	resp, err := fx.svc.Get(ctx, leader, "a1", 2025, nil)
	require.NoError(t, err)

	assert.Equal(t, "a1", resp.Agent.ID)
	assert.Len(t, resp.Metrics, 2)
	assert.Nil(t, resp.Trends)
	require.NotNil(t, resp.YearlyAverage)
	assert.Equal(t, 100.0, resp.YearlyAverage.Percentage)
	assert.Equal(t, 2, resp.YearlyAverage.Records)
}

func TestService_Get_YearlyViewNoRecords(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	resp, err := fx.svc.Get(context.Background(), agentA1, "a1", 2025, nil)
	require.NoError(t, err)

	assert.Empty(t, resp.Metrics)
	assert.Nil(t, resp.YearlyAverage)
	assert.Nil(t, resp.Trends)
}

func TestService_Get_MonthlyViewWithTrends(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	low := perfectCounters()
	low.TasksCompleted = fp(100) // 50% completion in February
	seedRaw(t, fx, "a1", 2, 2025, low)
	seedRaw(t, fx, "a1", 3, 2025, perfectCounters())

	month := 3
	resp, err := fx.svc.Get(ctx, leader, "a1", 2025, &month)
	require.NoError(t, err)

	require.Len(t, resp.Metrics, 1)
	assert.Equal(t, 3, resp.Metrics[0].Month)
	assert.Nil(t, resp.YearlyAverage)

	require.NotNil(t, resp.Trends)
	require.NotNil(t, resp.Trends.Metrics)
	assert.Equal(t, 50.0, resp.Trends.Metrics.TaskCompletionRate)
}

func TestService_Get_TrendAbsentWithoutPreviousPeriod(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	// Only a December 2024 record exists; no November 2024.
	seedRaw(t, fx, "a1", 12, 2024, perfectCounters())

	month := 12
	resp, err := fx.svc.Get(context.Background(), manager, "a1", 2024, &month)
	require.NoError(t, err)

	require.Len(t, resp.Metrics, 1)
	assert.Nil(t, resp.Trends, "missing prior period must be absent, not zero-filled")
}

func TestService_Get_JanuaryTrendCrossesYearBoundary(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	seedRaw(t, fx, "a1", 12, 2024, perfectCounters())
	low := perfectCounters()
	low.DaysPresent = fp(10) // 50% attendance in January
	seedRaw(t, fx, "a1", 1, 2025, low)

	month := 1
	resp, err := fx.svc.Get(context.Background(), manager, "a1", 2025, &month)
	require.NoError(t, err)

	require.NotNil(t, resp.Trends)
	require.NotNil(t, resp.Trends.Metrics)
	assert.Equal(t, -50.0, resp.Trends.Metrics.AttendanceRate)
}

func TestService_Get_ServesFromCacheWithinTTL(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	seedRaw(t, fx, "a1", 3, 2025, perfectCounters())
	fx.records.listCalls = 0

	first, err := fx.svc.Get(ctx, leader, "a1", 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fx.records.listCalls)

	second, err := fx.svc.Get(ctx, leader, "a1", 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fx.records.listCalls, "second read must be a cache hit")
	assert.Same(t, first, second)
}

// ===== write path =====

func TestService_Upsert_ValidationErrors(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	// Neither scheme supplied.
	_, err := fx.svc.Upsert(ctx, manager, scorecard.UpsertScorecardRequest{
		AgentID: "a1", Month: 3, Year: 2025,
	})
	require.Error(t, err)

	// Both schemes supplied.
	_, err = fx.svc.Upsert(ctx, manager, scorecard.UpsertScorecardRequest{
		AgentID:       "a1",
		Month:         3,
		Year:          2025,
		LegacyMetrics: &scorecard.LegacyMetricsInput{Service: ip(3)},
		RawData:       &scorecard.RawCounters{},
	})
	require.Error(t, err)

	// Month out of range.
	_, err = fx.svc.Upsert(ctx, manager, scorecard.UpsertScorecardRequest{
		AgentID: "a1", Month: 13, Year: 2025,
		RawData: &scorecard.RawCounters{},
	})
	require.Error(t, err)
}

func TestService_Upsert_AgentAlwaysForbidden(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	_, err := fx.svc.Upsert(context.Background(), agentA1, scorecard.UpsertScorecardRequest{
		AgentID: "a1", Month: 3, Year: 2025,
		RawData: &scorecard.RawCounters{},
	})
	assert.ErrorIs(t, err, scorecard.ErrForbidden)
}

func TestService_Upsert_TeamLeaderScope(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	// Supervised agent: allowed.
	_, err := fx.svc.Upsert(ctx, leader, scorecard.UpsertScorecardRequest{
		AgentID: "a1", Month: 3, Year: 2025,
		RawData: &scorecard.RawCounters{},
	})
	require.NoError(t, err)

	// Unsupervised agent: denied.
	_, err = fx.svc.Upsert(ctx, leader, scorecard.UpsertScorecardRequest{
		AgentID: "a3", Month: 3, Year: 2025,
		RawData: &scorecard.RawCounters{},
	})
	assert.ErrorIs(t, err, scorecard.ErrForbidden)
}

func TestService_Upsert_RawSchemeComputesScores(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	persisted := seedRaw(t, fx, "a1", 3, 2025, perfectCounters())

	assert.Equal(t, scorecard.SchemeRaw, persisted.Scheme)
	assert.Equal(t, 100.0, persisted.Metrics.TaskCompletionRate)
	assert.Equal(t, 950.0, persisted.TotalScore) // 100 x default weight sum 9.5
	assert.Equal(t, 100.0, persisted.Percentage)
	assert.NotEmpty(t, persisted.ID)
}

func TestService_Upsert_LegacySchemeComputesScores(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	persisted, err := fx.svc.Upsert(context.Background(), leader, scorecard.UpsertScorecardRequest{
		AgentID: "a1",
		Month:   3,
		Year:    2025,
		LegacyMetrics: &scorecard.LegacyMetricsInput{
			Service: ip(5), Productivity: ip(5), Quality: ip(5), Assiduity: ip(5),
			Performance: ip(5), Adherence: ip(5), Lateness: ip(5), BreakExceeds: ip(5),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, scorecard.SchemeLegacy, persisted.Scheme)
	assert.Equal(t, 40.0, persisted.TotalScore)
	assert.Equal(t, 100.0, persisted.Percentage)
}

func TestService_Upsert_WeightOverridesAffectScore(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	persisted, err := fx.svc.Upsert(context.Background(), manager, scorecard.UpsertScorecardRequest{
		AgentID: "a1",
		Month:   3,
		Year:    2025,
		RawData: &scorecard.RawCounters{
			TasksAssigned:  fp(100),
			TasksCompleted: fp(100),
		},
		Weights: map[string]float64{"task_completion_rate": 9.5},
	})
	require.NoError(t, err)

	// Completion weight raised from 1.5 to 9.5: weight sum becomes 17.5.
	assert.Equal(t, 950.0, persisted.TotalScore)
	assert.Equal(t, 54.29, persisted.Percentage)
}

func TestService_Upsert_NaturalKeyLastWriterWins(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	first := seedRaw(t, fx, "a1", 3, 2025, perfectCounters())

	low := perfectCounters()
	low.TasksCompleted = fp(0)
	second := seedRaw(t, fx, "a1", 3, 2025, low)

	// Exactly one record for the triple, carrying the second payload.
	records, err := fx.records.ListByAgentYear(ctx, "a1", 2025)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0.0, records[0].Metrics.TaskCompletionRate)
}

func TestService_Upsert_InvalidatesAgentCache(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	seedRaw(t, fx, "a1", 3, 2025, perfectCounters())

	// Populate the cache inside the TTL window.
	month := 3
	stale, err := fx.svc.Get(ctx, leader, "a1", 2025, &month)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stale.Metrics[0].Percentage)

	// Write through the same natural key.
	low := perfectCounters()
	low.TasksCompleted = fp(0)
	seedRaw(t, fx, "a1", 3, 2025, low)

	assert.Contains(t, fx.cache.invalidations, "scorecard:a1:")

	// The next read recomputes from the authoritative store.
	fresh, err := fx.svc.Get(ctx, leader, "a1", 2025, &month)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fresh.Metrics[0].Metrics.TaskCompletionRate)
	assert.NotEqual(t, stale.Metrics[0].Percentage, fresh.Metrics[0].Percentage)
}

func TestService_Upsert_InvalidationFailureFailsWrite(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	fx.cache.failNext = errors.New("cache backend unavailable")

	_, err := fx.svc.Upsert(context.Background(), manager, scorecard.UpsertScorecardRequest{
		AgentID: "a1", Month: 3, Year: 2025,
		RawData: &scorecard.RawCounters{},
	})
	require.Error(t, err, "a write with a stale cache entry must not report success")
}

// ===== delete path =====

func TestService_Delete_RoleMatrix(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	seedRaw(t, fx, "a1", 3, 2025, perfectCounters())

	// Agents and team leaders never delete, even for supervised agents.
	err := fx.svc.Delete(ctx, agentA1, "a1", 3, 2025)
	assert.ErrorIs(t, err, scorecard.ErrForbidden)

	err = fx.svc.Delete(ctx, leader, "a1", 3, 2025)
	assert.ErrorIs(t, err, scorecard.ErrForbidden)

	// Managers delete; the record and the agent's cache entries go together.
	require.NoError(t, fx.svc.Delete(ctx, manager, "a1", 3, 2025))
	assert.Contains(t, fx.cache.invalidations, "scorecard:a1:")

	_, err = fx.records.GetByNaturalKey(ctx, "a1", 3, 2025)
	assert.ErrorIs(t, err, scorecard.ErrScorecardNotFound)
}

func TestService_Delete_NotFound(t *testing.T) {
	t.Parallel()
	fx := newFixture()

	err := fx.svc.Delete(context.Background(), manager, "a1", 3, 2025)
	assert.ErrorIs(t, err, scorecard.ErrScorecardNotFound)
}

// ===== agent listing =====

func TestService_ListVisibleAgents(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	ctx := context.Background()

	self, err := fx.svc.ListVisibleAgents(ctx, agentA1)
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, "a1", self[0].ID)

	supervised, err := fx.svc.ListVisibleAgents(ctx, leader)
	require.NoError(t, err)
	require.Len(t, supervised, 2)

	everyone, err := fx.svc.ListVisibleAgents(ctx, manager)
	require.NoError(t, err)
	require.Len(t, everyone, 3)
}
