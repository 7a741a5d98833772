package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type scorecardRepositoryImpl struct {
	q database.Querier
}

func NewScorecardRepository(db *database.DB) scorecard.ScorecardRepository {
	return &scorecardRepositoryImpl{q: db.Pool}
}

const metricColumns = `
	id, agent_id, month, year, scheme,
	legacy_scores, legacy_weights, metrics, metric_weights, raw_counters,
	total_score, percentage, notes, created_at, updated_at
`

func scanMetric(row pgx.Row) (scorecard.AgentMetric, error) {
	var (
		m             scorecard.AgentMetric
		legacyScores  []byte
		legacyWeights []byte
		metricsJSON   []byte
		metricWeights []byte
		rawCounters   []byte
	)

	err := row.Scan(
		&m.ID, &m.AgentID, &m.Month, &m.Year, &m.Scheme,
		&legacyScores, &legacyWeights, &metricsJSON, &metricWeights, &rawCounters,
		&m.TotalScore, &m.Percentage, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return m, err
	}

	if err := json.Unmarshal(legacyScores, &m.Legacy); err != nil {
		return m, fmt.Errorf("failed to decode legacy scores: %w", err)
	}
	if err := json.Unmarshal(legacyWeights, &m.LegacyWeights); err != nil {
		return m, fmt.Errorf("failed to decode legacy weights: %w", err)
	}
	if err := json.Unmarshal(metricsJSON, &m.Metrics); err != nil {
		return m, fmt.Errorf("failed to decode metrics: %w", err)
	}
	if err := json.Unmarshal(metricWeights, &m.MetricWeights); err != nil {
		return m, fmt.Errorf("failed to decode metric weights: %w", err)
	}
	if len(rawCounters) > 0 {
		var raw scorecard.RawCounters
		if err := json.Unmarshal(rawCounters, &raw); err != nil {
			return m, fmt.Errorf("failed to decode raw counters: %w", err)
		}
		m.Raw = &raw
	}

	return m, nil
}

func (r *scorecardRepositoryImpl) GetByNaturalKey(ctx context.Context, agentID string, month, year int) (scorecard.AgentMetric, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM agent_metrics
		WHERE agent_id = $1 AND month = $2 AND year = $3
	`, metricColumns)

	m, err := scanMetric(r.q.QueryRow(ctx, query, agentID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scorecard.AgentMetric{}, scorecard.ErrScorecardNotFound
		}
		return scorecard.AgentMetric{}, fmt.Errorf("failed to get scorecard: %w", err)
	}
	return m, nil
}

func (r *scorecardRepositoryImpl) ListByAgentYear(ctx context.Context, agentID string, year int) ([]scorecard.AgentMetric, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM agent_metrics
		WHERE agent_id = $1 AND year = $2
		ORDER BY month
	`, metricColumns)

	rows, err := r.q.Query(ctx, query, agentID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list scorecards: %w", err)
	}
	defer rows.Close()

	var records []scorecard.AgentMetric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scorecard: %w", err)
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

func (r *scorecardRepositoryImpl) Upsert(ctx context.Context, metric scorecard.AgentMetric) (scorecard.AgentMetric, error) {
	legacyScores, err := json.Marshal(metric.Legacy)
	if err != nil {
		return scorecard.AgentMetric{}, fmt.Errorf("failed to encode legacy scores: %w", err)
	}
	legacyWeights, err := json.Marshal(metric.LegacyWeights)
	if err != nil {
		return scorecard.AgentMetric{}, fmt.Errorf("failed to encode legacy weights: %w", err)
	}
	metricsJSON, err := json.Marshal(metric.Metrics)
	if err != nil {
		return scorecard.AgentMetric{}, fmt.Errorf("failed to encode metrics: %w", err)
	}
	metricWeights, err := json.Marshal(metric.MetricWeights)
	if err != nil {
		return scorecard.AgentMetric{}, fmt.Errorf("failed to encode metric weights: %w", err)
	}
	var rawCounters []byte
	if metric.Raw != nil {
		rawCounters, err = json.Marshal(metric.Raw)
		if err != nil {
			return scorecard.AgentMetric{}, fmt.Errorf("failed to encode raw counters: %w", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO agent_metrics (
			id, agent_id, month, year, scheme,
			legacy_scores, legacy_weights, metrics, metric_weights, raw_counters,
			total_score, percentage, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (agent_id, month, year) DO UPDATE SET
			scheme = EXCLUDED.scheme,
			legacy_scores = EXCLUDED.legacy_scores,
			legacy_weights = EXCLUDED.legacy_weights,
			metrics = EXCLUDED.metrics,
			metric_weights = EXCLUDED.metric_weights,
			raw_counters = EXCLUDED.raw_counters,
			total_score = EXCLUDED.total_score,
			percentage = EXCLUDED.percentage,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING %s
	`, metricColumns)

	persisted, err := scanMetric(r.q.QueryRow(ctx, query,
		uuid.NewString(), metric.AgentID, metric.Month, metric.Year, metric.Scheme,
		legacyScores, legacyWeights, metricsJSON, metricWeights, rawCounters,
		metric.TotalScore, metric.Percentage, metric.Notes,
	))
	if err != nil {
		return scorecard.AgentMetric{}, fmt.Errorf("failed to upsert scorecard: %w", err)
	}
	return persisted, nil
}

func (r *scorecardRepositoryImpl) Delete(ctx context.Context, agentID string, month, year int) error {
	query := `
		DELETE FROM agent_metrics
		WHERE agent_id = $1 AND month = $2 AND year = $3
	`

	tag, err := r.q.Exec(ctx, query, agentID, month, year)
	if err != nil {
		return fmt.Errorf("failed to delete scorecard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return scorecard.ErrScorecardNotFound
	}
	return nil
}
