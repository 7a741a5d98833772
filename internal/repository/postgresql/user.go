package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	q database.Querier
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{q: db.Pool}
}

const userColumns = `id, name, email, role, team_leader_id, managed_by, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role,
		&u.TeamLeaderID, &u.ManagedBy,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (r *userRepositoryImpl) ListAgentIDsByTeamLeader(ctx context.Context, teamLeaderID string) ([]string, error) {
	query := `
		SELECT id FROM users
		WHERE role = 'agent' AND team_leader_id = $1
	`

	rows, err := r.q.Query(ctx, query, teamLeaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervised agent ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan agent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepositoryImpl) ListAgentsByTeamLeader(ctx context.Context, teamLeaderID string) ([]user.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = 'agent' AND team_leader_id = $1
		ORDER BY name
	`, userColumns)

	rows, err := r.q.Query(ctx, query, teamLeaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervised agents: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *userRepositoryImpl) ListAgents(ctx context.Context) ([]user.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = 'agent'
		ORDER BY name
	`, userColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
