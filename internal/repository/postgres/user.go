package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, full_name, password_hash, role, team_id`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &role, &u.TeamID); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	var id int64
	err := r.q.QueryRow(ctx,
		`INSERT INTO users (username, full_name, password_hash, role, team_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Username, u.FullName, u.PasswordHash, string(u.Role), u.TeamID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *Repo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *Repo) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repo) SetUserTeam(ctx context.Context, userID int64, teamID *int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE users SET team_id = $1 WHERE id = $2`, teamID, userID); err != nil {
		return fmt.Errorf("set user team: %w", err)
	}
	return nil
}

func (r *Repo) ListTeamEmployees(ctx context.Context, teamID int64) ([]models.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE team_id = $1 AND role = $2 ORDER BY id`, teamID, string(models.RoleEmployee))
	if err != nil {
		return nil, fmt.Errorf("list team employees: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
