package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/feedback/internal/models"
)

const userColumns = `id, username, full_name, password_hash, role, team_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u      models.User
		role   string
		teamID sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &role, &teamID); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	if teamID.Valid {
		v := teamID.Int64
		u.TeamID = &v
	}
	return &u, nil
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO users (username, full_name, password_hash, role, team_id) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.FullName, u.PasswordHash, string(u.Role), u.TeamID)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepo) SetUserTeam(ctx context.Context, userID int64, teamID *int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE users SET team_id = ? WHERE id = ?`, teamID, userID)
	return err
}

func (r *SQLiteRepo) ListTeamEmployees(ctx context.Context, teamID int64) ([]models.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE team_id = ? AND role = ? ORDER BY id`, teamID, string(models.RoleEmployee))
	if err != nil {
		return nil, err
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
