package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/feedback/internal/models"
)

func (r *SQLiteRepo) CreateTeam(ctx context.Context, t *models.Team) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("team is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO teams (name, manager_id) VALUES (?, ?)`, t.Name, t.ManagerID)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetTeamByID(ctx context.Context, id int64) (*models.Team, error) {
	return r.getTeam(ctx, `SELECT id, name, manager_id FROM teams WHERE id = ?`, id)
}

func (r *SQLiteRepo) GetTeamByManager(ctx context.Context, managerID int64) (*models.Team, error) {
	return r.getTeam(ctx, `SELECT id, name, manager_id FROM teams WHERE manager_id = ?`, managerID)
}

func (r *SQLiteRepo) getTeam(ctx context.Context, query string, arg int64) (*models.Team, error) {
	var t models.Team
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.ManagerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
