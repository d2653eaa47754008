package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/jackc/pgx/v5"
)

func (r *Repo) CreateTeam(ctx context.Context, t *models.Team) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("team is nil")
	}

	var id int64
	if err := r.q.QueryRow(ctx, `INSERT INTO teams (name, manager_id) VALUES ($1, $2) RETURNING id`, t.Name, t.ManagerID).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert team: %w", err)
	}
	return id, nil
}

func (r *Repo) GetTeamByID(ctx context.Context, id int64) (*models.Team, error) {
	return r.getTeam(ctx, `SELECT id, name, manager_id FROM teams WHERE id = $1`, id)
}

func (r *Repo) GetTeamByManager(ctx context.Context, managerID int64) (*models.Team, error) {
	return r.getTeam(ctx, `SELECT id, name, manager_id FROM teams WHERE manager_id = $1`, managerID)
}

func (r *Repo) getTeam(ctx context.Context, query string, arg int64) (*models.Team, error) {
	var t models.Team
	if err := r.q.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.ManagerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}
