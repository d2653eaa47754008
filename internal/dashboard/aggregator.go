// Package dashboard builds the read-only role views: a manager's team overview
// and an employee's feedback timeline.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/garnizeh/feedback/internal/policy"
	"github.com/garnizeh/feedback/pkg/repository"
)

type Aggregator struct {
	store  repository.Queries
	logger *slog.Logger
}

func NewAggregator(store repository.Queries, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger.With("component", "dashboard")}
}

// ForManager summarizes the feedback addressed to the current members of the
// team managed by managerID.
func (a *Aggregator) ForManager(ctx context.Context, managerID int64) (*models.ManagerDashboard, error) {
	team, err := a.store.GetTeamByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if team == nil {
		return &models.ManagerDashboard{
			TeamName:        models.NoTeamName,
			SentimentTrends: map[models.Sentiment]int64{},
			TeamMembers:     []models.TeamMember{},
		}, nil
	}

	employees, err := a.store.ListTeamEmployees(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("list team employees: %w", err)
	}

	d := &models.ManagerDashboard{
		TeamName:        team.Name,
		SentimentTrends: map[models.Sentiment]int64{},
		TeamMembers:     make([]models.TeamMember, 0, len(employees)),
	}

	ids := make([]int64, 0, len(employees))
	for _, e := range employees {
		history, err := a.store.ListFeedbackByRecipient(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("list feedback for %d: %w", e.ID, err)
		}
		if history == nil {
			history = []models.Feedback{}
		}
		d.TeamMembers = append(d.TeamMembers, models.TeamMember{User: e, FeedbackHistory: history})
		ids = append(ids, e.ID)
	}

	trends, err := a.store.CountSentiments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count sentiments: %w", err)
	}
	for s, n := range trends {
		if n > 0 {
			d.SentimentTrends[s] = n
			d.FeedbackCount += n
		}
	}

	return d, nil
}

// ForEmployee lists the feedback addressed to employeeID, most recent first.
func (a *Aggregator) ForEmployee(ctx context.Context, employeeID int64) (*models.EmployeeDashboard, error) {
	timeline, err := a.store.ListFeedbackByRecipient(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if timeline == nil {
		timeline = []models.Feedback{}
	}
	return &models.EmployeeDashboard{FeedbackTimeline: timeline}, nil
}

// For returns the dashboard matching the caller's role.
func (a *Aggregator) For(ctx context.Context, caller *models.User) (any, error) {
	if caller == nil {
		return nil, models.ErrInvalidRole
	}

	switch caller.Role {
	case models.RoleManager:
		return a.ForManager(ctx, caller.ID)
	case models.RoleEmployee:
		return a.ForEmployee(ctx, caller.ID)
	default:
		a.logger.Warn("dashboard requested with unknown role", "user_id", caller.ID, "role", caller.Role)
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidRole, caller.Role)
	}
}

// Team lists the employees of the team managed by caller.
func (a *Aggregator) Team(ctx context.Context, caller *models.User) ([]models.User, error) {
	if d := policy.CanViewTeam(caller); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", models.ErrForbidden, d.Reason)
	}

	team, err := a.store.GetTeamByManager(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("team for manager %d: %w", caller.ID, models.ErrNotFound)
	}

	members, err := a.store.ListTeamEmployees(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("list team employees: %w", err)
	}
	if members == nil {
		members = []models.User{}
	}
	return members, nil
}
