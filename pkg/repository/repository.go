package repository

import (
	"context"

	"github.com/garnizeh/feedback/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when the row does not exist.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SetUserTeam(ctx context.Context, userID int64, teamID *int64) error
	// ListTeamEmployees returns employees whose team_id is teamID, ordered by id.
	ListTeamEmployees(ctx context.Context, teamID int64) ([]models.User, error)
}

type TeamRepo interface {
	CreateTeam(ctx context.Context, t *models.Team) (int64, error)
	GetTeamByID(ctx context.Context, id int64) (*models.Team, error)
	GetTeamByManager(ctx context.Context, managerID int64) (*models.Team, error)
}

type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error)
	// GetFeedback inside WithTx holds the row until the transaction ends
	// where the backend supports row locks.
	GetFeedback(ctx context.Context, id int64) (*models.Feedback, error)
	// UpdateFeedback persists strengths, areas_to_improve and sentiment of an
	// existing record and bumps updated_at. Acknowledgment is left untouched.
	UpdateFeedback(ctx context.Context, f *models.Feedback) error
	// AcknowledgeFeedback sets acknowledged on an existing record and bumps updated_at.
	AcknowledgeFeedback(ctx context.Context, f *models.Feedback) error
	// ListFeedbackByRecipient returns feedback addressed to recipientID, most recent first.
	ListFeedbackByRecipient(ctx context.Context, recipientID int64) ([]models.Feedback, error)
	// CountSentiments groups feedback addressed to any of recipientIDs by sentiment.
	// Sentiments with no rows are absent from the result.
	CountSentiments(ctx context.Context, recipientIDs []int64) (map[models.Sentiment]int64, error)
}

// Queries is the full set of operations available inside and outside a transaction.
type Queries interface {
	UserRepo
	TeamRepo
	FeedbackRepo
}

// Store is a Queries implementation able to run a unit of work atomically.
type Store interface {
	Queries
	// WithTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
}
