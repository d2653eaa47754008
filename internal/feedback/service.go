// Package feedback implements the feedback write path: managers create and
// edit records for their team members and employees acknowledge them.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	. "github.com/go-ozzo/ozzo-validation"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/garnizeh/feedback/internal/policy"
	"github.com/garnizeh/feedback/pkg/repository"
)

type Service struct {
	store  repository.Store
	logger *slog.Logger
}

func NewService(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger.With("component", "feedback")}
}

// CreateInput carries the fields a manager provides for a new feedback record.
type CreateInput struct {
	RecipientID    int64            `json:"employee_id"`
	Strengths      string           `json:"strengths"`
	AreasToImprove string           `json:"areas_to_improve"`
	Sentiment      models.Sentiment `json:"sentiment"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Strengths      *string           `json:"strengths"`
	AreasToImprove *string           `json:"areas_to_improve"`
	Sentiment      *models.Sentiment `json:"sentiment"`
}

func sentimentValues() []any {
	out := make([]any, len(models.Sentiments))
	for i, s := range models.Sentiments {
		out[i] = s
	}
	return out
}

func (in *CreateInput) normalize() {
	in.Strengths = strings.TrimSpace(in.Strengths)
	in.AreasToImprove = strings.TrimSpace(in.AreasToImprove)
	in.Sentiment = models.Sentiment(strings.TrimSpace(string(in.Sentiment)))
}

func (in *CreateInput) Validate() error {
	return ValidateStruct(in,
		Field(&in.RecipientID, Required),
		Field(&in.Strengths, Required),
		Field(&in.AreasToImprove, Required),
		Field(&in.Sentiment, Required, In(sentimentValues()...)),
	)
}

func (p *Patch) normalize() {
	if p.Strengths != nil {
		v := strings.TrimSpace(*p.Strengths)
		p.Strengths = &v
	}
	if p.AreasToImprove != nil {
		v := strings.TrimSpace(*p.AreasToImprove)
		p.AreasToImprove = &v
	}
	if p.Sentiment != nil {
		v := models.Sentiment(strings.TrimSpace(string(*p.Sentiment)))
		p.Sentiment = &v
	}
}

func (p *Patch) empty() bool {
	return p.Strengths == nil && p.AreasToImprove == nil && p.Sentiment == nil
}

func (p *Patch) Validate() error {
	return ValidateStruct(p,
		Field(&p.Strengths, NilOrNotEmpty),
		Field(&p.AreasToImprove, NilOrNotEmpty),
		Field(&p.Sentiment, NilOrNotEmpty, In(sentimentValues()...)),
	)
}

// Create stores a new unacknowledged feedback record authored by actorID.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (*models.Feedback, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	var created *models.Feedback
	err := s.store.WithTx(ctx, func(q repository.Queries) error {
		actor, err := q.GetUserByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("get actor: %w", err)
		}
		if actor == nil {
			return fmt.Errorf("actor %d: %w", actorID, models.ErrNotFound)
		}

		recipient, err := q.GetUserByID(ctx, in.RecipientID)
		if err != nil {
			return fmt.Errorf("get recipient: %w", err)
		}
		if recipient == nil {
			return fmt.Errorf("employee %d: %w", in.RecipientID, models.ErrNotFound)
		}

		var team *models.Team
		if actor.Role == models.RoleManager {
			if team, err = q.GetTeamByManager(ctx, actor.ID); err != nil {
				return fmt.Errorf("get team: %w", err)
			}
		}

		if d := policy.CanSubmitFeedback(actor, recipient, team); !d.Allowed {
			return fmt.Errorf("%w: %s", models.ErrForbidden, d.Reason)
		}

		f := &models.Feedback{
			AuthorID:       actor.ID,
			RecipientID:    recipient.ID,
			Strengths:      in.Strengths,
			AreasToImprove: in.AreasToImprove,
			Sentiment:      in.Sentiment,
		}
		if _, err := q.CreateFeedback(ctx, f); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
		f.AuthorName = actor.FullName
		f.RecipientName = recipient.FullName
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback created",
		"feedback_id", created.ID,
		"author_id", created.AuthorID,
		"recipient_id", created.RecipientID,
		"sentiment", created.Sentiment,
	)

	return created, nil
}

// Update applies p to a feedback record authored by actorID. Author,
// recipient, creation time and acknowledgment state are preserved.
func (s *Service) Update(ctx context.Context, actorID, feedbackID int64, p Patch) (*models.Feedback, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	var updated *models.Feedback
	err := s.store.WithTx(ctx, func(q repository.Queries) error {
		actor, f, err := load(ctx, q, actorID, feedbackID)
		if err != nil {
			return err
		}

		if d := policy.CanUpdateFeedback(actor, f); !d.Allowed {
			return fmt.Errorf("%w: %s", models.ErrForbidden, d.Reason)
		}

		updated = f
		if p.empty() {
			return nil
		}

		if p.Strengths != nil {
			f.Strengths = *p.Strengths
		}
		if p.AreasToImprove != nil {
			f.AreasToImprove = *p.AreasToImprove
		}
		if p.Sentiment != nil {
			f.Sentiment = *p.Sentiment
		}

		if err := q.UpdateFeedback(ctx, f); err != nil {
			return fmt.Errorf("update feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback updated", "feedback_id", updated.ID, "author_id", actorID)

	return updated, nil
}

// Acknowledge marks a feedback record as seen by its recipient. Acknowledging
// twice succeeds without writing.
func (s *Service) Acknowledge(ctx context.Context, actorID, feedbackID int64) (*models.Feedback, error) {
	var (
		acked   *models.Feedback
		changed bool
	)
	err := s.store.WithTx(ctx, func(q repository.Queries) error {
		actor, f, err := load(ctx, q, actorID, feedbackID)
		if err != nil {
			return err
		}

		if d := policy.CanAcknowledge(actor, f); !d.Allowed {
			return fmt.Errorf("%w: %s", models.ErrForbidden, d.Reason)
		}

		acked = f
		if f.Acknowledged {
			return nil
		}

		if err := q.AcknowledgeFeedback(ctx, f); err != nil {
			return fmt.Errorf("acknowledge feedback: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("feedback acknowledged", "feedback_id", acked.ID, "recipient_id", actorID)
	}

	return acked, nil
}

func load(ctx context.Context, q repository.Queries, actorID, feedbackID int64) (*models.User, *models.Feedback, error) {
	f, err := q.GetFeedback(ctx, feedbackID)
	if err != nil {
		return nil, nil, fmt.Errorf("get feedback: %w", err)
	}
	if f == nil {
		return nil, nil, fmt.Errorf("feedback %d: %w", feedbackID, models.ErrNotFound)
	}

	actor, err := q.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("get actor: %w", err)
	}
	if actor == nil {
		return nil, nil, fmt.Errorf("actor %d: %w", actorID, models.ErrNotFound)
	}

	return actor, f, nil
}
