package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/jackc/pgx/v5"
)

const feedbackSelect = `SELECT f.id, f.author_id, f.recipient_id, f.strengths, f.areas_to_improve, f.sentiment,
	f.acknowledged, f.created_at, f.updated_at, COALESCE(a.full_name, ''), COALESCE(rc.full_name, '')
	FROM feedback f
	LEFT JOIN users a ON a.id = f.author_id
	LEFT JOIN users rc ON rc.id = f.recipient_id`

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var (
		f         models.Feedback
		sentiment string
	)
	if err := row.Scan(&f.ID, &f.AuthorID, &f.RecipientID, &f.Strengths, &f.AreasToImprove, &sentiment,
		&f.Acknowledged, &f.CreatedAt, &f.UpdatedAt, &f.AuthorName, &f.RecipientName); err != nil {
		return nil, err
	}
	f.Sentiment = models.Sentiment(sentiment)
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	return &f, nil
}

func (r *Repo) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if f == nil {
		return 0, fmt.Errorf("feedback is nil")
	}

	created := time.Now().UTC()
	if !f.CreatedAt.IsZero() {
		created = f.CreatedAt.UTC()
	}

	var id int64
	err := r.q.QueryRow(ctx,
		`INSERT INTO feedback (author_id, recipient_id, strengths, areas_to_improve, sentiment, acknowledged, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`,
		f.AuthorID, f.RecipientID, f.Strengths, f.AreasToImprove, string(f.Sentiment), f.Acknowledged, created,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}

	f.ID = id
	f.CreatedAt = created
	f.UpdatedAt = created
	return id, nil
}

// GetFeedback loads a feedback record. Inside a transaction the row stays
// locked until commit so concurrent read-check-write units serialize.
func (r *Repo) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	query := feedbackSelect + ` WHERE f.id = $1`
	if r.inTx {
		query += ` FOR UPDATE OF f`
	}
	f, err := scanFeedback(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return f, nil
}

func (r *Repo) UpdateFeedback(ctx context.Context, f *models.Feedback) error {
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}

	updated := time.Now().UTC()
	tag, err := r.q.Exec(ctx,
		`UPDATE feedback SET strengths = $1, areas_to_improve = $2, sentiment = $3, updated_at = $4 WHERE id = $5`,
		f.Strengths, f.AreasToImprove, string(f.Sentiment), updated, f.ID)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feedback %d: %w", f.ID, models.ErrNotFound)
	}
	f.UpdatedAt = updated
	return nil
}

func (r *Repo) AcknowledgeFeedback(ctx context.Context, f *models.Feedback) error {
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}

	updated := time.Now().UTC()
	tag, err := r.q.Exec(ctx, `UPDATE feedback SET acknowledged = TRUE, updated_at = $1 WHERE id = $2`, updated, f.ID)
	if err != nil {
		return fmt.Errorf("acknowledge feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feedback %d: %w", f.ID, models.ErrNotFound)
	}
	f.Acknowledged = true
	f.UpdatedAt = updated
	return nil
}

func (r *Repo) ListFeedbackByRecipient(ctx context.Context, recipientID int64) ([]models.Feedback, error) {
	rows, err := r.q.Query(ctx, feedbackSelect+` WHERE f.recipient_id = $1 ORDER BY f.created_at DESC, f.id DESC`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *Repo) CountSentiments(ctx context.Context, recipientIDs []int64) (map[models.Sentiment]int64, error) {
	out := make(map[models.Sentiment]int64)
	if len(recipientIDs) == 0 {
		return out, nil
	}

	rows, err := r.q.Query(ctx, `SELECT sentiment, COUNT(*) FROM feedback WHERE recipient_id = ANY($1) GROUP BY sentiment`, recipientIDs)
	if err != nil {
		return nil, fmt.Errorf("count sentiments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s   string
			cnt int64
		)
		if err := rows.Scan(&s, &cnt); err != nil {
			return nil, err
		}
		out[models.Sentiment(s)] = cnt
	}
	return out, rows.Err()
}
