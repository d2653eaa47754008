package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/feedback/internal/models"
)

const feedbackSelect = `SELECT f.id, f.author_id, f.recipient_id, f.strengths, f.areas_to_improve, f.sentiment,
	f.acknowledged, f.created_at, f.updated_at, COALESCE(a.full_name, ''), COALESCE(rc.full_name, '')
	FROM feedback f
	LEFT JOIN users a ON a.id = f.author_id
	LEFT JOIN users rc ON rc.id = f.recipient_id`

func scanFeedback(row rowScanner) (*models.Feedback, error) {
	var (
		f                models.Feedback
		sentiment        string
		created, updated int64
	)
	if err := row.Scan(&f.ID, &f.AuthorID, &f.RecipientID, &f.Strengths, &f.AreasToImprove, &sentiment,
		&f.Acknowledged, &created, &updated, &f.AuthorName, &f.RecipientName); err != nil {
		return nil, err
	}
	f.Sentiment = models.Sentiment(sentiment)
	f.CreatedAt = fromMillis(created)
	f.UpdatedAt = fromMillis(updated)
	return &f, nil
}

// CreateFeedback inserts f. A zero CreatedAt is replaced with the current time
// and the stored timestamps are written back into f.
func (r *SQLiteRepo) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if f == nil {
		return 0, fmt.Errorf("feedback is nil")
	}

	created := now()
	if !f.CreatedAt.IsZero() {
		created = f.CreatedAt.UTC().UnixMilli()
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO feedback (author_id, recipient_id, strengths, areas_to_improve, sentiment, acknowledged, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.AuthorID, f.RecipientID, f.Strengths, f.AreasToImprove, string(f.Sentiment), f.Acknowledged, created, created)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	f.ID = id
	f.CreatedAt = fromMillis(created)
	f.UpdatedAt = f.CreatedAt

	return id, nil
}

func (r *SQLiteRepo) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	f, err := scanFeedback(r.q.QueryRowContext(ctx, feedbackSelect+` WHERE f.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (r *SQLiteRepo) UpdateFeedback(ctx context.Context, f *models.Feedback) error {
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}

	updated := now()
	res, err := r.q.ExecContext(ctx, `UPDATE feedback SET strengths = ?, areas_to_improve = ?, sentiment = ?, updated_at = ? WHERE id = ?`,
		f.Strengths, f.AreasToImprove, string(f.Sentiment), updated, f.ID)
	if err != nil {
		return err
	}
	if err := expectRow(res, f.ID); err != nil {
		return err
	}
	f.UpdatedAt = fromMillis(updated)
	return nil
}

func (r *SQLiteRepo) AcknowledgeFeedback(ctx context.Context, f *models.Feedback) error {
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}

	updated := now()
	res, err := r.q.ExecContext(ctx, `UPDATE feedback SET acknowledged = 1, updated_at = ? WHERE id = ?`, updated, f.ID)
	if err != nil {
		return err
	}
	if err := expectRow(res, f.ID); err != nil {
		return err
	}
	f.Acknowledged = true
	f.UpdatedAt = fromMillis(updated)
	return nil
}

func expectRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("feedback %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepo) ListFeedbackByRecipient(ctx context.Context, recipientID int64) ([]models.Feedback, error) {
	rows, err := r.q.QueryContext(ctx, feedbackSelect+` WHERE f.recipient_id = ? ORDER BY f.created_at DESC, f.id DESC`, recipientID)
	if err != nil {
		return nil, err
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

func (r *SQLiteRepo) CountSentiments(ctx context.Context, recipientIDs []int64) (map[models.Sentiment]int64, error) {
	out := make(map[models.Sentiment]int64)
	if len(recipientIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(recipientIDs)), ",")
	args := make([]any, len(recipientIDs))
	for i, id := range recipientIDs {
		args[i] = id
	}

	rows, err := r.q.QueryContext(ctx, `SELECT sentiment, COUNT(*) FROM feedback WHERE recipient_id IN (`+placeholders+`) GROUP BY sentiment`, args...)
	if err != nil {
		return nil, err
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
