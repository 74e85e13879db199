package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/learning"
	"github.com/google/uuid"
)

// SQLiteFeedbackRepo is the persistent, append-only feedback log. Each Append
// is a single INSERT, so SQLite's write lock serializes concurrent writers.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

var _ learning.FeedbackStore = (*SQLiteFeedbackRepo)(nil)

func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

func (r *SQLiteFeedbackRepo) Append(ctx context.Context, fb *domain.BlockFeedback) error {
	if err := learning.ValidateFeedback(fb); err != nil {
		return err
	}
	id := fb.ID
	if id == "" {
		id = uuid.New().String()
	}
	recorded := nowUTC()
	if !fb.RecordedAt.IsZero() {
		recorded = formatTime(fb.RecordedAt)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO block_feedback
		(id, block_id, work_item_id, category, original_start, original_end,
		 completion_ratio, action, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		fb.BlockID,
		fb.WorkItemID,
		fb.Category,
		formatTime(fb.OriginalStart),
		formatTime(fb.OriginalEnd),
		domain.ClampFloat(fb.CompletionRatio, 0, 1),
		string(fb.Action),
		recorded,
	)
	if err != nil {
		return fmt.Errorf("appending feedback: %w", err)
	}
	return nil
}

// All returns the log in append order.
func (r *SQLiteFeedbackRepo) All(ctx context.Context) ([]domain.BlockFeedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, block_id, work_item_id, category,
		original_start, original_end, completion_ratio, action, recorded_at
		FROM block_feedback ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var out []domain.BlockFeedback
	for rows.Next() {
		var fb domain.BlockFeedback
		var startStr, endStr, action, recordedStr string
		if err := rows.Scan(&fb.ID, &fb.BlockID, &fb.WorkItemID, &fb.Category,
			&startStr, &endStr, &fb.CompletionRatio, &action, &recordedStr); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		if fb.OriginalStart, err = parseTime("original_start", startStr); err != nil {
			return nil, err
		}
		if fb.OriginalEnd, err = parseTime("original_end", endStr); err != nil {
			return nil, err
		}
		if fb.RecordedAt, err = parseTime("recorded_at", recordedStr); err != nil {
			return nil, err
		}
		fb.Action = domain.FeedbackAction(action)
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return out, nil
}

func (r *SQLiteFeedbackRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM block_feedback`); err != nil {
		return fmt.Errorf("clearing feedback: %w", err)
	}
	return nil
}
