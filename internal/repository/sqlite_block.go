package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
)

const blockColumns = `id, work_item_id, title, category, start_at, end_at, created_at`

// SQLiteBlockRepo stores generated schedule blocks.
type SQLiteBlockRepo struct {
	db db.DBTX
}

func NewSQLiteBlockRepo(conn db.DBTX) *SQLiteBlockRepo {
	return &SQLiteBlockRepo{db: conn}
}

func (r *SQLiteBlockRepo) GetByID(ctx context.Context, id string) (*domain.ScheduledBlock, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM scheduled_blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scheduled block %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning scheduled block: %w", err)
	}
	return b, nil
}

func (r *SQLiteBlockRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM scheduled_blocks
		WHERE start_at >= ? AND start_at < ?
		ORDER BY start_at, id`
	rows, err := r.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("listing scheduled blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.ScheduledBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled block row: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scheduled blocks: %w", err)
	}
	return blocks, nil
}

// ReplaceBetween should run inside a transaction so readers never see the
// range half-replaced.
func (r *SQLiteBlockRepo) ReplaceBetween(ctx context.Context, from, to time.Time, blocks []domain.ScheduledBlock) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM scheduled_blocks WHERE start_at >= ? AND start_at < ?`,
		formatTime(from), formatTime(to)); err != nil {
		return fmt.Errorf("clearing scheduled blocks: %w", err)
	}

	// INSERT OR REPLACE: deterministic ids repeat when the same plan is regenerated.
	query := `INSERT OR REPLACE INTO scheduled_blocks (` + blockColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := nowUTC()
	for _, b := range blocks {
		created := now
		if !b.CreatedAt.IsZero() {
			created = formatTime(b.CreatedAt)
		}
		if _, err := r.db.ExecContext(ctx, query,
			b.ID, b.WorkItemID, b.Title, b.Category,
			formatTime(b.Start), formatTime(b.End), created,
		); err != nil {
			return fmt.Errorf("inserting scheduled block %s: %w", b.ID, err)
		}
	}
	return nil
}

func scanBlock(s rowScanner) (*domain.ScheduledBlock, error) {
	var b domain.ScheduledBlock
	var startStr, endStr, createdStr string
	if err := s.Scan(&b.ID, &b.WorkItemID, &b.Title, &b.Category, &startStr, &endStr, &createdStr); err != nil {
		return nil, err
	}
	var err error
	if b.Start, err = parseTime("start_at", startStr); err != nil {
		return nil, err
	}
	if b.End, err = parseTime("end_at", endStr); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return nil, err
	}
	return &b, nil
}
