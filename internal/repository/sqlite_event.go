package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
)

const fixedEventColumns = `id, title, start_at, end_at, is_locked, source`

// SQLiteFixedEventRepo implements FixedEventRepo using a SQLite database.
type SQLiteFixedEventRepo struct {
	db db.DBTX
}

func NewSQLiteFixedEventRepo(conn db.DBTX) *SQLiteFixedEventRepo {
	return &SQLiteFixedEventRepo{db: conn}
}

func (r *SQLiteFixedEventRepo) Create(ctx context.Context, e *domain.FixedEvent) error {
	source := e.Source
	if source == "" {
		source = domain.SourceManual
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fixed_events (`+fixedEventColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Title,
		formatTime(e.Start),
		formatTime(e.End),
		boolToInt(e.IsLocked),
		string(source),
	)
	if err != nil {
		return fmt.Errorf("inserting fixed event: %w", err)
	}
	return nil
}

func (r *SQLiteFixedEventRepo) GetByID(ctx context.Context, id string) (*domain.FixedEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+fixedEventColumns+` FROM fixed_events WHERE id = ?`, id)
	e, err := scanFixedEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fixed event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning fixed event: %w", err)
	}
	return e, nil
}

func (r *SQLiteFixedEventRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.FixedEvent, error) {
	query := `SELECT ` + fixedEventColumns + ` FROM fixed_events
		WHERE start_at < ? AND end_at > ?
		ORDER BY start_at, id`
	rows, err := r.db.QueryContext(ctx, query, formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("listing fixed events: %w", err)
	}
	defer rows.Close()

	var events []*domain.FixedEvent
	for rows.Next() {
		e, err := scanFixedEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fixed event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fixed events: %w", err)
	}
	return events, nil
}

func (r *SQLiteFixedEventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting fixed event: %w", err)
	}
	return requireAffected(res, "fixed event", id)
}

func scanFixedEvent(s rowScanner) (*domain.FixedEvent, error) {
	var e domain.FixedEvent
	var startStr, endStr, source string
	var locked int
	if err := s.Scan(&e.ID, &e.Title, &startStr, &endStr, &locked, &source); err != nil {
		return nil, err
	}
	var err error
	if e.Start, err = parseTime("start_at", startStr); err != nil {
		return nil, err
	}
	if e.End, err = parseTime("end_at", endStr); err != nil {
		return nil, err
	}
	e.IsLocked = intToBool(locked)
	e.Source = domain.EventSource(source)
	return &e, nil
}
