package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, parent_id, title, due_date, total_min,
		min_block_min, max_block_min, difficulty, importance, category,
		locked, course_id, status, created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo using a SQLite database.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo.
func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: conn}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (` + workItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	status := w.Status
	if status == "" {
		status = domain.WorkItemTodo
	}
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		nullableString(w.ParentID),
		w.Title,
		formatTime(w.DueDate),
		w.TotalMin,
		w.MinBlockMin,
		w.MaxBlockMin,
		w.Difficulty,
		w.Importance,
		w.Category,
		boolToInt(w.Locked),
		nullableString(w.CourseID),
		string(status),
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	w, err := scanWorkItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning work item: %w", err)
	}
	return w, nil
}

func (r *SQLiteWorkItemRepo) List(ctx context.Context, includeDone bool) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items`
	if !includeDone {
		query += ` WHERE status = 'todo'`
	}
	query += ` ORDER BY due_date, id`
	return r.list(ctx, query)
}

// ListPending returns items still wanting study time, earliest due first.
func (r *SQLiteWorkItemRepo) ListPending(ctx context.Context) ([]*domain.WorkItem, error) {
	return r.List(ctx, false)
}

func (r *SQLiteWorkItemRepo) list(ctx context.Context, query string, args ...any) ([]*domain.WorkItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()

	var items []*domain.WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET parent_id = ?, title = ?, due_date = ?, total_min = ?,
		min_block_min = ?, max_block_min = ?, difficulty = ?, importance = ?, category = ?,
		locked = ?, course_id = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(w.ParentID),
		w.Title,
		formatTime(w.DueDate),
		w.TotalMin,
		w.MinBlockMin,
		w.MaxBlockMin,
		w.Difficulty,
		w.Importance,
		w.Category,
		boolToInt(w.Locked),
		nullableString(w.CourseID),
		string(w.Status),
		formatTime(w.UpdatedAt),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return requireAffected(res, "work item", w.ID)
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return requireAffected(res, "work item", id)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(s rowScanner) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var parentID, courseID sql.NullString
	var dueStr, status, createdStr, updatedStr string
	var locked int

	err := s.Scan(
		&w.ID, &parentID, &w.Title, &dueStr, &w.TotalMin,
		&w.MinBlockMin, &w.MaxBlockMin, &w.Difficulty, &w.Importance, &w.Category,
		&locked, &courseID, &status, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	w.ParentID = stringPtr(parentID)
	w.CourseID = stringPtr(courseID)
	w.Locked = intToBool(locked)
	w.Status = domain.WorkItemStatus(status)
	if w.DueDate, err = parseTime("due_date", dueStr); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return nil, err
	}
	return &w, nil
}

// requireAffected maps a zero-row update or delete to ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
