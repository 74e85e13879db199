package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/studyblocks/internal/db"
)

// FailingExecUoW is a test UoW that injects Err into a transaction's writes.
// With FailOn > 0 the FailOn-th ExecContext call fails (counted from 1).
// With Match set, every ExecContext whose query contains Match fails.
// Reads pass through.
type FailingExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingExec{DBTX: tx, failOn: u.FailOn, match: u.Match, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	match  string
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if f.failOn > 0 && n == f.failOn {
		return nil, f.err
	}
	if f.match != "" && strings.Contains(query, f.match) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
