package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/alexanderramin/studyblocks/internal/testutil"
	"github.com/stretchr/testify/require"
)

// monday is 2025-03-17 00:00 UTC.
var monday = time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	workItems *repository.SQLiteWorkItemRepo
	events    *repository.SQLiteFixedEventRepo
	blocks    *repository.SQLiteBlockRepo
	feedback  *repository.SQLiteFeedbackRepo
	prefs     *repository.SQLitePreferencesRepo
	plans     *repository.SQLitePlanRepo
	guard     *PreferencesGuard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		workItems: repository.NewSQLiteWorkItemRepo(database),
		events:    repository.NewSQLiteFixedEventRepo(database),
		blocks:    repository.NewSQLiteBlockRepo(database),
		feedback:  repository.NewSQLiteFeedbackRepo(database),
		prefs:     repository.NewSQLitePreferencesRepo(database),
		plans:     repository.NewSQLitePlanRepo(database),
		guard:     NewPreferencesGuard(),
	}
}

func (e *testEnv) scheduleService(uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	if uow == nil {
		uow = e.uow
	}
	return NewScheduleService(e.workItems, e.events, e.blocks, e.prefs, uow, e.guard, observers...)
}

func (e *testEnv) addItem(t *testing.T, title string, opts ...testutil.WorkItemOption) *domain.WorkItem {
	t.Helper()
	wi := testutil.NewTestWorkItem(title, opts...)
	require.NoError(t, e.workItems.Create(context.Background(), wi))
	return wi
}

// addBlock stores a block for item starting at start.
func (e *testEnv) addBlock(t *testing.T, item *domain.WorkItem, id string, start time.Time, minutes int) domain.ScheduledBlock {
	t.Helper()
	b := domain.ScheduledBlock{
		ID:         id,
		WorkItemID: item.ID,
		Title:      item.Title,
		Category:   item.Category,
		Start:      start,
		End:        start.Add(time.Duration(minutes) * time.Minute),
		CreatedAt:  monday,
	}
	require.NoError(t, e.blocks.ReplaceBetween(context.Background(), start, start.Add(time.Minute), []domain.ScheduledBlock{b}))
	return b
}

func weekConstraints() domain.Constraints {
	return domain.Constraints{
		HorizonStart:      monday,
		HorizonEnd:        monday.AddDate(0, 0, 7),
		DayStartHour:      8,
		DayEndHour:        20,
		MaxStudyMinPerDay: 240,
	}
}
