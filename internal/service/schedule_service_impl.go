package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/alexanderramin/studyblocks/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

type scheduleService struct {
	workItems repository.WorkItemRepo
	events    repository.FixedEventRepo
	blocks    repository.BlockRepo
	prefs     repository.PreferencesRepo
	uow       db.UnitOfWork
	guard     *PreferencesGuard
	observer  UseCaseObserver
}

func NewScheduleService(
	workItems repository.WorkItemRepo,
	events repository.FixedEventRepo,
	blocks repository.BlockRepo,
	prefs repository.PreferencesRepo,
	uow db.UnitOfWork,
	guard *PreferencesGuard,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		workItems: workItems,
		events:    events,
		blocks:    blocks,
		prefs:     prefs,
		uow:       uow,
		guard:     guardOrNew(guard),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Generate(ctx context.Context, req ScheduleRequest) (resp *ScheduleResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"horizon_start": req.Constraints.HorizonStart.Format(time.RFC3339),
		"horizon_end":   req.Constraints.HorizonEnd.Format(time.RFC3339),
		"split":         req.Split,
	}
	defer observe(ctx, s.observer, "schedule-generate", startedAt, &err, fields)

	c := req.Constraints
	err = s.guard.read(func() error {
		var (
			pending []*domain.WorkItem
			events  []*domain.FixedEvent
			prefs   *domain.SchedulerPreferences
		)
		// Events just outside the horizon still constrain blocks at its edges.
		gap := time.Duration(c.MinGapMin) * time.Minute
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if pending, err = s.workItems.ListPending(gctx); err != nil {
				return fmt.Errorf("loading work items: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if events, err = s.events.ListOverlapping(gctx, c.HorizonStart.Add(-gap), c.HorizonEnd.Add(gap)); err != nil {
				return fmt.Errorf("loading fixed events: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if prefs, err = s.prefs.Get(gctx); err != nil {
				return fmt.Errorf("loading preferences: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		items := make([]domain.WorkItem, len(pending))
		for i, w := range pending {
			items[i] = *w
		}
		if req.Split {
			items = scheduler.SplitAll(items, c.MaxBlockMin)
		}
		evs := make([]domain.FixedEvent, len(events))
		for i, e := range events {
			evs[i] = *e
		}

		result := scheduler.GenerateSchedule(items, evs, c, *prefs)
		attributeToSource(result.Scheduled, items)
		resp = &ScheduleResponse{
			Result:     result,
			ItemCount:  len(items),
			EventCount: len(evs),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["placed"] = len(resp.Result.Scheduled)
	fields["overflow"] = len(resp.Result.Overflow)

	if !req.Persist {
		return resp, nil
	}
	createdAt := time.Now().UTC().Truncate(time.Second)
	for i := range resp.Result.Scheduled {
		resp.Result.Scheduled[i].CreatedAt = createdAt
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBlockRepo(tx).ReplaceBetween(ctx, c.HorizonStart, c.HorizonEnd, resp.Result.Scheduled)
	})
	if err != nil {
		return nil, fmt.Errorf("saving schedule: %w", err)
	}
	resp.Persisted = true
	return resp, nil
}

// attributeToSource points blocks for split sub-items back at the stored
// work item, so feedback on them reaches the learner.
func attributeToSource(blocks []domain.ScheduledBlock, items []domain.WorkItem) {
	source := make(map[string]string, len(items))
	for _, it := range items {
		source[it.ID] = it.SourceID()
	}
	for i, b := range blocks {
		if id, ok := source[b.WorkItemID]; ok {
			blocks[i].WorkItemID = id
		}
	}
}

func (s *scheduleService) ListBlocks(ctx context.Context, from, to time.Time) ([]*domain.ScheduledBlock, error) {
	return s.blocks.ListBetween(ctx, from, to)
}
