package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/learning"
	"github.com/alexanderramin/studyblocks/internal/repository"
)

type learnService struct {
	prefs    repository.PreferencesRepo
	uow      db.UnitOfWork
	guard    *PreferencesGuard
	cfg      learning.Config
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewLearnService(
	prefs repository.PreferencesRepo,
	uow db.UnitOfWork,
	guard *PreferencesGuard,
	cfg learning.Config,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) LearnService {
	return &learnService{
		prefs:    prefs,
		uow:      uow,
		guard:    guardOrNew(guard),
		cfg:      cfg,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Relearn folds the whole feedback log into the stored preferences and
// clears the log. Reading, updating, persisting and clearing happen in one
// transaction; an entry appended meanwhile waits for the next pass.
func (s *learnService) Relearn(ctx context.Context) (res *RelearnResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "relearn", startedAt, &err, fields)

	err = s.guard.write(func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txPrefs := repository.NewSQLitePreferencesRepo(tx)
			txFeedback := repository.NewSQLiteFeedbackRepo(tx)
			txItems := repository.NewSQLiteWorkItemRepo(tx)

			prefs, err := txPrefs.Get(ctx)
			if err != nil {
				return fmt.Errorf("loading preferences: %w", err)
			}
			feedback, err := txFeedback.All(ctx)
			if err != nil {
				return fmt.Errorf("loading feedback: %w", err)
			}
			items, err := txItems.List(ctx, true)
			if err != nil {
				return fmt.Errorf("loading work items: %w", err)
			}

			lookup := make(learning.ItemMap, len(items))
			for _, it := range items {
				lookup[it.ID] = *it
			}

			res = &RelearnResult{Before: prefs.Clone(), Consumed: len(feedback)}
			if len(feedback) == 0 {
				res.After = res.Before
				return nil
			}

			learner := learning.NewLearner(lookup, s.cfg, s.logger)
			res.Report = learner.UpdatePreferences(feedback, prefs)
			res.After = prefs.Clone()

			if err := txPrefs.Upsert(ctx, prefs); err != nil {
				return fmt.Errorf("saving preferences: %w", err)
			}
			if err := txFeedback.Clear(ctx); err != nil {
				return fmt.Errorf("clearing feedback: %w", err)
			}
			res.Cleared = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	fields["consumed"] = res.Consumed
	fields["applied"] = res.Report.Applied
	fields["skipped"] = res.Report.Skipped
	return res, nil
}

func (s *learnService) Preferences(ctx context.Context) (*domain.SchedulerPreferences, error) {
	var p *domain.SchedulerPreferences
	err := s.guard.read(func() error {
		var err error
		p, err = s.prefs.Get(ctx)
		return err
	})
	return p, err
}

func (s *learnService) ResetPreferences(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "reset-preferences", startedAt, &err, nil)

	return s.guard.write(func() error {
		p := domain.DefaultPreferences()
		return s.prefs.Upsert(ctx, &p)
	})
}
