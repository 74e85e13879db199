package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/importer"
	"github.com/alexanderramin/studyblocks/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) Import(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema validates and converts the schema, then creates everything in
// one transaction: a failure part-way leaves the database untouched.
func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (res *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import", startedAt, &err, fields)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema, startedAt)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		workItems := repository.NewSQLiteWorkItemRepo(tx)
		events := repository.NewSQLiteFixedEventRepo(tx)
		plans := repository.NewSQLitePlanRepo(tx)

		for _, wi := range generated.WorkItems {
			if err := workItems.Create(ctx, wi); err != nil {
				return fmt.Errorf("creating work item %q: %w", wi.Title, err)
			}
		}
		for _, e := range generated.Events {
			if err := events.Create(ctx, e); err != nil {
				return fmt.Errorf("creating event %q: %w", e.Title, err)
			}
		}
		for _, p := range generated.Plans {
			if err := plans.SavePlan(ctx, p); err != nil {
				return fmt.Errorf("creating plan for %s: %w", p.AssignmentID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res = &ImportResult{
		WorkItemCount: len(generated.WorkItems),
		EventCount:    len(generated.Events),
		PlanCount:     len(generated.Plans),
	}
	for _, p := range generated.Plans {
		res.StepCount += len(p.Steps)
	}
	fields["work_items"] = res.WorkItemCount
	fields["events"] = res.EventCount
	fields["plans"] = res.PlanCount
	return res, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
