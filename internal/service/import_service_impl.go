package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/importer"
)

type importService struct {
	uow      db.UnitOfWork
	calendar domain.WorkCalendar
	observer UseCaseObserver
}

// NewImportService creates an ImportService. calendar fills in whatever
// working hours an import file leaves out.
func NewImportService(uow db.UnitOfWork, calendar domain.WorkCalendar, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		calendar: calendar,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*contract.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*contract.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *contract.ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"plan": schema.Plan.Number}
	defer func() {
		observe(ctx, s.observer, "import-plan", startedAt, err, fields)
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema, s.calendar)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		_, err := repos.plans.GetByNumber(ctx, generated.Plan.Number)
		switch {
		case err == nil:
			return fmt.Errorf("plan %s already exists", generated.Plan.Number)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		if err := repos.plans.Create(ctx, generated.Plan); err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}
		for _, wo := range generated.WorkOrders {
			if err := repos.workOrders.Create(ctx, wo); err != nil {
				return fmt.Errorf("creating work order %q: %w", wo.Number, err)
			}
		}
		for _, t := range generated.Tasks {
			if err := repos.tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.TaskID, err)
			}
		}
		for _, level := range generated.Stock {
			if err := repos.stock.Upsert(ctx, level); err != nil {
				return fmt.Errorf("storing stock for %s: %w", level.MaterialID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dangling := danglingRefs(generated.Tasks)
	fields["tasks"] = len(generated.Tasks)
	fields["dangling_refs"] = len(dangling)

	return &contract.ImportResult{
		Plan:           generated.Plan,
		WorkOrderCount: len(generated.WorkOrders),
		TaskCount:      len(generated.Tasks),
		StockCount:     len(generated.Stock),
		DanglingRefs:   dangling,
	}, nil
}

// danglingRefs lists tasks whose predecessor is not part of the plan. They
// import fine and are force-placed by the scheduler.
func danglingRefs(tasks []*domain.Task) []string {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	var out []string
	for _, t := range tasks {
		if t.PrecedingTaskID != "" && !ids[t.PrecedingTaskID] {
			out = append(out, t.DisplayID())
		}
	}
	return out
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
