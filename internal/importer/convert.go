package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/google/uuid"
)

// ImportedPlan is a converted import file, ready for persistence.
type ImportedPlan struct {
	Plan       *domain.Plan
	WorkOrders []*domain.WorkOrder
	Tasks      []*domain.Task
	Stock      []domain.StockLevel
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
//
// Calendar fields the file omits are taken from defaults. Durations are
// normalized once here so the scheduler never sees missing values.
func Convert(schema *ImportSchema, defaults domain.WorkCalendar) (*ImportedPlan, error) {
	now := time.Now().UTC()

	startDate, err := time.Parse(dateLayout, schema.Plan.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, schema.Plan.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}

	cal, err := convertCalendar(&schema.Plan, defaults)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		ID:        uuid.New().String(),
		Number:    schema.Plan.Number,
		Title:     domain.CoalesceStr(schema.Plan.Title, schema.Plan.Number),
		StartDate: startDate,
		EndDate:   endDate,
		Calendar:  cal,
		Status:    domain.PlanDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// First pass assigns ids so preceding refs can point forward.
	refMap := make(map[string]string) // task ref -> UUID
	for _, wo := range schema.WorkOrders {
		for _, t := range wo.Tasks {
			refMap[t.Ref] = uuid.New().String()
		}
	}

	workOrders := make([]*domain.WorkOrder, 0, len(schema.WorkOrders))
	var tasks []*domain.Task
	for _, wo := range schema.WorkOrders {
		order := &domain.WorkOrder{
			ID:        uuid.New().String(),
			PlanID:    plan.ID,
			Number:    wo.Number,
			Title:     domain.CoalesceStr(wo.Title, wo.Number),
			Status:    domain.WorkOrderOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}
		workOrders = append(workOrders, order)

		for _, ti := range wo.Tasks {
			task, err := convertTask(ti, order.ID, refMap, cal, now)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}

	stock := make([]domain.StockLevel, 0, len(schema.Stock))
	for _, s := range schema.Stock {
		stock = append(stock, domain.StockLevel{
			MaterialID:   s.MaterialID,
			AvailableQty: s.AvailableQty,
			LeadTimeDays: s.LeadTimeDays,
			UpdatedAt:    now,
		})
	}

	return &ImportedPlan{
		Plan:       plan,
		WorkOrders: workOrders,
		Tasks:      tasks,
		Stock:      stock,
	}, nil
}

func convertCalendar(p *PlanImport, defaults domain.WorkCalendar) (domain.WorkCalendar, error) {
	cal := defaults
	if p.WorkStartTime != "" {
		m, err := domain.ParseClock(p.WorkStartTime)
		if err != nil {
			return cal, fmt.Errorf("parsing work_start_time: %w", err)
		}
		cal.StartMin = m
	}
	if p.WorkEndTime != "" {
		m, err := domain.ParseClock(p.WorkEndTime)
		if err != nil {
			return cal, fmt.Errorf("parsing work_end_time: %w", err)
		}
		cal.EndMin = m
	}
	if p.Breaks != nil {
		cal.Breaks = make([]domain.Break, 0, len(p.Breaks))
		for _, b := range p.Breaks {
			start, err := domain.ParseClock(b.StartTime)
			if err != nil {
				return cal, fmt.Errorf("parsing break %q: %w", b.Name, err)
			}
			end, err := domain.ParseClock(b.EndTime)
			if err != nil {
				return cal, fmt.Errorf("parsing break %q: %w", b.Name, err)
			}
			cal.Breaks = append(cal.Breaks, domain.Break{Name: b.Name, StartMin: start, EndMin: end})
		}
	}
	return cal.WithSortedBreaks(), nil
}

func convertTask(ti TaskImport, workOrderID string, refMap map[string]string, cal domain.WorkCalendar, now time.Time) (*domain.Task, error) {
	// Dangling refs are kept verbatim; the scheduler treats them as unresolved.
	pred := ti.PrecedingTaskRef
	if id, ok := refMap[pred]; ok {
		pred = id
	}

	anchor, err := convertAnchor(ti, cal)
	if err != nil {
		return nil, err
	}

	status := domain.TaskStatus(domain.CoalesceStr(ti.Status, string(domain.TaskPending)))
	var completedAt *time.Time
	if status == domain.TaskCompleted {
		completedAt = &now
	}

	task := &domain.Task{
		ID:              refMap[ti.Ref],
		TaskID:          domain.CoalesceStr(ti.TaskID, ti.Ref),
		WorkOrderID:     workOrderID,
		Name:            ti.TaskName,
		Description:     ti.Description,
		EstimatedHours:  domain.PositiveFloat64FromPtrWithDefault(0, ti.EstimatedHours),
		PrecedingTaskID: pred,
		ScheduledStart:  anchor,
		IsCritical:      domain.BoolFromPtrWithDefault(false, ti.IsCritical),
		IsBreakIn:       domain.BoolFromPtrWithDefault(false, ti.IsBreakIn),
		Status:          status,
		CompletedAt:     completedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, a := range ti.AssignedTo {
		task.AssignedTo = append(task.AssignedTo, domain.Assignee{UID: a.UID, Name: domain.CoalesceStr(a.Name, a.UID)})
	}

	for _, ra := range ti.RiskAssessments {
		assessment := domain.RiskAssessment{
			Hazard:              ra.Hazard,
			InitialScore:        ra.InitialScore,
			ResidualScore:       ra.ResidualScore,
			IsResidualTolerable: domain.BoolFromPtrWithDefault(false, ra.IsResidualTolerable),
		}
		for _, c := range ra.Controls {
			assessment.Controls = append(assessment.Controls, domain.SafetyControl{
				ControlName:        c.ControlName,
				ControlDescription: c.ControlDescription,
				IsPreTask:          domain.BoolFromPtrWithDefault(false, c.IsPreTask),
				DurationMinutes:    domain.PositiveFloat64FromPtrWithDefault(scheduler.DefaultSafetyControlMinutes, c.DurationMinutes),
				AssignedToUID:      c.AssignedToUID,
				AssignedToName:     c.AssignedToName,
			})
		}
		task.RiskAssessments = append(task.RiskAssessments, assessment)
	}

	for _, s := range ti.RequiredSpares {
		task.RequiredSpares = append(task.RequiredSpares, domain.RequiredSpare{
			MaterialID:    s.MaterialID,
			Description:   s.Description,
			Quantity:      s.Quantity,
			UOM:           s.UOM,
			WarehousePath: s.WarehousePath,
		})
	}

	for _, s := range ti.RequiredServices {
		svc := domain.RequiredService{
			Name:         s.Name,
			Vendor:       s.Vendor,
			Availability: domain.ServiceAvailability(s.AvailabilityStatus),
		}
		if s.TentativeDate != "" {
			d, err := time.Parse(dateLayout, s.TentativeDate)
			if err != nil {
				return nil, fmt.Errorf("parsing tentative_date for task %s: %w", ti.Ref, err)
			}
			svc.TentativeDate = &d
		}
		task.RequiredServices = append(task.RequiredServices, svc)
	}

	return task, nil
}

// convertAnchor combines the anchor date and time. A missing time means the
// start of the working day.
func convertAnchor(ti TaskImport, cal domain.WorkCalendar) (*time.Time, error) {
	if ti.ScheduledStartDate == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, ti.ScheduledStartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled_start_date for task %s: %w", ti.Ref, err)
	}
	minute := cal.StartMin
	if ti.ScheduledStartTime != "" {
		minute, err = domain.ParseClock(ti.ScheduledStartTime)
		if err != nil {
			return nil, fmt.Errorf("parsing scheduled_start_time for task %s: %w", ti.Ref, err)
		}
	}
	anchor := d.Add(time.Duration(minute) * time.Minute)
	return &anchor, nil
}
