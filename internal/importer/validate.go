package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

const dateLayout = "2006-01-02"

var validTaskStatuses = map[string]bool{
	string(domain.TaskPending):   true,
	string(domain.TaskCompleted): true,
}

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
//
// A preceding_task_ref that names no task is not an error: the scheduler
// places such tasks with its fallback rule.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validatePlan(&schema.Plan)...)

	woRefs := make(map[string]bool)
	taskRefs := make(map[string]bool)
	for i, wo := range schema.WorkOrders {
		errs = append(errs, validateWorkOrder(i, wo, woRefs, taskRefs)...)
	}

	errs = append(errs, validateStock(schema.Stock)...)

	return errs
}

func validatePlan(p *PlanImport) []error {
	var errs []error

	if p.Number == "" {
		errs = append(errs, fmt.Errorf("plan.number is required"))
	}

	start, startOK := requiredDate("plan.start_date", p.StartDate, &errs)
	end, endOK := requiredDate("plan.end_date", p.EndDate, &errs)
	if startOK && endOK && end.Before(start) {
		errs = append(errs, fmt.Errorf("plan.end_date %q must not be before start_date %q", p.EndDate, p.StartDate))
	}

	workStart, wsOK := optionalClock("plan.work_start_time", p.WorkStartTime, &errs)
	workEnd, weOK := optionalClock("plan.work_end_time", p.WorkEndTime, &errs)
	if wsOK && weOK && p.WorkStartTime != "" && p.WorkEndTime != "" && workEnd <= workStart {
		errs = append(errs, fmt.Errorf("plan.work_end_time %q must be after work_start_time %q", p.WorkEndTime, p.WorkStartTime))
	}

	if len(p.Breaks) > domain.MaxBreaks {
		errs = append(errs, fmt.Errorf("plan.breaks: at most %d breaks allowed, got %d", domain.MaxBreaks, len(p.Breaks)))
	}
	for i, b := range p.Breaks {
		prefix := fmt.Sprintf("plan.breaks[%d]", i)
		bs, bsErr := domain.ParseClock(b.StartTime)
		if bsErr != nil {
			errs = append(errs, fmt.Errorf("%s.start_time: %w", prefix, bsErr))
		}
		be, beErr := domain.ParseClock(b.EndTime)
		if beErr != nil {
			errs = append(errs, fmt.Errorf("%s.end_time: %w", prefix, beErr))
		}
		if bsErr == nil && beErr == nil && be <= bs {
			errs = append(errs, fmt.Errorf("%s: end_time %q must be after start_time %q", prefix, b.EndTime, b.StartTime))
		}
	}

	return errs
}

func validateWorkOrder(i int, wo WorkOrderImport, woRefs, taskRefs map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("work_orders[%d]", i)

	if wo.Ref == "" {
		errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
	} else if woRefs[wo.Ref] {
		errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, wo.Ref))
	} else {
		woRefs[wo.Ref] = true
	}
	if wo.Number == "" {
		errs = append(errs, fmt.Errorf("%s.number is required", prefix))
	}

	for j, t := range wo.Tasks {
		errs = append(errs, validateTask(fmt.Sprintf("%s.tasks[%d]", prefix, j), t, taskRefs)...)
	}
	return errs
}

func validateTask(prefix string, t TaskImport, taskRefs map[string]bool) []error {
	var errs []error

	if t.Ref == "" {
		errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
	} else if taskRefs[t.Ref] {
		errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
	} else {
		taskRefs[t.Ref] = true
	}
	if t.TaskName == "" {
		errs = append(errs, fmt.Errorf("%s.task_name is required", prefix))
	}
	if t.Status != "" && !validTaskStatuses[t.Status] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
	}

	if t.ScheduledStartDate != "" {
		if _, err := time.Parse(dateLayout, t.ScheduledStartDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.scheduled_start_date: invalid date format %q (expected YYYY-MM-DD)", prefix, t.ScheduledStartDate))
		}
	} else if t.ScheduledStartTime != "" {
		errs = append(errs, fmt.Errorf("%s.scheduled_start_time requires scheduled_start_date", prefix))
	}
	optionalClock(prefix+".scheduled_start_time", t.ScheduledStartTime, &errs)

	for k, a := range t.AssignedTo {
		if a.UID == "" {
			errs = append(errs, fmt.Errorf("%s.assigned_to[%d].uid is required", prefix, k))
		}
	}

	for k, ra := range t.RiskAssessments {
		raPrefix := fmt.Sprintf("%s.risk_assessments[%d]", prefix, k)
		if ra.InitialScore < 0 || ra.ResidualScore < 0 {
			errs = append(errs, fmt.Errorf("%s: scores must not be negative", raPrefix))
		}
		for m, c := range ra.Controls {
			if c.DurationMinutes != nil && *c.DurationMinutes < 0 {
				errs = append(errs, fmt.Errorf("%s.controls[%d].duration_minutes must not be negative", raPrefix, m))
			}
		}
	}

	for k, s := range t.RequiredSpares {
		spPrefix := fmt.Sprintf("%s.required_spares[%d]", prefix, k)
		if s.MaterialID == "" {
			errs = append(errs, fmt.Errorf("%s.material_id is required", spPrefix))
		}
		if s.Quantity < 0 {
			errs = append(errs, fmt.Errorf("%s.quantity must not be negative", spPrefix))
		}
	}

	for k, s := range t.RequiredServices {
		svPrefix := fmt.Sprintf("%s.required_services[%d]", prefix, k)
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", svPrefix))
		}
		if s.AvailabilityStatus != "" && !domain.ValidServiceAvailability[s.AvailabilityStatus] {
			errs = append(errs, fmt.Errorf("%s.availability_status: invalid value %q", svPrefix, s.AvailabilityStatus))
		}
		if s.TentativeDate != "" {
			if _, err := time.Parse(dateLayout, s.TentativeDate); err != nil {
				errs = append(errs, fmt.Errorf("%s.tentative_date: invalid date format %q (expected YYYY-MM-DD)", svPrefix, s.TentativeDate))
			}
		}
	}

	return errs
}

func validateStock(stock []StockImport) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, s := range stock {
		prefix := fmt.Sprintf("stock[%d]", i)
		if s.MaterialID == "" {
			errs = append(errs, fmt.Errorf("%s.material_id is required", prefix))
		} else if seen[s.MaterialID] {
			errs = append(errs, fmt.Errorf("%s.material_id: duplicate material %q", prefix, s.MaterialID))
		} else {
			seen[s.MaterialID] = true
		}
		if s.AvailableQty < 0 {
			errs = append(errs, fmt.Errorf("%s.available_qty must not be negative", prefix))
		}
		if s.LeadTimeDays < 0 {
			errs = append(errs, fmt.Errorf("%s.lead_time_days must not be negative", prefix))
		}
	}
	return errs
}

func requiredDate(field, value string, errs *[]error) (time.Time, bool) {
	if value == "" {
		*errs = append(*errs, fmt.Errorf("%s is required", field))
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value))
		return time.Time{}, false
	}
	return t, true
}

func optionalClock(field, value string, errs *[]error) (int, bool) {
	if value == "" {
		return 0, true
	}
	m, err := domain.ParseClock(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", field, err))
		return 0, false
	}
	return m, true
}
