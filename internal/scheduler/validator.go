package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// DefaultSpareGraceDays is how far past the plan end a spare may arrive.
const DefaultSpareGraceDays = 7

// Policy tunes which readiness rules block a commit.
type Policy struct {
	SpareGraceDays int
	// BlockOnServices makes unconfirmed external services block commit.
	BlockOnServices bool
	// BlockOnStock makes insufficient stock block commit.
	BlockOnStock bool
}

// DefaultPolicy blocks only on the hard rules, with the default spare grace.
func DefaultPolicy() Policy {
	return Policy{SpareGraceDays: DefaultSpareGraceDays}
}

// PolicyOverride replaces selected fields of a Policy. Nil fields keep the
// base value.
type PolicyOverride struct {
	SpareGraceDays  *int
	BlockOnServices *bool
	BlockOnStock    *bool
}

// Apply returns base with the set fields of o replaced. A nil override
// returns base unchanged.
func (o *PolicyOverride) Apply(base Policy) Policy {
	if o == nil {
		return base
	}
	if o.SpareGraceDays != nil {
		base.SpareGraceDays = *o.SpareGraceDays
	}
	if o.BlockOnServices != nil {
		base.BlockOnServices = *o.BlockOnServices
	}
	if o.BlockOnStock != nil {
		base.BlockOnStock = *o.BlockOnStock
	}
	return base
}

// Rule names one readiness check.
type Rule string

const (
	RuleDates            Rule = "dates"
	RuleWorkOrders       Rule = "work_orders"
	RuleSparesStock      Rule = "spares_stock"
	RuleSparesDelay      Rule = "spares_delay"
	RuleResourceOverlap  Rule = "resource_overlap"
	RuleResourceOverload Rule = "resource_overload"
	RuleServices         Rule = "services"
	RuleSafety           Rule = "safety"
	RuleCommitted        Rule = "committed"
)

// Issue is one rule violation.
type Issue struct {
	Rule     Rule   `json:"rule"`
	TaskID   string `json:"task_id,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

// Verdict is the readiness of a plan for commit.
type Verdict struct {
	DatesValid         bool      `json:"dates_valid"`
	HasWorkOrders      bool      `json:"has_work_orders"`
	SparesStockValid   bool      `json:"spares_stock_valid"`
	SparesDelayValid   bool      `json:"spares_delay_valid"`
	HasSpareConflict   bool      `json:"has_spare_conflict"`
	ResourceOverlap    bool      `json:"resource_overlap"`
	ResourceOverloaded bool      `json:"resource_overloaded"`
	ServicesValid      bool      `json:"services_valid"`
	SafetyValid        bool      `json:"safety_valid"`
	AlreadyCommitted   bool      `json:"already_committed"`
	CanCommit          bool      `json:"can_commit"`
	Issues             []Issue   `json:"issues,omitempty"`
	Overlaps           []Overlap `json:"overlaps,omitempty"`
}

// ValidationInput carries everything the rules look at.
type ValidationInput struct {
	Plan           *domain.Plan
	Clock          Clock
	Scheduled      []ScheduledTask
	Tasks          []domain.Task
	Stock          map[string]domain.StockLevel
	WorkOrderCount int
	Today          time.Time
	Policy         Policy
}

// Validate evaluates every readiness rule independently and combines the
// blocking ones into CanCommit. It never fails: absent inputs fall back to
// neutral values.
func Validate(in ValidationInput) Verdict {
	plan := in.Plan
	if plan == nil {
		plan = &domain.Plan{}
	}
	v := Verdict{
		DatesValid:       !plan.StartDate.After(plan.EndDate),
		HasWorkOrders:    in.WorkOrderCount > 0,
		AlreadyCommitted: plan.IsCommitted(),
	}
	if !v.DatesValid {
		v.addIssue(RuleDates, "", "", true, "start date %s is after end date %s",
			plan.StartDate.Format(dateLayout), plan.EndDate.Format(dateLayout))
	}
	if !v.HasWorkOrders {
		v.addIssue(RuleWorkOrders, "", "", true, "no work orders are linked to the plan")
	}
	if v.AlreadyCommitted {
		v.addIssue(RuleCommitted, "", "", true, "plan is already %s", plan.EffectiveStatus())
	}

	v.SparesStockValid = v.checkStock(in)
	v.SparesDelayValid = v.checkLeadTimes(in, plan)
	v.HasSpareConflict = !v.SparesDelayValid

	v.Overlaps = FindOverlaps(in.Scheduled)
	v.ResourceOverlap = len(v.Overlaps) > 0
	labels := make(map[string]string, len(in.Scheduled))
	for i := range in.Scheduled {
		labels[in.Scheduled[i].ID] = in.Scheduled[i].DisplayID()
	}
	for _, o := range v.Overlaps {
		v.addIssue(RuleResourceOverlap, o.SecondTask, o.UID, true,
			"%s is double-booked on %s and %s", assigneeLabel(o.UID, o.Name), labels[o.FirstTask], labels[o.SecondTask])
	}
	v.ResourceOverloaded = v.checkOverload(in, plan)

	v.ServicesValid = v.checkServices(in, plan)
	v.SafetyValid = v.checkSafety(in)

	v.CanCommit = v.DatesValid &&
		!v.ResourceOverlap &&
		!v.ResourceOverloaded &&
		v.SparesDelayValid &&
		(v.ServicesValid || !in.Policy.BlockOnServices) &&
		(v.SparesStockValid || !in.Policy.BlockOnStock) &&
		v.HasWorkOrders &&
		v.SafetyValid &&
		!v.AlreadyCommitted
	return v
}

func (v *Verdict) addIssue(rule Rule, taskID, subject string, blocking bool, format string, args ...any) {
	v.Issues = append(v.Issues, Issue{
		Rule:     rule,
		TaskID:   taskID,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
		Blocking: blocking,
	})
}

// BlockingIssues returns the issues that keep CanCommit false.
func (v Verdict) BlockingIssues() []Issue {
	var out []Issue
	for _, is := range v.Issues {
		if is.Blocking {
			out = append(out, is)
		}
	}
	return out
}

func (v *Verdict) checkStock(in ValidationInput) bool {
	ok := true
	for _, t := range in.Tasks {
		for _, s := range t.RequiredSpares {
			available := in.Stock[s.MaterialID].AvailableQty
			if available < s.Quantity {
				ok = false
				v.addIssue(RuleSparesStock, t.ID, s.MaterialID, in.Policy.BlockOnStock,
					"%s needs %g %s of %s, %g available", t.DisplayID(), s.Quantity, s.UOM, s.MaterialID, available)
			}
		}
	}
	return ok
}

func (v *Verdict) checkLeadTimes(in ValidationInput, plan *domain.Plan) bool {
	grace := in.Policy.SpareGraceDays
	deadline := dateOnly(plan.EndDate).AddDate(0, 0, grace)
	today := dateOnly(in.Today)
	ok := true
	for _, t := range in.Tasks {
		for _, s := range t.RequiredSpares {
			lead := in.Stock[s.MaterialID].LeadTimeDays
			arrival := today.AddDate(0, 0, lead)
			if arrival.After(deadline) {
				ok = false
				v.addIssue(RuleSparesDelay, t.ID, s.MaterialID, true,
					"%s arrives %s, after %s (plan end + %d days)",
					s.MaterialID, arrival.Format(dateLayout), deadline.Format(dateLayout), grace)
			}
		}
	}
	return ok
}

// CapacityHours is the working time one person has across the whole plan.
func CapacityHours(plan *domain.Plan, clock Clock) float64 {
	days := int(dateOnly(plan.EndDate).Sub(dateOnly(plan.StartDate)).Hours()/24) + 1
	if days <= 0 {
		return 0
	}
	return float64(days) * clock.NetDailyHours()
}

func (v *Verdict) checkOverload(in ValidationInput, plan *domain.Plan) bool {
	capacity := CapacityHours(plan, in.Clock)
	groups, uids := groupByAssignee(in.Scheduled)
	overloaded := false
	for _, uid := range uids {
		var hours float64
		for _, a := range groups[uid] {
			hours += a.task.Hours()
		}
		if hours > capacity {
			overloaded = true
			v.addIssue(RuleResourceOverload, "", uid, true,
				"%s is assigned %.2fh against %.2fh capacity", assigneeLabel(uid, groups[uid][0].name), hours, capacity)
		}
	}
	return overloaded
}

func (v *Verdict) checkServices(in ValidationInput, plan *domain.Plan) bool {
	start := dateOnly(plan.StartDate)
	blocking := in.Policy.BlockOnServices
	ok := true
	for _, t := range in.Tasks {
		for _, s := range t.RequiredServices {
			switch s.Availability {
			case domain.ServiceAvailable:
			case domain.ServiceNotAvailable:
				if s.TentativeDate == nil {
					ok = false
					v.addIssue(RuleServices, t.ID, s.Name, blocking, "%s is not available and has no tentative date", s.Name)
				} else if dateOnly(*s.TentativeDate).After(start) {
					ok = false
					v.addIssue(RuleServices, t.ID, s.Name, blocking, "%s is tentatively available %s, after plan start %s",
						s.Name, s.TentativeDate.Format(dateLayout), start.Format(dateLayout))
				}
			default:
				ok = false
				v.addIssue(RuleServices, t.ID, s.Name, blocking, "%s has not been contacted", s.Name)
			}
		}
	}
	return ok
}

func (v *Verdict) checkSafety(in ValidationInput) bool {
	ok := true
	assessed := false
	for _, t := range in.Tasks {
		for _, ra := range t.RiskAssessments {
			assessed = true
			if ra.ResidualScore >= ra.InitialScore {
				ok = false
				v.addIssue(RuleSafety, t.ID, ra.Hazard, true, "%s: residual score %d is not below initial %d",
					ra.Hazard, ra.ResidualScore, ra.InitialScore)
			}
			if !ra.IsResidualTolerable {
				ok = false
				v.addIssue(RuleSafety, t.ID, ra.Hazard, true, "%s: residual risk is not tolerable", ra.Hazard)
			}
		}
	}
	if len(in.Tasks) > 0 && !assessed {
		ok = false
		v.addIssue(RuleSafety, "", "", true, "no task carries a risk assessment")
	}
	return ok
}

const dateLayout = "2006-01-02"

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func assigneeLabel(uid, name string) string {
	if name != "" {
		return name
	}
	return uid
}
