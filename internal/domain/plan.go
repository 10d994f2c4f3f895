package domain

import (
	"fmt"
	"time"
)

// Approval is a sign-off stamp.
type Approval struct {
	UID  string
	Name string
	Date time.Time
}

type Approvals struct {
	Stage1 *Approval
	Stage2 *Approval
}

// Plan is a maintenance plan: a date window, a daily work calendar and the
// work orders whose tasks are scheduled inside it.
type Plan struct {
	ID        string
	Number    string
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Calendar  WorkCalendar
	Status    PlanStatus
	Approvals Approvals

	// ScheduleFingerprint is the hash of the schedule that was committed.
	ScheduleFingerprint string
	CommittedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus treats an unset status as DRAFT.
func (p *Plan) EffectiveStatus() PlanStatus {
	if p.Status == "" {
		return PlanDraft
	}
	return p.Status
}

// IsLocked reports whether the plan's tasks are read-only.
func (p *Plan) IsLocked() bool {
	return p.EffectiveStatus() != PlanDraft
}

// IsCommitted reports whether the plan has been committed at least once.
func (p *Plan) IsCommitted() bool {
	return p.IsLocked()
}

// DisplayID prefers the plan number over the internal id.
func (p *Plan) DisplayID() string {
	if p.Number != "" {
		return p.Number
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Approve records a sign-off. Stage 2 requires stage 1 and both require an
// editable plan.
func (p *Plan) Approve(stage ApprovalStage, a Approval) error {
	if p.IsLocked() {
		return fmt.Errorf("approving plan %s: %w", p.DisplayID(), ErrPlanLocked)
	}
	switch stage {
	case ApprovalStage1:
		p.Approvals.Stage1 = &a
	case ApprovalStage2:
		if p.Approvals.Stage1 == nil {
			return fmt.Errorf("approving plan %s: %w", p.DisplayID(), ErrApprovalOrder)
		}
		p.Approvals.Stage2 = &a
	default:
		return fmt.Errorf("unknown approval stage %d", stage)
	}
	p.UpdatedAt = a.Date
	return nil
}

// planTransitions is the one-way lifecycle pipeline.
var planTransitions = map[PlanStatus]PlanStatus{
	PlanDraft:      PlanInProgress,
	PlanInProgress: PlanScheduled,
	PlanScheduled:  PlanCompleted,
}

// Transition moves the plan to the next lifecycle status. Only the single
// forward step from the current status is accepted.
func (p *Plan) Transition(to PlanStatus, now time.Time) error {
	from := p.EffectiveStatus()
	if next, ok := planTransitions[from]; !ok || next != to {
		return fmt.Errorf("plan %s %s -> %s: %w", p.DisplayID(), from, to, ErrInvalidTransition)
	}
	if to == PlanInProgress && p.Approvals.Stage2 == nil {
		return fmt.Errorf("committing plan %s: %w", p.DisplayID(), ErrApprovalMissing)
	}
	p.Status = to
	if to == PlanInProgress {
		p.CommittedAt = &now
	}
	p.UpdatedAt = now
	return nil
}
