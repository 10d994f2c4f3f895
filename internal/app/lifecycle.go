package app

import (
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
)

type ApprovalRequest struct {
	PlanRef string
	Stage   domain.ApprovalStage
	UID     string
	Name    string
	// Date defaults to now.
	Date *time.Time
}

func NewApprovalRequest(planRef string, stage domain.ApprovalStage, uid string) ApprovalRequest {
	return ApprovalRequest{PlanRef: planRef, Stage: stage, UID: uid}
}

type CommitRequest struct {
	PlanRef string
	Today   *time.Time
	// ExpectedFingerprint, when set, must match the freshly computed schedule.
	ExpectedFingerprint string
}

func NewCommitRequest(planRef string) CommitRequest {
	return CommitRequest{PlanRef: planRef}
}

// CommitResponse reports a successful commit.
type CommitResponse struct {
	Plan         *domain.Plan
	Reservations []*domain.Reservation
	Verdict      scheduler.Verdict
	Fingerprint  string
}

// CommitBlockedError carries the verdict that refused a commit. It matches
// domain.ErrCommitBlocked under errors.Is.
type CommitBlockedError struct {
	Verdict scheduler.Verdict
}

func (e *CommitBlockedError) Error() string {
	n := len(e.Verdict.BlockingIssues())
	if n == 1 {
		return fmt.Sprintf("%s: 1 blocking issue", domain.ErrCommitBlocked)
	}
	return fmt.Sprintf("%s: %d blocking issues", domain.ErrCommitBlocked, n)
}

func (e *CommitBlockedError) Unwrap() error {
	return domain.ErrCommitBlocked
}

// TransitionResponse reports a lifecycle step other than commit.
type TransitionResponse struct {
	Plan       *domain.Plan
	From       domain.PlanStatus
	WorkOrders int
}

// BreakInRequest adds unplanned work to a locked plan.
type BreakInRequest struct {
	PlanRef      string
	WorkOrderRef string
	Name         string
	Hours        float64
	Assignees    []domain.Assignee
	Spares       []domain.RequiredSpare
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Plan           *domain.Plan
	WorkOrderCount int
	TaskCount      int
	StockCount     int
	// DanglingRefs lists task ids whose predecessor did not resolve.
	DanglingRefs []string
}
