package domain

import "errors"

var (
	// ErrPlanLocked is returned when a mutation targets a plan that has left DRAFT.
	ErrPlanLocked = errors.New("plan is locked")
	// ErrInvalidTransition is returned for any status change outside the
	// one-way lifecycle pipeline.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCommitBlocked is returned when the readiness verdict does not allow commit.
	ErrCommitBlocked   = errors.New("plan cannot be committed")
	ErrApprovalMissing = errors.New("stage 2 approval is required")
	ErrApprovalOrder   = errors.New("stage 1 approval must precede stage 2")
	ErrTasksIncomplete = errors.New("plan has incomplete tasks")
	ErrNotFound        = errors.New("not found")
	// ErrScheduleChanged is returned when a commit was confirmed against a
	// schedule fingerprint that no longer matches the plan.
	ErrScheduleChanged = errors.New("schedule changed since it was reviewed")
)
