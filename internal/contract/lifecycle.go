package contract

import (
	"github.com/alexanderramin/maintplan/internal/app"
	"github.com/alexanderramin/maintplan/internal/domain"
)

type ApprovalRequest = app.ApprovalRequest

func NewApprovalRequest(planRef string, stage domain.ApprovalStage, uid string) ApprovalRequest {
	return app.NewApprovalRequest(planRef, stage, uid)
}

type CommitRequest = app.CommitRequest

func NewCommitRequest(planRef string) CommitRequest {
	return app.NewCommitRequest(planRef)
}

type CommitResponse = app.CommitResponse

type CommitBlockedError = app.CommitBlockedError

type TransitionResponse = app.TransitionResponse

type BreakInRequest = app.BreakInRequest

type ImportResult = app.ImportResult
