package app

import (
	"context"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/importer"
)

type ScheduleUseCase interface {
	Compute(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error)
}

type CommitUseCase interface {
	Commit(ctx context.Context, req CommitRequest) (*CommitResponse, error)
}

type ApprovePlanUseCase interface {
	Approve(ctx context.Context, req ApprovalRequest) (*domain.Plan, error)
}

type ImportPlanUseCase interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
