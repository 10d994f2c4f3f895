package contract

import "github.com/alexanderramin/maintplan/internal/app"

type ScheduleRequest = app.ScheduleRequest

func NewScheduleRequest(planRef string) ScheduleRequest {
	return app.NewScheduleRequest(planRef)
}

type ScheduleResponse = app.ScheduleResponse

type ScheduleDocument = app.ScheduleDocument

type TaskDocument = app.TaskDocument

func NewScheduleDocument(resp *ScheduleResponse) ScheduleDocument {
	return app.NewScheduleDocument(resp)
}
