package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/teatest"
	"github.com/stretchr/testify/assert"
)

func newTestPlanView(t *testing.T) *teatest.Driver {
	t.Helper()
	app := testApp(t)
	plan := importOutage(t, app)
	req := contract.NewScheduleRequest(plan)
	req.Today = fixtureDate(t, "2025-03-01")

	d := teatest.New(t, newPlanView(context.Background(), app, req), teatest.WithSize(160, 60))
	d.DrainInit()
	return d
}

func fixtureDate(t *testing.T, s string) *time.Time {
	t.Helper()
	var d dateValue
	if err := d.Set(s); err != nil {
		t.Fatal(err)
	}
	return d.Time()
}

func TestPlanView_LoadsSchedule(t *testing.T) {
	d := newTestPlanView(t)
	view := ansiPattern.ReplaceAllString(d.View(), "")
	assert.Contains(t, view, "[Schedule]")
	assert.Contains(t, view, "Isolate boiler")
	assert.Contains(t, view, "Ready to commit.")
}

func TestPlanView_TabCyclesPanes(t *testing.T) {
	d := newTestPlanView(t)

	d.PressTab()
	view := ansiPattern.ReplaceAllString(d.View(), "")
	assert.Contains(t, view, "[Resources]")
	assert.Contains(t, view, "Alice")

	d.PressTab()
	view = ansiPattern.ReplaceAllString(d.View(), "")
	assert.Contains(t, view, "[Plan]")
	assert.Contains(t, view, "WO-1")

	d.PressTab()
	assert.Contains(t, ansiPattern.ReplaceAllString(d.View(), ""), "[Schedule]")
}

func TestPlanView_RefreshAndQuit(t *testing.T) {
	d := newTestPlanView(t)

	d.PressKey('r')
	assert.NotContains(t, ansiPattern.ReplaceAllString(d.View(), ""), "refreshing")

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestPlanView_UnknownPlan(t *testing.T) {
	app := testApp(t)
	d := teatest.New(t, newPlanView(context.Background(), app, contract.NewScheduleRequest("nope")), teatest.WithSize(100, 30))
	d.DrainInit()
	assert.Contains(t, ansiPattern.ReplaceAllString(d.View(), ""), "Error:")
}
