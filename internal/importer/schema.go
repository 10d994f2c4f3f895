package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for plan import.
type ImportSchema struct {
	Plan       PlanImport        `json:"plan"`
	WorkOrders []WorkOrderImport `json:"work_orders"`
	Stock      []StockImport     `json:"stock,omitempty"`
}

// PlanImport defines the plan window and its daily work calendar. Omitted
// calendar fields fall back to the configured default calendar.
type PlanImport struct {
	Number        string        `json:"number"`
	Title         string        `json:"title"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	WorkStartTime string        `json:"work_start_time,omitempty"`
	WorkEndTime   string        `json:"work_end_time,omitempty"`
	Breaks        []BreakImport `json:"breaks,omitempty"`
}

type BreakImport struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WorkOrderImport groups the tasks of one work order.
type WorkOrderImport struct {
	Ref    string       `json:"ref"`
	Number string       `json:"number"`
	Title  string       `json:"title"`
	Tasks  []TaskImport `json:"tasks"`
}

// TaskImport defines a task in the import file. Refs are unique across the
// whole file so preceding_task_ref may point into another work order.
type TaskImport struct {
	Ref                string                 `json:"ref"`
	TaskID             string                 `json:"task_id,omitempty"`
	TaskName           string                 `json:"task_name"`
	Description        string                 `json:"description,omitempty"`
	EstimatedHours     *float64               `json:"estimated_duration_hours,omitempty"`
	PrecedingTaskRef   string                 `json:"preceding_task_ref,omitempty"`
	ScheduledStartDate string                 `json:"scheduled_start_date,omitempty"`
	ScheduledStartTime string                 `json:"scheduled_start_time,omitempty"`
	AssignedTo         []AssigneeImport       `json:"assigned_to,omitempty"`
	IsCritical         *bool                  `json:"is_critical,omitempty"`
	IsBreakIn          *bool                  `json:"is_break_in,omitempty"`
	Status             string                 `json:"status,omitempty"`
	RiskAssessments    []RiskAssessmentImport `json:"risk_assessments,omitempty"`
	RequiredSpares     []SpareImport          `json:"required_spares,omitempty"`
	RequiredServices   []ServiceImport        `json:"required_services,omitempty"`
}

type AssigneeImport struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

type RiskAssessmentImport struct {
	Hazard              string          `json:"hazard"`
	InitialScore        int             `json:"initial_score"`
	ResidualScore       int             `json:"residual_score"`
	IsResidualTolerable *bool           `json:"is_residual_tolerable,omitempty"`
	Controls            []ControlImport `json:"controls,omitempty"`
}

type ControlImport struct {
	ControlName        string   `json:"control_name"`
	ControlDescription string   `json:"control_description,omitempty"`
	IsPreTask          *bool    `json:"is_pre_task,omitempty"`
	DurationMinutes    *float64 `json:"duration_minutes,omitempty"`
	AssignedToUID      string   `json:"assigned_to_uid,omitempty"`
	AssignedToName     string   `json:"assigned_to_name,omitempty"`
}

type SpareImport struct {
	MaterialID    string  `json:"material_id"`
	Description   string  `json:"description,omitempty"`
	Quantity      float64 `json:"quantity"`
	UOM           string  `json:"uom,omitempty"`
	WarehousePath string  `json:"warehouse_path,omitempty"`
}

type ServiceImport struct {
	Name               string `json:"name"`
	Vendor             string `json:"vendor,omitempty"`
	AvailabilityStatus string `json:"availability_status,omitempty"`
	TentativeDate      string `json:"tentative_date,omitempty"`
}

// StockImport seeds the live stock map.
type StockImport struct {
	MaterialID   string  `json:"material_id"`
	AvailableQty float64 `json:"available_qty"`
	LeadTimeDays int     `json:"lead_time_days"`
}

// LoadImportSchema reads and parses a plan import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema parses raw import JSON.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
