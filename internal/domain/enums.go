package domain

// PlanStatus is the lifecycle state of a maintenance plan. Draft plans are
// editable; every later state is locked.
type PlanStatus string

const (
	PlanDraft      PlanStatus = "DRAFT"
	PlanInProgress PlanStatus = "IN_PROGRESS"
	PlanScheduled  PlanStatus = "SCHEDULED"
	PlanCompleted  PlanStatus = "COMPLETED"
)

type WorkOrderStatus string

const (
	WorkOrderOpen      WorkOrderStatus = "OPEN"
	WorkOrderScheduled WorkOrderStatus = "SCHEDULED"
	WorkOrderCompleted WorkOrderStatus = "COMPLETED"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

// ServiceAvailability is the confirmation state of an external service
// (contractor, crane hire, vendor technician) a task depends on.
type ServiceAvailability string

const (
	ServiceAvailable    ServiceAvailability = "Available"
	ServiceNotAvailable ServiceAvailability = "Not Available"
	ServiceNotContacted ServiceAvailability = "Not Contacted"
)

// ValidServiceAvailability is the canonical set of accepted availability strings.
var ValidServiceAvailability = map[string]bool{
	string(ServiceAvailable):    true,
	string(ServiceNotAvailable): true,
	string(ServiceNotContacted): true,
}

type ReservationStatus string

const (
	ReservationReserved ReservationStatus = "RESERVED"
	ReservationOrdered  ReservationStatus = "ORDERED"
	ReservationIssued   ReservationStatus = "ISSUED"
)

// ApprovalStage identifies one of the two sign-offs a plan needs before commit.
type ApprovalStage int

const (
	ApprovalStage1 ApprovalStage = 1
	ApprovalStage2 ApprovalStage = 2
)
