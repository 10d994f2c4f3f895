package domain

import (
	"fmt"
	"time"
)

// Reservation claims stock for one required spare of one task. Reservations are
// only created when a plan is committed.
type Reservation struct {
	ID            string
	PlanID        string
	TaskID        string
	MaterialID    string
	Quantity      float64
	UOM           string
	WarehousePath string
	Status        ReservationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// nextReservationStatus maps each status to its only legal successor.
var nextReservationStatus = map[ReservationStatus]ReservationStatus{
	ReservationReserved: ReservationOrdered,
	ReservationOrdered:  ReservationIssued,
}

// Advance moves the reservation one step along RESERVED -> ORDERED -> ISSUED.
func (r *Reservation) Advance(now time.Time) error {
	next, ok := nextReservationStatus[r.Status]
	if !ok {
		return fmt.Errorf("reservation %s is %s: %w", r.ID, r.Status, ErrInvalidTransition)
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

// ReservationsFor pairs every required spare of every task with a new RESERVED
// reservation, in task order then spare order.
func ReservationsFor(planID string, tasks []*Task, newID func() string, now time.Time) []*Reservation {
	var out []*Reservation
	for _, t := range tasks {
		for _, s := range t.RequiredSpares {
			out = append(out, &Reservation{
				ID:            newID(),
				PlanID:        planID,
				TaskID:        t.ID,
				MaterialID:    s.MaterialID,
				Quantity:      s.Quantity,
				UOM:           s.UOM,
				WarehousePath: s.WarehousePath,
				Status:        ReservationReserved,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
	}
	return out
}
