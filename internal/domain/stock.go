package domain

import "time"

// StockLevel is the live inventory position of one material.
type StockLevel struct {
	MaterialID   string
	AvailableQty float64
	LeadTimeDays int
	UpdatedAt    time.Time
}
