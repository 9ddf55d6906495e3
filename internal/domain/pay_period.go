package domain

import "time"

// PayPeriod is a read-only reporting window consumed by the payroll
// aggregator; the core never mutates it.
type PayPeriod struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	PayDate        time.Time `json:"payDate"`
	IsActive       bool      `json:"isActive"`
}
