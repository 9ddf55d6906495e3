package domain

import "time"

// Coordinates is a WGS84 point. Both fields travel together; a location or a
// clock-in either has a full coordinate pair or none at all.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BreakTier mandates BreakMinutes of unpaid break once a worked duration
// reaches MinHours. Tiers are ordered by MinHours ascending.
type BreakTier struct {
	MinHours     float64 `json:"minHours"`
	BreakMinutes int     `json:"breakMinutes"`
}

type Location struct {
	ID             int64        `json:"id"`
	OrganizationID int64        `json:"organizationID"`
	Name           string       `json:"name"`
	Coordinates    *Coordinates `json:"coordinates"`
	// ClockInRadiusMetres gates geofenced clock-in; zero falls back to the
	// configured default radius.
	ClockInRadiusMetres float64 `json:"clockInRadiusMetres"`
	// BreakTiers overrides the organization default tier list when non-empty.
	BreakTiers []BreakTier `json:"breakTiers"`
	IsActive   bool        `json:"isActive"`
	CreatedAt  time.Time   `json:"createdAt"`
	Version    int32       `json:"-"`
}
