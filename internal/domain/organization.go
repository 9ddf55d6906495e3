package domain

import "time"

// Organization is the tenant boundary: every entity hangs off one, and the
// entity loaders treat cross-organization IDs as not found.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
