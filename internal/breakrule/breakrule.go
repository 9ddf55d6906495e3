// Package breakrule derives mandated unpaid break minutes from a worked
// duration using tiered rules: per-location tiers when configured, otherwise
// the organization-wide defaults.
package breakrule

import (
	"github.com/rotaworks-dev/staffhub/backend/internal/config"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

// MandatedMinutes selects the tier with the largest MinHours threshold that is
// less than or equal to workedHours (the lower bound is inclusive). No
// qualifying tier, or an empty list, means no mandated break.
func MandatedMinutes(workedHours float64, tiers []domain.BreakTier) int {
	minutes := 0
	best := -1.0

	for _, tier := range tiers {
		if tier.MinHours <= workedHours && tier.MinHours > best {
			best = tier.MinHours
			minutes = tier.BreakMinutes
		}
	}

	return minutes
}

// TiersFor returns the location's override tiers when present, falling back
// to the organization defaults. A nil location just yields the defaults.
func TiersFor(location *domain.Location, defaults []domain.BreakTier) []domain.BreakTier {
	if location != nil && len(location.BreakTiers) > 0 {
		return location.BreakTiers
	}
	return defaults
}

// DefaultTiers converts the configured default tier list into domain tiers.
func DefaultTiers(cfgTiers []config.BreakTier) []domain.BreakTier {
	tiers := make([]domain.BreakTier, 0, len(cfgTiers))
	for _, t := range cfgTiers {
		tiers = append(tiers, domain.BreakTier{MinHours: t.MinHours, BreakMinutes: t.BreakMinutes})
	}
	return tiers
}
