package breakrule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rotaworks-dev/staffhub/backend/internal/breakrule"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

var standardTiers = []domain.BreakTier{
	{MinHours: 4, BreakMinutes: 15},
	{MinHours: 6, BreakMinutes: 30},
	{MinHours: 8, BreakMinutes: 60},
}

func TestMandatedMinutes(t *testing.T) {
	tests := []struct {
		name   string
		worked float64
		tiers  []domain.BreakTier
		want   int
	}{
		{"below every tier", 3.5, standardTiers, 0},
		{"lower bound is inclusive", 4, standardTiers, 15},
		{"between tiers", 5.9, standardTiers, 15},
		{"second tier boundary", 6, standardTiers, 30},
		{"largest qualifying tier wins", 9.5, standardTiers, 60},
		{"exactly the top boundary", 8, standardTiers, 60},
		{"empty tier list", 10, nil, 0},
		{"unordered tiers", 7, []domain.BreakTier{
			{MinHours: 6, BreakMinutes: 30},
			{MinHours: 4, BreakMinutes: 15},
		}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, breakrule.MandatedMinutes(tt.worked, tt.tiers))
		})
	}
}

func TestTiersFor(t *testing.T) {
	override := []domain.BreakTier{{MinHours: 5, BreakMinutes: 20}}

	location := &domain.Location{BreakTiers: override}
	assert.Equal(t, override, breakrule.TiersFor(location, standardTiers))

	bare := &domain.Location{}
	assert.Equal(t, standardTiers, breakrule.TiersFor(bare, standardTiers))

	assert.Equal(t, standardTiers, breakrule.TiersFor(nil, standardTiers))
}
