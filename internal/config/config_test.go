package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/config"
)

func TestParseBreakTiers(t *testing.T) {
	tiers, err := config.ParseBreakTiers("4:15,6:30,8:60")
	require.NoError(t, err)
	require.Len(t, tiers, 3)
	assert.Equal(t, config.BreakTier{MinHours: 4, BreakMinutes: 15}, tiers[0])
	assert.Equal(t, config.BreakTier{MinHours: 6, BreakMinutes: 30}, tiers[1])
	assert.Equal(t, config.BreakTier{MinHours: 8, BreakMinutes: 60}, tiers[2])
}

func TestParseBreakTiers_FractionalHours(t *testing.T) {
	tiers, err := config.ParseBreakTiers("5.5:20")
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, 5.5, tiers[0].MinHours)
}

func TestParseBreakTiers_Whitespace(t *testing.T) {
	tiers, err := config.ParseBreakTiers(" 4:15, 6:30 ")
	require.NoError(t, err)
	assert.Len(t, tiers, 2)
}

func TestParseBreakTiers_Empty(t *testing.T) {
	tiers, err := config.ParseBreakTiers("")
	require.NoError(t, err)
	assert.Nil(t, tiers)
}

func TestParseBreakTiers_Malformed(t *testing.T) {
	for _, s := range []string{"4", "four:15", "4:fifteen", "4:15,,6:30"} {
		_, err := config.ParseBreakTiers(s)
		assert.Error(t, err, "input %q", s)
	}
}
