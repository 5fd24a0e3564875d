package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

func position(name, group string, weight float64) contracts.Position {
	return contracts.Position{Name: name, NSECode: name, SectorGroup: group, Weight: weight}
}

func TestValidatorCleanAllocation(t *testing.T) {
	alloc := contracts.PortfolioAllocation{
		Positions: []contracts.Position{
			position("PIDILITIND", "Chemicals", 12),
			position("TITAN", "Consumer", 12),
			position("LALPATHLAB", "Healthcare", 12),
		},
		CashPercent: 64,
		SectorBreakdown: map[string]float64{
			"Chemicals":  12,
			"Consumer":   12,
			"Healthcare": 12,
		},
	}

	assert.Empty(t, NewValidator(DefaultConfig()).Check(alloc))
}

func TestValidatorFlagsTotalDrift(t *testing.T) {
	alloc := contracts.PortfolioAllocation{
		Positions: []contracts.Position{
			position("PIDILITIND", "Chemicals", 12),
			position("TITAN", "Consumer", 12),
		},
		CashPercent: 70,
		SectorBreakdown: map[string]float64{
			"Chemicals": 12,
			"Consumer":  12,
		},
	}

	warnings := NewValidator(DefaultConfig()).Check(alloc)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "94.0")
	assert.Contains(t, warnings[0], "expected 100")
}

func TestValidatorFlagsSectorBreaches(t *testing.T) {
	positions := make([]contracts.Position, 0, 10)
	for _, group := range []string{"Metals", "Chemicals"} {
		for i := 0; i < 5; i++ {
			positions = append(positions, position(group, group, 5.4))
		}
	}
	alloc := contracts.PortfolioAllocation{
		Positions:   positions,
		CashPercent: 46,
		SectorBreakdown: map[string]float64{
			"Metals":    27,
			"Chemicals": 27,
		},
	}

	warnings := NewValidator(DefaultConfig()).Check(alloc)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "sector Chemicals")
	assert.Contains(t, warnings[1], "sector Metals")
}

func TestValidatorFlagsOverweightStock(t *testing.T) {
	alloc := contracts.PortfolioAllocation{
		Positions: []contracts.Position{
			position("Concentrated Bet", "Consumer", 14),
		},
		CashPercent: 86,
		SectorBreakdown: map[string]float64{
			"Consumer": 14,
		},
	}

	warnings := NewValidator(DefaultConfig()).Check(alloc)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Concentrated Bet")
	assert.Contains(t, warnings[0], "14.0")
}

func TestValidatorFlagsTopFiveConcentration(t *testing.T) {
	groups := []string{"Chemicals", "Consumer", "Healthcare", "Engineering", "Auto", "Cement"}
	positions := make([]contracts.Position, 0, 6)
	for _, group := range groups {
		positions = append(positions, position(group, group, 11))
	}
	alloc := contracts.PortfolioAllocation{
		Positions:   positions,
		CashPercent: 34,
		SectorBreakdown: map[string]float64{
			"Chemicals": 11, "Consumer": 11, "Healthcare": 11,
			"Engineering": 11, "Auto": 11, "Cement": 11,
		},
	}

	warnings := NewValidator(DefaultConfig()).Check(alloc)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "top 5 positions")
	assert.Contains(t, warnings[0], "55.0")
}
