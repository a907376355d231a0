package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquityApply(t *testing.T) {
	cell := NewEquityCell()
	err := cell.Apply(map[string]any{
		"isTradeActive": true,
		"profit":        12.5,
		"currentEquity": 10012.5,
		"t":             "2025-08-01T10:30:00Z",
	})
	require.NoError(t, err)

	r := cell.Read()
	assert.True(t, r.Active)
	require.NotNil(t, r.Profit)
	assert.InDelta(t, 12.5, *r.Profit, 1e-9)
	require.NotNil(t, r.CurrentEquity)
	assert.InDelta(t, 10012.5, *r.CurrentEquity, 1e-9)
	assert.Equal(t, "2025-08-01", r.TradeDate())
}

func TestEquityApplyStringNumbers(t *testing.T) {
	cell := NewEquityCell()
	err := cell.Apply(map[string]any{"isTradeActive": false, "profit": "3.25"})
	require.NoError(t, err)
	r := cell.Read()
	require.NotNil(t, r.Profit)
	assert.InDelta(t, 3.25, *r.Profit, 1e-9)
}

func TestEquityApplyMalformedResets(t *testing.T) {
	cell := NewEquityCell()
	require.NoError(t, cell.Apply(map[string]any{"isTradeActive": true, "profit": 5.0}))

	err := cell.Apply(map[string]any{"isTradeActive": true, "currentEquity": "not-a-number"})
	require.Error(t, err)

	r := cell.Read()
	assert.False(t, r.Active, "malformed numerics reset to the inactive baseline")
	assert.Nil(t, r.Profit)
	assert.Nil(t, r.CurrentEquity)
}

func TestEquityReadReturnsCopy(t *testing.T) {
	cell := NewEquityCell()
	require.NoError(t, cell.Apply(map[string]any{"profit": 1.0}))

	first := cell.Read()
	*first.Profit = 999

	second := cell.Read()
	assert.InDelta(t, 1.0, *second.Profit, 1e-9, "readers must not mutate the cell")
}

func TestTradeDateSeparators(t *testing.T) {
	cases := map[string]string{
		"2025-08-01T10:30:00Z": "2025-08-01",
		"2025-08-01 10:30:00":  "2025-08-01",
		"2025-08-01":           "2025-08-01",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, EquityReading{Timestamp: in}.TradeDate())
	}
}
