package telemetry

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Stats are derived metrics over the account snapshot and trade history.
// Nothing here is cached; every read recomputes from current state.
type Stats struct {
	Balance        *float64 `json:"balance"`
	Equity         *float64 `json:"equity"`
	NumberOfTrades int      `json:"number_of_trades"`
	WinRate        *float64 `json:"win_rate"`
	AverageProfit  float64  `json:"average_profit"`
	AverageLoss    float64  `json:"average_loss"`
	Lots           float64  `json:"lots"`
}

// ComputeStats partitions decisive trades (profit != 0) into wins and losses.
// Zero-profit trades count toward NumberOfTrades and Lots but sit in neither
// partition. WinRate is nil when there is no decisive trade at all. A
// non-numeric balance or equity in the account snapshot is treated as absent,
// never as an error.
func ComputeStats(account *AccountCell, history *HistoryStore) Stats {
	stats := Stats{}
	if raw, ok := account.Read(); ok {
		stats.Balance = numericField(raw, "balance")
		stats.Equity = numericField(raw, "equity")
	}

	records := history.List()
	stats.NumberOfTrades = len(records)

	var wins, losses int
	var winSum, lossSum float64
	lots := decimal.Zero
	for _, rec := range records {
		if rec.VolumeInitial != nil {
			lots = lots.Add(decimal.NewFromFloat(*rec.VolumeInitial))
		}
		if rec.Profit == nil {
			continue
		}
		switch p := *rec.Profit; {
		case p > 0:
			wins++
			winSum += p
		case p < 0:
			losses++
			lossSum += p
		}
	}
	if decisive := wins + losses; decisive > 0 {
		rate := 100 * float64(wins) / float64(decisive)
		stats.WinRate = &rate
	}
	if wins > 0 {
		stats.AverageProfit = winSum / float64(wins)
	}
	if losses > 0 {
		stats.AverageLoss = lossSum / float64(losses)
	}
	stats.Lots, _ = lots.Round(2).Float64()
	return stats
}

func numericField(raw []byte, key string) *float64 {
	res := gjson.GetBytes(raw, key)
	if res.Type != gjson.Number {
		return nil
	}
	v := res.Num
	return &v
}
