package telemetry

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"livedesk/internal/pkg/fingerprint"
)

// TradeRecord is a normalized closed or partially-closed order. Monetary
// fields are rounded to 2 decimals at normalization time, before the revision
// is computed, so producer formatting noise never looks like a change.
type TradeRecord struct {
	Key            string    `json:"-"`
	PositionID     string    `json:"position_id,omitempty"`
	Ticket         string    `json:"ticket,omitempty"`
	Symbol         string    `json:"symbol,omitempty"`
	Type           string    `json:"type,omitempty"`
	State          string    `json:"state,omitempty"`
	VolumeInitial  *float64  `json:"volume_initial,omitempty"`
	VolumeCurrent  *float64  `json:"volume_current,omitempty"`
	PriceOpen      *float64  `json:"price_open,omitempty"`
	StopLoss       *float64  `json:"sl,omitempty"`
	TakeProfit     *float64  `json:"tp,omitempty"`
	TimeSetup      string    `json:"time_setup,omitempty"`
	TimeDone       string    `json:"time_done,omitempty"`
	OpeningBalance *float64  `json:"opening_balance,omitempty"`
	ClosingBalance *float64  `json:"closing_balance,omitempty"`
	Profit         *float64  `json:"profit,omitempty"`
	Revision       string    `json:"revision"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type rawOrder struct {
	PositionID     string   `mapstructure:"position_id"`
	Ticket         string   `mapstructure:"ticket"`
	Symbol         string   `mapstructure:"symbol"`
	Type           string   `mapstructure:"type"`
	State          string   `mapstructure:"state"`
	VolumeInitial  *float64 `mapstructure:"volume_initial"`
	VolumeCurrent  *float64 `mapstructure:"volume_current"`
	PriceOpen      *float64 `mapstructure:"price_open"`
	StopLoss       *float64 `mapstructure:"sl"`
	TakeProfit     *float64 `mapstructure:"tp"`
	TimeSetup      string   `mapstructure:"time_setup"`
	TimeDone       string   `mapstructure:"time_done"`
	OpeningBalance *float64 `mapstructure:"opening_balance"`
	ClosingBalance *float64 `mapstructure:"closing_balance"`
	Profit         *float64 `mapstructure:"profit"`
}

// normalizeOrder decodes a wire-shaped order map into a TradeRecord with
// rounded monetary fields and a resolved dedup key. The zero Revision and
// UpdatedAt are filled by the store on insert.
func normalizeOrder(raw map[string]any) (TradeRecord, error) {
	var order rawOrder
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &order,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return TradeRecord{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return TradeRecord{}, fmt.Errorf("decoding order: %w", err)
	}

	rec := TradeRecord{
		PositionID:     order.PositionID,
		Ticket:         order.Ticket,
		Symbol:         order.Symbol,
		Type:           order.Type,
		State:          order.State,
		VolumeInitial:  round2(order.VolumeInitial),
		VolumeCurrent:  round2(order.VolumeCurrent),
		PriceOpen:      round2(order.PriceOpen),
		StopLoss:       round2(order.StopLoss),
		TakeProfit:     round2(order.TakeProfit),
		TimeSetup:      order.TimeSetup,
		TimeDone:       order.TimeDone,
		OpeningBalance: round2(order.OpeningBalance),
		ClosingBalance: round2(order.ClosingBalance),
		Profit:         round2(order.Profit),
	}
	switch {
	case rec.PositionID != "":
		rec.Key = rec.PositionID
	case rec.Ticket != "":
		rec.Key = rec.Ticket
	}
	return rec, nil
}

// revisionOf fingerprints every normalized field except the volatile
// bookkeeping pair (Revision, UpdatedAt).
func revisionOf(rec TradeRecord) string {
	return fingerprint.Compute(map[string]any{
		"position_id":     rec.PositionID,
		"ticket":          rec.Ticket,
		"symbol":          rec.Symbol,
		"type":            rec.Type,
		"state":           rec.State,
		"volume_initial":  floatOrNil(rec.VolumeInitial),
		"volume_current":  floatOrNil(rec.VolumeCurrent),
		"price_open":      floatOrNil(rec.PriceOpen),
		"sl":              floatOrNil(rec.StopLoss),
		"tp":              floatOrNil(rec.TakeProfit),
		"time_setup":      rec.TimeSetup,
		"time_done":       rec.TimeDone,
		"opening_balance": floatOrNil(rec.OpeningBalance),
		"closing_balance": floatOrNil(rec.ClosingBalance),
		"profit":          floatOrNil(rec.Profit),
	})
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f, _ := decimal.NewFromFloat(*v).Round(2).Float64()
	return &f
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
