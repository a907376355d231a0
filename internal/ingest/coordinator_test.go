package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livedesk/internal/audit"
	"livedesk/internal/telemetry"
)

func newTestCoordinator() *Coordinator {
	return NewCoordinator(
		telemetry.NewEquityCell(),
		telemetry.NewAccountCell(),
		telemetry.NewHistoryStore(),
		audit.NewTrail(100, nil),
	)
}

func TestIngestEmptyBody(t *testing.T) {
	c := newTestCoordinator()
	for name, body := range map[string][]byte{
		"nil":          nil,
		"whitespace":   []byte("  \n\t "),
		"nul padding":  {0, 0, 0, 0},
		"nul and crlf": {0, '\r', '\n', 0},
	} {
		t.Run(name, func(t *testing.T) {
			ack := c.Ingest(context.Background(), body, "10.0.0.1")
			assert.False(t, ack.OK)
			assert.Equal(t, ReasonEmptyBody, ack.Reason)
		})
	}
	assert.Equal(t, 4, c.Trail.Len(), "one audit entry per attempt")
	assert.Equal(t, 0, c.History.Len())
}

func TestIngestInvalidJSON(t *testing.T) {
	c := newTestCoordinator()
	ack := c.Ingest(context.Background(), []byte(`{"equity": `), "10.0.0.1")
	assert.False(t, ack.OK)
	assert.Equal(t, ReasonInvalidJSON, ack.Reason)
	assert.NotEmpty(t, ack.Detail, "parser diagnostic is carried")

	entries := c.Trail.Recent(0)
	require.Len(t, entries, 1)
	assert.LessOrEqual(t, len(entries[0].Preview), previewLimit+3)

	_, populated := c.Account.Read()
	assert.False(t, populated, "invalid body mutates nothing")
	assert.Equal(t, 0, c.History.Len())
}

func TestIngestNonObjectRoot(t *testing.T) {
	c := newTestCoordinator()
	ack := c.Ingest(context.Background(), []byte(`[1,2,3]`), "10.0.0.1")
	assert.False(t, ack.OK)
	assert.Equal(t, ReasonInvalidJSON, ack.Reason)
}

func TestIngestNulPaddedPayload(t *testing.T) {
	c := newTestCoordinator()
	body := append([]byte(`{"account": {"balance": 100}}`), 0, 0, 0)
	ack := c.Ingest(context.Background(), body, "10.0.0.1")
	assert.True(t, ack.OK)
	_, populated := c.Account.Read()
	assert.True(t, populated)
}

func TestIngestRoutesSubset(t *testing.T) {
	c := newTestCoordinator()
	body := []byte(`{
		"equity": {"isTradeActive": true, "profit": 5.5, "currentEquity": 1005.5, "t": "2025-08-01T10:00:00Z"},
		"account": {"balance": 1000, "currency": "USD"},
		"history_order": {"position_id": "42", "profit": 10.0, "time_done": "2025-08-01T09:00:00Z"}
	}`)
	ack := c.Ingest(context.Background(), body, "10.0.0.1")
	require.True(t, ack.OK)

	assert.True(t, c.Equity.Read().Active)
	_, populated := c.Account.Read()
	assert.True(t, populated)
	assert.Equal(t, 1, c.History.Len())

	entries := c.Trail.Recent(0)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].OK)
	assert.Equal(t, 3, entries[0].Detail["applied"])
	assert.Equal(t, true, entries[0].Detail["history_changed"])
}

func TestIngestWrongShapedFieldsSkipped(t *testing.T) {
	c := newTestCoordinator()
	// The payload may carry any subset; wrong shapes are not an error.
	body := []byte(`{"equity": 42, "account": ["not", "an", "object"], "unknown_field": {"x": 1}}`)
	ack := c.Ingest(context.Background(), body, "10.0.0.1")
	assert.True(t, ack.OK)

	_, populated := c.Account.Read()
	assert.False(t, populated)
	assert.False(t, c.Equity.Read().Active)

	detail := c.Trail.Recent(0)[0].Detail
	assert.Equal(t, "skipped", detail["equity"])
	assert.Equal(t, "skipped", detail["account"])
	assert.Equal(t, 0, detail["applied"])
}

func TestIngestMissingIDsLoggedNotFatal(t *testing.T) {
	c := newTestCoordinator()
	body := []byte(`{"history_order": {"symbol": "EURUSD", "profit": 3.0}}`)
	ack := c.Ingest(context.Background(), body, "10.0.0.1")
	assert.True(t, ack.OK, "per-record failures never fail the overall response")
	assert.Equal(t, 0, c.History.Len())

	detail := c.Trail.Recent(0)[0].Detail
	assert.Equal(t, telemetry.ReasonMissingIDs, detail["history_order"])
}

func TestIngestMalformedEquityAbsorbed(t *testing.T) {
	c := newTestCoordinator()
	require.True(t, c.Ingest(context.Background(),
		[]byte(`{"equity": {"isTradeActive": true, "profit": 5.0}}`), "10.0.0.1").OK)

	ack := c.Ingest(context.Background(),
		[]byte(`{"equity": {"isTradeActive": true, "profit": "garbage"}}`), "10.0.0.1")
	assert.True(t, ack.OK)

	r := c.Equity.Read()
	assert.False(t, r.Active, "cell reset to inactive baseline")
	assert.Nil(t, r.Profit)

	detail := c.Trail.Recent(0)[0].Detail
	assert.Contains(t, detail, "equity_error")
}

func TestIngestBulkMarkersAuditOnly(t *testing.T) {
	c := newTestCoordinator()
	body := []byte(`{
		"history_header": {"from": "2025-07-01", "to": "2025-08-01", "count": 250},
		"history_footer": {"count": 250}
	}`)
	ack := c.Ingest(context.Background(), body, "10.0.0.1")
	require.True(t, ack.OK)
	assert.Equal(t, 0, c.History.Len())

	detail := c.Trail.Recent(0)[0].Detail
	header, ok := detail["history_header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-07-01", header["from"])
	assert.EqualValues(t, 250, header["count"])
}

func TestIngestIdempotentReplay(t *testing.T) {
	c := newTestCoordinator()
	body := []byte(`{"history_order": {"ticket": "7", "profit": 1.239, "time_done": "2025-08-01T09:00:00Z"}}`)
	require.True(t, c.Ingest(context.Background(), body, "a").OK)

	// Same record with sub-cent formatting noise: liveness refresh, no change.
	replay := []byte(`{"history_order": {"ticket": "7", "profit": 1.24, "time_done": "2025-08-01T09:00:00Z"}}`)
	require.True(t, c.Ingest(context.Background(), replay, "a").OK)

	assert.Equal(t, 1, c.History.Len())
	detail := c.Trail.Recent(1)[0].Detail
	assert.Equal(t, false, detail["history_changed"])
}
