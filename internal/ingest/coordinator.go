// Package ingest routes producer snapshot payloads into the telemetry state
// components. One call handles one payload; nothing persists between calls.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"livedesk/internal/audit"
	"livedesk/internal/logger"
	"livedesk/internal/pkg/text"
	"livedesk/internal/telemetry"
)

// Structural reject reasons surfaced in the Ack.
const (
	ReasonEmptyBody   = "empty_body"
	ReasonInvalidJSON = "invalid_json"
)

const previewLimit = 200

// Ack is the overall ingest acknowledgment. Only structural failures make it
// here; per-field problems are absorbed into the audit trail so one bad
// sub-object never blocks the rest of the payload.
type Ack struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Coordinator owns the routing of payload sub-objects to their state cells.
type Coordinator struct {
	Equity  *telemetry.EquityCell
	Account *telemetry.AccountCell
	History *telemetry.HistoryStore
	Trail   *audit.Trail
}

func NewCoordinator(equity *telemetry.EquityCell, account *telemetry.AccountCell, history *telemetry.HistoryStore, trail *audit.Trail) *Coordinator {
	return &Coordinator{Equity: equity, Account: account, History: history, Trail: trail}
}

// Ingest decodes one payload and forwards each recognized top-level field to
// its owning component. Every call, success or failure, appends exactly one
// audit entry.
func (c *Coordinator) Ingest(ctx context.Context, body []byte, clientAddr string) Ack {
	body = sanitize(body)
	if len(body) == 0 {
		c.Trail.Append(audit.Entry{Addr: clientAddr, Reason: ReasonEmptyBody})
		return Ack{Reason: ReasonEmptyBody}
	}

	if !gjson.ValidBytes(body) {
		detail := decodeDiagnostic(body)
		c.Trail.Append(audit.Entry{
			Addr:    clientAddr,
			Reason:  ReasonInvalidJSON,
			Preview: text.Truncate(string(body), previewLimit),
			Detail:  map[string]any{"error": detail},
		})
		return Ack{Reason: ReasonInvalidJSON, Detail: detail}
	}
	payload := gjson.ParseBytes(body)
	if !payload.IsObject() {
		detail := "top-level value is not an object"
		c.Trail.Append(audit.Entry{
			Addr:    clientAddr,
			Reason:  ReasonInvalidJSON,
			Preview: text.Truncate(string(body), previewLimit),
			Detail:  map[string]any{"error": detail},
		})
		return Ack{Reason: ReasonInvalidJSON, Detail: detail}
	}

	detail := map[string]any{}
	applied := 0

	switch field := payload.Get("equity"); shapeOf(field) {
	case shapeValid:
		if err := c.Equity.Apply(field.Value().(map[string]any)); err != nil {
			logger.Warnf("equity apply failed from %s: %v", clientAddr, err)
			detail["equity_error"] = err.Error()
		} else {
			applied++
			detail["equity"] = "applied"
		}
	case shapeInvalid:
		detail["equity"] = "skipped"
	}

	switch field := payload.Get("account"); shapeOf(field) {
	case shapeValid:
		c.Account.Replace([]byte(field.Raw))
		applied++
		detail["account"] = "applied"
	case shapeInvalid:
		detail["account"] = "skipped"
	}

	switch field := payload.Get("history_order"); shapeOf(field) {
	case shapeValid:
		res := c.History.Upsert(field.Value().(map[string]any))
		if !res.Accepted {
			detail["history_order"] = res.Reason
		} else {
			applied++
			detail["history_order"] = "applied"
			detail["history_changed"] = res.Changed
			if res.Key != "" {
				detail["history_key"] = res.Key
			}
		}
	case shapeInvalid:
		detail["history_order"] = "skipped"
	}

	// Bulk-resend boundary markers carry from/to/count metadata for the
	// audit trail only; no state component consumes them.
	for _, marker := range []string{"history_header", "history_footer"} {
		if field := payload.Get(marker); shapeOf(field) == shapeValid {
			detail[marker] = markerMeta(field)
		}
	}

	detail["applied"] = applied
	c.Trail.Append(audit.Entry{Addr: clientAddr, OK: true, Detail: detail})
	return Ack{OK: true}
}

type fieldShape int

const (
	shapeAbsent fieldShape = iota
	shapeValid
	shapeInvalid
)

// shapeOf classifies an optional payload field three ways: absent,
// present-and-an-object, or present-but-wrong-shaped. Wrong-shaped fields are
// skipped silently; the payload may carry any subset.
func shapeOf(field gjson.Result) fieldShape {
	switch {
	case !field.Exists():
		return shapeAbsent
	case field.IsObject():
		return shapeValid
	default:
		return shapeInvalid
	}
}

func markerMeta(field gjson.Result) map[string]any {
	meta := map[string]any{}
	for _, key := range []string{"from", "to", "count"} {
		if v := field.Get(key); v.Exists() {
			meta[key] = v.Value()
		}
	}
	return meta
}

// sanitize strips NUL padding (some producers pad frames) and surrounding
// control characters before decoding.
func sanitize(body []byte) []byte {
	body = bytes.ReplaceAll(body, []byte{0}, nil)
	return bytes.TrimFunc(body, func(r rune) bool {
		return r < 0x20 || r == 0x7f
	})
}

// decodeDiagnostic recovers the standard decoder's error message so the
// audit log can say why a body failed to parse.
func decodeDiagnostic(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return err.Error()
	}
	return "invalid json"
}
