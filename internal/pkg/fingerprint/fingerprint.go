// Package fingerprint derives a stable content digest for normalized records.
// Two maps with equal keys and values hash identically regardless of
// insertion order, so re-ingested unchanged records can be detected cheaply.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"

	"livedesk/internal/pkg/convert"
)

// Key/value and field separators. Control bytes never appear in numeric
// output or sane identifiers, so adjacent fields cannot re-bracket into a
// colliding serialization.
const (
	kvSep    = "\x1f"
	fieldSep = "\x1e"
)

// Compute returns the hex SHA-1 of the canonical serialization of fields.
// Collision resistance against an adversary is not needed here, only
// accidental-collision avoidance for change detection.
func Compute(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha1.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte(kvSep))
		h.Write([]byte(canonValue(fields[k])))
		h.Write([]byte(fieldSep))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func canonValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "~"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return "s:" + t
	default:
		if f, ok := convert.Float64(v); ok {
			return "n:" + strconv.FormatFloat(f, 'f', -1, 64)
		}
		return "s:" + convert.ToString(v)
	}
}
