package convert

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{nil, 0, false},
		{12.5, 12.5, true},
		{int64(3), 3, true},
		{"2.75", 2.75, true},
		{" 2.75 ", 2.75, true},
		{"", 0, false},
		{"abc", 0, false},
		{json.Number("9.5"), 9.5, true},
		{true, 1, true},
		{[]string{"x"}, 0, false},
	}
	for _, tc := range cases {
		got, ok := Float64(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %v", tc.in)
	}
}

func TestStrictFloat64(t *testing.T) {
	_, err := StrictFloat64("garbage")
	assert.Error(t, err)

	v, err := StrictFloat64(nil)
	assert.NoError(t, err, "nil means absent, not malformed")
	assert.Zero(t, v)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "900100", ToString(900100.0))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "abc", ToString(" abc "))
	assert.Equal(t, "", ToString(nil))
}
