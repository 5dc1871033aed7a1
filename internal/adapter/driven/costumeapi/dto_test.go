package costumeapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleID_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want flexibleID
	}{
		{"integer", `{"id": 42}`, "42"},
		{"large integer", `{"id": 9007199254740993}`, "9007199254740993"},
		{"string", `{"id": "abc-1"}`, "abc-1"},
		{"null", `{"id": null}`, ""},
		{"missing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d costumeJSON
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d.ID)
		})
	}
}

func TestFlexibleID_RejectsObjects(t *testing.T) {
	var d costumeJSON
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"x": 1}}`), &d))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, want, parseTimestamp("2025-01-02T03:04:05Z"))
	assert.Equal(t, want, parseTimestamp("2025-01-02T03:04:05"))
	assert.Equal(t, want, parseTimestamp("2025-01-02 03:04:05"))
	assert.Equal(t, want, parseTimestamp(want.Format(time.RFC3339Nano)))
	assert.Equal(t, want, parseTimestamp("1735787045000"))
	assert.True(t, parseTimestamp("").IsZero())
	assert.True(t, parseTimestamp("yesterday").IsZero())
}
