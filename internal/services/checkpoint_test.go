package services

import (
	"testing"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 31, hour, minute, 0, 0, time.UTC)
}

func TestWindowActive(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		now        time.Time
		want       bool
	}{
		{"daytime window active", "06:00", "14:00", at(9, 0), true},
		{"daytime window before start", "06:00", "14:00", at(5, 59), false},
		{"daytime window after end", "06:00", "14:00", at(15, 0), false},
		{"daytime window end is exclusive", "06:00", "14:00", at(14, 0), false},
		{"daytime window start is inclusive", "06:00", "14:00", at(6, 0), true},

		{"overnight window evening", "20:00", "04:00", at(22, 0), true},
		{"overnight window past midnight", "20:00", "04:00", at(2, 0), true},
		{"overnight window midday", "20:00", "04:00", at(12, 0), false},
		{"overnight window end is exclusive", "20:00", "04:00", at(4, 0), false},

		{"malformed start", "6am", "14:00", at(9, 0), false},
		{"malformed end", "06:00", "later", at(9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowActive(tt.start, tt.end, tt.now))
		})
	}
}

func TestFilterActive(t *testing.T) {
	strptr := func(s string) *string { return &s }

	checkpoints := []models.Checkpoint{
		{CheckpointName: "day shift", TimeStart: strptr("06:00"), TimeEnd: strptr("14:00")},
		{CheckpointName: "night shift", TimeStart: strptr("20:00"), TimeEnd: strptr("04:00")},
		{CheckpointName: "no window", TimeStart: nil, TimeEnd: nil},
		{CheckpointName: "half window", TimeStart: strptr("06:00"), TimeEnd: nil},
	}

	active := FilterActive(checkpoints, at(9, 0))
	if assert.Len(t, active, 1) {
		assert.Equal(t, "day shift", active[0].CheckpointName)
	}

	active = FilterActive(checkpoints, at(22, 30))
	if assert.Len(t, active, 1) {
		assert.Equal(t, "night shift", active[0].CheckpointName)
	}

	assert.Empty(t, FilterActive(checkpoints, at(17, 0)))
}

func TestParseTimeOfDay(t *testing.T) {
	min, err := parseTimeOfDay("13:45")
	assert.NoError(t, err)
	assert.Equal(t, 13*60+45, min)

	_, err = parseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = parseTimeOfDay("noon")
	assert.Error(t, err)
}
