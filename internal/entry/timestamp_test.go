package entry

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatStartTime(t *testing.T) {
	at := time.Date(2024, 3, 10, 9, 5, 7, 123456789, time.UTC)

	assert.Equal(t, "2024-03-10 09:05:07.123000", FormatStartTime(at))
}

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"six digit fraction", "2024-03-10 09:05:07.123000", time.Date(2024, 3, 10, 9, 5, 7, 123000000, time.UTC), true},
		{"only milliseconds honoured", "2024-03-10 09:05:07.123999", time.Date(2024, 3, 10, 9, 5, 7, 123000000, time.UTC), true},
		{"no fraction", "2024-03-10 09:05:07", time.Date(2024, 3, 10, 9, 5, 7, 0, time.UTC), true},
		{"surrounding space", " 2024-03-10 09:05:07.000000 ", time.Date(2024, 3, 10, 9, 5, 7, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
		{"iso with T", "2024-03-10T09:05:07", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStartTime(tt.input, time.UTC)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartTime_RoundTrip(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	at := time.Date(2024, 12, 31, 23, 59, 59, 999000000, loc)

	got, ok := ParseStartTime(FormatStartTime(at), loc)

	assert.True(t, ok)
	assert.True(t, at.Equal(got))
}

func TestFormatDisplayTime(t *testing.T) {
	good := TimeEntry{StartTime: "2024-03-10 09:05:07.000000"}
	bad := TimeEntry{StartTime: "nope"}

	assert.Equal(t, "09:05 10.03.2024", FormatDisplayTime(good, time.UTC))
	assert.Equal(t, "-", FormatDisplayTime(bad, time.UTC))
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "0:00"},
		{"seconds", 59.9, "0:59"},
		{"minutes", 125, "2:05"},
		{"one hour", 3600, "1:00:00"},
		{"hours minutes seconds", 3723, "1:02:03"},
		{"many hours", 100 * 3600, "100:00:00"},
		{"negative drops sign", -65, "1:05"},
		{"NaN", math.NaN(), "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.seconds))
		})
	}
}

func TestFormatSignedClock(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{-65, "-1:05"},
		{65, "1:05"},
		{0, "0:00"},
		{-0.4, "0:00"},
		{-0.999, "0:00"},
		{-1, "-0:01"},
		{-3600.5, "-1:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSignedClock(tt.seconds), "seconds=%v", tt.seconds)
	}
}
