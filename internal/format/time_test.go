package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 23, 15, 4, 5, 0, time.UTC)

func TestLayout(t *testing.T) {
	tests := []struct {
		name     string
		cfg      map[string]string
		dateTime string
		short    string
		full     string
	}{
		{name: "defaults", cfg: nil, dateTime: "Jan 23 15:04", short: "Jan 23 15:04", full: "Jan 23 15:04:05"},
		{name: "mm/dd/yyyy", cfg: map[string]string{"display_date": "mm/dd/yyyy"}, dateTime: "01/23/2024 15:04", short: "01/23 15:04", full: "01/23/2024 15:04:05"},
		{name: "dd/mm/yyyy 12h", cfg: map[string]string{"display_date": "dd/mm/yyyy", "display_time": "12h"}, dateTime: "23/01/2024 3:04 PM", short: "23/01 3:04 PM", full: "23/01/2024 3:04:05 PM"},
		{name: "iso", cfg: map[string]string{"display_date": "yyyy-mm-dd"}, dateTime: "2024-01-23 15:04", short: "01-23 15:04", full: "2024-01-23 15:04:05"},
		{name: "custom layout", cfg: map[string]string{"display_date": "02 Jan 2006"}, dateTime: "23 Jan 2024 15:04", short: "23 Jan 15:04", full: "23 Jan 2024 15:04:05"},
		{name: "unknown time falls back to 24h", cfg: map[string]string{"display_time": "weird"}, dateTime: "Jan 23 15:04", short: "Jan 23 15:04", full: "Jan 23 15:04:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := FromConfig(tt.cfg)
			require.Equal(t, tt.dateTime, l.DateTime(testTime))
			require.Equal(t, tt.full, l.Full(testTime))
			require.Equal(t, tt.short, l.DateTimeShort(testTime))
		})
	}
}

func TestDateShortLayout_YearOnly(t *testing.T) {
	require.Equal(t, "Jan 02", dateShortLayout("2006"))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{850 * time.Millisecond, "850ms"},
		{2400 * time.Millisecond, "2.4s"},
		{3*time.Minute + 5*time.Second, "3m05s"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Duration(tt.in))
	}
}
