package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    DateRange
		wantErr bool
	}{
		{"range", "01/01/2024 - 31/01/2024", DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}, false},
		{"single day", "15/03/2024", DateRange{Start: day(2024, 3, 15), End: day(2024, 3, 15)}, false},
		{"iso bounds", "2024-02-01 - 2024-02-29", DateRange{Start: day(2024, 2, 1), End: day(2024, 2, 29)}, false},
		{"end before start", "02/01/2024 - 01/01/2024", DateRange{}, true},
		{"garbage", "yesterday-ish", DateRange{}, true},
		{"empty", "  ", DateRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateRange(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDateRange)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Start.Equal(got.Start))
			assert.True(t, tt.want.End.Equal(got.End))
		})
	}
}

func TestDateRange_WireFormatFromBothRepresentations(t *testing.T) {
	fromDates, err := NewDateRange(time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC), day(2024, 1, 7))
	require.NoError(t, err)
	fromString, err := ParseDateRange("01/01/2024 - 07/01/2024")
	require.NoError(t, err)

	assert.Equal(t, "01/01/2024 - 07/01/2024", fromDates.String())
	assert.Equal(t, fromDates.String(), fromString.String())
	assert.True(t, fromDates.Equal(fromString))
}

func TestDateRange_UnmarshalJSON(t *testing.T) {
	inputs := map[string]string{
		"string": `"01/01/2024 - 01/01/2024"`,
		"array":  `["01/01/2024","01/01/2024"]`,
		"object": `{"start":"2024-01-01","end":"01/01/2024"}`,
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			var dr DateRange
			require.NoError(t, json.Unmarshal([]byte(raw), &dr))
			assert.Equal(t, "01/01/2024 - 01/01/2024", dr.String())
		})
	}

	var dr DateRange
	assert.ErrorIs(t, json.Unmarshal([]byte(`["01/01/2024"]`), &dr), ErrInvalidDateRange)

	out, err := json.Marshal(DateRange{Start: day(2024, 5, 1), End: day(2024, 5, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `"01/05/2024 - 02/05/2024"`, string(out))
}

func TestShortcutRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		want string
	}{
		{ShortcutToday, "15/03/2024 - 15/03/2024"},
		{ShortcutYesterday, "14/03/2024 - 14/03/2024"},
		{ShortcutLast7Days, "09/03/2024 - 15/03/2024"},
		{ShortcutLast30Days, "15/02/2024 - 15/03/2024"},
		{ShortcutThisMonth, "01/03/2024 - 15/03/2024"},
		{ShortcutLastMonth, "01/02/2024 - 29/02/2024"},
		{ShortcutThisYear, "01/01/2024 - 15/03/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := ShortcutRange(tt.name, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dr.String())
		})
	}

	_, err := ShortcutRange("next_week", now)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
