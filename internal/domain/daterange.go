package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day format used on the wire by the remote endpoints.
const DateLayout = "02/01/2006"

const isoDateLayout = "2006-01-02"

const dateRangeSeparator = " - "

// DateRange is an inclusive day range shared by every widget of a dashboard.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and truncates start and end to whole days.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, fmt.Errorf("%w: missing bound", ErrInvalidDateRange)
	}
	start, end = startOfDay(start), startOfDay(end)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidDateRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange reads the pre-formatted "DD/MM/YYYY - DD/MM/YYYY" form.
// A single date is accepted as a one-day range.
func ParseDateRange(s string) (DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateRange{}, fmt.Errorf("%w: empty", ErrInvalidDateRange)
	}
	startRaw, endRaw, found := strings.Cut(s, dateRangeSeparator)
	if !found {
		endRaw = startRaw
	}
	start, err := parseDay(startRaw)
	if err != nil {
		return DateRange{}, err
	}
	end, err := parseDay(endRaw)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(start, end)
}

// String returns the wire form "DD/MM/YYYY - DD/MM/YYYY".
func (d DateRange) String() string {
	return d.Start.Format(DateLayout) + dateRangeSeparator + d.End.Format(DateLayout)
}

// IsZero reports whether the range was never set.
func (d DateRange) IsZero() bool {
	return d.Start.IsZero() && d.End.IsZero()
}

// Equal compares both bounds by calendar day.
func (d DateRange) Equal(o DateRange) bool {
	return d.String() == o.String()
}

// MarshalJSON always emits the wire form.
func (d DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the wire string, a two-element array of dates, or an
// object with start and end. Dates may be DD/MM/YYYY or YYYY-MM-DD.
func (d *DateRange) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		dr, err := ParseDateRange(s)
		if err != nil {
			return err
		}
		*d = dr
		return nil
	}

	var pair []string
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("%w: expected two dates, got %d", ErrInvalidDateRange, len(pair))
		}
		return d.setBounds(pair[0], pair[1])
	}

	var obj struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	return d.setBounds(obj.Start, obj.End)
}

func (d *DateRange) setBounds(startRaw, endRaw string) error {
	start, err := parseDay(startRaw)
	if err != nil {
		return err
	}
	end, err := parseDay(endRaw)
	if err != nil {
		return err
	}
	dr, err := NewDateRange(start, end)
	if err != nil {
		return err
	}
	*d = dr
	return nil
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date %q", ErrInvalidDateRange, s)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Date range shortcut names.
const (
	ShortcutToday      = "today"
	ShortcutYesterday  = "yesterday"
	ShortcutLast7Days  = "last_7_days"
	ShortcutLast30Days = "last_30_days"
	ShortcutThisMonth  = "this_month"
	ShortcutLastMonth  = "last_month"
	ShortcutThisYear   = "this_year"
)

// ShortcutRange computes a named range relative to now, in now's location.
func ShortcutRange(name string, now time.Time) (DateRange, error) {
	today := startOfDay(now)
	switch name {
	case ShortcutToday:
		return DateRange{Start: today, End: today}, nil
	case ShortcutYesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}, nil
	case ShortcutLast7Days:
		return DateRange{Start: today.AddDate(0, 0, -6), End: today}, nil
	case ShortcutLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: today}, nil
	case ShortcutThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: first, End: today}, nil
	case ShortcutLastMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: first.AddDate(0, -1, 0), End: first.AddDate(0, 0, -1)}, nil
	case ShortcutThisYear:
		first := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: first, End: today}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown shortcut %q", ErrInvalidDateRange, name)
	}
}
