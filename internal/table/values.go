package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a GTFS service date (YYYYMMDD) without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses the YYYYMMDD form and rejects impossible calendar dates.
func ParseDate(s string) (Date, bool) {
	if len(s) != 8 || !allDigits(s) {
		return Date{}, false
	}
	y, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[4:6])
	d, _ := strconv.Atoi(s[6:])
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return Date{}, false
	}
	return Date{Year: y, Month: time.Month(m), Day: d}, true
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.Time().Compare(o.Time())
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// Time is a GTFS time of day in seconds after midnight of the service day.
// Values past 24:00:00 denote trips running over midnight.
type Time int

// ParseTime parses H:MM:SS or HH:MM:SS. Hours are not capped at 23.
func ParseTime(s string) (Time, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	if len(parts[0]) < 1 || len(parts[0]) > 3 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, false
	}
	for _, p := range parts {
		if !allDigits(p) {
			return 0, false
		}
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec, _ := strconv.Atoi(parts[2])
	if m > 59 || sec > 59 {
		return 0, false
	}
	return Time(h*3600 + m*60 + sec), true
}

// HMS builds a Time from its components.
func HMS(h, m, s int) Time {
	return Time(h*3600 + m*60 + s)
}

func (t Time) Seconds() int { return int(t) }

func (t Time) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// Color is an RGB color authored as six hexadecimal digits.
type Color struct {
	R, G, B uint8
}

// ParseColor parses RRGGBB without a leading '#'. Case is ignored.
func ParseColor(s string) (Color, bool) {
	if len(s) != 6 {
		return Color{}, false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return Color{}, false
		}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Luma is the Rec. 601 perceived brightness truncated to an integer.
func (c Color) Luma() int {
	r := float64(0.30 * float64(c.R))
	g := float64(0.59 * float64(c.G))
	b := float64(0.11 * float64(c.B))
	return int(r + g + b)
}

func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
