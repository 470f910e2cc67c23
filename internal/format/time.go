// Package format renders timestamps and durations for listings such as
// `cmdr history`, honoring the display_date and display_time config keys.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Layout holds the Go time layouts derived from config.
type Layout struct {
	Date      string
	DateShort string
	Time      string
	TimeFull  string
}

// FromConfig builds a Layout from display_date and display_time.
// Missing keys fall back to "Jan 02" and "24h".
func FromConfig(cfg map[string]string) Layout {
	return Layout{
		Date:      dateLayout(cfg["display_date"]),
		DateShort: dateShortLayout(cfg["display_date"]),
		Time:      timeLayout(cfg["display_time"], false),
		TimeFull:  timeLayout(cfg["display_time"], true),
	}
}

// DateTime formats as "23/01/2024 15:04" or "01/23/2024 3:04 PM".
func (l Layout) DateTime(t time.Time) string {
	return t.Format(l.Date) + " " + t.Format(l.Time)
}

// DateTimeShort omits the year: "23/01 15:04".
func (l Layout) DateTimeShort(t time.Time) string {
	return t.Format(l.DateShort) + " " + t.Format(l.Time)
}

// Full includes seconds: "23/01/2024 15:04:05".
func (l Layout) Full(t time.Time) string {
	return t.Format(l.Date) + " " + t.Format(l.TimeFull)
}

// Duration renders d compactly: "850ms", "2.4s", "3m05s".
func Duration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		return fmt.Sprintf("%dm%02ds", m, s)
	}
}

func dateLayout(displayDate string) string {
	switch displayDate {
	case "":
		return "Jan 02"
	case "mm/dd/yyyy":
		return "01/02/2006"
	case "yyyy-mm-dd":
		return "2006-01-02"
	case "dd/mm/yyyy":
		return "02/01/2006"
	default:
		// custom Go layout
		return displayDate
	}
}

func dateShortLayout(displayDate string) string {
	switch displayDate {
	case "":
		return "Jan 02"
	case "mm/dd/yyyy":
		return "01/02"
	case "yyyy-mm-dd":
		return "01-02"
	case "dd/mm/yyyy":
		return "02/01"
	}

	short := displayDate
	for _, year := range []string{"2006", "/06", "-06", " 06"} {
		short = strings.ReplaceAll(short, year, "")
	}
	short = strings.Trim(strings.TrimSpace(short), "/-")
	if short == "" {
		return "Jan 02"
	}
	return short
}

func timeLayout(displayTime string, seconds bool) string {
	if displayTime == "12h" {
		if seconds {
			return "3:04:05 PM"
		}
		return "3:04 PM"
	}
	if seconds {
		return "15:04:05"
	}
	return "15:04"
}
