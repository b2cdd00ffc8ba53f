package render

import (
	"fmt"
	"time"

	"github.com/canac/mailbox/internal/mailerr"
)

// TimestampMode selects how FormatTimestamp renders a time, matching the
// CLI's --timestamp-format flag.
type TimestampMode string

const (
	TimestampRelative TimestampMode = "relative"
	TimestampLocal    TimestampMode = "local"
	TimestampUTC      TimestampMode = "utc"
)

// ParseTimestampMode decodes the --timestamp-format flag value.
func ParseTimestampMode(s string) (TimestampMode, error) {
	switch TimestampMode(s) {
	case TimestampRelative, TimestampLocal, TimestampUTC:
		return TimestampMode(s), nil
	default:
		return "", mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid timestamp format %q", s))
	}
}

// FormatTimestamp renders t per mode, measuring "relative" mode's age
// against now.
func FormatTimestamp(t time.Time, mode TimestampMode, now time.Time) string {
	switch mode {
	case TimestampLocal:
		return t.Local().Format("2006-01-02 15:04:05")
	case TimestampUTC:
		return t.UTC().Format("2006-01-02T15:04:05Z")
	default:
		return relativeAge(now.Sub(t))
	}
}

func relativeAge(age time.Duration) string {
	if age < 0 {
		age = 0
	}
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		n := int(age / time.Minute)
		return pluralize(n, "minute")
	case age < 24*time.Hour:
		n := int(age / time.Hour)
		return pluralize(n, "hour")
	case age < 30*24*time.Hour:
		n := int(age / (24 * time.Hour))
		return pluralize(n, "day")
	default:
		n := int(age / (30 * 24 * time.Hour))
		return pluralize(n, "month")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
