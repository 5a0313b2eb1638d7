package cli

import (
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var wsRegexp = regexp.MustCompile(`\s+`)

func compactText(v string, max int) string {
	v = strings.TrimSpace(wsRegexp.ReplaceAllString(v, " "))
	if max <= 0 || len(v) <= max {
		return v
	}
	return v[:max-1] + "..."
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}

func oneLine(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.TrimSpace(v)
}

func humanBytes[T ~int | ~int64](n T) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

func humanAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// percentRemoved reports how much of the input sanitizing dropped.
func percentRemoved(in, out int64) string {
	if in <= 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(float64(in-out)*100/float64(in), 1) + "%"
}
