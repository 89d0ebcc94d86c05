package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ParseReadTime extracts N from "<N> min read". Unparseable input yields 0.
func ParseReadTime(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	return StringToInt(fields[0])
}

// FormatReadTime is the inverse of ParseReadTime.
func FormatReadTime(minutes int) string {
	return fmt.Sprintf("%d min read", minutes)
}

// EstimateReadingTime assumes 200 words per minute, never less than one minute.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// DatePart keeps the calendar day of an ISO-8601 timestamp.
func DatePart(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[:i]
	}
	return ts
}
