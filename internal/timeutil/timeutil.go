// Package timeutil formats and parses the timestamp notations used across
// the CLI, clip filenames, and the catalog.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatTime renders seconds as HH:MM:SS.mmm for logs and tables.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600+minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// FormatDuration renders seconds as MM:SS, or HH:MM:SS past an hour.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatFilename renders seconds as a filename-safe, sortable timestamp like
// 00h07m32s.
func FormatFilename(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02dh%02dm%02ds", total/3600, (total%3600)/60, total%60)
}

var timestampPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+(?:\.\d+)?)s)?$`)

// ParseTimestamp parses a user-supplied timestamp to seconds. It accepts
// plain seconds ("47.5") and component notation ("47m40s", "1h2m3s").
func ParseTimestamp(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if seconds, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative timestamp %q", value)
		}
		return seconds, nil
	}

	match := timestampPattern.FindStringSubmatch(trimmed)
	if match == nil || (match[1] == "" && match[2] == "" && match[3] == "") {
		return 0, fmt.Errorf("cannot parse timestamp %q", value)
	}
	var seconds float64
	if match[1] != "" {
		hours, _ := strconv.Atoi(match[1])
		seconds += float64(hours) * 3600
	}
	if match[2] != "" {
		minutes, _ := strconv.Atoi(match[2])
		seconds += float64(minutes) * 60
	}
	if match[3] != "" {
		secs, _ := strconv.ParseFloat(match[3], 64)
		seconds += secs
	}
	return seconds, nil
}
