package handlers

import (
	"strings"
	"time"
)

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// dateLayouts are accepted for date fields; RFC 3339 first, then plain dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
