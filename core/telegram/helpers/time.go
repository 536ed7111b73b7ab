package helpers

import (
	"strings"
	"time"
)

// Date layouts operators tend to type into catalog files, most specific first.
var flexibleDateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
}

// ParseFlexibleDate parses a date written in one of the common layouts,
// in the local timezone.
func ParseFlexibleDate(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range flexibleDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
