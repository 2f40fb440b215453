package services

import (
	"fmt"
	"strings"
	"time"
)

const dateLayoutBR = "02/01/2006"

// ParseDateBR parses a DD/MM/YYYY string. Unparsable input is an explicit
// error; it is never silently rendered as "no age shown".
func ParseDateBR(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dateLayoutBR, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want DD/MM/YYYY", s)
	}
	return t, nil
}

// AgeAt returns full years between birth and ref.
func AgeAt(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(ref) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}
