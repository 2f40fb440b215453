package services

import (
	"testing"
	"time"
)

func TestParseDateBR(t *testing.T) {
	d, err := ParseDateBR("10/05/2015")
	if err != nil {
		t.Fatalf("ParseDateBR: %v", err)
	}
	if d.Day() != 10 || d.Month() != time.May || d.Year() != 2015 {
		t.Errorf("wrong date: %v", d)
	}

	// unparsable input must be an explicit error, never a silent zero
	for _, bad := range []string{"", "2015-05-10", "32/01/2020", "10/13/2015", "1/1/20"} {
		if _, err := ParseDateBR(bad); err == nil {
			t.Errorf("ParseDateBR(%q) should fail", bad)
		}
	}
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(2015, 5, 10, 0, 0, 0, 0, time.UTC)

	if got := AgeAt(birth, time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC)); got != 9 {
		t.Errorf("day before birthday: want 9, got %d", got)
	}
	if got := AgeAt(birth, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)); got != 10 {
		t.Errorf("on birthday: want 10, got %d", got)
	}
	if got := AgeAt(birth, time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Errorf("ref before birth: want 0, got %d", got)
	}
}
