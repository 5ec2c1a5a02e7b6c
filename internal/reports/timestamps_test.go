package reports

import (
	"testing"
	"time"
)

func TestDayWindowUTC(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	start, end := DayWindow(now)
	if !start.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestDayWindowConvertsLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*60*60)
	now := time.Date(2026, 3, 14, 1, 0, 0, 0, loc)
	start, end := DayWindow(now)
	if start.Location() != time.UTC {
		t.Fatalf("expected UTC start, got %v", start.Location())
	}
	if !start.Equal(time.Date(2026, 3, 13, 20, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("unexpected window length %v", end.Sub(start))
	}
}
