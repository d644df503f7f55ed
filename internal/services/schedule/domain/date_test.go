package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDaysBetweenAcrossZoneTransition(t *testing.T) {
	t.Parallel()

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("zone database unavailable: %v", err)
	}
	// Clocks move forward on 29 March 2026 in Berlin.
	start := DateOf(time.Date(2026, time.March, 28, 23, 30, 0, 0, berlin), berlin)
	end := DateOf(time.Date(2026, time.March, 30, 0, 15, 0, 0, berlin), berlin)
	if got := DaysBetween(start, end); got != 2 {
		t.Fatalf("DaysBetween() = %d, want 2", got)
	}
	if got := DaysBetween(end, start); got != -2 {
		t.Fatalf("DaysBetween() reversed = %d, want -2", got)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	t.Parallel()

	karachi := time.FixedZone("PKT", 5*60*60)
	instant := time.Date(2026, time.March, 1, 21, 0, 0, 0, time.UTC)
	if got := DateOf(instant, karachi); got != (Date{Year: 2026, Month: time.March, Day: 2}) {
		t.Fatalf("DateOf() = %+v, want 2 March", got)
	}
	if got := DateOf(instant, time.UTC); got != (Date{Year: 2026, Month: time.March, Day: 1}) {
		t.Fatalf("DateOf(UTC) = %+v, want 1 March", got)
	}
}

func TestDisplayDateRoundTrip(t *testing.T) {
	t.Parallel()

	parsed, err := ParseDisplayDate(" 02-Mar-2026 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != monday {
		t.Fatalf("parsed = %+v, want %+v", parsed, monday)
	}
	if parsed.String() != "02-Mar-2026" {
		t.Fatalf("String() = %q", parsed.String())
	}
	if _, err := ParseDisplayDate("2026-03-02"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("ParseDisplayDate(iso) = %v, want ErrInvalidDate", err)
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	endOfMonth := Date{Year: 2026, Month: time.February, Day: 28}
	if got := endOfMonth.AddDays(1); got != (Date{Year: 2026, Month: time.March, Day: 1}) {
		t.Fatalf("AddDays(1) = %+v", got)
	}
	if got := monday.AddDays(-2); got != endOfMonth {
		t.Fatalf("AddDays(-2) = %+v", got)
	}
	if !endOfMonth.Before(monday) || !monday.After(endOfMonth) || monday.Before(monday) {
		t.Fatal("unexpected ordering")
	}
}
