package timeutil

import (
	"testing"
	"time"
)

func TestUTCStamp(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("UTC+5", 5*3600)
	input := time.Date(2026, 2, 26, 14, 30, 9, 123, zone)
	if got := UTCStamp(input); got != "2026-02-26T09:30:09Z" {
		t.Fatalf("expected 2026-02-26T09:30:09Z, got %s", got)
	}
}

func TestParseStamp(t *testing.T) {
	t.Parallel()

	got, err := ParseStamp("2026-02-26T09:30:09Z")
	if err != nil {
		t.Fatalf("ParseStamp failed: %v", err)
	}
	if got.Year() != 2026 || got.Hour() != 9 || got.Second() != 9 {
		t.Fatalf("unexpected time: %v", got)
	}

	if _, err := ParseStamp("02/26/2026"); err == nil {
		t.Fatalf("expected error for non-stamp input")
	}
}

func TestStampRoundTrip(t *testing.T) {
	t.Parallel()

	stamp := UTCStamp(time.Now())
	if _, err := ParseStamp(stamp); err != nil {
		t.Fatalf("stamp %q did not round-trip: %v", stamp, err)
	}
}
