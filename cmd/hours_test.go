package cmd

import "testing"

func TestParseWeekStarts(t *testing.T) {
	t.Parallel()

	t.Run("trims and keeps valid dates", func(t *testing.T) {
		t.Parallel()

		got, err := parseWeekStarts([]string{" 2026-02-02 ", "", "2026-02-09"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0] != "2026-02-02" || got[1] != "2026-02-09" {
			t.Fatalf("unexpected week starts: %#v", got)
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		t.Parallel()

		if _, err := parseWeekStarts([]string{"02/02/2026"}); err == nil {
			t.Fatalf("expected error for malformed date")
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		if _, err := parseWeekStarts([]string{" ", ""}); err == nil {
			t.Fatalf("expected error when nothing is left")
		}
	})
}
