package period

import (
	"testing"
	"time"
)

func TestValidateAcceptsYearMonthLabels(t *testing.T) {
	for _, label := range []string{"2025-01", "2025-12", "1999-06"} {
		if err := Validate(label); err != nil {
			t.Fatalf("expected %q to be valid, got %v", label, err)
		}
	}
}

func TestValidateRejectsMalformedLabels(t *testing.T) {
	for _, label := range []string{"", "2025", "2025-13", "2025-00", "2025-1", "2025-01-02", "jan-2025"} {
		if err := Validate(label); err == nil {
			t.Fatalf("expected %q to be rejected", label)
		}
	}
}

func TestFromTimeUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2025-07-01 03:00 +10:00 is still 2025-06 in UTC.
	ts := time.Date(2025, 7, 1, 3, 0, 0, 0, loc)
	if got := FromTime(ts); got != "2025-06" {
		t.Fatalf("expected 2025-06, got %s", got)
	}
}
