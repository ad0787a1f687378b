package quiz

import "testing"

func TestGradeBoundaries(t *testing.T) {
	testCases := []struct {
		pct  float64
		want Tier
	}{
		{100, TierExcellent},
		{90, TierExcellent},
		{89.9, TierGood},
		{70, TierGood},
		{69.99, TierNeedsReview},
		{50, TierNeedsReview},
		{49.9, TierRestudy},
		{25, TierRestudy},
		{0, TierRestudy},
	}
	for _, tc := range testCases {
		if got := Grade(tc.pct); got != tc.want {
			t.Errorf("Grade(%v) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestStatsPercentages(t *testing.T) {
	st := Stats{Correct: 3, Incorrect: 1, Answered: 4, Total: 10, Position: 6, Skipped: 2}
	if got := st.Percentage(); got != 30 {
		t.Errorf("Percentage = %v, want 30", got)
	}
	if got := st.Accuracy(); got != 75 {
		t.Errorf("Accuracy = %v, want 75", got)
	}
	if got := st.Progress(); got != 0.6 {
		t.Errorf("Progress = %v, want 0.6", got)
	}

	var zero Stats
	if zero.Percentage() != 0 || zero.Accuracy() != 0 || zero.Progress() != 0 {
		t.Errorf("zero stats should yield zero ratios")
	}
}

func TestTierText(t *testing.T) {
	for _, tier := range []Tier{TierRestudy, TierNeedsReview, TierGood, TierExcellent} {
		if tier.Message() == "" {
			t.Errorf("tier %s has no message", tier)
		}
		b, err := tier.MarshalText()
		if err != nil || string(b) != tier.String() {
			t.Errorf("MarshalText(%s) = %q, %v", tier, b, err)
		}
		var back Tier
		if err := back.UnmarshalText(b); err != nil || back != tier {
			t.Errorf("UnmarshalText(%q) = %s, %v", b, back, err)
		}
	}
	var bad Tier
	if err := bad.UnmarshalText([]byte("legendary")); err == nil {
		t.Error("expected an error for an unknown tier")
	}
}
