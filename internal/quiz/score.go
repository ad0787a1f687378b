package quiz

import "fmt"

// Stats are the counters derived from a session's answers.
type Stats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Answered  int `json:"answered"`
	Total     int `json:"total"`
	Position  int `json:"position"`
	// Skipped counts passed positions that were left without an answer.
	Skipped int `json:"skipped"`
}

// Percentage is the final grade: correct answers over all questions,
// skipped ones included.
func (st Stats) Percentage() float64 { return pct(st.Correct, st.Total) }

// Accuracy is the running figure over answered questions only.
func (st Stats) Accuracy() float64 { return pct(st.Correct, st.Answered) }

// Progress is the fraction of positions already passed.
func (st Stats) Progress() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Position) / float64(st.Total)
}

func pct(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) * 100 / float64(b)
}

// Tier is the qualitative verdict for a final percentage.
type Tier int

const (
	TierRestudy Tier = iota
	TierNeedsReview
	TierGood
	TierExcellent
)

// Grade maps a percentage to its tier. Each lower bound is inclusive.
func Grade(percentage float64) Tier {
	switch {
	case percentage >= 90:
		return TierExcellent
	case percentage >= 70:
		return TierGood
	case percentage >= 50:
		return TierNeedsReview
	default:
		return TierRestudy
	}
}

func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierGood:
		return "good"
	case TierNeedsReview:
		return "needs-review"
	default:
		return "restudy"
	}
}

// Message is the verdict shown on the completion screen.
func (t Tier) Message() string {
	switch t {
	case TierExcellent:
		return "Excellent! You have mastered the topic."
	case TierGood:
		return "Good job! You have a solid grasp of the topic."
	case TierNeedsReview:
		return "You need to review some concepts."
	default:
		return "We recommend studying more before trying again."
	}
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	for _, c := range []Tier{TierRestudy, TierNeedsReview, TierGood, TierExcellent} {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", b)
}
