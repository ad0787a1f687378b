package quiz

import "sort"

// Label names one multiple-choice alternative, e.g. "A".
type Label string

// RequiredLabels are the option labels every question must carry.
var RequiredLabels = []Label{"A", "B", "C", "D"}

// Question is a single multiple-choice entry of a bank. It is never
// mutated once loaded.
type Question struct {
	ID          string           `json:"id"`
	Prompt      string           `json:"prompt"`
	Options     map[Label]string `json:"options"`
	Answer      Label            `json:"answer"`
	Explanation string           `json:"explanation"`
}

// HasOption reports whether l is one of the question's option labels.
func (q Question) HasOption(l Label) bool {
	_, ok := q.Options[l]
	return ok
}

// IsCorrect reports whether l is the correct answer.
func (q Question) IsCorrect(l Label) bool { return l != "" && l == q.Answer }

// Labels returns the option labels in display order.
func (q Question) Labels() []Label {
	out := make([]Label, 0, len(q.Options))
	for l := range q.Options {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Bank is the read-only question source a Session draws from.
type Bank interface {
	Len() int
	Question(i int) Question
}

// Questions adapts a plain slice to Bank.
type Questions []Question

func (qs Questions) Len() int                { return len(qs) }
func (qs Questions) Question(i int) Question { return qs[i] }
