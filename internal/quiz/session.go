package quiz

import (
	"errors"
	"math/rand/v2"
)

var (
	ErrEmptyBank       = errors.New("question bank is empty")
	ErrInvalidOption   = errors.New("option is not offered by the current question")
	ErrSessionComplete = errors.New("session is complete")
	ErrNotRevealed     = errors.New("no option selected for the current question")
)

// Answered records the answer given at one position of the order.
// Scored is the label that was graded and never changes; Chosen follows
// later re-selections at the same position for display.
type Answered struct {
	Position int   `json:"position"`
	Chosen   Label `json:"chosen"`
	Scored   Label `json:"scored"`
}

// Session walks one user through a shuffled bank. It is not safe for
// concurrent use; callers give every user their own Session.
type Session struct {
	bank Bank
	rng  *rand.Rand

	order    []int
	current  int
	answers  []Answered
	byPos    map[int]int // position -> index into answers
	pending  Label
	revealed bool
}

// NewSession shuffles the bank with rng and positions the session on the
// first question. A nil rng falls back to a randomly seeded one.
func NewSession(bank Bank, rng *rand.Rand) (*Session, error) {
	if bank == nil || bank.Len() == 0 {
		return nil, ErrEmptyBank
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Session{bank: bank, rng: rng}
	s.Reset()
	return s, nil
}

// Reset reshuffles the bank and discards every answer.
func (s *Session) Reset() {
	*s = Session{
		bank:  s.bank,
		rng:   s.rng,
		order: shuffle(s.rng, s.bank.Len()),
		byPos: map[int]int{},
	}
}

// shuffle returns a Fisher-Yates permutation of [0, n).
func shuffle(rng *rand.Rand, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Current returns the question at the current position, or false once
// the session is complete.
func (s *Session) Current() (Question, bool) {
	if s.Complete() {
		return Question{}, false
	}
	return s.bank.Question(s.order[s.current]), true
}

// Select marks label as the answer to the current question and reveals
// the result. Only the first selection at a position is scored; later
// ones update the displayed choice. It reports whether label is correct.
func (s *Session) Select(label Label) (bool, error) {
	q, ok := s.Current()
	if !ok {
		return false, ErrSessionComplete
	}
	if !q.HasOption(label) {
		return false, ErrInvalidOption
	}

	s.pending = label
	s.revealed = true
	if i, ok := s.byPos[s.current]; ok {
		s.answers[i].Chosen = label
	} else {
		s.byPos[s.current] = len(s.answers)
		s.answers = append(s.answers, Answered{Position: s.current, Chosen: label, Scored: label})
	}
	return q.IsCorrect(label), nil
}

// Advance moves past a revealed question.
func (s *Session) Advance() error {
	if s.Complete() {
		return ErrSessionComplete
	}
	if !s.revealed {
		return ErrNotRevealed
	}
	s.next()
	return nil
}

// Skip moves to the next question whether or not one was selected.
// An unanswered question stays unscored.
func (s *Session) Skip() error {
	if s.Complete() {
		return ErrSessionComplete
	}
	s.next()
	return nil
}

func (s *Session) next() {
	s.current++
	s.pending = ""
	s.revealed = false
}

// Complete reports whether every position has been passed.
func (s *Session) Complete() bool { return s.current == len(s.order) }

// Stats derives the score counters from the recorded answers.
func (s *Session) Stats() Stats {
	st := Stats{Answered: len(s.answers), Total: len(s.order), Position: s.current}
	passedAnswered := 0
	for _, a := range s.answers {
		if a.Position < s.current {
			passedAnswered++
		}
		if s.bank.Question(s.order[a.Position]).IsCorrect(a.Scored) {
			st.Correct++
		} else {
			st.Incorrect++
		}
	}
	st.Skipped = s.current - passedAnswered
	return st
}

// Position is the index into the shuffled order; Len() when complete.
func (s *Session) Position() int { return s.current }

// Len is the number of questions in the session.
func (s *Session) Len() int { return len(s.order) }

// Order returns a copy of the shuffled bank indices.
func (s *Session) Order() []int {
	return append([]int(nil), s.order...)
}

// Answers returns a copy of the recorded answers in answering order.
func (s *Session) Answers() []Answered {
	return append([]Answered(nil), s.answers...)
}

// AnswerAt returns the answer recorded for position pos, if any.
func (s *Session) AnswerAt(pos int) (Answered, bool) {
	i, ok := s.byPos[pos]
	if !ok {
		return Answered{}, false
	}
	return s.answers[i], true
}

// QuestionAt returns the question shown at position pos.
func (s *Session) QuestionAt(pos int) Question {
	return s.bank.Question(s.order[pos])
}

// Pending is the selection awaiting advance, or "" if none.
func (s *Session) Pending() Label { return s.pending }

// Revealed reports whether the current question's result is showing.
func (s *Session) Revealed() bool { return s.revealed }
