package web

import (
	"psp.com/xabiren-quiz/backend/internal/cert"
	"psp.com/xabiren-quiz/backend/internal/quiz"
)

// view is what both the HTML pages and the JSON API render.
type view struct {
	SessionID string        `json:"sessionId"`
	Complete  bool          `json:"complete"`
	Number    int           `json:"number"` // 1-based position shown to the user
	Total     int           `json:"total"`
	Question  *questionView `json:"question,omitempty"`

	// Filled once an option is selected for the current question.
	Revealed    bool       `json:"revealed"`
	Selected    quiz.Label `json:"selected,omitempty"`
	Correct     *bool      `json:"correct,omitempty"`
	Answer      quiz.Label `json:"answer,omitempty"`
	Explanation string     `json:"explanation,omitempty"`

	Stats  statsView   `json:"stats"`
	Result *resultView `json:"result,omitempty"`
}

type questionView struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Options []optionView `json:"options"`
}

type optionView struct {
	Label    quiz.Label `json:"label"`
	Text     string     `json:"text"`
	Selected bool       `json:"selected,omitempty"`
	Correct  bool       `json:"correct,omitempty"`
}

type statsView struct {
	quiz.Stats
	Accuracy float64 `json:"accuracy"`
	Progress float64 `json:"progress"`
}

type resultView struct {
	Percentage float64   `json:"percentage"`
	Tier       quiz.Tier `json:"tier"`
	Message    string    `json:"message"`
}

func newView(e *Entry) view {
	s := e.Session
	st := s.Stats()
	v := view{
		SessionID: e.ID,
		Complete:  s.Complete(),
		Number:    s.Position() + 1,
		Total:     s.Len(),
		Stats:     statsView{Stats: st, Accuracy: st.Accuracy(), Progress: st.Progress()},
	}

	q, ok := s.Current()
	if !ok {
		v.Number = s.Len()
		pct := st.Percentage()
		tier := quiz.Grade(pct)
		v.Result = &resultView{Percentage: pct, Tier: tier, Message: tier.Message()}
		return v
	}

	v.Revealed = s.Revealed()
	selected := s.Pending()
	qv := &questionView{ID: q.ID, Prompt: q.Prompt}
	for _, l := range q.Labels() {
		o := optionView{Label: l, Text: q.Options[l], Selected: l == selected}
		if v.Revealed {
			o.Correct = q.IsCorrect(l)
		}
		qv.Options = append(qv.Options, o)
	}
	v.Question = qv

	if v.Revealed {
		correct := q.IsCorrect(selected)
		v.Selected = selected
		v.Correct = &correct
		v.Answer = q.Answer
		v.Explanation = q.Explanation
	}
	return v
}

func newSheet(e *Entry) cert.Sheet {
	s := e.Session
	st := s.Stats()
	pct := st.Percentage()
	tier := quiz.Grade(pct)
	sheet := cert.Sheet{
		SessionID:  e.ID,
		Date:       e.Started,
		Correct:    st.Correct,
		Incorrect:  st.Incorrect,
		Unanswered: st.Skipped,
		Total:      st.Total,
		Percentage: pct,
		Tier:       tier.String(),
		Verdict:    tier.Message(),
	}
	for pos := 0; pos < s.Len(); pos++ {
		q := s.QuestionAt(pos)
		row := cert.Row{Prompt: q.Prompt, Correct: string(q.Answer)}
		if a, ok := s.AnswerAt(pos); ok {
			row.Chosen = string(a.Scored)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
