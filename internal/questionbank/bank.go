package questionbank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"psp.com/xabiren-quiz/backend/internal/quiz"
)

const userAgent = "Xabiren-Quiz/1.0"

// ErrMalformedBank is wrapped by every validation failure of a bank entry.
var ErrMalformedBank = errors.New("malformed question bank")

// questionNS namespaces the name-based question IDs.
var questionNS = uuid.MustParse("6f1d3c2e-8a4b-5c7d-9e0f-1a2b3c4d5e6f")

// RawQuestion is one entry as stored in the bank file.
type RawQuestion struct {
	Prompt      string            `json:"enunciado"`
	Options     map[string]string `json:"opciones"`
	Answer      string            `json:"respuesta_correcta"`
	Explanation string            `json:"razonamiento"`
}

// RawBank is the document layout: optional metadata plus the entries.
type RawBank struct {
	Meta      map[string]interface{} `json:"meta"`
	Questions []RawQuestion          `json:"preguntas"`
}

// Bank is an immutable, ordered set of validated questions. It is safe to
// share between sessions.
type Bank struct {
	meta      map[string]interface{}
	questions []quiz.Question
}

// Parse decodes and validates a bank document. Both the {"preguntas": [...]}
// object and a bare array of entries are accepted.
func Parse(data []byte) (*Bank, error) {
	data = bytes.TrimSpace(data)
	var raw RawBank
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw.Questions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBank, err)
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBank, err)
	}
	return convertRawToBank(raw)
}

func convertRawToBank(raw RawBank) (*Bank, error) {
	b := &Bank{meta: raw.Meta, questions: make([]quiz.Question, 0, len(raw.Questions))}
	for i, rq := range raw.Questions {
		q, err := convert(i, rq)
		if err != nil {
			return nil, err
		}
		b.questions = append(b.questions, q)
	}
	return b, nil
}

func convert(i int, rq RawQuestion) (quiz.Question, error) {
	malformed := func(field, why string) error {
		return fmt.Errorf("%w: entry %d: %s %s", ErrMalformedBank, i, field, why)
	}

	prompt := strings.TrimSpace(rq.Prompt)
	if prompt == "" {
		return quiz.Question{}, malformed("enunciado", "is missing")
	}
	explanation := strings.TrimSpace(rq.Explanation)
	if explanation == "" {
		return quiz.Question{}, malformed("razonamiento", "is missing")
	}

	opts := make(map[quiz.Label]string, len(rq.Options))
	for k, v := range rq.Options {
		label := quiz.Label(strings.ToUpper(strings.TrimSpace(k)))
		if label == "" || strings.TrimSpace(v) == "" {
			return quiz.Question{}, malformed("opciones", "has an empty entry")
		}
		if _, dup := opts[label]; dup {
			return quiz.Question{}, malformed("opciones", "repeats label "+string(label))
		}
		opts[label] = strings.TrimSpace(v)
	}
	for _, l := range quiz.RequiredLabels {
		if _, ok := opts[l]; !ok {
			return quiz.Question{}, malformed("opciones", "lacks label "+string(l))
		}
	}

	answer := quiz.Label(strings.ToUpper(strings.TrimSpace(rq.Answer)))
	if answer == "" {
		return quiz.Question{}, malformed("respuesta_correcta", "is missing")
	}
	if _, ok := opts[answer]; !ok {
		return quiz.Question{}, malformed("respuesta_correcta", strconv.Quote(string(answer))+" is not an option")
	}

	return quiz.Question{
		ID:          uuid.NewSHA1(questionNS, []byte(strconv.Itoa(i)+"\x00"+prompt)).String(),
		Prompt:      prompt,
		Options:     opts,
		Answer:      answer,
		Explanation: explanation,
	}, nil
}

// Load reads a bank from a local path or an http(s) URL.
func Load(ctx context.Context, client *http.Client, source string) (*Bank, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, client, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", source, err)
	}
	return Parse(data)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Question returns the i-th question in file order.
func (b *Bank) Question(i int) quiz.Question { return b.questions[i] }

// Questions returns a copy of all questions.
func (b *Bank) Questions() []quiz.Question {
	return append([]quiz.Question(nil), b.questions...)
}

// Meta returns a copy of the document metadata (title, license, sources, etc.)
func (b *Bank) Meta() map[string]interface{} {
	meta := make(map[string]interface{}, len(b.meta))
	for k, v := range b.meta {
		meta[k] = v
	}
	return meta
}

// IsEmpty returns true if the bank has no questions.
func (b *Bank) IsEmpty() bool { return len(b.questions) == 0 }
