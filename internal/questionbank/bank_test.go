package questionbank

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"psp.com/xabiren-quiz/backend/internal/quiz"
)

const sampleBank = `{
  "meta": {"title": "Sample"},
  "preguntas": [
    {
      "enunciado": "What is 2+2?",
      "opciones": {"A": "3", "B": "4", "C": "5", "D": "22"},
      "respuesta_correcta": "B",
      "razonamiento": "Basic arithmetic."
    },
    {
      "enunciado": "Capital of France?",
      "opciones": {"A": "Paris", "B": "Lyon", "C": "Nice", "D": "Lille", "E": "Metz"},
      "respuesta_correcta": "a",
      "razonamiento": "Paris is the capital."
    }
  ]
}`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sampleBank))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	q := b.Question(0)
	if q.Prompt != "What is 2+2?" || q.Answer != "B" || q.Options["B"] != "4" || q.Explanation == "" {
		t.Fatalf("unexpected first question: %+v", q)
	}
	second := b.Question(1)
	if second.Answer != "A" {
		t.Errorf("answer label should be normalised, got %q", second.Answer)
	}
	if got := second.Labels(); len(got) != 5 || got[4] != "E" {
		t.Errorf("extra labels should be kept, got %v", got)
	}
	if b.Meta()["title"] != "Sample" {
		t.Errorf("meta not preserved: %v", b.Meta())
	}
}

func TestParseStableIDs(t *testing.T) {
	a, _ := Parse([]byte(sampleBank))
	b, _ := Parse([]byte(sampleBank))
	if a.Question(0).ID == "" || a.Question(0).ID != b.Question(0).ID {
		t.Fatalf("IDs not stable: %q vs %q", a.Question(0).ID, b.Question(0).ID)
	}
	if a.Question(0).ID == a.Question(1).ID {
		t.Fatal("distinct questions share an ID")
	}
}

func TestParseBareArray(t *testing.T) {
	doc := `[{"enunciado":"Q","opciones":{"A":"a","B":"b","C":"c","D":"d"},"respuesta_correcta":"D","razonamiento":"r"}]`
	b, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Len() != 1 || b.Question(0).Answer != "D" {
		t.Fatalf("unexpected bank: %+v", b.Questions())
	}
}

func TestParseEmpty(t *testing.T) {
	b, err := Parse([]byte(`{"preguntas": []}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !b.IsEmpty() {
		t.Fatal("expected empty bank")
	}
	if _, err := quiz.NewSession(b, nil); !errors.Is(err, quiz.ErrEmptyBank) {
		t.Fatalf("expected ErrEmptyBank, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	testCases := []struct {
		name  string
		entry string
		field string
	}{
		{"missing prompt", `{"opciones":{"A":"a","B":"b","C":"c","D":"d"},"respuesta_correcta":"A","razonamiento":"r"}`, "enunciado"},
		{"missing explanation", `{"enunciado":"Q","opciones":{"A":"a","B":"b","C":"c","D":"d"},"respuesta_correcta":"A"}`, "razonamiento"},
		{"missing label", `{"enunciado":"Q","opciones":{"A":"a","B":"b","C":"c"},"respuesta_correcta":"A","razonamiento":"r"}`, "opciones"},
		{"empty option text", `{"enunciado":"Q","opciones":{"A":"a","B":"","C":"c","D":"d"},"respuesta_correcta":"A","razonamiento":"r"}`, "opciones"},
		{"label repeated across case", `{"enunciado":"Q","opciones":{"a":"x","A":"y","B":"b","C":"c","D":"d"},"respuesta_correcta":"A","razonamiento":"r"}`, "opciones"},
		{"label repeated after trimming", `{"enunciado":"Q","opciones":{" B":"x","A":"a","B":"b","C":"c","D":"d"},"respuesta_correcta":"A","razonamiento":"r"}`, "opciones"},
		{"missing answer", `{"enunciado":"Q","opciones":{"A":"a","B":"b","C":"c","D":"d"},"razonamiento":"r"}`, "respuesta_correcta"},
		{"answer not an option", `{"enunciado":"Q","opciones":{"A":"a","B":"b","C":"c","D":"d"},"respuesta_correcta":"F","razonamiento":"r"}`, "respuesta_correcta"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(`{"preguntas": [` + tc.entry + `]}`))
			if !errors.Is(err, ErrMalformedBank) {
				t.Fatalf("expected ErrMalformedBank, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) || !strings.Contains(err.Error(), "entry 0") {
				t.Errorf("error %q should name entry 0 and field %s", err, tc.field)
			}
		})
	}

	if _, err := Parse([]byte(`{not json`)); !errors.Is(err, ErrMalformedBank) {
		t.Errorf("invalid JSON: expected ErrMalformedBank, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preguntas.json")
	if err := os.WriteFile(path, []byte(sampleBank), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(context.Background(), nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}

	if _, err := Load(context.Background(), nil, filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Path != "/bank.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBank))
	}))
	defer srv.Close()

	b, err := Load(context.Background(), srv.Client(), srv.URL+"/bank.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}

	if _, err := Load(context.Background(), srv.Client(), srv.URL+"/nope.json"); err == nil {
		t.Fatal("expected an error for a 404 source")
	}
}
