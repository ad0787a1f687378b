package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"psp.com/xabiren-quiz/backend/internal/quiz"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"pct":     func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"percent": func(f float64) string { return fmt.Sprintf("%.0f", f*100) },
	"deref":   func(b *bool) bool { return b != nil && *b },
}

type pageData struct {
	view
	Error string
}

func (s *Server) pageStart(w http.ResponseWriter, r *http.Request) {
	id, err := s.start(r.URL.Query().Get("seed"))
	if err != nil {
		s.renderError(w, statusFor(err), err)
		return
	}
	http.Redirect(w, r, "/s/"+id, http.StatusSeeOther)
}

func (s *Server) pageShow(w http.ResponseWriter, r *http.Request) {
	v, err := s.viewOf(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, statusFor(err), err)
		return
	}
	s.render(w, http.StatusOK, "session", pageData{view: v})
}

// pageOp applies a form submission and redirects back to the session page.
// Rejected operations re-render the page with the error.
func (s *Server) pageOp(o op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		label := quiz.Label(strings.ToUpper(strings.TrimSpace(r.PostFormValue("label"))))

		_, err := s.apply(id, o, label)
		if errors.Is(err, ErrSessionNotFound) {
			s.renderError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			v, viewErr := s.viewOf(id)
			if viewErr != nil {
				s.renderError(w, statusFor(viewErr), viewErr)
				return
			}
			s.render(w, statusFor(err), "session", pageData{view: v, Error: err.Error()})
			return
		}
		http.Redirect(w, r, "/s/"+id, http.StatusSeeOther)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, err error) {
	s.render(w, status, "error", pageData{Error: err.Error()})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf strings.Builder
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(buf.String()))
}
