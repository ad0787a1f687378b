package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"psp.com/xabiren-quiz/backend/internal/cert"
	"psp.com/xabiren-quiz/backend/internal/quiz"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, err := s.start(r.URL.Query().Get("seed"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	v, err := s.viewOf(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, v)
}

// viewOf snapshots a stored session. The entry may have been deleted or
// swept since the caller last touched it.
func (s *Server) viewOf(id string) (view, error) {
	var v view
	err := s.store.With(id, func(e *Entry) error { v = newView(e); return nil })
	return v, err
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := s.viewOf(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var st statsView
	err := s.store.With(chi.URLParam(r, "id"), func(e *Entry) error {
		raw := e.Session.Stats()
		st = statsView{Stats: raw, Accuracy: raw.Accuracy(), Progress: raw.Progress()}
		return nil
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, ErrSessionNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectReq struct {
	Label string `json:"label"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	label := quiz.Label(strings.ToUpper(strings.TrimSpace(req.Label)))
	v, err := s.apply(chi.URLParam(r, "id"), opSelect, label)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleOp(o op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.apply(chi.URLParam(r, "id"), o, "")
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleCertificate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var sheet cert.Sheet
	err := s.store.With(id, func(e *Entry) error {
		if !e.Session.Complete() {
			return errIncomplete
		}
		sheet = newSheet(e)
		return nil
	})
	if errors.Is(err, errIncomplete) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	pdfBytes, err := cert.GeneratePDF(sheet)
	if err != nil {
		s.log.Error("result sheet", zap.String("session", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate result sheet")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=result-"+id+".pdf")
	w.Write(pdfBytes)
}
