package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"psp.com/xabiren-quiz/backend/internal/quiz"
)

type Options struct {
	AllowedOrigins []string
	MaxRequests    int
	RateWindow     time.Duration
	SessionTTL     time.Duration
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable it only behind a proxy that sets those headers.
	TrustProxy bool
	// Registry receives the quiz metrics; a fresh one is used when nil.
	Registry *prometheus.Registry
}

// Server presents a shared, read-only bank to many users, each with an
// isolated quiz.Session.
type Server struct {
	bank     quiz.Bank
	store    *Store
	log      *zap.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	pages    *template.Template
	opts     Options
}

func New(bank quiz.Bank, log *zap.Logger, opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.MaxRequests <= 0 {
		opts.MaxRequests = 60
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		bank:     bank,
		store:    NewStore(opts.SessionTTL),
		log:      log,
		registry: opts.Registry,
		pages:    template.Must(template.New("pages").Funcs(pageFuncs).ParseFS(templateFS, "templates/*.html")),
		opts:     opts,
	}
	s.metrics = NewMetrics(opts.Registry, func() float64 { return float64(s.store.Len()) })
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log, s.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(securityHeaders)
	r.Use(rateLimiter(s.opts.MaxRequests, s.opts.RateWindow))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/stats", s.handleStats)
			r.Get("/certificate", s.handleCertificate)
			r.Post("/select", s.handleSelect)
			r.Post("/advance", s.handleOp(opAdvance))
			r.Post("/skip", s.handleOp(opSkip))
			r.Post("/reset", s.handleOp(opReset))
		})
	})

	r.Get("/", s.pageStart)
	r.Route("/s/{id}", func(r chi.Router) {
		r.Get("/", s.pageShow)
		r.Post("/select", s.pageOp(opSelect))
		r.Post("/advance", s.pageOp(opAdvance))
		r.Post("/skip", s.pageOp(opSkip))
		r.Post("/reset", s.pageOp(opReset))
	})
	return r
}

type op string

const (
	opSelect  op = "select"
	opAdvance op = "advance"
	opSkip    op = "skip"
	opReset   op = "reset"
)

var errIncomplete = errors.New("session is not complete yet")

// newRNG seeds deterministically when seed is an integer, otherwise from
// the clock.
func newRNG(seed string) *rand.Rand {
	if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
		return rand.New(rand.NewPCG(uint64(v), uint64(v)))
	}
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

func (s *Server) start(seed string) (string, error) {
	sess, err := quiz.NewSession(s.bank, newRNG(seed))
	if err != nil {
		return "", err
	}
	id := s.store.Add(sess)
	s.metrics.SessionsStarted.Inc()
	s.log.Info("session started", zap.String("session", id), zap.Int("questions", sess.Len()))
	return id, nil
}

// apply runs one session operation under the entry lock and returns the
// resulting view.
func (s *Server) apply(id string, o op, label quiz.Label) (view, error) {
	var v view
	err := s.store.With(id, func(e *Entry) error {
		sess := e.Session
		answered := sess.Stats().Answered
		revealed := sess.Revealed()

		var err error
		switch o {
		case opSelect:
			_, err = sess.Select(label)
		case opAdvance:
			err = sess.Advance()
		case opSkip:
			err = sess.Skip()
		case opReset:
			sess.Reset()
		}
		if err != nil {
			s.log.Debug("operation rejected", zap.String("session", id), zap.String("op", string(o)), zap.Error(err))
			return err
		}

		s.observe(e, o, answered, revealed)
		v = newView(e)
		return nil
	})
	return v, err
}

func (s *Server) observe(e *Entry, o op, answeredBefore int, revealedBefore bool) {
	sess := e.Session
	switch o {
	case opSelect:
		if sess.Stats().Answered > answeredBefore {
			result := "incorrect"
			if q, _ := sess.Current(); q.IsCorrect(sess.Pending()) {
				result = "correct"
			}
			s.metrics.Answers.WithLabelValues(result).Inc()
		}
	case opSkip:
		if !revealedBefore {
			s.metrics.Skips.Inc()
		}
	case opReset:
		s.metrics.SessionsStarted.Inc()
		s.log.Info("session reset", zap.String("session", e.ID))
		return
	}
	if sess.Complete() {
		st := sess.Stats()
		s.metrics.SessionsCompleted.Inc()
		s.log.Info("session complete",
			zap.String("session", e.ID),
			zap.Int("correct", st.Correct),
			zap.Int("incorrect", st.Incorrect),
			zap.Int("total", st.Total),
			zap.Float64("percentage", st.Percentage()),
		)
	}
}

// statusFor maps session errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrInvalidOption):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrSessionComplete), errors.Is(err, quiz.ErrNotRevealed):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrEmptyBank):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
