/**
 * HTTP surface for the bill analysis service
 *
 * Thin endpoint layer over the extraction and advice pipelines:
 *   GET  /        - health
 *   POST /analyze - document bytes -> BillRecord
 *   POST /advice  - BillRecord + context -> AdvicePayload
 *   POST /score   - household features -> efficiency score
 */

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saveawatt/billsense/internal/advice"
	"github.com/saveawatt/billsense/internal/scorer"
)

// TextAcquirer extracts raw text from document bytes
type TextAcquirer interface {
	Acquire(ctx context.Context, data []byte) (string, error)
}

// Advisor turns a validated record into structured advice
type Advisor interface {
	RequestAdvice(ctx context.Context, req advice.AdviceRequest) (*advice.AdvicePayload, error)
}

// Config holds server configuration
type Config struct {
	TempDir       string
	MaxUploadSize int64
}

// Server wires the pipeline stages behind the HTTP surface
type Server struct {
	cfg      Config
	router   chi.Router
	acquirer TextAcquirer
	advisor  Advisor
	scorer   scorer.Scorer
	validate *validator.Validate
	log      zerolog.Logger
}

// New creates the HTTP server
func New(cfg Config, acquirer TextAcquirer, advisor Advisor, sc scorer.Scorer, log zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		acquirer: acquirer,
		advisor:  advisor,
		scorer:   sc,
		validate: validator.New(),
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/advice", s.handleAdvice)
	r.Post("/score", s.handleScore)

	s.router = r
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger tags each request with an ID and logs the outcome
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}
