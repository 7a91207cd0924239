// Package httpapi exposes the leaderboard as a read-only JSON API.
//
// Endpoints:
//   - GET /health           → liveness probe
//   - GET /api/scores       → all records, longest first (?limit=N)
//   - GET /api/scores/best  → the best length, or null when empty
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/funny-combination/internal/score"
)

// Server bundles the router and the score store it reads from.
type Server struct {
	r      *chi.Mux
	store  score.Store
	logger *log.Logger
	http   *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(store score.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{r: chi.NewRouter(), store: store, logger: logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.requestLogger)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api/scores", func(r chi.Router) {
		r.Get("/", s.handleScores)
		r.Get("/best", s.handleBest)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP API", "address", addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Stopping HTTP API")
		return s.http.Shutdown(shutdownCtx)
	}
}

type scoreEntry struct {
	Rank           int    `json:"rank"`
	Date           string `json:"date"`
	SequenceLength int    `json:"sequence_length"`
}

type scoresRes struct {
	Scores []scoreEntry `json:"scores"`
}

type bestRes struct {
	Best *int `json:"best"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}

	records, err := s.store.AllDescending(r.Context())
	if err != nil {
		s.logger.Error("list scores", "err", err)
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	res := scoresRes{Scores: make([]scoreEntry, len(records))}
	for i, rec := range records {
		res.Scores[i] = scoreEntry{Rank: i + 1, Date: rec.Date, SequenceLength: rec.SequenceLength}
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	best, ok, err := s.store.BestLength(r.Context())
	if err != nil {
		s.logger.Error("best length", "err", err)
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}

	var res bestRes
	if ok {
		res.Best = &best
	}
	_ = json.NewEncoder(w).Encode(res)
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
