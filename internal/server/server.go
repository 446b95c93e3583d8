// Package server exposes the pet engine over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blockotchi/internal/metrics"
	"blockotchi/internal/payment"
	"blockotchi/internal/pet"
)

// Server handles HTTP requests for one engine.
type Server struct {
	engine  *pet.Engine
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// New creates a server. rec may be nil, in which case /metrics is not mounted.
func New(engine *pet.Engine, rec *metrics.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, metrics: rec, logger: logger}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/skins", s.handleSkins)
		r.Get("/achievements", s.handleAchievements)

		r.Route("/pet", func(r chi.Router) {
			r.Get("/", s.handlePet)
			r.Post("/feed", s.handleAction(s.engine.Feed))
			r.Post("/play", s.handleAction(s.engine.Play))
			r.Post("/sleep", s.handleAction(s.engine.Sleep))
			r.Post("/skins/{id}/buy", s.handleSkin(s.engine.BuySkin))
			r.Post("/skins/{id}/select", s.handleSkin(s.engine.SelectSkin))
			r.Post("/games/{type}/coins", s.handleGameCoins)
			r.Post("/games/{type}/unlock", s.handleGameUnlock)
			r.Post("/checkin", s.handleCheckIn)
			r.Post("/revive", s.handleRevive)
			r.Post("/new", s.handleNewGame)
			r.Post("/nft", s.handleNFT)
			r.Post("/wallet", s.handleWallet)
			r.Post("/welcome", s.handleWelcome)
		})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
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
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, r.Method, status, time.Since(start))
		}
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeResult answers a guarded command: refused commands are a conflict.
func (s *Server) writeResult(w http.ResponseWriter, ok bool) {
	if !ok {
		s.writeJSON(w, http.StatusConflict, okResponse{OK: false})
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// writeCommandError maps engine and payment errors to status codes.
func (s *Server) writeCommandError(w http.ResponseWriter, err error) {
	if err == nil {
		s.writeResult(w, true)
		return
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pet.ErrUnknownGame), errors.Is(err, pet.ErrInvalidMint):
		status = http.StatusBadRequest
	case errors.Is(err, pet.ErrDead), errors.Is(err, pet.ErrNotDead):
		status = http.StatusConflict
	case errors.Is(err, pet.ErrNoGateway), errors.Is(err, payment.ErrNoTreasury), errors.Is(err, pet.ErrClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, pet.ErrPaymentFailed):
		status = http.StatusPaymentRequired
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("command failed", slog.Any("error", err))
	}
	s.writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
