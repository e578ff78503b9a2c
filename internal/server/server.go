// Package server exposes the recolour pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/recolour"
	"github.com/jmylchreest/recolour/internal/scene"
	"github.com/jmylchreest/recolour/internal/version"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 8 << 20

// Server serves the recolour HTTP API.
type Server struct {
	defaults recolour.Options
	logger   hclog.Logger
	router   chi.Router
}

// New returns a server whose requests start from defaults.
func New(defaults recolour.Options, logger hclog.Logger) (*Server, error) {
	if _, err := recolour.NewPipeline(defaults, nil); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s := &Server{defaults: defaults, logger: logger}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/recolour", s.handleRecolour)
		r.Post("/gradient", s.handleGradient)
		r.Post("/closest", s.handleClosest)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// RecolourRequest is the body of POST /v1/recolour. Either Palette or
// Palettes must be set; Palettes yields one result per palette.
type RecolourRequest struct {
	Frame    string          `json:"frame,omitempty"`
	Elements []scene.Element `json:"elements"`
	Palette  []string        `json:"palette,omitempty"`
	Palettes [][]string      `json:"palettes,omitempty"`

	Strategy         string   `json:"strategy,omitempty"`
	GradientStrategy string   `json:"gradient_strategy,omitempty"`
	MinLightnessDiff *float64 `json:"min_lightness_diff,omitempty"`
	Contrast         *bool    `json:"contrast,omitempty"`
}

// RecolourResponse is the body returned by POST /v1/recolour.
type RecolourResponse struct {
	Session string             `json:"session"`
	Results []*recolour.Result `json:"results"`
}

// GradientRequest is the body of POST /v1/gradient.
type GradientRequest struct {
	Stops    []scene.Stop `json:"stops"`
	Target   string       `json:"target"`
	Strategy string       `json:"strategy,omitempty"`
}

// GradientResponse is the body returned by POST /v1/gradient.
type GradientResponse struct {
	Strategy string       `json:"strategy"`
	Stops    []scene.Stop `json:"stops"`
}

// ClosestRequest is the body of POST /v1/closest.
type ClosestRequest struct {
	Color   string   `json:"color"`
	Palette []string `json:"palette"`
}

// ClosestResponse is the body returned by POST /v1/closest.
type ClosestResponse struct {
	Hex   string `json:"hex"`
	Index int    `json:"index"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleRecolour(w http.ResponseWriter, r *http.Request) {
	var req RecolourRequest
	if !decode(w, r, &req) {
		return
	}

	opts, err := s.options(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	raw := req.Palettes
	if len(req.Palette) > 0 {
		raw = append([][]string{req.Palette}, raw...)
	}
	if len(raw) == 0 {
		writeError(w, http.StatusUnprocessableEntity, recolour.ErrEmptyPalette)
		return
	}
	palettes := make([]colour.Palette, 0, len(raw))
	for i, entries := range raw {
		p, err := colour.ParsePalette(entries)
		if err != nil {
			writeError(w, statusFor(err), fmt.Errorf("palette %d: %w", i+1, err))
			return
		}
		palettes = append(palettes, p)
	}

	pipeline, err := recolour.NewPipeline(opts, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	session := recolour.NewSession(req.Frame)
	results, err := pipeline.RunAll(session, req.Elements, palettes)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, RecolourResponse{Session: session.ID.String(), Results: results})
}

func (s *Server) options(req RecolourRequest) (recolour.Options, error) {
	opts := s.defaults
	if req.Strategy != "" {
		strategy, err := recolour.ParseStrategy(req.Strategy)
		if err != nil {
			return opts, err
		}
		opts.Strategy = strategy
	}
	if req.GradientStrategy != "" {
		gradient, err := recolour.ParseGradientStrategy(req.GradientStrategy)
		if err != nil {
			return opts, err
		}
		opts.Gradient = gradient
	}
	if req.MinLightnessDiff != nil {
		opts.MinLightnessDiff = *req.MinLightnessDiff
	}
	if req.Contrast != nil {
		opts.Contrast = *req.Contrast
	}
	return opts, nil
}

func (s *Server) handleGradient(w http.ResponseWriter, r *http.Request) {
	var req GradientRequest
	if !decode(w, r, &req) {
		return
	}

	if !colour.IsHex(req.Target) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("target %q: %w", req.Target, colour.ErrInvalidColorFormat))
		return
	}
	strategy, err := recolour.ParseGradientStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, GradientResponse{
		Strategy: strategy.Name(),
		Stops:    strategy.Recolor(req.Stops, req.Target),
	})
}

func (s *Server) handleClosest(w http.ResponseWriter, r *http.Request) {
	var req ClosestRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := colour.HexToRGB(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	palette, err := colour.ParsePalette(req.Palette)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	hex, index, err := recolour.FindClosestColor(c, palette)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ClosestResponse{Hex: hex, Index: index})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recolour.ErrEmptyPalette),
		errors.Is(err, recolour.ErrDuplicateElement),
		errors.Is(err, recolour.ErrMissingElementID),
		errors.Is(err, colour.ErrInvalidColorFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, recolour.ErrInvalidThreshold):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
