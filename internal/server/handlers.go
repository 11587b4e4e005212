package server

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/itemshuffle/pkg/buildinfo"
	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/observability"
	"github.com/matzehuels/itemshuffle/pkg/render/dot"
	"github.com/matzehuels/itemshuffle/pkg/shuffle"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

var contentTypes = map[string]string{
	dot.FormatSVG: "image/svg+xml",
	dot.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Run(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	red, err := s.runner.Reduce(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, red)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = dot.FormatSVG
	}
	if err := errors.ValidateFormat(format, dot.FormatDOT, dot.FormatSVG); err != nil {
		s.writeError(w, r, err)
		return
	}
	place, err := parseBool(q.Get("place"), "place")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		g       *world.Graph
		ll      *logic.LocationList
		dotOpts dot.Options
	)
	if place {
		res, err := s.runner.Run(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		g, ll, dotOpts = res.World.Graph, res.List, dot.Options{Assigned: true}
	} else {
		red, err := s.runner.Reduce(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		g, ll = red.World.Graph, red.List
	}
	out, err := dot.Render(r.Context(), g, ll, format, dotOpts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// options reads the world body and the query parameters shared by every
// endpoint.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (shuffle.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, errors.MaxWorldSize))
	if err != nil {
		return shuffle.Options{}, errors.Wrap(errors.ErrCodeInvalidWorld, err, "read world")
	}

	q := r.URL.Query()
	opts := shuffle.Options{
		Source:          body,
		MaxAttempts:     s.cfg.MaxAttempts,
		Parallelism:     s.cfg.Parallelism,
		MaxAlternatives: s.cfg.MaxAlternatives,
		Logger:          s.log,
	}
	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = errors.ParseSeed(v); err != nil {
			return shuffle.Options{}, err
		}
	} else {
		opts.Seed = rand.Uint64()
	}
	if opts.Tracker, err = parseBool(q.Get("tracker"), "tracker"); err != nil {
		return shuffle.Options{}, err
	}
	if v := q.Get("attempts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return shuffle.Options{}, errors.New(errors.ErrCodeInvalidInput, "attempts must be a number: %q", v)
		}
		if err := errors.ValidateAttempts("attempts", n, s.cfg.MaxAttempts); err != nil {
			return shuffle.Options{}, err
		}
		if n > 0 {
			opts.MaxAttempts = n
		}
	}
	return opts, nil
}

func parseBool(v, name string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean: %q", name, v)
	}
	return b, nil
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if body.Code == "" {
		body = errorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start))
	})
}
