package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/muesli/termenv"

	"github.com/pinsetter/pinsetter/internal/metrics"
	"github.com/pinsetter/pinsetter/internal/scorecard"
	"github.com/pinsetter/pinsetter/internal/store"
	"github.com/pinsetter/pinsetter/pkg/bowling"
)

const maxLaneIDLen = 64

// Options wire optional collaborators into the router.
type Options struct {
	// Recorder counts throws and games and is served at /metrics. Nil
	// disables both.
	Recorder *metrics.Recorder

	// Auth wraps every /api/v1 route except health. Nil means no auth.
	Auth func(http.Handler) http.Handler
}

// Handler serves the lane API.
type Handler struct {
	store *store.Store
	rec   *metrics.Recorder
}

// cards renders the plain-text scorecard carried in every LaneResponse.
var cards = scorecard.New(termenv.Ascii, false)

// New returns a router wired to st.
func New(st *store.Store, opts Options) http.Handler {
	h := &Handler{store: st, rec: opts.Recorder}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Get("/api/v1/health", h.health)
	if h.rec != nil {
		r.Method(http.MethodGet, "/metrics", h.rec)
	}

	r.Route("/api/v1/lanes", func(rr chi.Router) {
		if opts.Auth != nil {
			rr.Use(opts.Auth)
		}
		rr.Get("/", h.listLanes)
		rr.Post("/", h.createLane)
		rr.Route("/{lane}", func(lr chi.Router) {
			lr.Use(laneID)
			lr.Get("/", h.getLane)
			lr.Delete("/", h.deleteLane)
			lr.Post("/reset", h.resetLane)
			lr.Post("/throws", h.recordThrow)
			lr.Get("/frames/{n}", h.getFrame)
			lr.Get("/score", h.finalScore)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// --- route handlers ---------------------------------------------------------

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", LaneCount: len(h.store.List())})
}

func (h *Handler) listLanes(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, BuildLanes(h.store))
}

func (h *Handler) createLane(w http.ResponseWriter, _ *http.Request) {
	lane := h.store.Create()
	w.Header().Set("Location", "/api/v1/lanes/"+lane.ID)
	jsonResp(w, http.StatusCreated, toLaneResponse(lane))
}

func (h *Handler) getLane(w http.ResponseWriter, r *http.Request) {
	lane, ok := h.store.Get(chi.URLParam(r, "lane"))
	if !ok {
		jsonErr(w, http.StatusNotFound, "lane not found")
		return
	}
	jsonResp(w, http.StatusOK, toLaneResponse(lane))
}

func (h *Handler) deleteLane(w http.ResponseWriter, r *http.Request) {
	if !h.store.Delete(chi.URLParam(r, "lane")) {
		jsonErr(w, http.StatusNotFound, "lane not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetLane(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, toLaneResponse(h.store.Reset(chi.URLParam(r, "lane"))))
}

// recordThrow handles POST /api/v1/lanes/{lane}/throws.
func (h *Handler) recordThrow(w http.ResponseWriter, r *http.Request) {
	var req ThrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if (req.Throw == "") == (req.Pins == nil) {
		jsonErr(w, http.StatusBadRequest, `exactly one of "throw" and "pins" is required`)
		return
	}

	var t bowling.Throw
	if req.Throw != "" {
		parsed, err := bowling.ParseThrow(req.Throw)
		if err != nil {
			h.reject(w, err)
			return
		}
		t = parsed
	}

	completed := false
	lane, err := h.store.Update(chi.URLParam(r, "lane"), func(g *bowling.Game) error {
		var err error
		if req.Pins != nil {
			err = g.RecordPins(*req.Pins)
		} else {
			err = g.RecordThrow(t)
		}
		completed = err == nil && g.Complete()
		return err
	})
	if err != nil {
		h.reject(w, err)
		return
	}

	if h.rec != nil {
		h.rec.ObserveThrow(lastThrow(lane))
		if completed && lane.FinalScore != nil {
			h.rec.ObserveGame(*lane.FinalScore)
		}
	}
	jsonResp(w, http.StatusOK, toLaneResponse(lane))
}

func (h *Handler) getFrame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lane")
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "frame number must be an integer")
		return
	}

	var view bowling.FrameView
	err = h.store.View(id, func(g *bowling.Game) error {
		var err error
		view, err = g.Frame(n)
		return err
	})
	if err != nil {
		jsonErr(w, statusFor(err), err.Error())
		return
	}
	jsonResp(w, http.StatusOK, FrameResponse{Lane: id, FrameView: view})
}

func (h *Handler) finalScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lane")
	var score int
	err := h.store.View(id, func(g *bowling.Game) error {
		var err error
		score, err = g.FinalScore()
		return err
	})
	if err != nil {
		jsonErr(w, statusFor(err), err.Error())
		return
	}
	jsonResp(w, http.StatusOK, ScoreResponse{Lane: id, FinalScore: score})
}

// --- helpers ----------------------------------------------------------------

// reject counts a refused throw and writes the matching error response.
func (h *Handler) reject(w http.ResponseWriter, err error) {
	if h.rec != nil {
		h.rec.ObserveRejected(err)
	}
	jsonErr(w, statusFor(err), err.Error())
}

// statusFor maps scoring-engine and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, bowling.ErrInvalidThrow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bowling.ErrThrowsExceeded), errors.Is(err, bowling.ErrPrematureScore):
		return http.StatusConflict
	case errors.Is(err, bowling.ErrFrameOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, bowling.ErrFrameNotStarted), errors.Is(err, store.ErrLaneNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// BuildLanes returns every live lane with its rendered scorecard.
// It is shared by GET /api/v1/lanes and the WebSocket hub.
func BuildLanes(st *store.Store) []LaneResponse {
	lanes := st.List()
	out := make([]LaneResponse, 0, len(lanes))
	for _, l := range lanes {
		out = append(out, toLaneResponse(l))
	}
	return out
}

func toLaneResponse(l store.Lane) LaneResponse {
	return LaneResponse{Lane: l, Card: cards.RenderViews(l.Frames, l.FinalScore)}
}

// lastThrow returns the most recent mark on the lane.
func lastThrow(l store.Lane) bowling.Throw {
	throws := l.Frames[l.ActiveFrame-1].Throws
	return throws[len(throws)-1]
}

// laneID rejects lane IDs that are too long to be reasonable keys.
func laneID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chi.URLParam(r, "lane"); len(id) > maxLaneIDLen {
			jsonErr(w, http.StatusBadRequest, fmt.Sprintf("lane id longer than %d characters", maxLaneIDLen))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs each request with structured fields.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("api: request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
