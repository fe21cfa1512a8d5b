package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/usecase"
)

type Handler struct {
	UC  *usecase.Service
	Log *slog.Logger

	// Geo is the geometry assumed when a request omits box dimensions.
	Geo domain.Geometry
}

func New(uc *usecase.Service, log *slog.Logger, geo domain.Geometry) *Handler {
	if !geo.Valid() {
		geo = domain.Classic()
	}
	return &Handler{UC: uc, Log: log, Geo: geo}
}

// Routes builds the API router with request-ID, recovery, and slog
// request logging middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/solve", h.handleSolve)
		r.Post("/validate", h.handleValidate)
		r.Post("/hint", h.handleHint)
		r.Post("/generate", h.handleGenerate)
		r.Post("/puzzles", h.handleSave)
		r.Get("/puzzles", h.handleList)
		r.Get("/puzzles/{id}", h.handleLoad)
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})
	return r
}

// requestLogger logs method, path, status, bytes, and duration.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Log.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Millisecond),
			"reqID", middleware.GetReqID(r.Context()),
		)
	})
}

// boardPayload is the wire form of a board: geometry plus a row-major
// cell string ('.' for empty). Requests that omit the box dimensions
// get the handler's configured default geometry.
type boardPayload struct {
	BoxRows int    `json:"boxRows,omitempty"`
	BoxCols int    `json:"boxCols,omitempty"`
	Cells   string `json:"cells"`
}

func (p boardPayload) geometry(def domain.Geometry) domain.Geometry {
	if p.BoxRows == 0 && p.BoxCols == 0 {
		return def
	}
	return domain.Geometry{BoxRows: p.BoxRows, BoxCols: p.BoxCols}
}

func (p boardPayload) board(def domain.Geometry) (*domain.Board, error) {
	return domain.ParseBoard(p.geometry(def), p.Cells)
}

func payloadFrom(b *domain.Board) boardPayload {
	return boardPayload{
		BoxRows: b.Geometry.BoxRows,
		BoxCols: b.Geometry.BoxCols,
		Cells:   b.String(),
	}
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errResp{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, grid.ErrInvalidPuzzle):
		return http.StatusBadRequest
	case errors.Is(err, grid.ErrUnsatisfiable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ---- Solve ----

type solveReq struct {
	Board boardPayload `json:"board"`
}
type solveResp struct {
	Board      boardPayload `json:"board"`
	DurationMs int64        `json:"durationMs"`
	Nodes      int          `json:"nodes"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := req.Board.board(h.Geo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}
	out, st, err := h.UC.Solve(r.Context(), b)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResp{
		Board:      payloadFrom(out),
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Validate ----

type validateResp struct {
	OK        bool               `json:"ok"`
	Conflicts []domain.CellCoord `json:"conflicts,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := req.Board.board(h.Geo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}
	ok, conflicts, err := h.UC.Validate(r.Context(), b)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResp{OK: ok, Conflicts: conflicts})
}

// ---- Hint ----

type hintReq struct {
	Board   boardPayload `json:"board"`
	MaxTier string       `json:"maxTier,omitempty"`
}
type hintResp struct {
	Found bool        `json:"found"`
	Hint  domain.Hint `json:"hint,omitempty"`
}

func parseTier(s string) domain.StrategyTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pairs":
		return domain.StrategyPairs
	case "advanced":
		return domain.StrategyAdvanced
	default:
		return domain.StrategySingles
	}
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := req.Board.board(h.Geo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), b, parseTier(req.MaxTier))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hintResp{Found: ok, Hint: hh})
}

// ---- Generate ----

type generateReq struct {
	BoxRows    int    `json:"boxRows,omitempty"`
	BoxCols    int    `json:"boxCols,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}
type generateResp struct {
	Board      boardPayload `json:"board"`
	Seed       int64        `json:"seed"`
	Difficulty string       `json:"difficulty"`
	DurationMs int64        `json:"durationMs"`
	Nodes      int          `json:"nodes"`
}

func parseDifficulty(s string) domain.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return domain.Easy
	case "hard":
		return domain.Hard
	case "expert":
		return domain.Expert
	default:
		return domain.Medium
	}
}

func difficultyName(d domain.Difficulty) string {
	switch d {
	case domain.Easy:
		return "easy"
	case domain.Hard:
		return "hard"
	case domain.Expert:
		return "expert"
	default:
		return "medium"
	}
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	geo := boardPayload{BoxRows: req.BoxRows, BoxCols: req.BoxCols}.geometry(h.Geo)
	if !geo.Valid() {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "unsupported geometry"})
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := parseDifficulty(req.Difficulty)
	p, st, err := h.UC.Generate(r.Context(), geo, seed, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Board:      payloadFrom(&p.Board),
		Seed:       seed,
		Difficulty: difficultyName(d),
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Save / Load / List ----

type saveResp struct {
	ID string `json:"id"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var p domain.Puzzle
	if err := decode(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixNano()
	}
	if err := h.UC.Save(r.Context(), &p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: p.ID})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "missing id"})
		return
	}
	p, err := h.UC.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, errResp{Error: "puzzle not found"})
			return
		}
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type listResp struct {
	Puzzles []domain.PuzzleMeta `json:"puzzles"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.UC.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResp{Puzzles: ps})
}
