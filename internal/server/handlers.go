package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"league_grid_go/internal/generator"
	"league_grid_go/internal/store"
	"league_grid_go/internal/types"
	"league_grid_go/internal/usecase"
	"league_grid_go/internal/validator"
)

// puzzleView is what players get to see: the tiles, never the answers.
type puzzleView struct {
	ID        string       `json:"id"`
	Grid      []string     `json:"grid"`
	Policy    types.Policy `json:"policy,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func viewOf(p *types.Puzzle) puzzleView {
	return puzzleView{ID: p.ID, Grid: p.Grid, Policy: p.Policy, CreatedAt: p.CreatedAt}
}

type createReq struct {
	Policy  string `json:"policy,omitempty"`
	Seed    uint64 `json:"seed,omitempty"`
	Shuffle *bool  `json:"shuffle,omitempty"`
}

type validateReq struct {
	Arrangement []string `json:"arrangement"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResp{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, validator.ErrInvalidArrangement):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generator.ErrInsufficientCandidates):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResp{Error: msg})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	opts := usecase.GenerateOptions{
		Policy:  s.defaults.Policy,
		Seed:    req.Seed,
		Shuffle: s.defaults.Shuffle,
	}
	switch p := types.Policy(strings.ToLower(strings.TrimSpace(req.Policy))); p {
	case "":
	case types.Prefix, types.Random:
		opts.Policy = p
	default:
		s.badRequest(w, "unknown policy "+req.Policy)
		return
	}
	if req.Shuffle != nil {
		opts.Shuffle = *req.Shuffle
	}

	p, err := s.uc.Create(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/puzzles/"+p.ID)
	s.writeJSON(w, http.StatusCreated, viewOf(p))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	metas, err := s.uc.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if metas == nil {
		metas = []types.PuzzleMeta{}
	}
	s.writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.uc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(p))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	res, err := s.uc.Check(r.Context(), mux.Vars(r)["id"], req.Arrangement)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}
