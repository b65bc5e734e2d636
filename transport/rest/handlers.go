package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
)

type gameManager interface {
	NewGame(ctx context.Context, mode entity.Mode) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	AttemptMove(ctx context.Context, id string, cell int, mark entity.Mark) (*entity.Session, error)
	RequestRemoteMove(ctx context.Context, id string) (*entity.Session, error)
	GoToPly(ctx context.Context, id string, index int) (*entity.Session, error)
	ResetGame(ctx context.Context, id string) (*entity.Session, error)
	BackToMenu(ctx context.Context, id string) error
}

type newGameRequest struct {
	Mode entity.Mode `json:"mode"`
}

type moveRequest struct {
	Cell *int        `json:"cell"`
	Mark entity.Mark `json:"mark,omitempty"`
}

type plyRequest struct {
	Index *int `json:"index"`
}

type gameView struct {
	ID         string         `json:"id"`
	Mode       entity.Mode    `json:"mode"`
	Board      entity.Board   `json:"board"`
	Status     entity.Status  `json:"status"`
	Ply        int            `json:"ply"`
	History    []entity.Board `json:"history"`
	RemoteTurn bool           `json:"remote_turn"`
}

type response struct {
	Accepted *bool     `json:"accepted,omitempty"`
	Game     *gameView `json:"game,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type handlers struct {
	logger *slog.Logger
	games  gameManager
}

func newView(session *entity.Session) *gameView {
	board := session.History.Current()

	return &gameView{
		ID:         session.ID,
		Mode:       session.Mode,
		Board:      board,
		Status:     tictactoe.Status(board),
		Ply:        session.History.Ply(),
		History:    session.History.All(),
		RemoteTurn: session.IsRemoteTurn(),
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "invalid request body"})
		return
	}

	session, err := that.games.NewGame(r.Context(), req.Mode)
	if err != nil {
		that.writeError(w, r, nil, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, response{Game: newView(session)})
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, response{Game: newView(session)})
}

func (that *handlers) endGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.BackToMenu(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, nil, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "cell is required"})
		return
	}

	session, err := that.games.AttemptMove(r.Context(), chi.URLParam(r, "id"), *req.Cell, req.Mark)
	that.writeOutcome(w, r, session, err)
}

func (that *handlers) remoteMove(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.RequestRemoteMove(r.Context(), chi.URLParam(r, "id"))
	that.writeOutcome(w, r, session, err)
}

func (that *handlers) goToPly(w http.ResponseWriter, r *http.Request) {
	var req plyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "index is required"})
		return
	}

	session, err := that.games.GoToPly(r.Context(), chi.URLParam(r, "id"), *req.Index)
	if err != nil {
		that.writeError(w, r, session, err)
		return
	}

	that.writeJSON(w, http.StatusOK, response{Game: newView(session)})
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.ResetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, response{Game: newView(session)})
}

// writeOutcome answers a move attempt: accepted with the new snapshot, or rejected.
func (that *handlers) writeOutcome(w http.ResponseWriter, r *http.Request, session *entity.Session, err error) {
	if err != nil {
		that.writeError(w, r, session, err)
		return
	}

	accepted := true
	that.writeJSON(w, http.StatusOK, response{Accepted: &accepted, Game: newView(session)})
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, session *entity.Session, err error) {
	resp := response{Error: err.Error()}
	if session != nil {
		resp.Game = newView(session)
	}

	status := statusFor(err)
	if status == http.StatusConflict {
		rejected := false
		resp.Accepted = &rejected
	}

	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	that.writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrStaleRemoteMove):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnknownMode), errors.Is(err, entity.ErrPlyOutOfRange):
		return http.StatusBadRequest
	case usecase.IsRejectedMove(err),
		errors.Is(err, apperror.ErrNotRemoteTurn),
		errors.Is(err, apperror.ErrNoRemotePlayer):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrMoveSourceFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
