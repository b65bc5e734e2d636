package movesource

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	source "github.com/rocketscienceinc/tictactoe-core/internal/movesource"
	"github.com/rocketscienceinc/tictactoe-core/transport/rest"
)

const maxRequestBody = 4 << 10

type moveRequest struct {
	Board *entity.Board `json:"board"`
}

type handler struct {
	logger *slog.Logger
	picker source.MoveSource
}

// NewRouter serves POST /ai-move, answering with a cell chosen by picker.
func NewRouter(logger *slog.Logger, picker source.MoveSource) http.Handler {
	h := &handler{
		logger: logger.With("component", "movesource-server"),
		picker: picker,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(rest.RequestLogger(h.logger))

	r.Post("/ai-move", h.aiMove)

	return r
}

func (that *handler) aiMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, source.MoveResponse{Error: "Invalid board format: " + err.Error()})
		return
	}

	if req.Board == nil {
		that.writeJSON(w, http.StatusBadRequest, source.MoveResponse{Error: "Invalid board format: board is required"})
		return
	}

	move, err := that.picker.RequestMove(r.Context(), *req.Board)
	if errors.Is(err, source.ErrNoAvailableMoves) {
		move = -1
	} else if err != nil {
		that.logger.Error("failed to pick a move", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, source.MoveResponse{Error: "could not pick a move"})
		return
	}

	that.logger.Debug("move picked", "board", req.Board, "move", move)

	that.writeJSON(w, http.StatusOK, source.MoveResponse{Move: &move})
}

func (that *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
