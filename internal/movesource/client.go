package movesource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status from move source")
	ErrMalformedResponse = errors.New("malformed move source response")
)

const maxResponseSize = 4 << 10

type MoveRequest struct {
	Board entity.Board `json:"board"`
}

type MoveResponse struct {
	Move  *int   `json:"move,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client asks a remote HTTP endpoint for moves. Transport errors and 5xx
// answers are retried with exponential backoff up to maxRetries times;
// anything else fails at once.
type Client struct {
	logger *slog.Logger

	url        string
	httpClient *http.Client
	maxRetries uint64
}

func NewClient(logger *slog.Logger, url string, timeout time.Duration, maxRetries uint64) *Client {
	return &Client{
		logger:     logger.With("component", "movesource-client"),
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

func (that *Client) RequestMove(ctx context.Context, board entity.Board) (int, error) {
	log := that.logger.With("method", "RequestMove")

	body, err := json.Marshal(MoveRequest{Board: board})
	if err != nil {
		return -1, fmt.Errorf("could not marshal move request: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), that.maxRetries), ctx)

	attempt := 0
	move, err := backoff.RetryWithData(func() (int, error) {
		attempt++
		return that.requestOnce(ctx, body)
	}, policy)
	if err != nil {
		log.Warn("move source request failed", "attempts", attempt, "error", err)
		return -1, err
	}

	log.Debug("move source answered", "move", move, "attempts", attempt)

	return move, nil
}

func (that *Client) requestOnce(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(body))
	if err != nil {
		return -1, backoff.Permanent(fmt.Errorf("could not build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return -1, backoff.Permanent(fmt.Errorf("request canceled: %w", err))
		}
		return -1, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return -1, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return -1, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return -1, backoff.Permanent(fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(data)))
	}

	var moveResp MoveResponse
	if err = json.Unmarshal(data, &moveResp); err != nil {
		return -1, backoff.Permanent(fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}

	if moveResp.Move == nil {
		return -1, backoff.Permanent(fmt.Errorf("%w: move is missing", ErrMalformedResponse))
	}

	return *moveResp.Move, nil
}
