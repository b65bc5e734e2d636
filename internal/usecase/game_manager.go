package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/movesource"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

const defaultRemoteTimeout = 30 * time.Second

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type moveSource interface {
	RequestMove(ctx context.Context, board entity.Board) (int, error)
}

type Options struct {
	// OnFailure is config.OnFailureStall or config.OnFailureFallback.
	OnFailure string
	// AutoPlay requests the remote move right after an accepted human move.
	AutoPlay bool
	// RemoteTimeout bounds auto-play requests.
	RemoteTimeout time.Duration
}

// GameManager is the API the presentation layer drives. All session state
// changes happen under mu; mu is never held while the move source is working.
type GameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	moveSource  moveSource
	options     Options

	mu      sync.Mutex
	pending sync.WaitGroup

	// background is the parent of auto-play requests; Close cancels it.
	background context.Context
	cancel     context.CancelFunc
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, moveSource moveSource, options Options) *GameManager {
	if options.OnFailure == "" {
		options.OnFailure = config.OnFailureStall
	}

	if options.RemoteTimeout <= 0 {
		options.RemoteTimeout = defaultRemoteTimeout
	}

	background, cancel := context.WithCancel(context.Background())

	return &GameManager{
		logger: logger.With("component", "game-manager"),

		sessionRepo: sessionRepo,
		moveSource:  moveSource,
		options:     options,

		background: background,
		cancel:     cancel,
	}
}

// IsRejectedMove reports whether err is a normal move rejection rather than a fault.
func IsRejectedMove(err error) bool {
	return errors.Is(err, tictactoe.ErrInvalidCell) ||
		errors.Is(err, tictactoe.ErrInvalidMark) ||
		errors.Is(err, tictactoe.ErrGameFinished) ||
		errors.Is(err, tictactoe.ErrBoardFull) ||
		errors.Is(err, tictactoe.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrNotYourTurn)
}

// NewGame leaves the menu and starts a session with an empty board.
func (that *GameManager) NewGame(ctx context.Context, mode entity.Mode) (*entity.Session, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}

	session := entity.NewSession(uuid.NewString(), mode)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("game started", "sessionID", session.ID, "mode", mode)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// Status describes the active snapshot of the session.
func (that *GameManager) Status(ctx context.Context, id string) (entity.Status, error) {
	session, err := that.GetSession(ctx, id)
	if err != nil {
		return entity.Status{}, err
	}

	return tictactoe.Status(session.History.Current()), nil
}

// AttemptMove plays cell for the side whose turn it is. An empty mark means
// "whoever is next"; a non-empty one must match the turn. On rejection the
// unchanged session is returned together with the reason.
func (that *GameManager) AttemptMove(ctx context.Context, id string, cell int, mark entity.Mark) (*entity.Session, error) {
	log := that.logger.With("method", "AttemptMove", "sessionID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	turn := session.History.NextMark()
	if mark != entity.EmptyCell && mark != turn {
		return session, fmt.Errorf("%w: %s moves now", apperror.ErrNotYourTurn, turn)
	}

	if that.awaitsRemote(session) {
		return session, fmt.Errorf("%w: waiting for the remote player", apperror.ErrNotYourTurn)
	}

	if err = that.apply(ctx, session, cell, turn); err != nil {
		if !IsRejectedMove(err) {
			return nil, err
		}

		log.Debug("move rejected", "cell", cell, "mark", turn, "error", err)
		return session, err
	}

	log.Debug("move accepted", "cell", cell, "mark", turn, "ply", session.History.Ply())

	if that.options.AutoPlay && that.awaitsRemote(session) {
		that.playRemoteAsync(id)
	}

	return session, nil
}

// GoToPly moves the cursor of the session's ledger.
func (that *GameManager) GoToPly(ctx context.Context, id string, index int) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = session.History.Rewind(index); err != nil {
		return session, fmt.Errorf("failed to go to ply: %w", err)
	}

	if err = that.save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.History.Reset()

	if err = that.save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// BackToMenu ends the session. A remote move still in flight for it is dropped.
func (that *GameManager) BackToMenu(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	that.logger.Info("game ended", "sessionID", id)

	return nil
}

// RequestRemoteMove asks the move source for the remote player's move and
// applies it if the ledger has not changed since the request was issued.
func (that *GameManager) RequestRemoteMove(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "RequestRemoteMove", "sessionID", id)

	board, mark, version, err := that.prepareRemoteMove(ctx, id)
	if err != nil {
		return nil, err
	}

	cell, err := that.moveSource.RequestMove(ctx, board)
	if err != nil {
		log.Warn("move source failed", "error", err)

		if that.options.OnFailure != config.OnFailureFallback {
			return nil, fmt.Errorf("%w: %w", apperror.ErrMoveSourceFailed, err)
		}

		if cell, err = movesource.PickRandom(board); err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrMoveSourceFailed, err)
		}

		log.Info("falling back to a random move", "cell", cell)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetSession(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		log.Info("session ended before the remote move arrived, discarding", "cell", cell)
		return nil, fmt.Errorf("%w: %w", apperror.ErrStaleRemoteMove, err)
	}

	if err != nil {
		return nil, err
	}

	if session.History.Version != version {
		log.Info("board changed before the remote move arrived, discarding", "cell", cell)
		return session, apperror.ErrStaleRemoteMove
	}

	err = that.apply(ctx, session, cell, mark)
	if err != nil && IsRejectedMove(err) && that.options.OnFailure == config.OnFailureFallback {
		log.Warn("remote move rejected, falling back to a random move", "cell", cell, "error", err)

		if cell, err = movesource.PickRandom(board); err == nil {
			err = that.apply(ctx, session, cell, mark)
		}
	}

	if err != nil {
		if IsRejectedMove(err) {
			log.Warn("remote move rejected", "cell", cell, "error", err)
			return session, fmt.Errorf("%w: %w", apperror.ErrRemoteMoveIllegal, err)
		}
		return nil, err
	}

	log.Debug("remote move accepted", "cell", cell, "mark", mark)

	return session, nil
}

// Wait blocks until every auto-play request has finished.
func (that *GameManager) Wait() {
	that.pending.Wait()
}

// Close cancels in-flight auto-play requests and waits for them to return.
func (that *GameManager) Close() {
	that.cancel()
	that.pending.Wait()
}

// prepareRemoteMove checks that the remote player may move now and captures
// the board and version the request is made for.
func (that *GameManager) prepareRemoteMove(ctx context.Context, id string) (entity.Board, entity.Mark, uint64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return entity.Board{}, "", 0, err
	}

	if !session.IsVsRemote() {
		return entity.Board{}, "", 0, apperror.ErrNoRemotePlayer
	}

	board := session.History.Current()

	if status := tictactoe.Status(board); status.IsFinished() {
		return entity.Board{}, "", 0, fmt.Errorf("%w: %s", tictactoe.ErrGameFinished, status.State)
	}

	if !session.IsRemoteTurn() {
		return entity.Board{}, "", 0, apperror.ErrNotRemoteTurn
	}

	return board, session.RemoteMark, session.History.Version, nil
}

func (that *GameManager) playRemoteAsync(id string) {
	that.pending.Add(1)

	go func() {
		defer that.pending.Done()

		ctx, cancel := context.WithTimeout(that.background, that.options.RemoteTimeout)
		defer cancel()

		if _, err := that.RequestRemoteMove(ctx, id); err != nil {
			that.logger.Warn("auto-play remote move dropped", "sessionID", id, "error", err)
		}
	}()
}

// apply runs the arbiter and commits the new snapshot. Callers hold mu.
func (that *GameManager) apply(ctx context.Context, session *entity.Session, cell int, mark entity.Mark) error {
	next, err := tictactoe.ProposeMove(session.History.Current(), cell, mark)
	if err != nil {
		return err
	}

	session.History.Append(next)

	return that.save(ctx, session)
}

func (that *GameManager) awaitsRemote(session *entity.Session) bool {
	return session.IsRemoteTurn() && !tictactoe.Status(session.History.Current()).IsFinished()
}

func (that *GameManager) save(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
