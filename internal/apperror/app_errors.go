package apperror

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNotRemoteTurn     = errors.New("it's not the remote player's turn")
	ErrNoRemotePlayer    = errors.New("session has no remote player")
	ErrUnknownMode       = errors.New("unknown game mode")
	ErrMoveSourceFailed  = errors.New("move source failed")
	ErrStaleRemoteMove   = errors.New("remote move arrived for a stale board")
	ErrRemoteMoveIllegal = errors.New("remote move rejected")
)
