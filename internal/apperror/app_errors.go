package apperror

import "errors"

var (
	ErrOutOfBounds       = errors.New("coordinate is out of bounds")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrAlreadyFired      = errors.New("coordinate was already fired at")
	ErrMatchFinished     = errors.New("match is already finished")
	ErrMatchNotStarted   = errors.New("match is not started")
	ErrUnknownMatchTurn  = errors.New("unknown match turn")
	ErrUnknownMatchPhase = errors.New("unknown match phase")
)
