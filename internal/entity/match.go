package entity

import (
	"fmt"

	"github.com/rocketscienceinc/battleship-peer/internal/apperror"
)

const (
	PhaseSetup   = "setup"
	PhasePlaying = "playing"
	PhaseOver    = "over"

	TurnLocal  = "local"
	TurnRemote = "remote"
)

// Match is the state of one game from the local peer's point of view.
// LocalHits counts confirmed hits on the enemy fleet, RemoteHits counts
// enemy hits on ours; whichever reaches TotalShipCells first wins.
type Match struct {
	ID          string `json:"id"`
	LocalShots  int    `json:"local_shots"`
	LocalHits   int    `json:"local_hits"`
	RemoteShots int    `json:"remote_shots"`
	RemoteHits  int    `json:"remote_hits"`
	Turn        string `json:"turn,omitempty"`
	Phase       string `json:"phase"`
	Winner      string `json:"winner,omitempty"`
}

func NewMatch(id string) *Match {
	return &Match{
		ID:    id,
		Phase: PhaseSetup,
	}
}

// Begin - moves the match from setup into play. Player 1 fires first,
// so firstTurn is TurnLocal for player 1 and TurnRemote for player 2.
func (that *Match) Begin(firstTurn string) {
	that.Phase = PhasePlaying
	that.Turn = firstTurn
}

func (that *Match) RecordLocalShot() {
	that.LocalShots++
}

func (that *Match) RecordLocalHit() {
	that.LocalHits++
}

func (that *Match) RecordRemoteShot() {
	that.RemoteShots++
}

func (that *Match) RecordRemoteHit() {
	that.RemoteHits++
}

// UpdateState - runs the termination check after a turn.
func (that *Match) UpdateState() {
	switch {
	case that.LocalHits == TotalShipCells:
		that.Winner = TurnLocal
		that.Phase = PhaseOver
		that.Turn = ""
	case that.RemoteHits == TotalShipCells:
		that.Winner = TurnRemote
		that.Phase = PhaseOver
		that.Turn = ""
	}
}

// AdvanceTurn - hands the turn to the other side.
func (that *Match) AdvanceTurn() {
	if that.Turn == TurnLocal {
		that.Turn = TurnRemote
	} else {
		that.Turn = TurnLocal
	}
}

func (that *Match) IsOver() bool {
	return that.Phase == PhaseOver
}

func (that *Match) IsPlaying() bool {
	return that.Phase == PhasePlaying
}

func (that *Match) IsSetup() bool {
	return that.Phase == PhaseSetup
}

func (that *Match) ConfirmPlayingState() error {
	switch {
	case that.IsSetup():
		return apperror.ErrMatchNotStarted
	case that.IsOver():
		return apperror.ErrMatchFinished
	case that.IsPlaying():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownMatchPhase, that.Phase)
	}
}
