package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dariubs/percent"
	"github.com/rocketscienceinc/battleship-peer/internal/apperror"
	"github.com/rocketscienceinc/battleship-peer/internal/battleship"
	"github.com/rocketscienceinc/battleship-peer/internal/entity"
)

const (
	replyHit  = "1"
	replyMiss = "0"
)

type messenger interface {
	SendMessage(ctx context.Context, payload []byte) error
	ReceiveMessage(ctx context.Context) ([]byte, error)
}

type operator interface {
	ReadLine() (string, error)
	WriteLine(text string) error
}

type archiveRepo interface {
	Save(ctx context.Context, match *entity.Match) error
}

// Coordinator drives one match end to end: ship placement, the
// alternating fire loop, and win detection. It owns the only access to
// the board and the link, so turn alternation is the whole locking
// discipline.
type Coordinator struct {
	logger   *slog.Logger
	board    *battleship.Board
	link     messenger
	operator operator
	archive  archiveRepo

	match *entity.Match
}

func NewCoordinator(logger *slog.Logger, board *battleship.Board, link messenger, op operator, archive archiveRepo, match *entity.Match) *Coordinator {
	return &Coordinator{
		logger:   logger,
		board:    board,
		link:     link,
		operator: op,
		archive:  archive,
		match:    match,
	}
}

// Run - plays the match to completion. A parity failure on the link is
// fatal: there is no resend protocol, so the match is reported lost to
// the channel and the error surfaces to the caller.
func (that *Coordinator) Run(ctx context.Context) (*entity.Match, error) {
	log := that.logger.With("component", "coordinator", "match", that.match.ID)

	if err := that.board.Erase(ctx); err != nil {
		return that.match, fmt.Errorf("failed to erase board store: %w", err)
	}

	if err := that.placeFleet(ctx); err != nil {
		return that.match, fmt.Errorf("failed to place fleet: %w", err)
	}

	firstTurn, err := that.promptRole()
	if err != nil {
		return that.match, fmt.Errorf("failed to negotiate roles: %w", err)
	}

	that.match.Begin(firstTurn)
	log.Info("match started", "first_turn", firstTurn)

	for !that.match.IsOver() {
		switch that.match.Turn {
		case entity.TurnLocal:
			err = that.localTurn(ctx)
		case entity.TurnRemote:
			err = that.remoteTurn(ctx)
		default:
			err = fmt.Errorf("%w: %q", apperror.ErrUnknownMatchTurn, that.match.Turn)
		}

		if err != nil {
			log.Error("match aborted", "error", err)
			return that.match, err
		}

		that.match.UpdateState()

		if err = that.showBoards(ctx); err != nil {
			return that.match, err
		}
	}

	if err = that.reportResult(); err != nil {
		return that.match, err
	}

	that.archiveMatch(ctx, log)

	return that.match, nil
}

// placeFleet - places each ship of the fleet in order, largest first.
// A rejected placement leaves already-placed ships untouched and
// re-prompts for the whole ship.
func (that *Coordinator) placeFleet(ctx context.Context) error {
	if err := that.showFleet(ctx); err != nil {
		return err
	}

	for _, length := range entity.FleetLengths {
		for {
			anchor, err := that.promptCoordinate(fmt.Sprintf("Please choose coordinates for your length %d ship: ", length))
			if err != nil {
				return err
			}

			orientation, err := that.promptOrientation()
			if err != nil {
				return err
			}

			ship := entity.Ship{Anchor: anchor, Length: length, Orientation: orientation}

			err = that.board.PlaceShip(ctx, ship)
			if err == nil {
				break
			}

			if errors.Is(err, apperror.ErrOutOfBounds) || errors.Is(err, apperror.ErrCellOccupied) {
				if err = that.operator.WriteLine("Sorry, that location is off the map or already taken"); err != nil {
					return err
				}
				continue
			}

			return err
		}

		if err := that.showFleet(ctx); err != nil {
			return err
		}
	}

	return nil
}

// localTurn - fires one shot: prompt for a fresh target, mark it as
// fired, send it across the link and record the remote's verdict.
func (that *Coordinator) localTurn(ctx context.Context) error {
	log := that.logger.With("method", "localTurn")

	target, err := that.promptTarget(ctx)
	if err != nil {
		return err
	}

	if err = that.board.SetMarked(ctx, battleship.GridShots, target); err != nil {
		return fmt.Errorf("failed to mark shot %s: %w", target, err)
	}
	that.match.RecordLocalShot()

	if err = that.link.SendMessage(ctx, []byte(target.String())); err != nil {
		return fmt.Errorf("failed to send shot %s: %w", target, err)
	}

	reply, err := that.link.ReceiveMessage(ctx)
	if err != nil {
		return fmt.Errorf("failed to receive verdict for %s: %w", target, err)
	}

	log.Debug("verdict received", "target", target.String(), "reply", string(reply))

	if string(reply) == replyHit {
		if err = that.board.SetMarked(ctx, battleship.GridHits, target); err != nil {
			return fmt.Errorf("failed to mark hit %s: %w", target, err)
		}
		that.match.RecordLocalHit()

		if err = that.operator.WriteLine("Direct hit on an enemy ship!"); err != nil {
			return err
		}
	} else {
		if err = that.operator.WriteLine("Your shot missed..."); err != nil {
			return err
		}
	}

	that.match.AdvanceTurn()

	return nil
}

// remoteTurn - waits for the enemy shot, resolves it against the local
// fleet and replies with the one-byte verdict.
func (that *Coordinator) remoteTurn(ctx context.Context) error {
	log := that.logger.With("method", "remoteTurn")

	if err := that.operator.WriteLine("Waiting for the enemy to make a move..."); err != nil {
		return err
	}

	msg, err := that.link.ReceiveMessage(ctx)
	if err != nil {
		return fmt.Errorf("failed to receive enemy shot: %w", err)
	}

	target, err := entity.ParseCoordinate(string(msg))
	if err != nil {
		return fmt.Errorf("enemy shot is malformed: %w", err)
	}

	if err = that.operator.WriteLine("Enemy has fired on coordinate " + target.String()); err != nil {
		return err
	}
	that.match.RecordRemoteShot()

	hit, err := that.board.ApplyIncomingShot(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to resolve enemy shot %s: %w", target, err)
	}

	log.Debug("enemy shot resolved", "target", target.String(), "hit", hit)

	reply := replyMiss
	verdict := "Enemy has missed"
	if hit {
		that.match.RecordRemoteHit()
		reply = replyHit
		verdict = "Enemy got a hit"
	}

	if err = that.operator.WriteLine(verdict); err != nil {
		return err
	}

	if err = that.link.SendMessage(ctx, []byte(reply)); err != nil {
		return fmt.Errorf("failed to send verdict for %s: %w", target, err)
	}

	that.match.AdvanceTurn()

	return nil
}

// promptTarget - asks for a firing coordinate until it is on the board
// and was not fired at before.
func (that *Coordinator) promptTarget(ctx context.Context) (entity.Coordinate, error) {
	for {
		target, err := that.promptCoordinate("Please enter a coordinate to fire at: ")
		if err != nil {
			return entity.Coordinate{}, err
		}

		err = that.board.ValidateShot(ctx, target)
		if err == nil {
			return target, nil
		}

		if errors.Is(err, apperror.ErrOutOfBounds) || errors.Is(err, apperror.ErrAlreadyFired) {
			if err = that.operator.WriteLine("Sorry, that coordinate is off the map or already fired at"); err != nil {
				return entity.Coordinate{}, err
			}
			continue
		}

		return entity.Coordinate{}, err
	}
}

// promptCoordinate - asks until the operator enters a well-formed
// on-board coordinate like "B4".
func (that *Coordinator) promptCoordinate(prompt string) (entity.Coordinate, error) {
	for {
		if err := that.operator.WriteLine(prompt); err != nil {
			return entity.Coordinate{}, err
		}

		line, err := that.operator.ReadLine()
		if err != nil {
			return entity.Coordinate{}, err
		}

		coord, err := entity.ParseCoordinate(line)
		if err == nil {
			return coord, nil
		}

		if err = that.operator.WriteLine("Sorry, that is not a valid coordinate"); err != nil {
			return entity.Coordinate{}, err
		}
	}
}

// promptOrientation - asks until the operator answers v or h.
func (that *Coordinator) promptOrientation() (string, error) {
	for {
		if err := that.operator.WriteLine("Please choose either vertical or horizontal orientation (v or h): "); err != nil {
			return "", err
		}

		line, err := that.operator.ReadLine()
		if err != nil {
			return "", err
		}

		switch line {
		case entity.OrientationVertical, entity.OrientationHorizontal:
			return line, nil
		}
	}
}

// promptRole - asks which player this peer is; player 1 fires first.
func (that *Coordinator) promptRole() (string, error) {
	for {
		if err := that.operator.WriteLine("Are you player 1 or 2? "); err != nil {
			return "", err
		}

		line, err := that.operator.ReadLine()
		if err != nil {
			return "", err
		}

		switch line {
		case "1":
			return entity.TurnLocal, nil
		case "2":
			return entity.TurnRemote, nil
		}
	}
}

func (that *Coordinator) showFleet(ctx context.Context) error {
	fleet, err := that.board.RenderFleet(ctx)
	if err != nil {
		return fmt.Errorf("failed to render fleet: %w", err)
	}

	return that.operator.WriteLine(fleet)
}

func (that *Coordinator) showBoards(ctx context.Context) error {
	tracking, err := that.board.RenderTracking(ctx)
	if err != nil {
		return fmt.Errorf("failed to render tracking board: %w", err)
	}

	if err = that.operator.WriteLine(tracking); err != nil {
		return err
	}

	return that.showFleet(ctx)
}

// reportResult - announces the winner and each side's accuracy.
func (that *Coordinator) reportResult() error {
	outcome := "The enemy has sunken all of your ships! Game over..."
	if that.match.Winner == entity.TurnLocal {
		outcome = "You sunk all of the enemy ships! Game over..."
	}

	if err := that.operator.WriteLine(outcome); err != nil {
		return err
	}

	if that.match.LocalShots > 0 {
		accuracy := percent.PercentOf(that.match.LocalHits, that.match.LocalShots)
		line := fmt.Sprintf("Your accuracy: %.1f%% (%d hits / %d shots)", accuracy, that.match.LocalHits, that.match.LocalShots)
		if err := that.operator.WriteLine(line); err != nil {
			return err
		}
	}

	if that.match.RemoteShots > 0 {
		accuracy := percent.PercentOf(that.match.RemoteHits, that.match.RemoteShots)
		line := fmt.Sprintf("Enemy accuracy: %.1f%% (%d hits / %d shots)", accuracy, that.match.RemoteHits, that.match.RemoteShots)
		if err := that.operator.WriteLine(line); err != nil {
			return err
		}
	}

	return nil
}

// archiveMatch - best effort: a failed archive write never fails a
// finished match.
func (that *Coordinator) archiveMatch(ctx context.Context, log *slog.Logger) {
	if that.archive == nil {
		return
	}

	if err := that.archive.Save(ctx, that.match); err != nil {
		log.Error("failed to archive match", "error", err)
		return
	}

	log.Info("match archived", "winner", that.match.Winner)
}
