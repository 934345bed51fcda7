package battleship

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/battleship-peer/internal/apperror"
	"github.com/rocketscienceinc/battleship-peer/internal/entity"
)

// ValidatePlacement - checks that every cell of the ship is on the
// board and free. A single bad cell rejects the whole ship; nothing is
// written.
func (that *Board) ValidatePlacement(ctx context.Context, ship entity.Ship) error {
	for _, cell := range ship.Cells() {
		if !cell.InBounds() {
			return fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, cell)
		}

		occupied, err := that.IsMarked(ctx, GridShips, cell)
		if err != nil {
			return fmt.Errorf("failed to check cell %s: %w", cell, err)
		}

		if occupied {
			return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, cell)
		}
	}

	return nil
}

// PlaceShip - validates the ship and marks its cells on the ship grid.
func (that *Board) PlaceShip(ctx context.Context, ship entity.Ship) error {
	if err := that.ValidatePlacement(ctx, ship); err != nil {
		return err
	}

	for _, cell := range ship.Cells() {
		if err := that.SetMarked(ctx, GridShips, cell); err != nil {
			return fmt.Errorf("failed to place cell %s: %w", cell, err)
		}
	}

	return nil
}

// ValidateShot - checks that an outgoing shot is on the board and was
// not fired before.
func (that *Board) ValidateShot(ctx context.Context, coord entity.Coordinate) error {
	if !coord.InBounds() {
		return fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, coord)
	}

	fired, err := that.IsMarked(ctx, GridShots, coord)
	if err != nil {
		return fmt.Errorf("failed to check shot %s: %w", coord, err)
	}

	if fired {
		return fmt.Errorf("%w: %s", apperror.ErrAlreadyFired, coord)
	}

	return nil
}

// ApplyIncomingShot - resolves an enemy shot against the local fleet.
// On a hit the ship cell is cleared, which both marks the damage and
// keeps the remaining-fleet render honest.
func (that *Board) ApplyIncomingShot(ctx context.Context, coord entity.Coordinate) (bool, error) {
	if !coord.InBounds() {
		return false, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, coord)
	}

	hit, err := that.IsMarked(ctx, GridShips, coord)
	if err != nil {
		return false, fmt.Errorf("failed to check ship cell %s: %w", coord, err)
	}

	if !hit {
		return false, nil
	}

	if err = that.ClearMarked(ctx, GridShips, coord); err != nil {
		return false, fmt.Errorf("failed to clear ship cell %s: %w", coord, err)
	}

	return true, nil
}
