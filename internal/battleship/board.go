package battleship

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/battleship-peer/internal/entity"
)

// Grid selects one of the three bit matrices by its base offset in the
// store. Both peers depend on this layout, so the offsets are fixed.
type Grid int

const (
	GridShots Grid = 0
	GridHits  Grid = 8
	GridShips Grid = 16

	// eraseSpan covers the three grids plus a small margin.
	eraseSpan = 30
)

// ByteStore is the persistent store the board lives in: indexed
// read/write of 8-bit rows, no caching, no transactions.
type ByteStore interface {
	ReadByte(ctx context.Context, addr int) (byte, error)
	WriteByte(ctx context.Context, addr int, value byte) error
}

// Board packs each grid as 8 rows of 8 bits, one row per store byte.
// Column c occupies bit (8-c) counting from the least-significant bit.
type Board struct {
	store ByteStore
}

func NewBoard(store ByteStore) *Board {
	return &Board{store: store}
}

// Erase - zeroes every byte the grids use. Must complete before any
// placement or play logic reads the store.
func (that *Board) Erase(ctx context.Context) error {
	for addr := 0; addr < eraseSpan; addr++ {
		if err := that.store.WriteByte(ctx, addr, 0); err != nil {
			return fmt.Errorf("failed to erase store at %d: %w", addr, err)
		}
	}

	return nil
}

// IsMarked - reports whether the cell is set on the given grid.
func (that *Board) IsMarked(ctx context.Context, grid Grid, coord entity.Coordinate) (bool, error) {
	row, err := that.store.ReadByte(ctx, rowAddr(grid, coord))
	if err != nil {
		return false, fmt.Errorf("failed to read row: %w", err)
	}

	return row&cellBit(coord.Col) != 0, nil
}

// SetMarked - sets the cell bit on the given grid.
func (that *Board) SetMarked(ctx context.Context, grid Grid, coord entity.Coordinate) error {
	addr := rowAddr(grid, coord)

	row, err := that.store.ReadByte(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to read row: %w", err)
	}

	if err = that.store.WriteByte(ctx, addr, row|cellBit(coord.Col)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	return nil
}

// ClearMarked - clears the cell bit on the given grid.
func (that *Board) ClearMarked(ctx context.Context, grid Grid, coord entity.Coordinate) error {
	addr := rowAddr(grid, coord)

	row, err := that.store.ReadByte(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to read row: %w", err)
	}

	if err = that.store.WriteByte(ctx, addr, row&^cellBit(coord.Col)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	return nil
}

// rowAddr maps a coordinate to its row byte within the grid.
// Callers validate bounds one layer up; the store does not.
func rowAddr(grid Grid, coord entity.Coordinate) int {
	return int(grid) + coord.Row - 1
}

// cellBit builds a byte with only the column's bit set, so column 1 is
// the most-significant bit and column 8 the least.
func cellBit(col int) byte {
	return 1 << (entity.BoardWidth - col)
}
