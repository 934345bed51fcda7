package battleship

import (
	"context"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/battleship-peer/internal/entity"
)

const columnHeader = "  1 2 3 4 5 6 7 8"

// RenderTracking - draws the view of enemy territory: X where a shot
// was confirmed a hit, O where a shot missed, - where nothing was
// fired yet.
func (that *Board) RenderTracking(ctx context.Context) (string, error) {
	var out strings.Builder

	out.WriteString("Current assessment of enemy territory...\n")
	out.WriteString(columnHeader)

	for row := 1; row <= entity.BoardHeight; row++ {
		shots, err := that.store.ReadByte(ctx, int(GridShots)+row-1)
		if err != nil {
			return "", fmt.Errorf("failed to read shots row %d: %w", row, err)
		}

		hits, err := that.store.ReadByte(ctx, int(GridHits)+row-1)
		if err != nil {
			return "", fmt.Errorf("failed to read hits row %d: %w", row, err)
		}

		out.WriteByte('\n')
		out.WriteByte(byte('A' + row - 1))

		for col := 1; col <= entity.BoardWidth; col++ {
			bit := cellBit(col)

			switch {
			case shots&bit != 0 && hits&bit != 0:
				out.WriteString(" X")
			case shots&bit != 0:
				out.WriteString(" O")
			default:
				out.WriteString(" -")
			}
		}
	}

	return out.String(), nil
}

// RenderFleet - draws the local fleet: B where a ship cell still
// stands, - elsewhere. Hit cells are cleared, so damage shows up as
// missing B's.
func (that *Board) RenderFleet(ctx context.Context) (string, error) {
	var out strings.Builder

	out.WriteString("Your fleet...\n")
	out.WriteString(columnHeader)

	for row := 1; row <= entity.BoardHeight; row++ {
		ships, err := that.store.ReadByte(ctx, int(GridShips)+row-1)
		if err != nil {
			return "", fmt.Errorf("failed to read ships row %d: %w", row, err)
		}

		out.WriteByte('\n')
		out.WriteByte(byte('A' + row - 1))

		for col := 1; col <= entity.BoardWidth; col++ {
			if ships&cellBit(col) != 0 {
				out.WriteString(" B")
			} else {
				out.WriteString(" -")
			}
		}
	}

	return out.String(), nil
}
