package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/battleship-peer/internal/apperror"
)

const (
	BoardWidth  = 8
	BoardHeight = 8
)

// Coordinate is a 1-based cell address on the 8x8 board. The external
// notation is a row letter followed by a column digit, e.g. "B4".
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ParseCoordinate - converts the "B4" notation into a Coordinate.
// The ordinal mapping is direct: 'A'->1 .. 'H'->8 and '1'->1 .. '8'->8.
func ParseCoordinate(token string) (Coordinate, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if len(token) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", apperror.ErrOutOfBounds, token)
	}

	coord := Coordinate{
		Row: int(token[0]-'A') + 1,
		Col: int(token[1]-'0'),
	}

	if !coord.InBounds() {
		return Coordinate{}, fmt.Errorf("%w: %q", apperror.ErrOutOfBounds, token)
	}

	return coord, nil
}

func (that Coordinate) InBounds() bool {
	return that.Row >= 1 && that.Row <= BoardHeight && that.Col >= 1 && that.Col <= BoardWidth
}

func (that Coordinate) String() string {
	return fmt.Sprintf("%c%d", 'A'+that.Row-1, that.Col)
}
