package entity

const (
	LargeShipLength = 4
	SmallShipLength = 3

	// TotalShipCells is the number of hits that sinks a whole fleet.
	TotalShipCells = LargeShipLength + SmallShipLength

	OrientationVertical   = "v"
	OrientationHorizontal = "h"
)

// FleetLengths lists the ship lengths in placement order.
var FleetLengths = []int{LargeShipLength, SmallShipLength}

// Ship occupies Length contiguous cells starting at Anchor, extending
// down (vertical) or right (horizontal). Ships are not tracked
// individually after placement, only their union on the board.
type Ship struct {
	Anchor      Coordinate `json:"anchor"`
	Length      int        `json:"length"`
	Orientation string     `json:"orientation"`
}

// Cells - expands the ship into the coordinates it occupies. Cells may
// fall outside the board; placement validation decides that.
func (that Ship) Cells() []Coordinate {
	cells := make([]Coordinate, 0, that.Length)

	for i := 0; i < that.Length; i++ {
		cell := that.Anchor
		if that.Orientation == OrientationVertical {
			cell.Row += i
		} else {
			cell.Col += i
		}
		cells = append(cells, cell)
	}

	return cells
}
