package flashquiz

import "math"

// Grid is the near-square layout used for a card count.
type Grid struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Position locates one card in the grid. PercentX and PercentY are the
// background offsets that show only that card's slice of the image.
type Position struct {
	Col      int     `json:"col"`
	Row      int     `json:"row"`
	PercentX float64 `json:"percentX"`
	PercentY float64 `json:"percentY"`
}

// GridFor returns the grid for cardCount cards. A non-positive count gives
// the empty grid.
func GridFor(cardCount int) Grid {
	if cardCount <= 0 {
		return Grid{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(cardCount))))
	rows := (cardCount + cols - 1) / cols
	return Grid{Cols: cols, Rows: rows}
}

// CardPosition places index in a cols x rows grid, filling rows first.
func CardPosition(index, cols, rows int) Position {
	col := index % cols
	row := index / cols
	return Position{
		Col:      col,
		Row:      row,
		PercentX: 100 * float64(col) / float64(cols),
		PercentY: 100 * float64(row) / float64(rows),
	}
}

func (g Grid) Position(index int) Position {
	return CardPosition(index, g.Cols, g.Rows)
}
