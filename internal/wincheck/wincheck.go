// Package wincheck evaluates win claims against a board, the set of marked
// cells and the calling history. It is pure: malformed input yields false,
// never an error.
package wincheck

import (
	"github.com/infosegura/loteria-server/internal/models"
)

var (
	diagonalMain = []int{0, 5, 10, 15}
	diagonalAnti = []int{3, 6, 9, 12}
	corners      = []int{0, 3, 12, 15}
	centerSquare = []int{5, 6, 9, 10}
)

// Check reports whether the marked cells of board satisfy mode.
//
// Every marked index must map to a card that has already been called;
// a mark on an uncalled card invalidates the whole claim. For the
// row/column/diagonal modes a non-nil pivot (the first cell the player
// marked) restricts the win to the line containing it: completing a
// different line does not count.
func Check(board models.Board, marked []int, mode models.GameMode, pivot *models.Cell, called []int) bool {
	if !mode.Valid() || len(board) != models.BoardSize {
		return false
	}

	calledSet := make(map[int]bool, len(called))
	for _, id := range called {
		calledSet[id] = true
	}

	markedSet := make(map[int]bool, len(marked))
	for _, idx := range marked {
		if idx < 0 || idx >= models.BoardSize {
			return false
		}
		if !calledSet[board[idx].ID] {
			// claimed a card that was never called
			return false
		}
		markedSet[idx] = true
	}

	switch mode {
	case models.ModeFull:
		return len(markedSet) == models.BoardSize

	case models.ModeHorizontal:
		if pivot != nil {
			if !pivotInBounds(pivot) {
				return false
			}
			return rowComplete(markedSet, pivot.Row)
		}
		for row := 0; row < models.BoardCols; row++ {
			if rowComplete(markedSet, row) {
				return true
			}
		}
		return false

	case models.ModeVertical:
		if pivot != nil {
			if !pivotInBounds(pivot) {
				return false
			}
			return colComplete(markedSet, pivot.Col)
		}
		for col := 0; col < models.BoardCols; col++ {
			if colComplete(markedSet, col) {
				return true
			}
		}
		return false

	case models.ModeDiagonal:
		if pivot != nil {
			if !pivotInBounds(pivot) {
				return false
			}
			idx := pivot.Index()
			if contains(diagonalMain, idx) {
				return allMarked(markedSet, diagonalMain)
			}
			if contains(diagonalAnti, idx) {
				return allMarked(markedSet, diagonalAnti)
			}
			// pivot off both diagonals cannot anchor a diagonal win
			return false
		}
		return allMarked(markedSet, diagonalMain) || allMarked(markedSet, diagonalAnti)

	case models.ModeCorners:
		return allMarked(markedSet, corners)

	case models.ModeSquare:
		return allMarked(markedSet, centerSquare)
	}
	return false
}

func pivotInBounds(p *models.Cell) bool {
	return p.Row >= 0 && p.Row < models.BoardCols && p.Col >= 0 && p.Col < models.BoardCols
}

func rowComplete(marked map[int]bool, row int) bool {
	for col := 0; col < models.BoardCols; col++ {
		if !marked[row*models.BoardCols+col] {
			return false
		}
	}
	return true
}

func colComplete(marked map[int]bool, col int) bool {
	for row := 0; row < models.BoardCols; row++ {
		if !marked[row*models.BoardCols+col] {
			return false
		}
	}
	return true
}

func allMarked(marked map[int]bool, indices []int) bool {
	for _, idx := range indices {
		if !marked[idx] {
			return false
		}
	}
	return true
}

func contains(indices []int, idx int) bool {
	for _, i := range indices {
		if i == idx {
			return true
		}
	}
	return false
}
