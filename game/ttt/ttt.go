// Package ttt implements tic-tac-toe on a 3x3 board.
package ttt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vorpal/ponder/game"
	"golang.org/x/exp/rand"
)

var r = rand.New(rand.NewSource(1337))

var _ game.State = Board{}

// Cell is the content of one square.
type Cell int8

const (
	None Cell = iota
	Cross
	Nought
)

func (c Cell) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v': // used in debug
		switch c {
		case None:
			fmt.Fprint(s, "None")
		case Cross:
			fmt.Fprint(s, "Cross")
		case Nought:
			fmt.Fprint(s, "Nought")
		}
	case 's': // used on boards
		switch c {
		case None:
			fmt.Fprint(s, "·")
		case Cross:
			fmt.Fprint(s, "X")
		case Nought:
			fmt.Fprint(s, "O")
		}
	}
}

// lines are the eight winning triples in row-major indices.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Board is a tic-tac-toe position held by value. The zero Board is not a
// playable game; use New.
//
// Board is comparable, so it can key maps directly.
type Board struct {
	cells    [9]Cell
	toMove   Cell
	winner   Cell
	terminal bool
}

// New returns the empty board with Cross to move.
func New() Board { return Board{toMove: Cross} }

// FindChildren returns the boards reachable by each legal move, in square
// order.
func (b Board) FindChildren() []game.State {
	if b.terminal {
		return nil
	}
	children := make([]game.State, 0, 9)
	for i, c := range b.cells {
		if c == None {
			children = append(children, b.Move(i))
		}
	}
	return children
}

// FindRandomChild returns the board after a uniformly random legal move.
func (b Board) FindRandomChild() (game.State, bool) {
	if b.terminal {
		return nil, false
	}
	empties := make([]int, 0, 9)
	for i, c := range b.cells {
		if c == None {
			empties = append(empties, i)
		}
	}
	return b.Move(empties[r.Intn(len(empties))]), true
}

// IsTerminal reports whether the game is over.
func (b Board) IsTerminal() bool { return b.terminal }

// Reward scores a finished game for the player who made the last move: 1 for
// completing a line, 0.5 for filling the board to a draw.
func (b Board) Reward() float32 {
	if !b.terminal {
		panic(fmt.Sprintf("ttt: Reward called on non-terminal board\n%s", b))
	}
	if b.winner == b.toMove {
		// A line by the player about to move would have ended the game a
		// move earlier.
		panic(fmt.Sprintf("ttt: Reward called on unreachable board\n%s", b))
	}
	if b.winner == None {
		return 0.5
	}
	return 1
}

// Check reports whether claiming square i is legal on this board.
func (b Board) Check(i int) bool {
	return !b.terminal && i >= 0 && i < len(b.cells) && b.cells[i] == None
}

// Move returns the board after the current player claims square i. The move
// must be legal; validate untrusted input with Check first.
func (b Board) Move(i int) Board {
	if !b.Check(i) {
		panic(fmt.Sprintf("ttt: illegal move %d on board\n%s", i, b))
	}
	b.cells[i] = b.toMove
	b.winner = findWinner(b.cells)
	b.terminal = b.winner != None || b.full()
	b.toMove = opponent(b.toMove)
	return b
}

// ToMove returns the player whose turn it is.
func (b Board) ToMove() Cell { return b.toMove }

// Winner returns the player who completed a line, or None.
func (b Board) Winner() Cell { return b.winner }

func (b Board) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, "  1 2 3\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(s, "%d ", i+1)
		for j := 0; j < 3; j++ {
			fmt.Fprintf(s, "%s ", b.cells[3*i+j])
		}
		fmt.Fprint(s, "\n")
	}
}

func (b Board) full() bool {
	for _, c := range b.cells {
		if c == None {
			return false
		}
	}
	return true
}

// ParseMove converts input of the form "row,col" (1-based) into a square
// index.
func ParseMove(input string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(input), ",", 2)
	if len(parts) != 2 {
		return -1, errors.Errorf("expected a move of the form \"row,col\", got %q", input)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return -1, errors.Wrapf(err, "bad row in %q", input)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return -1, errors.Wrapf(err, "bad column in %q", input)
	}
	if row < 1 || row > 3 || col < 1 || col > 3 {
		return -1, errors.Errorf("move %q is off the board", input)
	}
	return 3*(row-1) + (col - 1), nil
}

func findWinner(cells [9]Cell) Cell {
	for _, l := range lines {
		if c := cells[l[0]]; c != None && c == cells[l[1]] && c == cells[l[2]] {
			return c
		}
	}
	return None
}

func opponent(c Cell) Cell {
	switch c {
	case Cross:
		return Nought
	case Nought:
		return Cross
	}
	panic("Unreachable")
}
