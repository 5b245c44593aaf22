// Package game defines the contract between game implementations and the
// search engine. Anything that satisfies State can be searched.
package game

// State is a single position of a game, held by value.
//
// Implementations must be plain comparable Go values: the engine keys maps by
// State, and two values that compare equal denote the same position. Methods
// never mutate the receiver. Making a move returns a fresh State.
//
// Games are two-player, zero-sum, with strictly alternating turns: every move
// hands the position to the opponent. The engine's reward bookkeeping leans on
// that alternation, so other turn regimes need a different State design.
type State interface {
	// FindChildren returns every position reachable in one move. The slice is
	// empty if and only if the position is terminal. Successors must be
	// pairwise distinct.
	FindChildren() []State

	// FindRandomChild returns a single position reachable in one move, chosen
	// at random. ok is false only when the position is terminal.
	FindRandomChild() (s State, ok bool)

	// IsTerminal reports whether the game has ended at this position.
	IsTerminal() bool

	// Reward scores a terminal position from the point of view of the player
	// whose move produced it: 1 for a win, 0.5 for a draw, 0 for a loss.
	// Calling Reward on a non-terminal position is a programming error and
	// panics.
	Reward() float32
}

// MetaState bundles a State with information about the match it belongs to.
// Output encoders consume MetaStates to record matches as they are played.
type MetaState interface {
	Name() string    // name of the game
	GameNumber() int // which game of the match this is
	MoveNumber() int // count of moves made so far in this game
	Result() string  // result banner. Empty while the game is in progress
	State() State
}
