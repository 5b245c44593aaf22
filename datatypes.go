package ponder

import (
	"github.com/vorpal/ponder/game"
)

// Config bundles everything a match needs. Search settings travel with the
// agents themselves, so two sides of a match can think differently.
type Config struct {
	Name  string // name of the game being played
	Games int    // how many games to play

	// extensions
	OutputEncoder OutputEncoder
}

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the gif.Encoder. Another example would be a
// logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}
