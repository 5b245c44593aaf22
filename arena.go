package ponder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vorpal/ponder/game"
)

var _ game.MetaState = &Arena{}

// Arena pits two agents against each other on one game. It implements
// game.MetaState, so output encoders can record the match directly from it.
type Arena struct {
	r     *rand.Rand
	start game.State // the opening position
	game  game.State // the position being played
	A, B  *Agent

	// state
	currentAgent *Agent

	name       string
	gameNumber int // which game of the match this is
	moveNumber int
	result     string
}

// MakeArena makes an arena given a game's opening position.
func MakeArena(start game.State, a, b *Agent, name string) Arena {
	if name == "" {
		name = "UNKNOWN GAME"
	}
	return Arena{
		r:     rand.New(rand.NewSource(time.Now().UnixNano())),
		start: start,
		game:  start,
		A:     a,
		B:     b,
		name:  name,
	}
}

func NewArena(start game.State, a, b *Agent, name string) *Arena {
	ar := MakeArena(start, a, b, name)
	return &ar
}

// Play plays one game and returns the winning agent, or nil for a draw. Who
// moves first is decided by coin flip. The outcome is read off the contract
// alone: the terminal reward scores the player who made the final move.
func (a *Arena) Play(enc OutputEncoder) (winner *Agent, err error) {
	a.game = a.start
	a.gameNumber++
	a.moveNumber = 0
	a.result = ""

	if a.r.Intn(2) == 0 {
		a.currentAgent = a.A
	} else {
		a.currentAgent = a.B
	}
	log.Debug().Msgf("game %d of %s: %s moves first", a.gameNumber, a.name, a.currentAgent.Name)

	if enc != nil {
		if err := enc.Encode(a); err != nil {
			return nil, errors.Wrap(err, "failed to record the opening position")
		}
	}

	var last *Agent
	for !a.game.IsTerminal() {
		a.game = a.currentAgent.Search(a.game)
		a.moveNumber++
		last = a.currentAgent
		a.switchAgent()

		if enc != nil {
			if err := enc.Encode(a); err != nil {
				return nil, errors.Wrapf(err, "failed to record move %d", a.moveNumber)
			}
		}
	}

	reward := a.game.Reward() // scores the player who made the final move
	switch {
	case reward == 0.5:
		a.A.Draw++
		a.B.Draw++
		a.result = "draw"
	default:
		winner = last
		if reward < 0.5 {
			winner = a.other(last)
		}
		winner.Wins++
		a.other(winner).Loss++
		a.result = fmt.Sprintf("%s wins", winner.Name)
	}
	log.Debug().Msgf("game %d of %s: %s after %d moves", a.gameNumber, a.name, a.result, a.moveNumber)

	if enc != nil {
		// one more frame, carrying the result
		if err := enc.Encode(a); err != nil {
			return winner, errors.Wrap(err, "failed to record the result")
		}
	}

	a.A.Reset()
	a.B.Reset()
	return winner, nil
}

func (a *Arena) Name() string      { return a.name }
func (a *Arena) GameNumber() int   { return a.gameNumber }
func (a *Arena) MoveNumber() int   { return a.moveNumber }
func (a *Arena) Result() string    { return a.result }
func (a *Arena) State() game.State { return a.game }

func (a *Arena) switchAgent() {
	switch a.currentAgent {
	case a.A:
		a.currentAgent = a.B
	case a.B:
		a.currentAgent = a.A
	}
}

func (a *Arena) other(p *Agent) *Agent {
	switch p {
	case a.A:
		return a.B
	case a.B:
		return a.A
	}
	panic("Unreachable")
}
