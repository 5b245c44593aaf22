// Package ponder plays games through Monte Carlo tree search: agents carry
// search trees, arenas pit two agents against each other, and matches run
// arenas for many games while collecting statistics.
package ponder

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vorpal/ponder/game"
)

// Match plays two agents against each other for a number of games.
type Match struct {
	Arena      *Arena
	Statistics Statistics

	conf Config
}

// NewMatch creates a match between a and b where every game starts from
// start.
func NewMatch(conf Config, start game.State, a, b *Agent) *Match {
	if conf.Games <= 0 {
		conf.Games = 1
	}
	return &Match{
		Arena:      NewArena(start, a, b, conf.Name),
		Statistics: MakeStatistics(),
		conf:       conf,
	}
}

// Run plays every game of the match.
func (m *Match) Run() error {
	m.Arena.A.resetStats()
	m.Arena.B.resetStats()
	for i := 0; i < m.conf.Games; i++ {
		winner, err := m.Arena.Play(m.conf.OutputEncoder)
		if err != nil {
			return errors.Wrapf(err, "game %d", i+1)
		}
		m.Statistics.Update(m.Arena.A)
		m.Statistics.Update(m.Arena.B)
		if winner == nil {
			log.Info().Msgf("game %d/%d: draw", i+1, m.conf.Games)
		} else {
			log.Info().Msgf("game %d/%d: %s wins", i+1, m.conf.Games, winner.Name)
		}
	}
	if m.conf.OutputEncoder != nil {
		return errors.Wrap(m.conf.OutputEncoder.Flush(), "failed to flush the output encoder")
	}
	return nil
}
