// Command arena plays matchups between two engine configurations on
// tic-tac-toe and reports how they fared: win rate series as CSV, an
// optional HTML chart, and an optional GIF of every game.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vorpal/ponder"
	"github.com/vorpal/ponder/encoding/gif"
	"github.com/vorpal/ponder/game/ttt"
	"github.com/vorpal/ponder/mcts"
)

var (
	games    = flag.Int("games", 20, "games to play")
	budget   = flag.Int("budget", 50, "playouts per move for both agents")
	weightA  = flag.Float64("ca", 1.0, "exploration weight of agent A")
	weightB  = flag.Float64("cb", 0.4, "exploration weight of agent B")
	csvFile  = flag.String("csv", "winrates.csv", "write the win rate series to this file")
	htmlFile = flag.String("html", "", "write a win rate chart to this file")
	gifFile  = flag.String("gif", "", "record every game to this file as an animated gif")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	a := ponder.NewAgent(fmt.Sprintf("A(c=%.2f)", *weightA),
		mcts.Config{ExplorationWeight: float32(*weightA)}, *budget)
	b := ponder.NewAgent(fmt.Sprintf("B(c=%.2f)", *weightB),
		mcts.Config{ExplorationWeight: float32(*weightB)}, *budget)

	conf := ponder.Config{
		Name:  "tic-tac-toe",
		Games: *games,
	}
	if *gifFile != "" {
		f, err := os.Create(*gifFile)
		if err != nil {
			log.Fatal().Err(err).Msgf("failed to create %q", *gifFile)
		}
		defer f.Close()
		enc := gif.NewGifEncoder(600, 800)
		enc.Writer = f
		conf.OutputEncoder = enc
	}

	m := ponder.NewMatch(conf, ttt.New(), a, b)
	if err := m.Run(); err != nil {
		log.Fatal().Err(err).Msg("the match did not finish")
	}

	for _, agent := range []*ponder.Agent{a, b} {
		mean, stddev := m.Statistics.Summary(agent.Name)
		log.Info().Msgf("%s: %v wins, %v losses, %v draws, mean win rate %.3f (stddev %.3f)",
			agent.Name, agent.Wins, agent.Loss, agent.Draw, mean, stddev)
	}

	if err := m.Statistics.Dump(*csvFile); err != nil {
		log.Fatal().Err(err).Msgf("failed to write %q", *csvFile)
	}
	if *htmlFile != "" {
		if err := m.Statistics.RenderChart(*htmlFile, "tic-tac-toe win rates"); err != nil {
			log.Fatal().Err(err).Msgf("failed to write %q", *htmlFile)
		}
	}
}
