// Command play runs a game of tic-tac-toe against the engine on the
// terminal. Moves are entered as "row,col", 1-based from the top left.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vorpal/ponder/encoding/gif"
	"github.com/vorpal/ponder/game"
	"github.com/vorpal/ponder/game/ttt"
	"github.com/vorpal/ponder/mcts"
)

var (
	rollouts = flag.Int("rollouts", 50, "playouts the engine thinks for per move")
	weight   = flag.Float64("c", 1.0, "exploration weight of the engine")
	dotFile  = flag.String("dot", "", "write the engine's last search tree to this file as graphviz dot")
	gifFile  = flag.String("gif", "", "record the game to this file as an animated gif")
	debug    = flag.Bool("debug", false, "log engine diagnostics")
)

// session is the running game, packaged for output encoders.
type session struct {
	board  ttt.Board
	moves  int
	result string
}

func (s *session) Name() string      { return "tic-tac-toe" }
func (s *session) GameNumber() int   { return 1 }
func (s *session) MoveNumber() int   { return s.moves }
func (s *session) Result() string    { return s.result }
func (s *session) State() game.State { return s.board }

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	profile := termenv.ColorProfile()
	reader := bufio.NewReader(os.Stdin)
	for {
		play(reader, profile)
		fmt.Print("play again? [y/N] ")
		answer, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(answer) != "y" {
			return
		}
	}
}

func play(reader *bufio.Reader, profile termenv.Profile) {
	tree := mcts.New(mcts.Config{ExplorationWeight: float32(*weight)})
	sess := &session{board: ttt.New()}

	var enc *gif.Encoder
	if *gifFile != "" {
		enc = gif.NewGifEncoder(600, 800)
		record(enc, sess)
	}

	fmt.Printf("%s\nYou are %s, the engine is %s.\n", sess.board,
		termenv.String("X").Bold().Foreground(profile.Color("2")),
		termenv.String("O").Bold().Foreground(profile.Color("1")))

	var lastSearched game.State
	for {
		fmt.Print("enter row,col: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			os.Exit(0)
		}
		move, err := ttt.ParseMove(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if !sess.board.Check(move) {
			fmt.Println("that square is taken")
			continue
		}
		sess.board = sess.board.Move(move)
		sess.moves++
		record(enc, sess)
		fmt.Printf("%s", sess.board)
		if sess.board.IsTerminal() {
			break
		}

		lastSearched = sess.board
		for i := 0; i < *rollouts; i++ {
			tree.Rollout(sess.board)
		}
		sess.board = tree.Choose(sess.board).(ttt.Board)
		sess.moves++
		record(enc, sess)
		log.Debug().Msgf("engine moved after %d playouts over a tree of %d states", *rollouts, tree.Nodes())
		fmt.Printf("%s", sess.board)
		if sess.board.IsTerminal() {
			break
		}
	}

	switch sess.board.Winner() {
	case ttt.Cross:
		sess.result = "you win"
		fmt.Println(termenv.String("You win!").Bold().Foreground(profile.Color("2")))
	case ttt.Nought:
		sess.result = "the engine wins"
		fmt.Println(termenv.String("The engine wins.").Bold().Foreground(profile.Color("1")))
	default:
		sess.result = "draw"
		fmt.Println(termenv.String("A draw.").Bold().Foreground(profile.Color("3")))
	}

	if enc != nil {
		record(enc, sess)
		f, err := os.Create(*gifFile)
		if err != nil {
			log.Error().Err(err).Msgf("failed to create %q", *gifFile)
			return
		}
		enc.Writer = f
		if err := enc.Flush(); err != nil {
			log.Error().Err(err).Msg("failed to write the recording")
		}
		f.Close()
	}
	if *dotFile != "" && lastSearched != nil {
		if err := os.WriteFile(*dotFile, []byte(tree.ToDot(lastSearched)), 0644); err != nil {
			log.Error().Err(err).Msgf("failed to write %q", *dotFile)
		}
	}
}

func record(enc *gif.Encoder, sess *session) {
	if enc == nil {
		return
	}
	if err := enc.Encode(sess); err != nil {
		log.Error().Err(err).Msg("failed to record the position")
	}
}
