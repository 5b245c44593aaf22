package ponder

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Statistics tracks each agent's results over the course of a match, one
// sample per game.
type Statistics struct {
	Creation []string // agent names in first-seen order
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func MakeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

// Update appends the agent's running totals to its series.
func (s *Statistics) Update(a *Agent) {
	name := a.Name
	if _, ok := s.Wins[name]; !ok {
		s.Creation = append(s.Creation, name)
	}

	s.Wins[name] = append(s.Wins[name], a.Wins)
	s.Losses[name] = append(s.Losses[name], a.Loss)
	s.Draws[name] = append(s.Draws[name], a.Draw)
}

// WinRates returns the named agent's win rate after each game.
func (s *Statistics) WinRates(name string) []float64 {
	wins, losses, draws := s.Wins[name], s.Losses[name], s.Draws[name]
	retVal := make([]float64, len(wins))
	for i := range wins {
		total := wins[i] + losses[i] + draws[i]
		if total > 0 {
			retVal[i] = float64(wins[i]) / float64(total)
		}
	}
	return retVal
}

// Summary returns the mean and standard deviation of the named agent's win
// rate over the match.
func (s *Statistics) Summary(name string) (mean, stddev float64) {
	return stat.MeanStdDev(s.WinRates(name), nil)
}

// Dump writes the win rate series as CSV, one column per agent.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", filename)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(s.Creation); err != nil {
		return errors.Wrap(err, "failed to write the header")
	}
	var records [][]string
	for i, agent := range s.Creation {
		for _, rate := range s.WinRates(agent) {
			record := make([]string, len(s.Creation))
			record[i] = strconv.FormatFloat(rate, 'f', 3, 64)
			records = append(records, record)
		}
	}
	if err := w.WriteAll(records); err != nil {
		return errors.Wrap(err, "failed to write the records")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "failed to flush")
}
