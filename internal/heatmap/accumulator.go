package heatmap

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Accumulator averages heatmaps across many games. Each game contributes its
// own per-ply average with equal weight. It is safe for concurrent use.
type Accumulator struct {
	mu    sync.Mutex
	sum   *mat.Dense
	games int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{sum: mat.NewDense(8, 8, nil)}
}

// Add folds one game's average into the total.
func (a *Accumulator) Add(m Map) {
	d := m.Dense()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.sum.Add(a.sum, d)
	a.games++
}

// AddStack averages s and adds it.
func (a *Accumulator) AddStack(s Stack) error {
	m, err := Average(s)
	if err != nil {
		return err
	}
	a.Add(m)
	return nil
}

// Games returns the number of games added.
func (a *Accumulator) Games() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.games
}

// Mean returns the average over all games added so far.
func (a *Accumulator) Mean() (Map, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.games == 0 {
		return Map{}, ErrEmptyStack
	}
	var mean mat.Dense
	mean.Scale(1/float64(a.games), a.sum)
	return FromDense(&mean)
}
