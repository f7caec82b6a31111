// Package heatmap stacks per-ply occupancy grids and averages them into
// square-occupancy frequencies.
package heatmap

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/discochess/gamefeatures/internal/placement"
)

// ErrEmptyStack indicates an average over zero plies.
var ErrEmptyStack = errors.New("heatmap: empty stack")

// Stack holds one grid per ply, in ply order.
type Stack []placement.Grid

// Plies returns the number of grids.
func (s Stack) Plies() int {
	return len(s)
}

// At returns the flag for row, col at ply.
func (s Stack) At(row, col, ply int) uint8 {
	return s[ply][row][col]
}

// Tensor returns the stack as [row][col][ply].
func (s Stack) Tensor() [8][8][]uint8 {
	var t [8][8][]uint8
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			t[row][col] = make([]uint8, len(s))
			for ply, g := range s {
				t[row][col][ply] = g[row][col]
			}
		}
	}
	return t
}

// Map holds the fraction of plies each square was occupied. Row 0 is rank 8.
type Map [8][8]float64

// Average returns the mean grid over every ply in s.
func Average(s Stack) (Map, error) {
	if len(s) == 0 {
		return Map{}, ErrEmptyStack
	}

	var sum [8][8]int
	for _, g := range s {
		for row := range g {
			for col, v := range g[row] {
				sum[row][col] += int(v)
			}
		}
	}

	var m Map
	n := float64(len(s))
	for row := range sum {
		for col, v := range sum[row] {
			m[row][col] = float64(v) / n
		}
	}
	return m, nil
}

// Dense returns m as an 8x8 gonum matrix.
func (m Map) Dense() *mat.Dense {
	d := mat.NewDense(8, 8, nil)
	for row := range m {
		d.SetRow(row, m[row][:])
	}
	return d
}

// FromDense copies an 8x8 matrix into a Map.
func FromDense(d mat.Matrix) (Map, error) {
	r, c := d.Dims()
	if r != 8 || c != 8 {
		return Map{}, fmt.Errorf("heatmap: matrix is %dx%d, want 8x8", r, c)
	}
	var m Map
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			m[row][col] = d.At(row, col)
		}
	}
	return m, nil
}

// String renders the map as eight rows of space-separated values, rank 8 first.
func (m Map) String() string {
	var b strings.Builder
	for row := range m {
		for col, v := range m[row] {
			if col > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.3f", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
