package gamefeatures

import (
	"errors"
	"fmt"
	"sort"

	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/board/corentingsboard"
	"github.com/discochess/gamefeatures/internal/board/notnilboard"
)

// ErrUnknownEngine indicates an engine name with no registered board.
var ErrUnknownEngine = errors.New("gamefeatures: unknown engine")

// Engine names.
const (
	EngineNotnil     = "notnil"
	EngineCorentings = "corentings"
)

var engines = map[string]func() board.Factory{
	EngineNotnil:     notnilboard.NewFactory,
	EngineCorentings: corentingsboard.NewFactory,
}

// EngineFactory returns the board factory registered under name.
// An empty name selects the notnil engine.
func EngineFactory(name string) (board.Factory, error) {
	if name == "" {
		name = EngineNotnil
	}
	f, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownEngine, name, Engines())
	}
	return f(), nil
}

// Engines lists the registered engine names.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for n := range engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
