package sequencer

import (
	"github.com/pkg/errors"
)

var (
	// ErrEngineDesync means the engine had no (legal) answer in a position the
	// legality oracle considers playable. The game cannot continue safely.
	ErrEngineDesync  = errors.New("opponent engine out of sync with position model")
	ErrEngineTimeout = errors.New("opponent engine exceeded its time budget")
	ErrHalted        = errors.New("turn sequencer halted")
)
