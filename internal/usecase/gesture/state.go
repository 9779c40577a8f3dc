// Package gesture tracks the pointer gesture of a single board.
//
// The machine is Idle, Hovering{origin} or Dragging{origin}. Dragging doubles
// as the drag-lock: while it holds, hover changes anywhere on the board are
// ignored, so a second drop target can never be wired for the same ply.
package gesture

import (
	"github.com/kiryu-dev/dragchess/internal/domain"
)

type Phase byte

const (
	Idle = Phase(iota)
	Hovering
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type State struct {
	phase  Phase
	origin domain.Square
}

func New() *State {
	return &State{phase: Idle, origin: domain.NoSquare}
}

func (s *State) Phase() Phase {
	return s.phase
}

// Origin is the hovered or dragged square, NoSquare when idle.
func (s *State) Origin() domain.Square {
	return s.origin
}

func (s *State) Dragging() bool {
	return s.phase == Dragging
}

// HoverEnter moves to Hovering{sq}. It reports false while a drag holds the lock.
func (s *State) HoverEnter(sq domain.Square) bool {
	if s.phase == Dragging || !sq.Valid() {
		return false
	}
	s.phase = Hovering
	s.origin = sq
	return true
}

// HoverLeave returns to Idle unless dragging; the drop target lies outside
// the origin square, so a leave during a drag must keep the affordances.
func (s *State) HoverLeave() bool {
	if s.phase != Hovering {
		return false
	}
	s.Reset()
	return true
}

func (s *State) DragStart(sq domain.Square) bool {
	if s.phase != Hovering || s.origin != sq {
		return false
	}
	s.phase = Dragging
	return true
}

func (s *State) DragStop() bool {
	if s.phase != Dragging {
		return false
	}
	s.Reset()
	return true
}

func (s *State) Reset() {
	s.phase = Idle
	s.origin = domain.NoSquare
}
