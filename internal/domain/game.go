package domain

import (
	"context"

	"github.com/pkg/errors"
)

type Color byte

const (
	White = Color(iota)
	Black
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, errors.Errorf("unknown color '%s'", s)
	}
}

type Piece struct {
	Type  PieceType
	Color Color
}

type Status byte

const (
	Normal = Status(iota)
	Checkmate
	Stalemate
	InsufficientMaterial
	FivefoldRepetition
	SeventyFiveMoveRule
)

func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case FivefoldRepetition:
		return "fivefold repetition"
	case SeventyFiveMoveRule:
		return "seventy-five move rule"
	default:
		return "unknown"
	}
}

type OutcomeKind byte

const (
	Continue = OutcomeKind(iota)
	Mate
	Draw
)

// Outcome is the TurnOutcome derived from a position status after each ply.
type Outcome struct {
	Kind   OutcomeKind
	Winner Color
	Reason Status
}

// OutcomeOf derives the outcome for a status with turn to move.
// A mated side is always the side to move.
func OutcomeOf(status Status, turn Color) Outcome {
	switch status {
	case Normal:
		return Outcome{Kind: Continue}
	case Checkmate:
		return Outcome{Kind: Mate, Winner: turn.Other(), Reason: status}
	default:
		return Outcome{Kind: Draw, Reason: status}
	}
}

func (o Outcome) Over() bool {
	return o.Kind != Continue
}

// Result is the score notation: 1-0, 0-1 or ½-½ ("*" while the game goes on).
func (o Outcome) Result() string {
	switch o.Kind {
	case Mate:
		if o.Winner == White {
			return "1-0"
		}
		return "0-1"
	case Draw:
		return "½-½"
	default:
		return "*"
	}
}

func (o Outcome) Banner() string {
	switch o.Kind {
	case Mate:
		return "# " + o.Result()
	case Draw:
		return o.Result() + " (" + o.Reason.String() + ")"
	default:
		return ""
	}
}

// FEN is an opaque, immutable position handed to an OpponentEngine.
type FEN string

// PositionModel is the legality oracle and the single owner of game history.
type PositionModel interface {
	LegalMoves() []Move
	MakeMove(m Move) error
	UnmakeMove() error
	CanUndo() bool
	Status() Status
	Turn() Color
	LastMove() (Move, bool)
	PieceAt(sq Square) (Piece, bool)
	// Ply counts moves made since the starting position.
	Ply() int
	Snapshot() FEN
}

// OpponentEngine returns ok == false only when pos has no move to play.
type OpponentEngine interface {
	Search(ctx context.Context, pos FEN) (move Move, ok bool, err error)
}
