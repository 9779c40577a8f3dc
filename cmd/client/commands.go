package main

import (
	"strconv"
	"strings"

	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/pkg/errors"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errQuit           = errors.New("quit")
)

const usage = `commands:
  move e2 e4   drag a piece (hover, grab, drop)
  hover e2     show where the piece on e2 can go
  leave        stop hovering
  list 3       play the 3rd entry of the move list
  pick q       choose a promotion piece (q, r, b, n)
  cancel       put the promoting pawn back
  undo         take back your last move
  auto         let the engine move for you
  quit`

// parseCommand turns one typed line into the events a pointer would produce.
func parseCommand(line string) ([]domain.Event, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, nil
	}
	args := fields[1:]
	switch fields[0] {
	case "move", "m":
		if len(args) != 2 {
			return nil, errors.New("usage: move <from> <to>")
		}
		from, err := domain.ParseSquare(args[0])
		if err != nil {
			return nil, err
		}
		to, err := domain.ParseSquare(args[1])
		if err != nil {
			return nil, err
		}
		return []domain.Event{
			{Type: domain.HoverEnter, Square: from},
			{Type: domain.DragStart, Square: from},
			{Type: domain.Drop, Square: to},
		}, nil
	case "hover", "h":
		if len(args) != 1 {
			return nil, errors.New("usage: hover <square>")
		}
		sq, err := domain.ParseSquare(args[0])
		if err != nil {
			return nil, err
		}
		return []domain.Event{{Type: domain.HoverEnter, Square: sq}}, nil
	case "leave":
		return []domain.Event{{Type: domain.HoverLeave}}, nil
	case "list", "l":
		if len(args) != 1 {
			return nil, errors.New("usage: list <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, errors.Errorf("bad move number '%s'", args[0])
		}
		return []domain.Event{{Type: domain.SelectMove, Index: n - 1}}, nil
	case "pick", "p":
		if len(args) != 1 {
			return nil, errors.New("usage: pick <q|r|b|n>")
		}
		piece, err := domain.ParsePieceType(args[0])
		if err != nil {
			return nil, err
		}
		return []domain.Event{{Type: domain.ChoosePromotion, Piece: piece}}, nil
	case "cancel":
		return []domain.Event{{Type: domain.CancelPromotion}}, nil
	case "undo", "u":
		return []domain.Event{{Type: domain.Undo}}, nil
	case "auto", "a":
		return []domain.Event{{Type: domain.Auto}}, nil
	case "quit", "q", "exit":
		return nil, errQuit
	default:
		return nil, errors.WithMessagef(errUnknownCommand, "'%s'", fields[0])
	}
}
