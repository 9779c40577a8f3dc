package view

import (
	"time"

	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/pkg/utils"
	"github.com/pkg/errors"
)

var ErrUnexpectedMessage = errors.New("unexpected message type")

// Apply replays a server message onto v, the inverse of the messenger.
func Apply(msg domain.Message, v domain.View) error {
	switch msg.Type {
	case domain.BoardMessage:
		p, err := utils.UnmarshalPayload[domain.BoardPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode board payload")
		}
		board, err := decodeBoard(p)
		if err != nil {
			return err
		}
		v.Render(board)
	case domain.MarkMessage:
		p, err := utils.UnmarshalPayload[domain.MarkPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode mark payload")
		}
		sq, err := domain.ParseSquare(p.Square)
		if err != nil {
			return err
		}
		v.Mark(sq, p.Tags...)
	case domain.ClearMessage:
		p, err := utils.UnmarshalPayload[domain.ClearPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode clear payload")
		}
		v.Clear(p.Tags...)
	case domain.MovesMessage:
		p, err := utils.UnmarshalPayload[domain.MovesPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode moves payload")
		}
		moves, err := decodeMoves(p.Moves)
		if err != nil {
			return err
		}
		v.ShowMoves(moves, domain.Controls{CanUndo: p.CanUndo, CanAuto: p.CanAuto})
	case domain.DimMessage:
		p, err := utils.UnmarshalPayload[domain.DimPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode dim payload")
		}
		v.Dim(p.On)
	case domain.AnimateMessage:
		p, err := utils.UnmarshalPayload[domain.AnimatePayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode animate payload")
		}
		move, err := p.Move.Move()
		if err != nil {
			return err
		}
		v.Animate(move, domain.Offset{DX: p.DX, DY: p.DY}, time.Duration(p.DurationMs)*time.Millisecond)
	case domain.ChoiceMessage:
		p, err := utils.UnmarshalPayload[domain.ChoicePayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode choice payload")
		}
		origin, err := domain.ParseSquare(p.From)
		if err != nil {
			return err
		}
		target, err := domain.ParseSquare(p.To)
		if err != nil {
			return err
		}
		candidates, err := decodeMoves(p.Candidates)
		if err != nil {
			return err
		}
		v.RequestChoice(origin, target, candidates)
	case domain.DismissMessage:
		v.DismissChoice()
	case domain.ResultMessage, domain.FatalMessage:
		p, err := utils.UnmarshalPayload[domain.TextPayload](msg.Payload)
		if err != nil {
			return errors.WithMessage(err, "decode text payload")
		}
		if msg.Type == domain.ResultMessage {
			v.ShowResult(p.Text)
		} else {
			v.Fatal(p.Text)
		}
	default:
		return errors.WithMessagef(ErrUnexpectedMessage, "'%s'", msg.Type)
	}
	return nil
}

// DecodeEvent turns a client message into a gesture or control event.
func DecodeEvent(msg domain.Message) (domain.Event, error) {
	eventType, ok := domain.EventTypeOf(msg.Type)
	if !ok {
		return domain.Event{}, errors.WithMessagef(ErrUnexpectedMessage, "'%s'", msg.Type)
	}
	p, err := utils.UnmarshalPayload[domain.GesturePayload](msg.Payload)
	if err != nil {
		return domain.Event{}, errors.WithMessage(err, "decode gesture payload")
	}
	ev := domain.Event{Type: eventType, Square: domain.NoSquare, Index: p.Index}
	switch eventType {
	case domain.HoverEnter, domain.DragStart:
		if ev.Square, err = domain.ParseSquare(p.Square); err != nil {
			return domain.Event{}, err
		}
	case domain.Drop:
		/* a drop off the board is legal input and resolves to an invalid drop */
		if sq, err := domain.ParseSquare(p.Square); err == nil {
			ev.Square = sq
		}
	case domain.ChoosePromotion:
		if ev.Piece, err = domain.ParsePieceType(p.Piece); err != nil {
			return domain.Event{}, err
		}
	}
	return ev, nil
}

// EncodeEvent is the client side of DecodeEvent.
func EncodeEvent(ev domain.Event) domain.Message {
	payload := domain.GesturePayload{Index: ev.Index}
	if ev.Square.Valid() {
		payload.Square = ev.Square.String()
	}
	if ev.Piece != domain.NoPieceType {
		payload.Piece = ev.Piece.Letter()
	}
	return domain.Message{Type: domain.MessageType(ev.Type.String()), Payload: payload}
}

func decodeBoard(p domain.BoardPayload) (domain.BoardSnapshot, error) {
	turn, err := domain.ParseColor(p.Turn)
	if err != nil {
		return domain.BoardSnapshot{}, err
	}
	board := domain.BoardSnapshot{Turn: turn}
	for _, pv := range p.Pieces {
		sq, err := domain.ParseSquare(pv.Square)
		if err != nil {
			return domain.BoardSnapshot{}, err
		}
		pieceType, err := domain.ParsePieceType(pv.Piece)
		if err != nil {
			return domain.BoardSnapshot{}, err
		}
		color, err := domain.ParseColor(pv.Color)
		if err != nil {
			return domain.BoardSnapshot{}, err
		}
		board.Pieces = append(board.Pieces, domain.PlacedPiece{
			Square: sq,
			Piece:  domain.Piece{Type: pieceType, Color: color},
		})
	}
	if p.LastMove != nil {
		last, err := p.LastMove.Move()
		if err != nil {
			return domain.BoardSnapshot{}, err
		}
		board.LastMove = &last
	}
	return board, nil
}

func decodeMoves(views []domain.MoveView) ([]domain.Move, error) {
	moves := make([]domain.Move, 0, len(views))
	for _, mv := range views {
		move, err := mv.Move()
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}
	return moves, nil
}
