package domain

import (
	"strings"

	"github.com/pkg/errors"
)

type MoveKind byte

const (
	Positional = MoveKind(iota)
	DoublePawnPush
	EnPassantCapture
	Promotion
	KingCastle
	QueenCastle
)

func (k MoveKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case DoublePawnPush:
		return "double-push"
	case EnPassantCapture:
		return "en-passant"
	case Promotion:
		return "promotion"
	case KingCastle:
		return "king-castle"
	case QueenCastle:
		return "queen-castle"
	default:
		return "unknown"
	}
}

func ParseMoveKind(s string) (MoveKind, error) {
	for k := Positional; k <= QueenCastle; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return Positional, errors.Errorf("unknown move kind '%s'", s)
}

type PieceType byte

const (
	NoPieceType = PieceType(iota)
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (p PieceType) Name() string {
	if int(p) >= len(pieceNames) {
		return ""
	}
	return pieceNames[p]
}

// Letter is the lowercase UCI/SAN letter of the piece ("" for none).
func (p PieceType) Letter() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return ""
	}
}

func ParsePieceType(s string) (PieceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p := Pawn; p <= King; p++ {
		if s == p.Letter() || s == p.Name() {
			return p, nil
		}
	}
	return NoPieceType, errors.Errorf("unknown piece '%s'", s)
}

// Move is an immutable legal move. Values are produced by a PositionModel
// (or decoded from one on the wire); the interaction core only selects them.
type Move struct {
	from      Square
	to        Square
	kind      MoveKind
	promotion PieceType
	capture   bool
}

func NewMove(from, to Square, kind MoveKind, promotion PieceType, capture bool) Move {
	if kind != Promotion {
		promotion = NoPieceType
	}
	return Move{
		from:      from,
		to:        to,
		kind:      kind,
		promotion: promotion,
		capture:   capture,
	}
}

func (m Move) From() Square         { return m.from }
func (m Move) To() Square           { return m.to }
func (m Move) Kind() MoveKind       { return m.kind }
func (m Move) Promotion() PieceType { return m.promotion }
func (m Move) IsCapture() bool      { return m.capture }
func (m Move) IsPromotion() bool    { return m.kind == Promotion }
func (m Move) IsCastle() bool       { return m.kind == KingCastle || m.kind == QueenCastle }

// SameAs reports whether both moves describe the same from/to/promotion triple.
func (m Move) SameAs(other Move) bool {
	return m.from == other.from && m.to == other.to && m.promotion == other.promotion
}

// String returns the move in UCI notation (e2e4, e7e8q).
func (m Move) String() string {
	return m.from.String() + m.to.String() + m.promotion.Letter()
}

// Filter returns the moves accepted by keep, preserving order.
func Filter(moves []Move, keep func(Move) bool) []Move {
	var result []Move
	for _, m := range moves {
		if keep(m) {
			result = append(result, m)
		}
	}
	return result
}

func From(sq Square) func(Move) bool {
	return func(m Move) bool { return m.from == sq }
}

func To(sq Square) func(Move) bool {
	return func(m Move) bool { return m.to == sq }
}
