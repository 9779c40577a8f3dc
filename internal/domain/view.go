package domain

import (
	"time"
)

// Tag is a visual class the view toggles on a square and the piece standing on it.
type Tag string

const (
	TagCanMove     = Tag("can-move")
	TagFrom        = Tag("from")
	TagTo          = Tag("to")
	TagPositional  = Tag("positional")
	TagCapture     = Tag("capture")
	TagDoublePush  = Tag("double-push")
	TagEnPassant   = Tag("en-passant")
	TagPromotion   = Tag("promotion")
	TagCastle      = Tag("castle")
	TagKingCastle  = Tag("king-castle")
	TagQueenCastle = Tag("queen-castle")
	TagLastMove    = Tag("last-move")
	TagTurn        = Tag("turn")
)

// MovingTags are the hover affordances cleared whenever a gesture ends.
var MovingTags = []Tag{
	TagFrom, TagTo, TagPositional, TagCapture, TagDoublePush, TagEnPassant,
	TagPromotion, TagCastle, TagKingCastle, TagQueenCastle,
}

// KindTags classifies a candidate destination.
func KindTags(m Move) []Tag {
	tags := []Tag{TagTo}
	if m.Kind() == Positional {
		tags = append(tags, TagPositional)
	}
	if m.IsCapture() {
		tags = append(tags, TagCapture)
	}
	switch m.Kind() {
	case DoublePawnPush:
		tags = append(tags, TagDoublePush)
	case EnPassantCapture:
		tags = append(tags, TagEnPassant)
	case Promotion:
		tags = append(tags, TagPromotion)
	case KingCastle:
		tags = append(tags, TagCastle, TagKingCastle)
	case QueenCastle:
		tags = append(tags, TagCastle, TagQueenCastle)
	}
	return tags
}

type PlacedPiece struct {
	Square Square
	Piece  Piece
}

type BoardSnapshot struct {
	Pieces   []PlacedPiece
	Turn     Color
	LastMove *Move
}

type Controls struct {
	CanUndo bool
	CanAuto bool
}

// View is the capability the interaction core drives. Any renderer able to
// toggle per-square tags and report gestures back as Events satisfies it.
type View interface {
	Render(board BoardSnapshot)
	Mark(sq Square, tags ...Tag)
	Clear(tags ...Tag)
	ShowMoves(moves []Move, controls Controls)
	Dim(on bool)
	Animate(move Move, offset Offset, duration time.Duration)
	RequestChoice(origin, target Square, candidates []Move)
	DismissChoice()
	ShowResult(text string)
	Fatal(diagnostic string)
}
