package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquares(t *testing.T) {
	sq, err := ParseSquare("a1")
	require.NoError(t, err)
	assert.Equal(t, Square(0), sq)

	sq, err = ParseSquare("h8")
	require.NoError(t, err)
	assert.Equal(t, Square(63), sq)
	assert.Equal(t, 7, sq.File())
	assert.Equal(t, 7, sq.Rank())
	assert.Equal(t, "h8", sq.String())
	assert.False(t, sq.IsLight(), "h8 is dark")

	for _, bad := range []string{"", "e", "i1", "a9", "e22"} {
		_, err := ParseSquare(bad)
		assert.ErrorIs(t, err, ErrInvalidSquare, bad)
	}
	assert.Equal(t, NoSquare, NewSquare(8, 0))
	assert.Equal(t, "-", NoSquare.String())
}

func TestDisplacement(t *testing.T) {
	e2, _ := ParseSquare("e2")
	e4, _ := ParseSquare("e4")
	g8, _ := ParseSquare("g8")
	f6, _ := ParseSquare("f6")

	assert.Equal(t, Offset{DX: 0, DY: -2}, Displacement(e2, e4))
	assert.Equal(t, Offset{DX: -1, DY: 2}, Displacement(g8, f6))
	assert.Equal(t, Offset{}, Displacement(e2, e2))
}

func TestKindTags(t *testing.T) {
	e1, _ := ParseSquare("e1")
	g1, _ := ParseSquare("g1")
	c1, _ := ParseSquare("c1")
	d5, _ := ParseSquare("d5")
	e5, _ := ParseSquare("e5")
	e6, _ := ParseSquare("e6")

	assert.Equal(t, []Tag{TagTo, TagCastle, TagKingCastle},
		KindTags(NewMove(e1, g1, KingCastle, NoPieceType, false)))
	assert.Equal(t, []Tag{TagTo, TagCastle, TagQueenCastle},
		KindTags(NewMove(e1, c1, QueenCastle, NoPieceType, false)))
	assert.Equal(t, []Tag{TagTo, TagCapture, TagEnPassant},
		KindTags(NewMove(d5, e6, EnPassantCapture, NoPieceType, true)))
	assert.Equal(t, []Tag{TagTo, TagPositional, TagCapture},
		KindTags(NewMove(d5, e5, Positional, NoPieceType, true)))
}

func TestNewMoveDropsStrayPromotion(t *testing.T) {
	e7, _ := ParseSquare("e7")
	e8, _ := ParseSquare("e8")

	m := NewMove(e7, e8, Positional, Queen, false)
	assert.Equal(t, NoPieceType, m.Promotion())
	assert.Equal(t, "e7e8", m.String())

	p := NewMove(e7, e8, Promotion, Knight, false)
	assert.Equal(t, "e7e8n", p.String())
	assert.True(t, p.SameAs(NewMove(e7, e8, Promotion, Knight, true)))
	assert.False(t, p.SameAs(NewMove(e7, e8, Promotion, Queen, false)))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		status Status
		turn   Color
		result string
		banner string
	}{
		{status: Normal, turn: White, result: "*", banner: ""},
		{status: Checkmate, turn: White, result: "0-1", banner: "# 0-1"},
		{status: Checkmate, turn: Black, result: "1-0", banner: "# 1-0"},
		{status: Stalemate, turn: Black, result: "½-½", banner: "½-½ (stalemate)"},
		{status: InsufficientMaterial, turn: White, result: "½-½", banner: "½-½ (insufficient material)"},
	}
	for _, tt := range tests {
		o := OutcomeOf(tt.status, tt.turn)
		assert.Equal(t, tt.status != Normal, o.Over(), tt.status.String())
		assert.Equal(t, tt.result, o.Result(), tt.status.String())
		assert.Equal(t, tt.banner, o.Banner(), tt.status.String())
	}
}

func TestEventMessages(t *testing.T) {
	for e := HoverEnter; e <= Auto; e++ {
		got, ok := EventTypeOf(MessageType(e.String()))
		require.True(t, ok, e.String())
		assert.Equal(t, e, got)
	}
	_, ok := EventTypeOf(BoardMessage)
	assert.False(t, ok)
	assert.True(t, Event{Type: CancelPromotion}.IsGesture())
	assert.False(t, Event{Type: Undo}.IsGesture())
}
