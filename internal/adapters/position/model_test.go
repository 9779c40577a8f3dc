package position

import (
	"testing"

	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	promotionFEN = "7k/4P3/8/8/8/8/8/K7 w - - 0 1"
	castlingFEN  = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	enPassantFEN = "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2"
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func sq(t *testing.T, s string) domain.Square {
	t.Helper()
	square, err := domain.ParseSquare(s)
	require.NoError(t, err)
	return square
}

func find(t *testing.T, moves []domain.Move, uci string) domain.Move {
	t.Helper()
	for _, m := range moves {
		if m.String() == uci {
			return m
		}
	}
	t.Fatalf("move %s not found in %v", uci, moves)
	return domain.Move{}
}

func TestInitialPosition(t *testing.T) {
	m, err := New("")
	require.NoError(t, err)

	moves := m.LegalMoves()
	assert.Len(t, moves, 20)
	assert.Equal(t, domain.White, m.Turn())
	assert.Equal(t, domain.Normal, m.Status())
	assert.False(t, m.CanUndo())
	assert.Equal(t, 0, m.Ply())

	e4 := find(t, moves, "e2e4")
	assert.Equal(t, domain.DoublePawnPush, e4.Kind())
	assert.False(t, e4.IsCapture())
	assert.Equal(t, domain.Positional, find(t, moves, "e2e3").Kind())
	assert.Equal(t, domain.Positional, find(t, moves, "g1f3").Kind())

	piece, ok := m.PieceAt(sq(t, "e1"))
	require.True(t, ok)
	assert.Equal(t, domain.Piece{Type: domain.King, Color: domain.White}, piece)
	_, ok = m.PieceAt(sq(t, "e4"))
	assert.False(t, ok)
}

func TestMoveKinds(t *testing.T) {
	promo, err := New(promotionFEN)
	require.NoError(t, err)
	candidates := domain.Filter(promo.LegalMoves(), domain.From(sq(t, "e7")))
	require.Len(t, candidates, 4)
	pieces := map[domain.PieceType]bool{}
	for _, c := range candidates {
		assert.Equal(t, domain.Promotion, c.Kind())
		assert.Equal(t, sq(t, "e8"), c.To())
		pieces[c.Promotion()] = true
	}
	assert.Len(t, pieces, 4)

	castles, err := New(castlingFEN)
	require.NoError(t, err)
	moves := castles.LegalMoves()
	assert.Equal(t, domain.KingCastle, find(t, moves, "e1g1").Kind())
	assert.Equal(t, domain.QueenCastle, find(t, moves, "e1c1").Kind())
	assert.True(t, find(t, moves, "a1a8").IsCapture())

	ep, err := New(enPassantFEN)
	require.NoError(t, err)
	capture := find(t, ep.LegalMoves(), "e5d6")
	assert.Equal(t, domain.EnPassantCapture, capture.Kind())
	assert.True(t, capture.IsCapture())
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	m, err := New("")
	require.NoError(t, err)
	require.NoError(t, m.MakeMove(find(t, m.LegalMoves(), "e2e4")))
	require.NoError(t, m.MakeMove(find(t, m.LegalMoves(), "c7c5")))

	for _, move := range m.LegalMoves() {
		before := m.Snapshot()
		require.NoError(t, m.MakeMove(move))
		assert.Equal(t, 3, m.Ply())
		last, ok := m.LastMove()
		require.True(t, ok)
		assert.True(t, last.SameAs(move))
		require.NoError(t, m.UnmakeMove())
		assert.Equal(t, before, m.Snapshot(), "round trip of %s", move)
	}
}

func TestMakeMoveRejectsIllegal(t *testing.T) {
	m, err := New("")
	require.NoError(t, err)
	illegal := domain.NewMove(sq(t, "e2"), sq(t, "e5"), domain.Positional, domain.NoPieceType, false)
	assert.ErrorIs(t, m.MakeMove(illegal), ErrIllegalMove)
	assert.Equal(t, 0, m.Ply())
	assert.ErrorIs(t, m.UnmakeMove(), ErrNoHistory)
}

func TestTerminalStatus(t *testing.T) {
	mate, err := New(foolsMateFEN)
	require.NoError(t, err)
	assert.Equal(t, domain.Checkmate, mate.Status())
	assert.Empty(t, mate.LegalMoves())

	stale, err := New(stalemateFEN)
	require.NoError(t, err)
	assert.Equal(t, domain.Stalemate, stale.Status())
	assert.Equal(t, domain.Black, stale.Turn())
}

func TestInvalidFEN(t *testing.T) {
	_, err := New("not a fen")
	assert.Error(t, err)
}
