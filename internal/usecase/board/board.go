package board

import (
	"github.com/kiryu-dev/dragchess/internal/domain"
)

// Snapshot reads the current placement from pos; nothing is cached.
func Snapshot(pos domain.PositionModel) domain.BoardSnapshot {
	snapshot := domain.BoardSnapshot{Turn: pos.Turn()}
	for sq := domain.Square(0); sq < domain.BoardSize; sq++ {
		if piece, ok := pos.PieceAt(sq); ok {
			snapshot.Pieces = append(snapshot.Pieces, domain.PlacedPiece{Square: sq, Piece: piece})
		}
	}
	if last, ok := pos.LastMove(); ok {
		snapshot.LastMove = &last
	}
	return snapshot
}

// Refresh redraws pieces and the turn and last-move highlights.
func Refresh(view domain.View, pos domain.PositionModel) domain.BoardSnapshot {
	snapshot := Snapshot(pos)
	view.Clear(domain.TagTurn, domain.TagLastMove)
	view.Render(snapshot)
	for _, p := range snapshot.Pieces {
		if p.Piece.Color == snapshot.Turn {
			view.Mark(p.Square, domain.TagTurn)
		}
	}
	if snapshot.LastMove != nil {
		view.Mark(snapshot.LastMove.From(), domain.TagLastMove)
		view.Mark(snapshot.LastMove.To(), domain.TagLastMove)
	}
	return snapshot
}
