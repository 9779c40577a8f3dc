package view

import (
	"time"

	"github.com/kiryu-dev/dragchess/internal/domain"
	"go.uber.org/zap"
)

type messenger struct {
	client domain.Client
	logger *zap.Logger
}

// NewMessenger returns a View that streams every affordance change to client.
// Write failures are logged; the read side notices a dead connection.
func NewMessenger(client domain.Client, logger *zap.Logger) domain.View {
	return messenger{client: client, logger: logger}
}

func (m messenger) send(msgType domain.MessageType, payload any) {
	err := m.client.WriteMessage(domain.Message{Type: msgType, Payload: payload})
	if err != nil {
		m.logger.Warn("failed to write view message", zap.String("type", string(msgType)), zap.Error(err))
	}
}

func (m messenger) Render(board domain.BoardSnapshot) {
	payload := domain.BoardPayload{
		Pieces: make([]domain.PieceView, 0, len(board.Pieces)),
		Turn:   board.Turn.String(),
	}
	for _, p := range board.Pieces {
		payload.Pieces = append(payload.Pieces, domain.PieceView{
			Square: p.Square.String(),
			Piece:  p.Piece.Type.Name(),
			Color:  p.Piece.Color.String(),
		})
	}
	if board.LastMove != nil {
		last := domain.NewMoveView(*board.LastMove)
		payload.LastMove = &last
	}
	m.send(domain.BoardMessage, payload)
}

func (m messenger) Mark(sq domain.Square, tags ...domain.Tag) {
	m.send(domain.MarkMessage, domain.MarkPayload{Square: sq.String(), Tags: tags})
}

func (m messenger) Clear(tags ...domain.Tag) {
	m.send(domain.ClearMessage, domain.ClearPayload{Tags: tags})
}

func (m messenger) ShowMoves(moves []domain.Move, controls domain.Controls) {
	m.send(domain.MovesMessage, domain.MovesPayload{
		Moves:   moveViews(moves),
		CanUndo: controls.CanUndo,
		CanAuto: controls.CanAuto,
	})
}

func (m messenger) Dim(on bool) {
	m.send(domain.DimMessage, domain.DimPayload{On: on})
}

func (m messenger) Animate(move domain.Move, offset domain.Offset, duration time.Duration) {
	m.send(domain.AnimateMessage, domain.AnimatePayload{
		Move:       domain.NewMoveView(move),
		DX:         offset.DX,
		DY:         offset.DY,
		DurationMs: duration.Milliseconds(),
	})
}

func (m messenger) RequestChoice(origin, target domain.Square, candidates []domain.Move) {
	m.send(domain.ChoiceMessage, domain.ChoicePayload{
		From:       origin.String(),
		To:         target.String(),
		Candidates: moveViews(candidates),
	})
}

func (m messenger) DismissChoice() {
	m.send(domain.DismissMessage, nil)
}

func (m messenger) ShowResult(text string) {
	m.send(domain.ResultMessage, domain.TextPayload{Text: text})
}

func (m messenger) Fatal(diagnostic string) {
	m.send(domain.FatalMessage, domain.TextPayload{Text: diagnostic})
}

func moveViews(moves []domain.Move) []domain.MoveView {
	views := make([]domain.MoveView, 0, len(moves))
	for _, mv := range moves {
		views = append(views, domain.NewMoveView(mv))
	}
	return views
}
