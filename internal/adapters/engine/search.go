package engine

import (
	"context"

	"github.com/kiryu-dev/dragchess/internal/adapters/position"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	mateScore = 1_000_000
	infinity  = 2 * mateScore
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
}

type search struct {
	depth  int
	logger *zap.Logger
}

// NewSearch returns an iterative-deepening alpha-beta engine. When ctx
// expires it answers with the best move of the deepest finished iteration.
func NewSearch(depth int, logger *zap.Logger) search {
	if depth < 1 {
		depth = 1
	}
	return search{depth: depth, logger: logger}
}

func (s search) Search(ctx context.Context, fen domain.FEN) (domain.Move, bool, error) {
	opt, err := chess.FEN(string(fen))
	if err != nil {
		return domain.Move{}, false, errors.WithMessage(err, "decode position")
	}
	pos := chess.NewGame(opt).Position()
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return domain.Move{}, false, nil
	}
	best := moves[0]
	for depth := 1; depth <= s.depth; depth++ {
		move, score, err := s.root(ctx, pos, moves, depth)
		if err != nil {
			s.logger.Debug("search interrupted", zap.Int("depth", depth), zap.Error(err))
			if depth == 1 {
				return domain.Move{}, false, errors.WithMessage(err, "search first iteration")
			}
			break
		}
		best = move
		s.logger.Debug("iteration finished", zap.Int("depth", depth),
			zap.Stringer("move", best), zap.Int("score", score))
		if score >= mateScore-depth {
			break
		}
	}
	return position.ToDomain(pos, best), true, nil
}

func (s search) root(ctx context.Context, pos *chess.Position, moves []*chess.Move, depth int) (*chess.Move, int, error) {
	best, alpha := moves[0], -infinity
	for _, m := range moves {
		score, err := s.negamax(ctx, pos.Update(m), depth-1, -infinity, -alpha, 1)
		if err != nil {
			return nil, 0, err
		}
		score = -score
		if score > alpha {
			best, alpha = m, score
		}
	}
	return best, alpha, nil
}

func (s search) negamax(ctx context.Context, pos *chess.Position, depth, alpha, beta, ply int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	switch pos.Status() {
	case chess.Checkmate:
		return -(mateScore - ply), nil
	case chess.Stalemate:
		return 0, nil
	}
	if depth == 0 {
		return evaluate(pos), nil
	}
	for _, m := range pos.ValidMoves() {
		score, err := s.negamax(ctx, pos.Update(m), depth-1, -beta, -alpha, ply+1)
		if err != nil {
			return 0, err
		}
		score = -score
		if score >= beta {
			return beta, nil
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha, nil
}

// evaluate scores material from the side to move's point of view.
func evaluate(pos *chess.Position) int {
	score := 0
	for _, p := range pos.Board().SquareMap() {
		value := pieceValues[p.Type()]
		if p.Color() == pos.Turn() {
			score += value
		} else {
			score -= value
		}
	}
	return score
}
