package position

import (
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNoHistory   = errors.New("no move to unmake")
)

// model keeps the starting position plus the list of played moves; undo
// replays the history minus its last ply, so no board state is copied.
type model struct {
	start string
	game  *chess.Game
}

// New builds a position model, fen == "" means the standard starting position.
func New(fen string) (*model, error) {
	game, err := newGame(fen)
	if err != nil {
		return nil, err
	}
	return &model{start: fen, game: game}, nil
}

func newGame(fen string) (*chess.Game, error) {
	if fen == "" {
		return chess.NewGame(chess.UseNotation(chess.UCINotation{})), nil
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.WithMessagef(err, "decode fen '%s'", fen)
	}
	return chess.NewGame(opt, chess.UseNotation(chess.UCINotation{})), nil
}

func (m *model) LegalMoves() []domain.Move {
	if m.game.Outcome() != chess.NoOutcome {
		return nil
	}
	pos := m.game.Position()
	valid := m.game.ValidMoves()
	moves := make([]domain.Move, 0, len(valid))
	for _, mv := range valid {
		moves = append(moves, ToDomain(pos, mv))
	}
	return moves
}

func (m *model) MakeMove(move domain.Move) error {
	for _, mv := range m.game.ValidMoves() {
		if !ToDomain(m.game.Position(), mv).SameAs(move) {
			continue
		}
		if err := m.game.Move(mv); err != nil {
			return errors.WithMessagef(err, "apply move '%s'", move)
		}
		return nil
	}
	return errors.WithMessagef(ErrIllegalMove, "'%s' in '%s'", move, m.game.Position())
}

func (m *model) UnmakeMove() error {
	played := m.game.Moves()
	if len(played) == 0 {
		return ErrNoHistory
	}
	game, err := newGame(m.start)
	if err != nil {
		return err
	}
	for _, mv := range played[:len(played)-1] {
		if err := game.Move(mv); err != nil {
			return errors.WithMessagef(err, "replay move '%s'", mv)
		}
	}
	m.game = game
	return nil
}

func (m *model) CanUndo() bool {
	return len(m.game.Moves()) > 0
}

func (m *model) Status() domain.Status {
	method := m.game.Method()
	if method == chess.NoMethod {
		method = m.game.Position().Status()
	}
	switch method {
	case chess.Checkmate:
		return domain.Checkmate
	case chess.Stalemate:
		return domain.Stalemate
	case chess.InsufficientMaterial:
		return domain.InsufficientMaterial
	case chess.FivefoldRepetition:
		return domain.FivefoldRepetition
	case chess.SeventyFiveMoveRule:
		return domain.SeventyFiveMoveRule
	default:
		return domain.Normal
	}
}

func (m *model) Turn() domain.Color {
	return fromColor(m.game.Position().Turn())
}

func (m *model) LastMove() (domain.Move, bool) {
	moves := m.game.Moves()
	if len(moves) == 0 {
		return domain.Move{}, false
	}
	positions := m.game.Positions()
	before := positions[len(positions)-2]
	return ToDomain(before, moves[len(moves)-1]), true
}

func (m *model) PieceAt(sq domain.Square) (domain.Piece, bool) {
	if !sq.Valid() {
		return domain.Piece{}, false
	}
	p := m.game.Position().Board().Piece(chess.Square(sq))
	if p == chess.NoPiece {
		return domain.Piece{}, false
	}
	return domain.Piece{Type: fromPieceType(p.Type()), Color: fromColor(p.Color())}, true
}

func (m *model) Ply() int {
	return len(m.game.Moves())
}

func (m *model) Snapshot() domain.FEN {
	return domain.FEN(m.game.Position().String())
}

// ToDomain classifies mv as played from pos.
func ToDomain(pos *chess.Position, mv *chess.Move) domain.Move {
	from, to := domain.Square(mv.S1()), domain.Square(mv.S2())
	kind := domain.Positional
	switch {
	case mv.Promo() != chess.NoPieceType:
		kind = domain.Promotion
	case mv.HasTag(chess.KingSideCastle):
		kind = domain.KingCastle
	case mv.HasTag(chess.QueenSideCastle):
		kind = domain.QueenCastle
	case mv.HasTag(chess.EnPassant):
		kind = domain.EnPassantCapture
	case isDoublePush(pos, mv):
		kind = domain.DoublePawnPush
	}
	capture := mv.HasTag(chess.Capture) || mv.HasTag(chess.EnPassant)
	return domain.NewMove(from, to, kind, fromPieceType(mv.Promo()), capture)
}

func isDoublePush(pos *chess.Position, mv *chess.Move) bool {
	if pos.Board().Piece(mv.S1()).Type() != chess.Pawn {
		return false
	}
	diff := int(mv.S2().Rank()) - int(mv.S1().Rank())
	return diff == 2 || diff == -2
}

func fromColor(c chess.Color) domain.Color {
	if c == chess.Black {
		return domain.Black
	}
	return domain.White
}

func fromPieceType(p chess.PieceType) domain.PieceType {
	switch p {
	case chess.Pawn:
		return domain.Pawn
	case chess.Knight:
		return domain.Knight
	case chess.Bishop:
		return domain.Bishop
	case chess.Rook:
		return domain.Rook
	case chess.Queen:
		return domain.Queen
	case chess.King:
		return domain.King
	default:
		return domain.NoPieceType
	}
}
