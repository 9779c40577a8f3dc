package interaction

import (
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/usecase/gesture"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Resolution is what a drop resolves to: exactly one move, or several
// candidates differing only in promotion piece.
type Resolution struct {
	move       domain.Move
	candidates []domain.Move
}

func (r Resolution) Ambiguous() bool {
	return len(r.candidates) > 1
}

func (r Resolution) Candidates() []domain.Move {
	return r.candidates
}

func (r Resolution) Move() (domain.Move, error) {
	if r.Ambiguous() {
		return domain.Move{}, ErrAmbiguousMove
	}
	return r.move, nil
}

type pendingChoice struct {
	origin     domain.Square
	target     domain.Square
	candidates []domain.Move
}

// Controller owns the legal move set and the gesture machine of one ply.
// It is not safe for concurrent use; the sequencer loop is its only caller.
type Controller struct {
	pos           domain.PositionModel
	view          domain.View
	disambiguator Disambiguator
	logger        *zap.Logger

	active     bool
	ply        int
	moves      []domain.Move
	movable    map[domain.Square]bool
	gesture    *gesture.State
	candidates []domain.Move
	pending    *pendingChoice
}

func New(pos domain.PositionModel, view domain.View, disambiguator Disambiguator, logger *zap.Logger) *Controller {
	if disambiguator == nil {
		disambiguator = AskPlayer
	}
	return &Controller{
		pos:           pos,
		view:          view,
		disambiguator: disambiguator,
		logger:        logger,
		gesture:       gesture.New(),
	}
}

// BeginPly rebuilds the move set and publishes the movable squares.
func (c *Controller) BeginPly() []domain.Move {
	moves := c.ComputeLegalMoveSet()
	c.RenderAffordances(moves)
	return moves
}

func (c *Controller) ComputeLegalMoveSet() []domain.Move {
	c.moves = c.pos.LegalMoves()
	c.ply = c.pos.Ply()
	c.active = true
	c.gesture = gesture.New()
	c.candidates = nil
	c.pending = nil
	return c.moves
}

func (c *Controller) RenderAffordances(moves []domain.Move) {
	c.view.Clear(domain.TagCanMove)
	c.movable = make(map[domain.Square]bool)
	for _, m := range moves {
		if c.movable[m.From()] {
			continue
		}
		c.movable[m.From()] = true
		c.view.Mark(m.From(), domain.TagCanMove)
	}
}

func (c *Controller) OnHoverOrigin(sq domain.Square) {
	if !c.active || c.pending != nil {
		return
	}
	if !c.movable[sq] {
		c.logger.Debug("hover over an immovable square", zap.Stringer("square", sq))
		return
	}
	if !c.gesture.HoverEnter(sq) {
		c.logger.Debug("hover ignored while dragging", zap.Stringer("square", sq),
			zap.Stringer("origin", c.gesture.Origin()))
		return
	}
	c.clearMoving()
	c.candidates = domain.Filter(c.moves, domain.From(sq))
	c.view.Mark(sq, domain.TagFrom)
	for _, m := range c.candidates {
		c.view.Mark(m.To(), domain.KindTags(m)...)
	}
}

func (c *Controller) OnHoverExit() {
	if !c.active || c.pending != nil {
		return
	}
	if c.gesture.HoverLeave() {
		c.clearMoving()
		c.candidates = nil
	}
}

func (c *Controller) OnDragStart(sq domain.Square) {
	if !c.active || c.pending != nil {
		return
	}
	if !c.gesture.DragStart(sq) {
		c.logger.Debug("drag start ignored", zap.Stringer("square", sq),
			zap.Stringer("phase", c.gesture.Phase()))
	}
}

func (c *Controller) OnDragEnd() {
	c.gesture.DragStop()
}

// OnGestureCommit resolves a drop (or click) on target for a piece held on origin.
// An empty resolution reverts the gesture and yields ErrInvalidDrop.
func (c *Controller) OnGestureCommit(target, origin domain.Square) (Resolution, error) {
	if !c.active {
		return Resolution{}, ErrStaleMoveSet
	}
	candidates := domain.Filter(c.moves, func(m domain.Move) bool {
		return m.From() == origin && m.To() == target
	})
	switch len(candidates) {
	case 0:
		c.revert()
		return Resolution{}, errors.WithMessagef(ErrInvalidDrop, "%s-%s", origin, target)
	case 1:
		return Resolution{move: candidates[0], candidates: candidates}, nil
	default:
		return Resolution{candidates: candidates}, nil
	}
}

// Commit plays m and drops every ply-scoped affordance.
func (c *Controller) Commit(m domain.Move) error {
	if !c.active || c.pos.Ply() != c.ply {
		return errors.WithMessagef(ErrStaleMoveSet, "commit '%s'", m)
	}
	if !contains(c.moves, m) {
		return errors.WithMessagef(ErrStaleMoveSet, "'%s' is not in the move set", m)
	}
	if err := c.pos.MakeMove(m); err != nil {
		return errors.WithMessage(err, "make move")
	}
	c.logger.Debug("move committed", zap.Stringer("move", m))
	c.Invalidate()
	return nil
}

// Invalidate discards the move set and all affordances; a new ply must be begun.
func (c *Controller) Invalidate() {
	c.active = false
	c.moves = nil
	c.movable = nil
	c.candidates = nil
	c.dismissChoice()
	c.gesture.Reset()
	c.view.Clear(append([]domain.Tag{domain.TagCanMove}, domain.MovingTags...)...)
}

// Handle routes a gesture event. committed reports whether a move was played.
func (c *Controller) Handle(ev domain.Event) (move domain.Move, committed bool, err error) {
	switch ev.Type {
	case domain.HoverEnter:
		c.OnHoverOrigin(ev.Square)
	case domain.HoverLeave:
		c.OnHoverExit()
	case domain.DragStart:
		c.OnDragStart(ev.Square)
	case domain.Drop:
		return c.drop(ev.Square)
	case domain.DragEnd:
		c.OnDragEnd()
	case domain.SelectMove:
		return c.selectListed(ev.Index)
	case domain.ChoosePromotion:
		return c.choose(ev.Piece)
	case domain.CancelPromotion:
		if c.pending != nil {
			c.revert()
		}
	default:
		return domain.Move{}, false, errors.Errorf("unexpected gesture '%s'", ev.Type)
	}
	return domain.Move{}, false, nil
}

func (c *Controller) drop(target domain.Square) (domain.Move, bool, error) {
	if !c.active || !c.gesture.Dragging() {
		c.logger.Debug("drop without a drag", zap.Stringer("square", target))
		return domain.Move{}, false, nil
	}
	origin := c.gesture.Origin()
	res, err := c.OnGestureCommit(target, origin)
	switch {
	case errors.Is(err, ErrInvalidDrop):
		/* the piece snaps back, nothing to report */
		c.logger.Debug(err.Error())
		return domain.Move{}, false, nil
	case err != nil:
		return domain.Move{}, false, err
	}
	return c.settle(res, origin, target)
}

func (c *Controller) selectListed(index int) (domain.Move, bool, error) {
	if !c.active || index < 0 || index >= len(c.moves) {
		c.logger.Debug("select of an unlisted move", zap.Int("index", index))
		return domain.Move{}, false, nil
	}
	listed := c.moves[index]
	res, err := c.OnGestureCommit(listed.To(), listed.From())
	if err != nil {
		return domain.Move{}, false, err
	}
	if res.Ambiguous() {
		/* the list entry already names the variant */
		return listed, true, c.Commit(listed)
	}
	return c.settle(res, listed.From(), listed.To())
}

func (c *Controller) settle(res Resolution, origin, target domain.Square) (domain.Move, bool, error) {
	move, err := res.Move()
	if errors.Is(err, ErrAmbiguousMove) {
		var ok bool
		if move, ok = c.disambiguator.Disambiguate(res.Candidates()); !ok {
			c.pending = &pendingChoice{origin: origin, target: target, candidates: res.Candidates()}
			c.gesture.Reset()
			c.view.RequestChoice(origin, target, res.Candidates())
			return domain.Move{}, false, nil
		}
	}
	if err := c.Commit(move); err != nil {
		return domain.Move{}, false, err
	}
	return move, true, nil
}

func (c *Controller) choose(piece domain.PieceType) (domain.Move, bool, error) {
	if c.pending == nil {
		c.logger.Debug("promotion choice without a pending move")
		return domain.Move{}, false, nil
	}
	for _, m := range c.pending.candidates {
		if m.Promotion() == piece {
			if err := c.Commit(m); err != nil {
				return domain.Move{}, false, err
			}
			return m, true, nil
		}
	}
	c.logger.Debug("promotion piece not offered", zap.String("piece", piece.Name()))
	return domain.Move{}, false, nil
}

func (c *Controller) revert() {
	c.gesture.Reset()
	c.candidates = nil
	c.dismissChoice()
	c.clearMoving()
}

// dismissChoice closes the promotion picker if one is open.
func (c *Controller) dismissChoice() {
	if c.pending == nil {
		return
	}
	c.pending = nil
	c.view.DismissChoice()
}

func (c *Controller) clearMoving() {
	c.view.Clear(domain.MovingTags...)
}

func (c *Controller) Active() bool {
	return c.active
}

func (c *Controller) Moves() []domain.Move {
	return c.moves
}

func (c *Controller) Movable() []domain.Square {
	var squares []domain.Square
	seen := make(map[domain.Square]bool)
	for _, m := range c.moves {
		if c.movable[m.From()] && !seen[m.From()] {
			seen[m.From()] = true
			squares = append(squares, m.From())
		}
	}
	return squares
}

func (c *Controller) Candidates() []domain.Move {
	return c.candidates
}

func (c *Controller) Phase() gesture.Phase {
	return c.gesture.Phase()
}

func (c *Controller) AwaitingChoice() bool {
	return c.pending != nil
}

func contains(moves []domain.Move, m domain.Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
