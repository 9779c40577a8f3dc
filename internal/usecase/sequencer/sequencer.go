package sequencer

import (
	"context"
	"time"

	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/usecase/board"
	"github.com/kiryu-dev/dragchess/internal/usecase/interaction"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type State int32

const (
	AwaitingHumanMove = State(iota)
	ComputingOpponentMove
	AnimatingOpponentMove
	GameOver
	Halted
)

func (s State) String() string {
	switch s {
	case AwaitingHumanMove:
		return "awaiting human move"
	case ComputingOpponentMove:
		return "computing opponent move"
	case AnimatingOpponentMove:
		return "animating opponent move"
	case GameOver:
		return "game over"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

const eventQueueSize = 16

type Options struct {
	Human             domain.Color
	AnimationDuration time.Duration
	// SearchTimeout bounds one engine search, zero means unbounded.
	SearchTimeout time.Duration
}

type searchResult struct {
	fen  domain.FEN
	move domain.Move
	ok   bool
	err  error
}

// Sequencer decides who acts next. All of its state is touched by the Run
// goroutine only; other goroutines talk to it through Dispatch.
type Sequencer struct {
	pos        domain.PositionModel
	engine     domain.OpponentEngine
	view       domain.View
	controller *interaction.Controller
	opts       Options
	logger     *zap.Logger

	state     *atomic.Int32
	outcome   domain.Outcome
	events    chan domain.Event
	done      chan struct{}
	searches  chan searchResult
	animation <-chan time.Time
	after     func(time.Duration) <-chan time.Time
}

func New(pos domain.PositionModel, engine domain.OpponentEngine, view domain.View,
	disambiguator interaction.Disambiguator, opts Options, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		pos:        pos,
		engine:     engine,
		view:       view,
		controller: interaction.New(pos, view, disambiguator, logger),
		opts:       opts,
		logger:     logger,
		state:      atomic.NewInt32(int32(AwaitingHumanMove)),
		events:     make(chan domain.Event, eventQueueSize),
		done:       make(chan struct{}),
		after:      time.After,
	}
}

func (s *Sequencer) State() State {
	return State(s.state.Load())
}

func (s *Sequencer) setState(state State) {
	if prev := State(s.state.Swap(int32(state))); prev != state {
		s.logger.Debug("turn state changed", zap.Stringer("from", prev), zap.Stringer("to", state))
	}
}

// Dispatch queues an event for the Run loop.
func (s *Sequencer) Dispatch(ctx context.Context, ev domain.Event) error {
	select {
	case <-s.done:
		return ErrHalted
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrHalted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run evaluates the starting position and then serves events, engine answers
// and animation completions one at a time until ctx ends or a fatal error.
func (s *Sequencer) Run(ctx context.Context) error {
	defer close(s.done)
	s.evaluate(ctx)
	for {
		var err error
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			err = s.handle(ctx, ev)
		case res := <-s.searches:
			s.searches = nil
			err = s.onOpponentMove(res)
		case <-s.animation:
			s.animation = nil
			s.evaluate(ctx)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return s.halt(err)
		}
	}
}

func (s *Sequencer) halt(err error) error {
	s.setState(Halted)
	s.controller.Invalidate()
	s.logger.Error("turn sequencer halted", zap.Error(err))
	s.view.Dim(false)
	s.view.Fatal(err.Error())
	return err
}

// evaluate runs after every mutation of the position model.
func (s *Sequencer) evaluate(ctx context.Context) {
	s.controller.Invalidate()
	board.Refresh(s.view, s.pos)
	s.outcome = domain.OutcomeOf(s.pos.Status(), s.pos.Turn())
	switch {
	case s.outcome.Over():
		s.setState(GameOver)
		s.view.Dim(false)
		s.view.ShowMoves(nil, domain.Controls{CanUndo: s.canUndo()})
		s.view.ShowResult(s.outcome.Banner())
		s.logger.Info("game over", zap.String("result", s.outcome.Result()),
			zap.Stringer("status", s.outcome.Reason))
	case s.pos.Turn() == s.opts.Human:
		s.setState(AwaitingHumanMove)
		s.view.Dim(false)
		moves := s.controller.BeginPly()
		s.view.ShowMoves(moves, domain.Controls{CanUndo: s.canUndo(), CanAuto: len(moves) > 0})
	default:
		s.requestMove(ctx)
	}
}

// requestMove asks the engine for the side to move without blocking the loop.
func (s *Sequencer) requestMove(ctx context.Context) {
	s.setState(ComputingOpponentMove)
	s.controller.Invalidate()
	s.view.Dim(true)
	fen := s.pos.Snapshot()
	results := make(chan searchResult, 1)
	s.searches = results
	go func() {
		searchCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.opts.SearchTimeout > 0 {
			searchCtx, cancel = context.WithTimeout(ctx, s.opts.SearchTimeout)
		}
		defer cancel()
		move, ok, err := s.engine.Search(searchCtx, fen)
		results <- searchResult{fen: fen, move: move, ok: ok, err: err}
	}()
}

func (s *Sequencer) onOpponentMove(res searchResult) error {
	switch {
	case errors.Is(res.err, context.DeadlineExceeded):
		return errors.WithMessagef(ErrEngineTimeout, "no move after %s in '%s'", s.opts.SearchTimeout, res.fen)
	case res.err != nil:
		return errors.WithMessage(res.err, "search opponent move")
	case !res.ok:
		return errors.WithMessagef(ErrEngineDesync, "no move found in '%s' with status %s", res.fen, s.pos.Status())
	}
	move, ok := s.legal(res.move)
	if !ok {
		return errors.WithMessagef(ErrEngineDesync, "engine move '%s' is illegal in '%s'", res.move, res.fen)
	}
	if err := s.pos.MakeMove(move); err != nil {
		return errors.WithMessage(err, "apply opponent move")
	}
	s.logger.Info("engine moved", zap.Stringer("move", move))
	s.setState(AnimatingOpponentMove)
	s.view.Dim(false)
	s.view.Animate(move, domain.Displacement(move.From(), move.To()), s.opts.AnimationDuration)
	s.animation = s.after(s.opts.AnimationDuration)
	return nil
}

func (s *Sequencer) legal(candidate domain.Move) (domain.Move, bool) {
	for _, m := range s.pos.LegalMoves() {
		if m.SameAs(candidate) {
			return m, true
		}
	}
	return domain.Move{}, false
}

func (s *Sequencer) handle(ctx context.Context, ev domain.Event) error {
	switch {
	case ev.IsGesture():
		if s.State() != AwaitingHumanMove {
			s.logger.Debug("gesture ignored", zap.Stringer("event", ev.Type), zap.Stringer("state", s.State()))
			return nil
		}
		move, committed, err := s.controller.Handle(ev)
		if err != nil {
			return errors.WithMessage(err, "handle gesture")
		}
		if committed {
			s.logger.Info("player moved", zap.Stringer("move", move))
			s.evaluate(ctx)
		}
	case ev.Type == domain.Undo:
		return s.undo(ctx)
	case ev.Type == domain.Auto:
		if s.State() != AwaitingHumanMove {
			return nil
		}
		s.logger.Info("engine plays for the player")
		s.requestMove(ctx)
	default:
		s.logger.Warn("unknown event", zap.Stringer("event", ev.Type))
	}
	return nil
}

// undo takes back plies until the human is to move again: the engine reply
// and the human move before it, or just the human move that ended the game.
func (s *Sequencer) undo(ctx context.Context) error {
	state := s.State()
	if (state != AwaitingHumanMove && state != GameOver) || !s.canUndo() {
		s.logger.Debug("undo ignored", zap.Stringer("state", state))
		return nil
	}
	undone := 0
	for s.pos.CanUndo() {
		if err := s.pos.UnmakeMove(); err != nil {
			return errors.WithMessage(err, "unmake move")
		}
		undone++
		if s.pos.Turn() == s.opts.Human {
			break
		}
	}
	s.logger.Info("plies taken back", zap.Int("plies", undone))
	s.evaluate(ctx)
	return nil
}

// canUndo reports whether the history holds at least one human move.
func (s *Sequencer) canUndo() bool {
	switch ply := s.pos.Ply(); {
	case ply >= 2:
		return true
	case ply == 1:
		return s.pos.Turn() != s.opts.Human
	default:
		return false
	}
}

func (s *Sequencer) Outcome() domain.Outcome {
	return s.outcome
}

func (s *Sequencer) Controller() *interaction.Controller {
	return s.controller
}
