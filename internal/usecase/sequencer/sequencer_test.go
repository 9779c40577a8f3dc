package sequencer

import (
	"context"
	"testing"
	"time"

	"github.com/kiryu-dev/dragchess/internal/adapters/engine"
	"github.com/kiryu-dev/dragchess/internal/adapters/position"
	"github.com/kiryu-dev/dragchess/internal/adapters/view"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/usecase/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	onlyMoveFEN  = "7k/5K2/8/p7/P7/8/8/8 b - - 0 1"
	// White to move, Qf7-g7 mates
	mateInOneFEN = "7k/5Q2/6K1/8/8/8/8/8 w - - 0 1"
)

type searchFunc func(ctx context.Context, fen domain.FEN) (domain.Move, bool, error)

// recordingEngine counts searches; it is called from the search goroutine.
type recordingEngine struct {
	calls  *atomic.Int64
	search searchFunc
}

func newRecordingEngine(search searchFunc) *recordingEngine {
	return &recordingEngine{calls: atomic.NewInt64(0), search: search}
}

func (e *recordingEngine) Search(ctx context.Context, fen domain.FEN) (domain.Move, bool, error) {
	e.calls.Inc()
	return e.search(ctx, fen)
}

func realEngine() *recordingEngine {
	return newRecordingEngine(engine.NewSearch(1, zap.NewNop()).Search)
}

func sq(t *testing.T, name string) domain.Square {
	t.Helper()
	s, err := domain.ParseSquare(name)
	require.NoError(t, err)
	return s
}

func newSequencer(t *testing.T, fen string, human domain.Color, e domain.OpponentEngine) (*Sequencer, domain.PositionModel, *view.Memory) {
	t.Helper()
	pos, err := position.New(fen)
	require.NoError(t, err)
	v := view.NewMemory()
	s := New(pos, e, v, interaction.AskPlayer, Options{
		Human:             human,
		AnimationDuration: 250 * time.Millisecond,
		SearchTimeout:     5 * time.Second,
	}, zap.NewNop())
	s.after = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
	return s, pos, v
}

// awaitSearch plays the part of the Run loop for one engine answer.
func awaitSearch(t *testing.T, s *Sequencer) error {
	t.Helper()
	require.NotNil(t, s.searches, "no search in flight")
	select {
	case res := <-s.searches:
		s.searches = nil
		return s.onOpponentMove(res)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not answer")
		return nil
	}
}

func finishAnimation(t *testing.T, s *Sequencer) {
	t.Helper()
	require.NotNil(t, s.animation, "no animation running")
	<-s.animation
	s.animation = nil
	s.evaluate(context.Background())
}

func playHuman(t *testing.T, s *Sequencer, from, to string) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range []domain.Event{
		{Type: domain.HoverEnter, Square: sq(t, from)},
		{Type: domain.DragStart, Square: sq(t, from)},
		{Type: domain.Drop, Square: sq(t, to)},
	} {
		require.NoError(t, s.handle(ctx, ev))
	}
}

func TestHumanToMoveGetsAffordances(t *testing.T) {
	e := realEngine()
	s, _, v := newSequencer(t, "", domain.White, e)

	s.evaluate(context.Background())
	assert.Equal(t, AwaitingHumanMove, s.State())
	assert.True(t, s.Controller().Active())
	assert.Len(t, v.Tagged(domain.TagCanMove), 10)
	assert.Len(t, v.Tagged(domain.TagTurn), 16)
	moves, controls := v.Moves()
	assert.Len(t, moves, 20)
	assert.False(t, controls.CanUndo)
	assert.True(t, controls.CanAuto)
	assert.False(t, v.Dimmed())
	assert.Zero(t, e.calls.Load())
}

func TestOpponentMoveIsAnimatedThenHandedBack(t *testing.T) {
	e := realEngine()
	s, pos, v := newSequencer(t, onlyMoveFEN, domain.White, e)

	s.evaluate(context.Background())
	assert.Equal(t, ComputingOpponentMove, s.State())
	assert.True(t, v.Dimmed())
	assert.Empty(t, v.Tagged(domain.TagCanMove))
	moves, _ := v.Moves()
	assert.Empty(t, moves)

	require.NoError(t, awaitSearch(t, s))
	assert.Equal(t, AnimatingOpponentMove, s.State())
	assert.EqualValues(t, 1, e.calls.Load())
	assert.Equal(t, domain.White, pos.Turn())

	anim := v.LastAnimation()
	require.NotNil(t, anim)
	assert.Equal(t, "h8h7", anim.Move.String())
	assert.Equal(t, domain.Offset{DX: 0, DY: 1}, anim.Offset)
	assert.Equal(t, 250*time.Millisecond, anim.Duration)

	require.NoError(t, s.handle(context.Background(), domain.Event{Type: domain.HoverEnter, Square: sq(t, "f7")}))
	assert.Empty(t, v.Tagged(domain.TagFrom), "gestures wait for the animation")

	finishAnimation(t, s)
	assert.Equal(t, AwaitingHumanMove, s.State())
	assert.False(t, v.Dimmed())
	assert.NotEmpty(t, v.Tagged(domain.TagCanMove))
	assert.ElementsMatch(t, []domain.Square{sq(t, "h8"), sq(t, "h7")}, v.Tagged(domain.TagLastMove))
}

func TestTerminalPositionNeverCallsEngine(t *testing.T) {
	for _, human := range []domain.Color{domain.White, domain.Black} {
		t.Run(human.String(), func(t *testing.T) {
			e := realEngine()
			s, _, v := newSequencer(t, foolsMateFEN, human, e)

			s.evaluate(context.Background())
			assert.Equal(t, GameOver, s.State())
			assert.Equal(t, domain.Mate, s.Outcome().Kind)
			assert.Equal(t, domain.Black, s.Outcome().Winner)
			assert.Equal(t, "# 0-1", v.Result())
			assert.Empty(t, v.Tagged(domain.TagCanMove))
			assert.False(t, s.Controller().Active())
			assert.Nil(t, s.searches)
			assert.Zero(t, e.calls.Load())
		})
	}
}

func TestHumanMateEndsGameAndUndoTakesBackOnePly(t *testing.T) {
	e := realEngine()
	s, pos, v := newSequencer(t, mateInOneFEN, domain.White, e)
	ctx := context.Background()
	start := pos.Snapshot()

	s.evaluate(ctx)
	playHuman(t, s, "f7", "g7")
	assert.Equal(t, GameOver, s.State())
	assert.Equal(t, "# 1-0", v.Result())
	_, controls := v.Moves()
	assert.True(t, controls.CanUndo)
	assert.Zero(t, e.calls.Load())

	require.NoError(t, s.handle(ctx, domain.Event{Type: domain.Undo}))
	assert.Equal(t, AwaitingHumanMove, s.State())
	assert.Equal(t, start, pos.Snapshot())
	assert.Empty(t, v.Result())
}

func TestUndoTakesBackReplyAndMove(t *testing.T) {
	e := realEngine()
	s, pos, v := newSequencer(t, "", domain.White, e)
	ctx := context.Background()
	start := pos.Snapshot()

	s.evaluate(ctx)
	require.NoError(t, s.handle(ctx, domain.Event{Type: domain.Undo}))
	assert.Equal(t, 0, pos.Ply(), "nothing to take back yet")

	playHuman(t, s, "e2", "e4")
	assert.Equal(t, ComputingOpponentMove, s.State())
	require.NoError(t, s.handle(ctx, domain.Event{Type: domain.Undo}))
	assert.Equal(t, 1, pos.Ply(), "undo waits for the engine")

	require.NoError(t, awaitSearch(t, s))
	finishAnimation(t, s)
	require.Equal(t, 2, pos.Ply())
	_, controls := v.Moves()
	assert.True(t, controls.CanUndo)

	require.NoError(t, s.handle(ctx, domain.Event{Type: domain.Undo}))
	assert.Equal(t, 0, pos.Ply())
	assert.Equal(t, start, pos.Snapshot())
	assert.Equal(t, AwaitingHumanMove, s.State())
	assert.Len(t, s.Controller().Moves(), 20)
	assert.EqualValues(t, 1, e.calls.Load())
}

func TestAutoPlaysForHuman(t *testing.T) {
	e := realEngine()
	s, pos, _ := newSequencer(t, "", domain.White, e)
	ctx := context.Background()

	s.evaluate(ctx)
	require.NoError(t, s.handle(ctx, domain.Event{Type: domain.Auto}))
	assert.Equal(t, ComputingOpponentMove, s.State())
	assert.False(t, s.Controller().Active())

	require.NoError(t, awaitSearch(t, s))
	assert.Equal(t, domain.Black, pos.Turn())
	finishAnimation(t, s)
	assert.Equal(t, ComputingOpponentMove, s.State(), "engine answers its own move")
	require.NoError(t, awaitSearch(t, s))
	assert.EqualValues(t, 2, e.calls.Load())
	assert.Equal(t, 2, pos.Ply())
}

func TestEngineWithoutMoveIsDesync(t *testing.T) {
	e := newRecordingEngine(func(context.Context, domain.FEN) (domain.Move, bool, error) {
		return domain.Move{}, false, nil
	})
	s, _, _ := newSequencer(t, "", domain.Black, e)

	s.evaluate(context.Background())
	assert.ErrorIs(t, awaitSearch(t, s), ErrEngineDesync)
}

func TestIllegalEngineMoveIsDesync(t *testing.T) {
	e := newRecordingEngine(func(context.Context, domain.FEN) (domain.Move, bool, error) {
		e2, _ := domain.ParseSquare("e2")
		e5, _ := domain.ParseSquare("e5")
		return domain.NewMove(e2, e5, domain.Positional, domain.NoPieceType, false), true, nil
	})
	s, pos, _ := newSequencer(t, "", domain.Black, e)

	s.evaluate(context.Background())
	assert.ErrorIs(t, awaitSearch(t, s), ErrEngineDesync)
	assert.Equal(t, 0, pos.Ply())
}

func TestRunHaltsOnEngineTimeout(t *testing.T) {
	e := newRecordingEngine(func(ctx context.Context, _ domain.FEN) (domain.Move, bool, error) {
		<-ctx.Done()
		return domain.Move{}, false, ctx.Err()
	})
	s, _, v := newSequencer(t, "", domain.Black, e)
	s.opts.SearchTimeout = 10 * time.Millisecond

	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrEngineTimeout)
	assert.Equal(t, Halted, s.State())
	assert.NotEmpty(t, v.FatalError())
	assert.ErrorIs(t, s.Dispatch(context.Background(), domain.Event{Type: domain.Undo}), ErrHalted)
}

func TestRunServesDispatchedEvents(t *testing.T) {
	e := realEngine()
	s, pos, v := newSequencer(t, "", domain.White, e)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for _, ev := range []domain.Event{
		{Type: domain.HoverEnter, Square: sq(t, "g1")},
		{Type: domain.DragStart, Square: sq(t, "g1")},
		{Type: domain.Drop, Square: sq(t, "f3")},
	} {
		require.NoError(t, s.Dispatch(ctx, ev))
	}

	require.Eventually(t, func() bool {
		last := v.Board().LastMove
		return last != nil && last.From().Rank() >= 4
	}, 5*time.Second, 5*time.Millisecond, "engine reply rendered")
	assert.Empty(t, v.FatalError())
	assert.EqualValues(t, 1, e.calls.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 2, pos.Ply())
}
