package hub

import (
	"context"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"github.com/kiryu-dev/dragchess/internal/adapters/view"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/usecase/interaction"
	"github.com/kiryu-dev/dragchess/internal/usecase/sequencer"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	petnameWords = 2
	suffixLen    = 8
)

type PositionFactory func() (domain.PositionModel, error)

type session struct {
	name    string
	client  domain.Client
	seq     *sequencer.Sequencer
	started time.Time
}

type useCase struct {
	newPosition   PositionFactory
	engine        domain.OpponentEngine
	disambiguator interaction.Disambiguator
	opts          sequencer.Options
	sessions      map[string]*session
	active        *atomic.Int64
	mu            *sync.RWMutex
	logger        *zap.Logger
}

func New(newPosition PositionFactory, engine domain.OpponentEngine, disambiguator interaction.Disambiguator,
	opts sequencer.Options, logger *zap.Logger) *useCase {
	return &useCase{
		newPosition:   newPosition,
		engine:        engine,
		disambiguator: disambiguator,
		opts:          opts,
		sessions:      make(map[string]*session),
		active:        atomic.NewInt64(0),
		mu:            &sync.RWMutex{},
		logger:        logger,
	}
}

// Handle plays one game with client until it disconnects, ctx ends or the
// game halts on a fatal error.
func (u *useCase) Handle(ctx context.Context, client domain.Client) error {
	pos, err := u.newPosition()
	if err != nil {
		return errors.WithMessage(err, "new position")
	}
	name := petname.Generate(petnameWords, "-") + "-" + uuid.NewString()[:suffixLen]
	logger := u.logger.With(zap.String("session", name), zap.String("client", client.Uuid()))
	s := &session{
		name:    name,
		client:  client,
		seq:     sequencer.New(pos, u.engine, view.NewMessenger(client, logger), u.disambiguator, u.opts, logger),
		started: time.Now(),
	}
	u.register(s)
	defer u.unregister(s)
	logger.Info("game started", zap.Stringer("human", u.opts.Human))

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		return s.seq.Run(ctx)
	})
	errGroup.Go(func() error {
		return readEvents(ctx, client, s.seq, logger)
	})
	errGroup.Go(func() error {
		/* unblocks the read loop */
		<-ctx.Done()
		client.Close()
		return nil
	})
	err = errGroup.Wait()
	switch {
	case err == nil, errors.Is(err, domain.ErrConnectionClosed), errors.Is(err, context.Canceled):
		logger.Info("game finished", zap.Duration("duration", time.Since(s.started)),
			zap.String("result", s.seq.Outcome().Result()))
		return nil
	default:
		return errors.WithMessagef(err, "session '%s'", name)
	}
}

func readEvents(ctx context.Context, client domain.Client, seq *sequencer.Sequencer, logger *zap.Logger) error {
	for {
		msg, err := client.ReadMessage()
		switch {
		case errors.Is(err, domain.ErrEmptyMessage):
			logger.Debug("skip empty client message")
			continue
		case errors.Is(err, domain.ErrMalformedMessage):
			logger.Warn("skip undecodable client message", zap.Error(err))
			continue
		case err != nil:
			return errors.WithMessage(err, "read client message")
		}
		ev, err := view.DecodeEvent(msg)
		if err != nil {
			logger.Warn("skip malformed client message", zap.String("type", string(msg.Type)), zap.Error(err))
			continue
		}
		if err := seq.Dispatch(ctx, ev); err != nil {
			return errors.WithMessage(err, "dispatch event")
		}
	}
}

func (u *useCase) register(s *session) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sessions[s.name] = s
	u.active.Inc()
}

func (u *useCase) unregister(s *session) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.sessions, s.name)
	u.active.Dec()
}

func (u *useCase) Sessions() int64 {
	return u.active.Load()
}

// SessionStates reports the turn state of every live session by name.
func (u *useCase) SessionStates() map[string]string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	states := make(map[string]string, len(u.sessions))
	for name, s := range u.sessions {
		states[name] = s.seq.State().String()
	}
	return states
}
