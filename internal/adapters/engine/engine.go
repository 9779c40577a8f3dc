package engine

import (
	"io"
	"time"

	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	KindSearch = "search"
	KindUCI    = "uci"
)

var ErrUnknownKind = errors.New("unknown engine kind")

type Options struct {
	Kind     string
	Depth    int
	UCIPath  string
	MoveTime time.Duration
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the configured engine. The closer releases external processes.
func New(opts Options, logger *zap.Logger) (domain.OpponentEngine, io.Closer, error) {
	switch opts.Kind {
	case KindSearch, "":
		return NewSearch(opts.Depth, logger), nopCloser{}, nil
	case KindUCI:
		e, err := NewUCI(opts.UCIPath, opts.MoveTime, logger)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "start uci engine")
		}
		return e, e, nil
	default:
		return nil, nil, errors.WithMessagef(ErrUnknownKind, "'%s'", opts.Kind)
	}
}
