package interaction

import (
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/pkg/errors"
)

// Disambiguator picks one move out of candidates sharing origin and
// destination. ok == false defers the choice to the player.
type Disambiguator interface {
	Disambiguate(candidates []domain.Move) (move domain.Move, ok bool)
}

type DisambiguatorFunc func(candidates []domain.Move) (domain.Move, bool)

func (f DisambiguatorFunc) Disambiguate(candidates []domain.Move) (domain.Move, bool) {
	return f(candidates)
}

const (
	PolicyAsk   = "ask"
	PolicyFirst = "first"
	PolicyQueen = "queen"
)

var (
	AskPlayer = DisambiguatorFunc(func([]domain.Move) (domain.Move, bool) {
		return domain.Move{}, false
	})
	// FirstCandidate keeps the simplification of committing the first
	// generated variant without asking.
	FirstCandidate = DisambiguatorFunc(func(candidates []domain.Move) (domain.Move, bool) {
		if len(candidates) == 0 {
			return domain.Move{}, false
		}
		return candidates[0], true
	})
	AutoQueen = DisambiguatorFunc(func(candidates []domain.Move) (domain.Move, bool) {
		for _, m := range candidates {
			if m.Promotion() == domain.Queen {
				return m, true
			}
		}
		return domain.Move{}, false
	})
)

func NewDisambiguator(policy string) (Disambiguator, error) {
	switch policy {
	case PolicyAsk, "":
		return AskPlayer, nil
	case PolicyFirst:
		return FirstCandidate, nil
	case PolicyQueen:
		return AutoQueen, nil
	default:
		return nil, errors.WithMessagef(ErrUnknownPolicy, "'%s'", policy)
	}
}
