package interaction

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidDrop   = errors.New("dropped on a square with no legal move")
	ErrAmbiguousMove = errors.New("several legal moves share origin and destination")
	ErrStaleMoveSet  = errors.New("legal move set predates the current position")
	ErrUnknownPolicy = errors.New("unknown disambiguation policy")
)
