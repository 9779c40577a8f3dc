package domain

import (
	"github.com/pkg/errors"
)

const (
	Files      = 8
	Ranks      = 8
	BoardSize  = Files * Ranks
	fileLetter = "abcdefgh"
	rankDigit  = "12345678"
)

var ErrInvalidSquare = errors.New("invalid square")

// Square indexes a board cell, a1 = 0 ... h8 = 63 (index = rank*8 + file).
type Square int8

const NoSquare = Square(-1)

func NewSquare(file, rank int) Square {
	if file < 0 || file >= Files || rank < 0 || rank >= Ranks {
		return NoSquare
	}
	return Square(rank*Files + file)
}

func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.WithMessagef(ErrInvalidSquare, "'%s'", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	sq := NewSquare(file, rank)
	if sq == NoSquare {
		return NoSquare, errors.WithMessagef(ErrInvalidSquare, "'%s'", s)
	}
	return sq, nil
}

func (s Square) Valid() bool {
	return s >= 0 && s < BoardSize
}

func (s Square) File() int {
	return int(s) % Files
}

func (s Square) Rank() int {
	return int(s) / Files
}

func (s Square) IsLight() bool {
	return (s.File()+s.Rank())%2 == 1
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{fileLetter[s.File()], rankDigit[s.Rank()]})
}

// Offset is a displacement in whole squares as seen from White's side:
// DX grows towards the h-file, DY grows towards the first rank (screen down).
type Offset struct {
	DX int
	DY int
}

func Displacement(from, to Square) Offset {
	return Offset{
		DX: to.File() - from.File(),
		DY: from.Rank() - to.Rank(),
	}
}
