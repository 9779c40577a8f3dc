package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kiryu-dev/dragchess/internal/adapters/view"
	"github.com/kiryu-dev/dragchess/internal/domain"
)

var (
	lightSquare = color.New(color.BgWhite, color.FgBlack)
	darkSquare  = color.New(color.BgHiBlack, color.FgHiWhite)
	fromSquare  = color.New(color.BgYellow, color.FgBlack)
	toSquare    = color.New(color.BgGreen, color.FgBlack)
	captureTo   = color.New(color.BgRed, color.FgWhite)
	specialTo   = color.New(color.BgMagenta, color.FgWhite)
	lastSquare  = color.New(color.BgCyan, color.FgBlack)
	notice      = color.New(color.FgYellow, color.Bold)
	failure     = color.New(color.FgRed, color.Bold)
)

// squareStyle picks the most telling affordance on a square.
func squareStyle(mirror *view.Memory, sq domain.Square) *color.Color {
	switch {
	case mirror.Has(sq, domain.TagFrom):
		return fromSquare
	case mirror.Has(sq, domain.TagCapture):
		return captureTo
	case mirror.Has(sq, domain.TagPromotion), mirror.Has(sq, domain.TagCastle),
		mirror.Has(sq, domain.TagEnPassant), mirror.Has(sq, domain.TagDoublePush):
		return specialTo
	case mirror.Has(sq, domain.TagTo):
		return toSquare
	case mirror.Has(sq, domain.TagLastMove):
		return lastSquare
	case sq.IsLight():
		return lightSquare
	default:
		return darkSquare
	}
}

func pieceGlyph(p domain.Piece) string {
	letter := p.Type.Letter()
	if p.Color == domain.White {
		return strings.ToUpper(letter)
	}
	return letter
}

// render draws the mirrored view from the side of the given player.
func render(mirror *view.Memory, side domain.Color) string {
	board := mirror.Board()
	pieces := make(map[domain.Square]domain.Piece, len(board.Pieces))
	for _, p := range board.Pieces {
		pieces[p.Square] = p.Piece
	}
	var b strings.Builder
	for row := 0; row < domain.Ranks; row++ {
		rank := domain.Ranks - 1 - row
		if side == domain.Black {
			rank = row
		}
		fmt.Fprintf(&b, "%d ", rank+1)
		for col := 0; col < domain.Files; col++ {
			file := col
			if side == domain.Black {
				file = domain.Files - 1 - col
			}
			sq := domain.NewSquare(file, rank)
			glyph := " "
			if p, ok := pieces[sq]; ok {
				glyph = pieceGlyph(p)
			}
			if mirror.Has(sq, domain.TagCanMove) {
				glyph += "*"
			} else {
				glyph += " "
			}
			b.WriteString(squareStyle(mirror, sq).Sprint(" " + glyph))
		}
		b.WriteString("\n")
	}
	files := "abcdefgh"
	if side == domain.Black {
		files = "hgfedcba"
	}
	b.WriteString("  ")
	for _, f := range files {
		fmt.Fprintf(&b, " %c ", f)
	}
	b.WriteString("\n")
	b.WriteString(status(mirror, board))
	return b.String()
}

func status(mirror *view.Memory, board domain.BoardSnapshot) string {
	var b strings.Builder
	if text := mirror.FatalError(); text != "" {
		b.WriteString(failure.Sprint("fatal: "+text) + "\n")
		return b.String()
	}
	if text := mirror.Result(); text != "" {
		b.WriteString(notice.Sprint(text) + "\n")
	}
	if mirror.Dimmed() {
		b.WriteString(notice.Sprint("opponent is thinking...") + "\n")
		return b.String()
	}
	if choice := mirror.PendingChoice(); choice != nil {
		letters := make([]string, 0, len(choice.Candidates))
		for _, m := range choice.Candidates {
			letters = append(letters, m.Promotion().Letter())
		}
		fmt.Fprintf(&b, "promote %s-%s to: %s (pick <letter> or cancel)\n",
			choice.Origin, choice.Target, strings.Join(letters, " "))
	}
	moves, controls := mirror.Moves()
	if len(moves) > 0 {
		fmt.Fprintf(&b, "%s to move:", board.Turn)
		for i, m := range moves {
			fmt.Fprintf(&b, " %d.%s", i+1, m)
		}
		b.WriteString("\n")
	}
	var actions []string
	if controls.CanUndo {
		actions = append(actions, "undo")
	}
	if controls.CanAuto {
		actions = append(actions, "auto")
	}
	if len(actions) > 0 {
		fmt.Fprintf(&b, "available: %s\n", strings.Join(actions, ", "))
	}
	return b.String()
}
