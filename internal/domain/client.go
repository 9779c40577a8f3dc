package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrEmptyMessage     = errors.New("empty message")
	ErrMalformedMessage = errors.New("malformed message")
)

// ClientUuidHeader lets a client name itself across reconnects.
const ClientUuidHeader = "X-Client-Uuid"

type MessageType string

// server -> client
const (
	BoardMessage   = MessageType("board")
	MarkMessage    = MessageType("mark")
	ClearMessage   = MessageType("clear")
	MovesMessage   = MessageType("moves")
	DimMessage     = MessageType("dim")
	AnimateMessage = MessageType("animate")
	ChoiceMessage  = MessageType("choice")
	DismissMessage = MessageType("dismiss_choice")
	ResultMessage  = MessageType("result")
	FatalMessage   = MessageType("fatal")
)

// client -> server, named after the event they carry
var eventMessages = map[MessageType]EventType{
	MessageType(HoverEnter.String()):      HoverEnter,
	MessageType(HoverLeave.String()):      HoverLeave,
	MessageType(DragStart.String()):       DragStart,
	MessageType(Drop.String()):            Drop,
	MessageType(DragEnd.String()):         DragEnd,
	MessageType(SelectMove.String()):      SelectMove,
	MessageType(ChoosePromotion.String()): ChoosePromotion,
	MessageType(CancelPromotion.String()): CancelPromotion,
	MessageType(Undo.String()):            Undo,
	MessageType(Auto.String()):            Auto,
}

func EventTypeOf(t MessageType) (EventType, bool) {
	e, ok := eventMessages[t]
	return e, ok
}

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type PieceView struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
	Color  string `json:"color"`
}

type MoveView struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Kind      string `json:"kind"`
	Promotion string `json:"promotion,omitempty"`
	Capture   bool   `json:"capture,omitempty"`
	Notation  string `json:"notation"`
}

func NewMoveView(m Move) MoveView {
	return MoveView{
		From:      m.From().String(),
		To:        m.To().String(),
		Kind:      m.Kind().String(),
		Promotion: m.Promotion().Letter(),
		Capture:   m.IsCapture(),
		Notation:  m.String(),
	}
}

func (v MoveView) Move() (Move, error) {
	from, err := ParseSquare(v.From)
	if err != nil {
		return Move{}, errors.WithMessage(err, "parse origin")
	}
	to, err := ParseSquare(v.To)
	if err != nil {
		return Move{}, errors.WithMessage(err, "parse destination")
	}
	kind, err := ParseMoveKind(v.Kind)
	if err != nil {
		return Move{}, err
	}
	promotion := NoPieceType
	if v.Promotion != "" {
		if promotion, err = ParsePieceType(v.Promotion); err != nil {
			return Move{}, err
		}
	}
	return NewMove(from, to, kind, promotion, v.Capture), nil
}

type BoardPayload struct {
	Pieces   []PieceView `json:"pieces"`
	Turn     string      `json:"turn"`
	LastMove *MoveView   `json:"lastMove,omitempty"`
}

type MarkPayload struct {
	Square string `json:"square"`
	Tags   []Tag  `json:"tags"`
}

type ClearPayload struct {
	Tags []Tag `json:"tags"`
}

type MovesPayload struct {
	Moves   []MoveView `json:"moves"`
	CanUndo bool       `json:"canUndo"`
	CanAuto bool       `json:"canAuto"`
}

type DimPayload struct {
	On bool `json:"on"`
}

type AnimatePayload struct {
	Move       MoveView `json:"move"`
	DX         int      `json:"dx"`
	DY         int      `json:"dy"`
	DurationMs int64    `json:"durationMs"`
}

type ChoicePayload struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Candidates []MoveView `json:"candidates"`
}

type TextPayload struct {
	Text string `json:"text"`
}

// GesturePayload carries every client -> server event; unused fields stay empty.
type GesturePayload struct {
	Square string `json:"square,omitempty"`
	Index  int    `json:"index,omitempty"`
	Piece  string `json:"piece,omitempty"`
}

type Client interface {
	WriteMessage(msg Message) error
	ReadMessage() (Message, error)
	Uuid() string
	Close()
}
