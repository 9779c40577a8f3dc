package domain

type EventType byte

const (
	HoverEnter = EventType(iota)
	HoverLeave
	DragStart
	Drop
	DragEnd
	SelectMove
	ChoosePromotion
	CancelPromotion
	Undo
	Auto
)

func (t EventType) String() string {
	switch t {
	case HoverEnter:
		return "hover_enter"
	case HoverLeave:
		return "hover_leave"
	case DragStart:
		return "drag_start"
	case Drop:
		return "drop"
	case DragEnd:
		return "drag_end"
	case SelectMove:
		return "select_move"
	case ChoosePromotion:
		return "choose_promotion"
	case CancelPromotion:
		return "cancel_promotion"
	case Undo:
		return "undo"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Event is an abstract input reported by the view layer.
type Event struct {
	Type   EventType
	Square Square
	Index  int
	Piece  PieceType
}

func (e Event) IsGesture() bool {
	return e.Type <= CancelPromotion
}
