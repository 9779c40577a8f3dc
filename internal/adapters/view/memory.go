package view

import (
	"sort"
	"sync"
	"time"

	"github.com/kiryu-dev/dragchess/internal/domain"
)

type Animation struct {
	Move     domain.Move
	Offset   domain.Offset
	Duration time.Duration
}

type Choice struct {
	Origin     domain.Square
	Target     domain.Square
	Candidates []domain.Move
}

// Memory keeps the state a renderer would show: board, per-square tags,
// listed moves and overlays. It is safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	board     domain.BoardSnapshot
	tags      map[domain.Square]map[domain.Tag]struct{}
	moves     []domain.Move
	controls  domain.Controls
	dimmed    bool
	animation *Animation
	choice    *Choice
	result    string
	fatal     string
	renders   int
}

func NewMemory() *Memory {
	return &Memory{tags: make(map[domain.Square]map[domain.Tag]struct{})}
}

func (m *Memory) Render(board domain.BoardSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = board
	m.animation = nil
	m.renders++
}

func (m *Memory) Mark(sq domain.Square, tags ...domain.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.tags[sq]
	if !ok {
		set = make(map[domain.Tag]struct{})
		m.tags[sq] = set
	}
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
}

func (m *Memory) Clear(tags ...domain.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sq, set := range m.tags {
		for _, tag := range tags {
			delete(set, tag)
		}
		if len(set) == 0 {
			delete(m.tags, sq)
		}
	}
}

func (m *Memory) ShowMoves(moves []domain.Move, controls domain.Controls) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = moves
	m.controls = controls
	m.choice = nil
	if len(moves) > 0 {
		m.result = ""
	}
}

func (m *Memory) Dim(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimmed = on
	if on {
		m.moves = nil
		m.controls = domain.Controls{}
	}
}

func (m *Memory) Animate(move domain.Move, offset domain.Offset, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animation = &Animation{Move: move, Offset: offset, Duration: duration}
}

func (m *Memory) RequestChoice(origin, target domain.Square, candidates []domain.Move) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.choice = &Choice{Origin: origin, Target: target, Candidates: candidates}
}

func (m *Memory) DismissChoice() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.choice = nil
}

func (m *Memory) ShowResult(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = text
}

func (m *Memory) Fatal(diagnostic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fatal = diagnostic
}

func (m *Memory) Board() domain.BoardSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board
}

func (m *Memory) Has(sq domain.Square, tag domain.Tag) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tags[sq][tag]
	return ok
}

func (m *Memory) Tags(sq domain.Square) []domain.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := make([]domain.Tag, 0, len(m.tags[sq]))
	for tag := range m.tags[sq] {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Tagged lists the squares carrying tag in index order.
func (m *Memory) Tagged(tag domain.Tag) []domain.Square {
	m.mu.Lock()
	defer m.mu.Unlock()
	var squares []domain.Square
	for sq, set := range m.tags {
		if _, ok := set[tag]; ok {
			squares = append(squares, sq)
		}
	}
	sort.Slice(squares, func(i, j int) bool { return squares[i] < squares[j] })
	return squares
}

func (m *Memory) Moves() ([]domain.Move, domain.Controls) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moves, m.controls
}

func (m *Memory) Dimmed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dimmed
}

func (m *Memory) LastAnimation() *Animation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.animation
}

func (m *Memory) PendingChoice() *Choice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.choice
}

func (m *Memory) Result() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

func (m *Memory) FatalError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fatal
}

func (m *Memory) Renders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renders
}
