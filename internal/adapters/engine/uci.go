package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kiryu-dev/dragchess/internal/adapters/position"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrUnexpectedReply = errors.New("unexpected uci reply")

const stopGrace = 2 * time.Second

// uci drives an external engine process (stockfish and friends) over stdin/stdout.
// One search runs at a time; sessions queue on the mutex.
type uci struct {
	mu sync.Mutex
	// stale is set when a stopped search's bestmove has not been read yet.
	stale    bool
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	lines    chan string
	moveTime time.Duration
	logger   *zap.Logger
}

func NewUCI(path string, moveTime time.Duration, logger *zap.Logger) (*uci, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.WithMessage(err, "open engine stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.WithMessage(err, "open engine stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.WithMessagef(err, "start engine '%s'", path)
	}
	e := &uci{
		cmd:      cmd,
		stdin:    stdin,
		lines:    make(chan string),
		moveTime: moveTime,
		logger:   logger,
	}
	go e.readLines(stdout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.handshake(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

func (e *uci) readLines(r io.Reader) {
	defer close(e.lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		e.lines <- scanner.Text()
	}
}

func (e *uci) handshake(ctx context.Context) error {
	if err := e.send("uci"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, "uciok"); err != nil {
		return errors.WithMessage(err, "wait for uciok")
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, "readyok"); err != nil {
		return errors.WithMessage(err, "wait for readyok")
	}
	return nil
}

func (e *uci) send(command string) error {
	if _, err := fmt.Fprintln(e.stdin, command); err != nil {
		return errors.WithMessagef(err, "send '%s'", command)
	}
	return nil
}

func (e *uci) waitFor(ctx context.Context, prefix string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, ok := <-e.lines:
			if !ok {
				return "", errors.WithMessage(domain.ErrConnectionClosed, "engine exited")
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		}
	}
}

func (e *uci) Search(ctx context.Context, fen domain.FEN) (domain.Move, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sync(ctx); err != nil {
		return domain.Move{}, false, err
	}
	if err := e.send("position fen " + string(fen)); err != nil {
		return domain.Move{}, false, err
	}
	if err := e.send(fmt.Sprintf("go movetime %d", e.moveTime.Milliseconds())); err != nil {
		return domain.Move{}, false, err
	}
	line, err := e.waitFor(ctx, "bestmove")
	if err != nil {
		e.stop()
		return domain.Move{}, false, errors.WithMessage(err, "wait for bestmove")
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return domain.Move{}, false, errors.WithMessagef(ErrUnexpectedReply, "'%s'", line)
	}
	if fields[1] == "(none)" || fields[1] == "0000" {
		return domain.Move{}, false, nil
	}
	return decodeUCI(fen, fields[1])
}

// sync consumes the answer of an earlier stopped search and waits until the
// engine is idle, so the next bestmove belongs to the next position.
func (e *uci) sync(ctx context.Context) error {
	if e.stale {
		if _, err := e.waitFor(ctx, "bestmove"); err != nil {
			return errors.WithMessage(err, "drain stopped search")
		}
		e.stale = false
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, "readyok"); err != nil {
		return errors.WithMessage(err, "wait for readyok")
	}
	return nil
}

// stop interrupts the running search and reads its bestmove away.
func (e *uci) stop() {
	if err := e.send("stop"); err != nil {
		e.logger.Warn("stop engine search", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopGrace)
	defer cancel()
	if _, err := e.waitFor(ctx, "bestmove"); err != nil {
		e.logger.Warn("engine did not answer stop", zap.Error(err))
		e.stale = true
	}
}

func decodeUCI(fen domain.FEN, notation string) (domain.Move, bool, error) {
	opt, err := chess.FEN(string(fen))
	if err != nil {
		return domain.Move{}, false, errors.WithMessage(err, "decode position")
	}
	pos := chess.NewGame(opt).Position()
	decoded, err := chess.UCINotation{}.Decode(pos, notation)
	if err != nil {
		return domain.Move{}, false, errors.WithMessagef(ErrUnexpectedReply, "decode engine move '%s': %v", notation, err)
	}
	// the generated move carries the castle and en passant tags
	for _, mv := range pos.ValidMoves() {
		if mv.S1() == decoded.S1() && mv.S2() == decoded.S2() && mv.Promo() == decoded.Promo() {
			return position.ToDomain(pos, mv), true, nil
		}
	}
	return domain.Move{}, false, errors.WithMessagef(ErrUnexpectedReply, "illegal engine move '%s' in '%s'", notation, fen)
}

func (e *uci) Close() error {
	_ = e.send("quit")
	_ = e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		e.logger.Debug("engine process exited", zap.Error(err))
	}
	return nil
}
