package ws

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/pkg/errors"
)

// client serializes writes; gorilla allows one concurrent writer per conn.
type client struct {
	conn *websocket.Conn
	uuid string
	mu   *sync.Mutex
}

func newClient(conn *websocket.Conn, uuid string) client {
	return client{
		conn: conn,
		uuid: uuid,
		mu:   &sync.Mutex{},
	}
}

func (c client) WriteMessage(msg domain.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return errors.WithMessage(closedOr(err), "websocket conn next writer")
	}
	if err := jsoniter.NewEncoder(w).Encode(msg); err != nil {
		_ = w.Close()
		return errors.WithMessage(err, "websocket conn write json")
	}
	if err := w.Close(); err != nil {
		return errors.WithMessage(closedOr(err), "websocket conn flush frame")
	}
	return nil
}

func (c client) ReadMessage() (domain.Message, error) {
	_, r, err := c.conn.NextReader()
	if err != nil {
		return domain.Message{}, errors.WithMessage(closedOr(err), "websocket conn next reader")
	}
	var msg domain.Message
	if err := jsoniter.NewDecoder(r).Decode(&msg); err != nil {
		return domain.Message{}, errors.WithMessagef(domain.ErrMalformedMessage, "websocket conn read json: %v", err)
	}
	if msg.Type == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	return msg, nil
}

func (c client) Uuid() string {
	return c.uuid
}

func (c client) Close() {
	_ = c.conn.Close()
}

func closedOr(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) || errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return domain.ErrConnectionClosed
	}
	return err
}
