package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kiryu-dev/dragchess/internal/adapters/view"
	"github.com/kiryu-dev/dragchess/internal/adapters/webapi"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	addr := flag.String("addr", "localhost:8080", "game server host:port")
	sideFlag := flag.String("side", "white", "draw the board from this side")
	flag.Parse()
	side, err := domain.ParseColor(*sideFlag)
	if err != nil {
		logger.Fatal(err.Error())
	}

	health, err := webapi.New().HealthCheck(context.Background(), "http://"+*addr)
	if err != nil {
		logger.Fatal("server is not healthy: " + err.Error())
	}
	logger.Info("connected to server", zap.Int64("sessions", health.Sessions))

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/game"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), http.Header{
		domain.ClientUuidHeader: {uuid.NewString()},
	})
	if err != nil {
		logger.Fatal("dial: " + err.Error())
	}
	defer func() {
		_ = conn.Close()
	}()
	c := newClient(conn, side, logger)
	go c.readCommands(os.Stdin)
	if err := c.handleMessages(); err != nil && !errors.Is(err, errQuit) {
		logger.Fatal(err.Error())
	}
}

type client struct {
	conn   *websocket.Conn
	mirror *view.Memory
	side   domain.Color
	quit   chan error
	logger *zap.Logger
}

func newClient(conn *websocket.Conn, side domain.Color, logger *zap.Logger) *client {
	return &client{
		conn:   conn,
		mirror: view.NewMemory(),
		side:   side,
		quit:   make(chan error, 1),
		logger: logger,
	}
}

// handleMessages mirrors the server's view and redraws once a batch settles.
func (c *client) handleMessages() error {
	incoming := make(chan domain.Message)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg domain.Message
			if err := c.conn.ReadJSON(&msg); err != nil {
				readErr <- errors.WithMessage(err, "read json msg")
				return
			}
			incoming <- msg
		}
	}()
	for {
		select {
		case err := <-c.quit:
			return err
		case err := <-readErr:
			return err
		case msg := <-incoming:
			if err := view.Apply(msg, c.mirror); err != nil {
				c.logger.Warn("skip server message", zap.Error(err))
				continue
			}
			switch msg.Type {
			case domain.MovesMessage, domain.DimMessage, domain.ChoiceMessage, domain.ResultMessage,
				domain.FatalMessage, domain.AnimateMessage, domain.DismissMessage:
				c.draw()
			}
		}
	}
}

func (c *client) draw() {
	fmt.Print("\033[H\033[J")
	fmt.Print(render(c.mirror, c.side))
	fmt.Print("> ")
}

func (c *client) readCommands(in *os.File) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		events, err := parseCommand(scanner.Text())
		switch {
		case errors.Is(err, errQuit):
			c.quit <- errQuit
			return
		case err != nil:
			fmt.Println(err.Error())
			fmt.Println(usage)
			continue
		}
		for _, ev := range events {
			if err := c.conn.WriteJSON(view.EncodeEvent(ev)); err != nil {
				c.quit <- errors.WithMessage(err, "write json msg")
				return
			}
		}
	}
	c.quit <- errQuit
}
