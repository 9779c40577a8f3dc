package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiryu-dev/dragchess/internal/adapters/engine"
	"github.com/kiryu-dev/dragchess/internal/adapters/position"
	"github.com/kiryu-dev/dragchess/internal/config"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/transport/ws"
	"github.com/kiryu-dev/dragchess/internal/usecase/hub"
	"github.com/kiryu-dev/dragchess/internal/usecase/interaction"
	"github.com/kiryu-dev/dragchess/internal/usecase/sequencer"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	cfgPath := flag.String("config", "./config.yml", "path to config")
	flag.Parse()
	cfg, err := config.New(*cfgPath)
	if err != nil {
		logger.Fatal(err.Error())
	}
	opponent, closer, err := engine.New(engine.Options{
		Kind:     cfg.Engine.Kind,
		Depth:    cfg.Engine.Depth,
		UCIPath:  cfg.Engine.UCIPath,
		MoveTime: cfg.Engine.UCIMoveTime,
	}, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}
	defer func() {
		_ = closer.Close()
	}()
	disambiguator, err := interaction.NewDisambiguator(cfg.Game.Promotion)
	if err != nil {
		logger.Fatal(err.Error())
	}
	newPosition := func() (domain.PositionModel, error) {
		return position.New(cfg.Game.StartFEN)
	}
	if _, err := newPosition(); err != nil {
		logger.Fatal("invalid start position: " + err.Error())
	}
	var (
		hub = hub.New(newPosition, opponent, disambiguator, sequencer.Options{
			Human:             cfg.HumanColor(),
			AnimationDuration: cfg.Animation.Duration,
			SearchTimeout:     cfg.Engine.Timeout,
		}, logger)
		server = ws.New(cfg.Server.Addr, hub, logger)
	)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	errGroup, ctx := errgroup.WithContext(context.Background())
	errGroup.Go(func() error {
		select {
		case s := <-sigChan:
			return errors.Errorf("captured signal: %v", s)
		case <-ctx.Done():
			return nil
		}
	})
	errGroup.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	errGroup.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Info("failed to shutdown http server: " + err.Error())
		}
		return nil
	})
	if err := errGroup.Wait(); err != nil {
		logger.Info("gracefully shutting down the server: " + err.Error())
	}
}
