package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kiryu-dev/dragchess/internal/adapters/engine"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/usecase/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, domain.White, cfg.HumanColor())
	assert.Equal(t, "ask", cfg.Game.Promotion)
	assert.Equal(t, "search", cfg.Engine.Kind)
	assert.Equal(t, 3, cfg.Engine.Depth)
	assert.Equal(t, 5*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 400*time.Millisecond, cfg.Animation.Duration)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
server:
  addr: ":9000"
game:
  human_color: black
  start_fen: "7k/4P3/8/8/8/8/8/K7 w - - 0 1"
  promotion: queen
engine:
  kind: uci
  uci_path: /usr/bin/stockfish
  uci_movetime: 150ms
  timeout: 2s
animation:
  duration: 0s
`))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, domain.Black, cfg.HumanColor())
	assert.Equal(t, "queen", cfg.Game.Promotion)
	assert.Equal(t, "uci", cfg.Engine.Kind)
	assert.Equal(t, 150*time.Millisecond, cfg.Engine.UCIMoveTime)
	assert.Equal(t, 2*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 3, cfg.Engine.Depth, "untouched keys keep defaults")
	assert.Zero(t, cfg.Animation.Duration)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{name: "color", yaml: "game: {human_color: green}", err: ErrInvalidColor},
		{name: "promotion", yaml: "game: {promotion: rook}", err: ErrInvalidPromotion},
		{name: "engine kind", yaml: "engine: {kind: oracle}", err: ErrInvalidEngine},
		{name: "depth", yaml: "engine: {depth: 0}", err: ErrInvalidEngine},
		{name: "uci path", yaml: "engine: {kind: uci}", err: ErrInvalidEngine},
		{name: "duration", yaml: "animation: {duration: -1s}", err: ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseAcceptsEveryPolicy(t *testing.T) {
	for _, policy := range []string{interaction.PolicyAsk, interaction.PolicyFirst, interaction.PolicyQueen} {
		cfg, err := Parse(strings.NewReader("game: {promotion: " + policy + "}"))
		require.NoError(t, err, policy)
		_, err = interaction.NewDisambiguator(cfg.Game.Promotion)
		assert.NoError(t, err, policy)
	}

	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	_, _, err = engine.New(engine.Options{Kind: cfg.Engine.Kind, Depth: cfg.Engine.Depth}, zap.NewNop())
	assert.NoError(t, err, "default engine kind is buildable")
}

func TestNewReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  depth: 2\n"), 0o600))

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Engine.Depth)

	_, err = New(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
