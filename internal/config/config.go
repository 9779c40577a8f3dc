package config

import (
	"io"
	"os"
	"time"

	"github.com/kiryu-dev/dragchess/internal/adapters/engine"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/kiryu-dev/dragchess/internal/usecase/interaction"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidColor     = errors.New("invalid human color")
	ErrInvalidPromotion = errors.New("invalid promotion policy")
	ErrInvalidEngine    = errors.New("invalid engine settings")
	ErrInvalidDuration  = errors.New("negative duration")
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type GameConfig struct {
	HumanColor string `yaml:"human_color"`
	StartFEN   string `yaml:"start_fen"`
	Promotion  string `yaml:"promotion"`
}

type EngineConfig struct {
	Kind        string        `yaml:"kind"`
	Depth       int           `yaml:"depth"`
	Timeout     time.Duration `yaml:"timeout"`
	UCIPath     string        `yaml:"uci_path"`
	UCIMoveTime time.Duration `yaml:"uci_movetime"`
}

type AnimationConfig struct {
	Duration time.Duration `yaml:"duration"`
}

type config struct {
	Server    ServerConfig    `yaml:"server"`
	Game      GameConfig      `yaml:"game"`
	Engine    EngineConfig    `yaml:"engine"`
	Animation AnimationConfig `yaml:"animation"`
}

func defaults() config {
	return config{
		Server: ServerConfig{Addr: ":8080"},
		Game: GameConfig{
			HumanColor: "white",
			Promotion:  interaction.PolicyAsk,
		},
		Engine: EngineConfig{
			Kind:        engine.KindSearch,
			Depth:       3,
			Timeout:     5 * time.Second,
			UCIMoveTime: 300 * time.Millisecond,
		},
		Animation: AnimationConfig{Duration: 400 * time.Millisecond},
	}
}

func New(cfgPath string) (config, error) {
	file, err := os.Open(cfgPath)
	if err != nil {
		return config{}, err
	}
	defer func() {
		_ = file.Close()
	}()
	return Parse(file)
}

// Parse reads YAML over the defaults, so every key is optional.
func Parse(r io.Reader) (config, error) {
	cfg := defaults()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return config{}, errors.WithMessage(err, "decode yaml")
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if _, err := domain.ParseColor(c.Game.HumanColor); err != nil {
		return errors.WithMessagef(ErrInvalidColor, "'%s'", c.Game.HumanColor)
	}
	if _, err := interaction.NewDisambiguator(c.Game.Promotion); err != nil {
		return errors.WithMessagef(ErrInvalidPromotion, "%v", err)
	}
	switch c.Engine.Kind {
	case engine.KindSearch:
		if c.Engine.Depth < 1 {
			return errors.WithMessagef(ErrInvalidEngine, "depth %d", c.Engine.Depth)
		}
	case engine.KindUCI:
		if c.Engine.UCIPath == "" {
			return errors.WithMessage(ErrInvalidEngine, "uci engine needs uci_path")
		}
	default:
		return errors.WithMessagef(ErrInvalidEngine, "kind '%s'", c.Engine.Kind)
	}
	for name, d := range map[string]time.Duration{
		"engine.timeout":      c.Engine.Timeout,
		"engine.uci_movetime": c.Engine.UCIMoveTime,
		"animation.duration":  c.Animation.Duration,
	} {
		if d < 0 {
			return errors.WithMessagef(ErrInvalidDuration, "%s = %s", name, d)
		}
	}
	return nil
}

func (c config) HumanColor() domain.Color {
	color, _ := domain.ParseColor(c.Game.HumanColor)
	return color
}
