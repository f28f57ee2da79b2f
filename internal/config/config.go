// Package config collects the knobs shared by every binary.
//
// Values are resolved in three layers: built-in defaults, then SOLVER_*
// environment variables (a .env file in the working directory is loaded
// first if present), then command-line flags.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SOLVER_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Episodes      int
	MaxSteps      int
	SaveInterval  int
	StepDelay     time.Duration
	TerminalOnCap bool

	LearningRate     float64
	Discount         float64
	Exploration      float64
	ExplorationDecay float64
	ExplorationMin   float64

	Seed   int64 // 0 = 按时间取种子
	Reward string

	HistoryDir string
	RunID      string

	EvalGames    int
	EvalMaxSteps int

	LogLevel string
}

// Defaults: 2000 episodes of at most 25 moves, saving every 100.
func Defaults() Config {
	a := agent.DefaultConfig()
	return Config{
		Episodes:         2000,
		MaxSteps:         25,
		SaveInterval:     100,
		StepDelay:        time.Millisecond,
		LearningRate:     a.LearningRate,
		Discount:         a.DiscountFactor,
		Exploration:      a.ExplorationRate,
		ExplorationDecay: a.ExplorationDecay,
		ExplorationMin:   a.ExplorationMin,
		Reward:           "default",
		HistoryDir:       "history",
		EvalGames:        100,
		EvalMaxSteps:     25,
		LogLevel:         "info",
	}
}

// FromEnv overrides c with any SOLVER_* variable getenv returns.
func FromEnv(c *Config, getenv func(string) string) error {
	var err error
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		v := strings.TrimSpace(getenv(EnvPrefix + name))
		if v == "" || err != nil {
			return
		}
		n, e := strconv.Atoi(v)
		if e != nil {
			err = errors.Wrapf(ErrInvalid, "%s%s=%q", EnvPrefix, name, v)
			return
		}
		*dst = n
	}
	dec := func(name string, dst *float64) {
		v := strings.TrimSpace(getenv(EnvPrefix + name))
		if v == "" || err != nil {
			return
		}
		f, e := strconv.ParseFloat(v, 64)
		if e != nil {
			err = errors.Wrapf(ErrInvalid, "%s%s=%q", EnvPrefix, name, v)
			return
		}
		*dst = f
	}

	num("EPISODES", &c.Episodes)
	num("MAX_STEPS", &c.MaxSteps)
	num("SAVE_INTERVAL", &c.SaveInterval)
	num("EVAL_GAMES", &c.EvalGames)
	num("EVAL_MAX_STEPS", &c.EvalMaxSteps)
	dec("LEARNING_RATE", &c.LearningRate)
	dec("DISCOUNT", &c.Discount)
	dec("EXPLORATION", &c.Exploration)
	dec("EXPLORATION_DECAY", &c.ExplorationDecay)
	dec("EXPLORATION_MIN", &c.ExplorationMin)
	str("REWARD", &c.Reward)
	str("HISTORY_DIR", &c.HistoryDir)
	str("RUN_ID", &c.RunID)
	str("LOG_LEVEL", &c.LogLevel)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(getenv(EnvPrefix + "SEED")); v != "" {
		n, e := strconv.ParseInt(v, 10, 64)
		if e != nil {
			return errors.Wrapf(ErrInvalid, "%sSEED=%q", EnvPrefix, v)
		}
		c.Seed = n
	}
	if v := strings.TrimSpace(getenv(EnvPrefix + "STEP_DELAY")); v != "" {
		d, e := time.ParseDuration(v)
		if e != nil {
			return errors.Wrapf(ErrInvalid, "%sSTEP_DELAY=%q", EnvPrefix, v)
		}
		c.StepDelay = d
	}
	if v := strings.TrimSpace(getenv(EnvPrefix + "TERMINAL_ON_CAP")); v != "" {
		b, e := strconv.ParseBool(v)
		if e != nil {
			return errors.Wrapf(ErrInvalid, "%sTERMINAL_ON_CAP=%q", EnvPrefix, v)
		}
		c.TerminalOnCap = b
	}
	return nil
}

// Bind registers a flag for every field, using the current values as defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Episodes, "episodes", c.Episodes, "训练局数")
	fs.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "每局最多步数")
	fs.IntVar(&c.SaveInterval, "save-interval", c.SaveInterval, "每隔多少局保存 checkpoint 和曲线")
	fs.DurationVar(&c.StepDelay, "step-delay", c.StepDelay, "渲染每步后的等待时间")
	fs.BoolVar(&c.TerminalOnCap, "terminal-on-cap", c.TerminalOnCap, "步数用完时按终局更新")
	fs.Float64Var(&c.LearningRate, "lr", c.LearningRate, "学习率 α")
	fs.Float64Var(&c.Discount, "discount", c.Discount, "折扣因子 γ")
	fs.Float64Var(&c.Exploration, "exploration", c.Exploration, "初始探索率 ε")
	fs.Float64Var(&c.ExplorationDecay, "exploration-decay", c.ExplorationDecay, "每步探索率衰减")
	fs.Float64Var(&c.ExplorationMin, "exploration-min", c.ExplorationMin, "探索率下限")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "随机种子，0 = 按时间")
	fs.StringVar(&c.Reward, "reward", c.Reward, "奖励函数: "+strings.Join(game.RewardNames(), ", "))
	fs.StringVar(&c.HistoryDir, "history", c.HistoryDir, "checkpoint 根目录")
	fs.StringVar(&c.RunID, "run", c.RunID, "运行 ID，留空自动生成")
	fs.IntVar(&c.EvalGames, "eval-games", c.EvalGames, "评估局数")
	fs.IntVar(&c.EvalMaxSteps, "eval-max-steps", c.EvalMaxSteps, "评估每局最多步数")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "日志级别 (debug, info, warn, error)")
}

// Load resolves defaults, .env, environment and args. Callers may register
// their own flags on fs beforehand. A missing run id gets a fresh uuid.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	_ = godotenv.Load()
	c := Defaults()
	if err := FromEnv(&c, os.Getenv); err != nil {
		return c, err
	}
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c, c.Validate()
}

// Validate checks the fields the trainer and agent depend on.
func (c Config) Validate() error {
	if err := c.Agent().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case c.Episodes <= 0:
		return errors.Wrapf(ErrInvalid, "episodes=%d", c.Episodes)
	case c.MaxSteps <= 0:
		return errors.Wrapf(ErrInvalid, "max-steps=%d", c.MaxSteps)
	case c.SaveInterval < 0:
		return errors.Wrapf(ErrInvalid, "save-interval=%d", c.SaveInterval)
	case c.EvalGames <= 0:
		return errors.Wrapf(ErrInvalid, "eval-games=%d", c.EvalGames)
	case c.EvalMaxSteps <= 0:
		return errors.Wrapf(ErrInvalid, "eval-max-steps=%d", c.EvalMaxSteps)
	case c.StepDelay < 0:
		return errors.Wrapf(ErrInvalid, "step-delay=%v", c.StepDelay)
	case c.HistoryDir == "":
		return errors.Wrap(ErrInvalid, "empty history dir")
	}
	if _, err := game.RewardByName(c.Reward); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalid, "log-level=%q", c.LogLevel)
	}
	return nil
}

// Agent returns the learner hyper-parameters.
func (c Config) Agent() agent.Config {
	return agent.Config{
		LearningRate:     c.LearningRate,
		DiscountFactor:   c.Discount,
		ExplorationRate:  c.Exploration,
		ExplorationDecay: c.ExplorationDecay,
		ExplorationMin:   c.ExplorationMin,
	}
}

// Train returns the training-loop settings.
func (c Config) Train() train.Config {
	return train.Config{
		Episodes:      c.Episodes,
		MaxSteps:      c.MaxSteps,
		SaveInterval:  c.SaveInterval,
		StepDelay:     c.StepDelay,
		TerminalOnCap: c.TerminalOnCap,
	}
}

// RewardFunc resolves the configured reward preset.
func (c Config) RewardFunc() (game.RewardFunc, error) {
	return game.RewardByName(c.Reward)
}

// RunDir is where this run's checkpoints and charts live.
func (c Config) RunDir() string {
	return filepath.Join(c.HistoryDir, c.RunID)
}

// Logger builds a console logger at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Str("run", c.RunID).Logger()
}
