package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/katalvlaran/tspforge/engine"
	"github.com/katalvlaran/tspforge/memopt"
	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TSPFORGE"

// ErrInvalid reports a configuration value outside its domain.
var ErrInvalid = errors.New("config: invalid value")

// Config is the complete file/env configuration.
type Config struct {
	Solver     Solver     `mapstructure:"solver"`
	Selector   Selector   `mapstructure:"selector"`
	Partition  Partition  `mapstructure:"partition"`
	Memory     Memory     `mapstructure:"memory"`
	Engine     Engine     `mapstructure:"engine"`
	TimeLimits TimeLimits `mapstructure:"time_limits"`
	Log        Log        `mapstructure:"log"`
}

// Solver mirrors the tunable fields of tsp.Options.
type Solver struct {
	Seed              int64     `mapstructure:"seed"`
	QualityTarget     float64   `mapstructure:"quality_target"`
	Eps               float64   `mapstructure:"eps"`
	ExactMaxSize      int       `mapstructure:"exact_max_size"`
	BeamWidth         int       `mapstructure:"beam_width"`
	BeamMinWidth      int       `mapstructure:"beam_min_width"`
	BeamMaxWidth      int       `mapstructure:"beam_max_width"`
	BeamMaxIterations int       `mapstructure:"beam_max_iterations"`
	Lookahead         int       `mapstructure:"lookahead"`
	LookaheadDiscount float64   `mapstructure:"lookahead_discount"`
	ThreeOptMaxSize   int       `mapstructure:"three_opt_max_size"`
	LocalSearchRounds int       `mapstructure:"local_search_rounds"`
	SmallInstance     int       `mapstructure:"small_instance"`
	Alphas            []float64 `mapstructure:"alphas"`
	Anneal            Anneal    `mapstructure:"anneal"`
}

// Anneal is the annealing schedule.
type Anneal struct {
	InitialTemp   float64 `mapstructure:"initial_temp"`
	Cooling       float64 `mapstructure:"cooling"`
	MinTemp       float64 `mapstructure:"min_temp"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// Selector holds the decision thresholds of tsp.Selector.
type Selector struct {
	ExactThreshold    int           `mapstructure:"exact_threshold"`
	MediumThreshold   int           `mapstructure:"medium_threshold"`
	ExactMinTime      time.Duration `mapstructure:"exact_min_time"`
	BeamMinTime       time.Duration `mapstructure:"beam_min_time"`
	BeamTimeShare     float64       `mapstructure:"beam_time_share"`
	HighLoadThreshold float64       `mapstructure:"high_load_threshold"`
}

// Partition mirrors partition.Options (the seed comes from Solver.Seed).
type Partition struct {
	Strategy         string  `mapstructure:"strategy"`
	MaxSize          int     `mapstructure:"max_size"`
	Overlap          float64 `mapstructure:"overlap"`
	KMeansIterations int     `mapstructure:"kmeans_iterations"`
	Landmarks        int     `mapstructure:"landmarks"`
}

// Memory mirrors memopt.Config in MiB.
type Memory struct {
	ThresholdMB int64  `mapstructure:"threshold_mb"`
	BudgetMB    int64  `mapstructure:"budget_mb"`
	DisableMmap bool   `mapstructure:"disable_mmap"`
	Dir         string `mapstructure:"dir"`
}

// Engine holds the engine-level switches.
type Engine struct {
	Workers        int    `mapstructure:"workers"`
	DirectCeiling  int    `mapstructure:"direct_ceiling"`
	ComputeBound   bool   `mapstructure:"compute_bound"`
	PolishMerged   bool   `mapstructure:"polish_merged"`
	CheckpointPath string `mapstructure:"checkpoint_path"`
}

// TimeLimits are the default budgets per size class, used when a caller
// gives no explicit budget.
type TimeLimits struct {
	SmallMax  int           `mapstructure:"small_max"`
	MediumMax int           `mapstructure:"medium_max"`
	Small     time.Duration `mapstructure:"small"`
	Medium    time.Duration `mapstructure:"medium"`
	Large     time.Duration `mapstructure:"large"`
}

// For returns the budget of the size class of n.
func (t TimeLimits) For(n int) time.Duration {
	switch {
	case n <= t.SmallMax:
		return t.Small
	case n <= t.MediumMax:
		return t.Medium
	}

	return t.Large
}

// Log selects the logrus level and formatter.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// setDefaults registers every key, which also lets AutomaticEnv see them
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	opts := tsp.DefaultOptions()
	sel := opts.Selector
	part := partition.DefaultOptions()
	eng := engine.DefaultConfig()

	v.SetDefault("solver.seed", int64(42))
	v.SetDefault("solver.quality_target", 0.0)
	v.SetDefault("solver.eps", opts.Eps)
	v.SetDefault("solver.exact_max_size", opts.ExactMaxSize)
	v.SetDefault("solver.beam_width", opts.BeamWidth)
	v.SetDefault("solver.beam_min_width", opts.BeamMinWidth)
	v.SetDefault("solver.beam_max_width", opts.BeamMaxWidth)
	v.SetDefault("solver.beam_max_iterations", opts.BeamMaxIterations)
	v.SetDefault("solver.lookahead", opts.Lookahead)
	v.SetDefault("solver.lookahead_discount", opts.LookaheadDiscount)
	v.SetDefault("solver.three_opt_max_size", opts.ThreeOptMaxSize)
	v.SetDefault("solver.local_search_rounds", opts.LocalSearchRounds)
	v.SetDefault("solver.small_instance", opts.SmallInstance)
	v.SetDefault("solver.alphas", opts.Alphas)
	v.SetDefault("solver.anneal.initial_temp", opts.AnnealInitialTemp)
	v.SetDefault("solver.anneal.cooling", opts.AnnealCooling)
	v.SetDefault("solver.anneal.min_temp", opts.AnnealMinTemp)
	v.SetDefault("solver.anneal.max_iterations", opts.AnnealMaxIterations)

	v.SetDefault("selector.exact_threshold", sel.ExactThreshold)
	v.SetDefault("selector.medium_threshold", sel.MediumThreshold)
	v.SetDefault("selector.exact_min_time", sel.ExactMinTime)
	v.SetDefault("selector.beam_min_time", sel.BeamMinTime)
	v.SetDefault("selector.beam_time_share", sel.BeamTimeShare)
	v.SetDefault("selector.high_load_threshold", sel.HighLoadThreshold)

	v.SetDefault("partition.strategy", string(part.Strategy))
	v.SetDefault("partition.max_size", part.MaxSize)
	v.SetDefault("partition.overlap", part.Overlap)
	v.SetDefault("partition.kmeans_iterations", part.KMeansIterations)
	v.SetDefault("partition.landmarks", part.Landmarks)

	v.SetDefault("memory.threshold_mb", memopt.DefaultThresholdBytes>>20)
	v.SetDefault("memory.budget_mb", memopt.DefaultBudgetBytes>>20)
	v.SetDefault("memory.disable_mmap", false)
	v.SetDefault("memory.dir", "")

	v.SetDefault("engine.workers", eng.Workers)
	v.SetDefault("engine.direct_ceiling", eng.DirectCeiling)
	v.SetDefault("engine.compute_bound", eng.ComputeBound)
	v.SetDefault("engine.polish_merged", eng.PolishMerged)
	v.SetDefault("engine.checkpoint_path", "")

	v.SetDefault("time_limits.small_max", 20)
	v.SetDefault("time_limits.medium_max", 100)
	v.SetDefault("time_limits.small", time.Second)
	v.SetDefault("time_limits.medium", 5*time.Second)
	v.SetDefault("time_limits.large", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults are static and valid.
		panic(err)
	}

	return cfg
}

// Load reads path (YAML; "" skips the file), applies TSPFORGE_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields that have no downstream validator and then
// the converted engine configuration.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level=%q", ErrInvalid, c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format=%q", ErrInvalid, c.Log.Format)
	}
	if c.Memory.ThresholdMB < 0 || c.Memory.BudgetMB < 0 {
		return fmt.Errorf("%w: memory=%+v", ErrInvalid, c.Memory)
	}
	t := c.TimeLimits
	if t.SmallMax < 1 || t.MediumMax < t.SmallMax || t.Small <= 0 || t.Medium <= 0 || t.Large <= 0 {
		return fmt.Errorf("%w: time_limits=%+v", ErrInvalid, t)
	}
	eng, err := c.EngineConfig()
	if err != nil {
		return err
	}

	return eng.Validate()
}

// SolverOptions converts the solver and selector sections.
func (c *Config) SolverOptions() tsp.Options {
	opts := tsp.DefaultOptions()
	s := c.Solver
	opts.Seed = s.Seed
	opts.QualityTarget = s.QualityTarget
	opts.Eps = s.Eps
	opts.ExactMaxSize = s.ExactMaxSize
	opts.BeamWidth = s.BeamWidth
	opts.BeamMinWidth = s.BeamMinWidth
	opts.BeamMaxWidth = s.BeamMaxWidth
	opts.BeamMaxIterations = s.BeamMaxIterations
	opts.Lookahead = s.Lookahead
	opts.LookaheadDiscount = s.LookaheadDiscount
	opts.ThreeOptMaxSize = s.ThreeOptMaxSize
	opts.LocalSearchRounds = s.LocalSearchRounds
	opts.SmallInstance = s.SmallInstance
	opts.Alphas = append([]float64(nil), s.Alphas...)
	opts.AnnealInitialTemp = s.Anneal.InitialTemp
	opts.AnnealCooling = s.Anneal.Cooling
	opts.AnnealMinTemp = s.Anneal.MinTemp
	opts.AnnealMaxIterations = s.Anneal.MaxIterations

	sel := &opts.Selector
	sel.ExactThreshold = c.Selector.ExactThreshold
	sel.MediumThreshold = c.Selector.MediumThreshold
	sel.ExactMinTime = c.Selector.ExactMinTime
	sel.BeamMinTime = c.Selector.BeamMinTime
	sel.BeamTimeShare = c.Selector.BeamTimeShare
	sel.HighLoadThreshold = c.Selector.HighLoadThreshold

	return opts
}

// PartitionOptions converts the partition section.
func (c *Config) PartitionOptions() (partition.Options, error) {
	st, err := partition.ParseStrategy(c.Partition.Strategy)
	if err != nil {
		return partition.Options{}, err
	}

	return partition.Options{
		Strategy:         st,
		MaxSize:          c.Partition.MaxSize,
		Overlap:          c.Partition.Overlap,
		Seed:             c.Solver.Seed,
		KMeansIterations: c.Partition.KMeansIterations,
		Landmarks:        c.Partition.Landmarks,
	}, nil
}

// MemoryConfig converts the memory section.
func (c *Config) MemoryConfig(log logrus.FieldLogger) memopt.Config {
	return memopt.Config{
		ThresholdBytes: c.Memory.ThresholdMB << 20,
		BudgetBytes:    c.Memory.BudgetMB << 20,
		DisableMmap:    c.Memory.DisableMmap,
		Dir:            c.Memory.Dir,
		Logger:         log,
	}
}

// EngineConfig assembles an engine.Config.
func (c *Config) EngineConfig() (engine.Config, error) {
	popts, err := c.PartitionOptions()
	if err != nil {
		return engine.Config{}, err
	}
	eng := engine.DefaultConfig()
	eng.Solver = c.SolverOptions()
	eng.Partition = popts
	eng.Memory = c.MemoryConfig(nil)
	eng.Workers = c.Engine.Workers
	eng.DirectCeiling = c.Engine.DirectCeiling
	eng.ComputeBound = c.Engine.ComputeBound
	eng.PolishMerged = c.Engine.PolishMerged
	eng.CheckpointPath = c.Engine.CheckpointPath

	return eng, nil
}

// ApplyLogging configures logger from the log section.
func (c *Config) ApplyLogging(logger *logrus.Logger) error {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: log.level=%q", ErrInvalid, c.Log.Level)
	}
	logger.SetLevel(lvl)
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}
