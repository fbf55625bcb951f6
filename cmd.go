package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/agent/esarsa"
	"github.com/samuelfneumann/rlcore/agent/policy"
	"github.com/samuelfneumann/rlcore/agent/qlearning"
	"github.com/samuelfneumann/rlcore/config"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/environment/envconfig"
	"github.com/samuelfneumann/rlcore/environment/linewalk"
	"github.com/samuelfneumann/rlcore/experiment"
	"github.com/samuelfneumann/rlcore/experiment/checkpointer"
	"github.com/samuelfneumann/rlcore/experiment/tracker"
	"github.com/samuelfneumann/rlcore/expreplay"
	"github.com/samuelfneumann/rlcore/utils/progressbar"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var (
	seed       uint64
	configPath string
	logLevel   string

	steps    uint64
	progress bool

	horizon int
	colors  bool

	plotOut string
	window  int
)

// envFiles are the .env files searched for RLCORE_* overrides, the
// first one found is loaded
var envFiles = []string{".env", "../.env"}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "rlcore",
		Short:        "Run, roll out and plot line walk experiments",
		SilenceUsage: true,
	}
	root.PersistentFlags().Uint64Var(&seed, "seed", 0,
		"Seed for all randomness, 0 keeps the configured seed")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"JSON experiment configuration, defaults are used if empty")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"One of debug, info, warn, error")

	root.AddCommand(runCommand())
	root.AddCommand(rolloutCommand())
	root.AddCommand(plotCommand())
	return root
}

// newLogger returns a logfmt logger writing to w which only lets
// through messages at or above lvl
func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var allow level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, fmt.Errorf("no such log level %q", lvl)
	}
	return level.NewFilter(logger, allow), nil
}

// loadConfig returns the configuration named by the flags, with
// environment overrides applied
func loadConfig() (config.Config, error) {
	c := config.Default()
	if configPath != "" {
		var err error
		if c, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}

	c, err := c.FromEnv(envFiles...)
	if err != nil {
		return config.Config{}, err
	}
	if seed != 0 {
		c.Seed = seed
	}
	return c, c.Validate()
}

// learningPolicy is an agent which both acts and learns
type learningPolicy interface {
	agent.Policy[int64, int8]
	agent.Learner[int64, int8]
}

// newAgent creates the agent configured by c acting on the line walk
// in created
func newAgent(c config.Config, created envconfig.Created) (learningPolicy,
	error) {
	switch conf := c.Agent.Config.(type) {
	case qlearning.Config:
		q, err := qlearning.New[int64, int8](created.Env.ActionSpace(), conf,
			c.EnvConf.Discount, c.Seed)
		if err != nil {
			return nil, err
		}
		return q, nil

	case esarsa.Config:
		features, err := linewalk.NewTileFeatures(created.Line, conf.Tilings,
			conf.Tiles, c.Seed)
		if err != nil {
			return nil, err
		}
		e, err := esarsa.New[int64, int8](created.Env.ActionSpace(),
			[]int8{linewalk.Right, linewalk.Left}, features, conf,
			c.EnvConf.Discount, c.Seed)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("no such agent type %q", c.Agent.Type)
}

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an online learning experiment",
		RunE:  runExperiment,
	}
	cmd.Flags().Uint64Var(&steps, "steps", 0,
		"Number of steps to run for, 0 keeps the configured number")
	cmd.Flags().BoolVar(&progress, "progress", true, "Show a progress bar")
	return cmd
}

func runExperiment(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if steps != 0 {
		c.MaxSteps = steps
	}

	logger, err := newLogger(cmd.ErrOrStderr(), logLevel)
	if err != nil {
		return err
	}
	runID := uuid.New()
	logger = log.With(logger, "run", runID)

	strategy, err := c.Strategy.Build(c.Seed)
	if err != nil {
		return err
	}
	created, err := c.EnvConf.Create(strategy, c.Seed, logger)
	if err != nil {
		return err
	}
	learner, err := newAgent(c, created)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return err
	}
	prefix := filepath.Join(c.Output, runID.String())
	returns := tracker.NewReturn[int64, int8](c.EnvConf.Discount,
		prefix+"_returns.bin")
	lengths := tracker.NewEpisodeLength[int64, int8](prefix + "_lengths.bin")
	avgReward, err := tracker.NewAverageReward[int64, int8](0, 0.01,
		prefix+"_avgreward.bin")
	if err != nil {
		return err
	}

	opts := []experiment.Option[int64, int8]{
		experiment.WithLearner[int64, int8](learner),
		experiment.WithTrackers[int64, int8](returns, lengths, avgReward),
		experiment.WithLogger[int64, int8](logger),
	}

	if c.Checkpoint.Every > 0 {
		filename := checkpointer.FilenameEnumerator(0, c.Output,
			runID.String()+"_records", ".bin")
		if c.Checkpoint.Naming == "time" {
			filename = checkpointer.FileTimer(c.Output,
				runID.String()+"_records", ".bin")
		}
		ckpt, err := checkpointer.NewNStep[int64, int8](c.Checkpoint.Every,
			filename)
		if err != nil {
			return err
		}
		opts = append(opts, experiment.WithCheckpointers[int64, int8](ckpt))
	}

	if c.Replay.MaxReplayCapacity > 0 {
		cache, err := expreplay.Create[int64, int8](c.Replay,
			created.Line.AtGoal, c.Seed)
		if err != nil {
			return err
		}
		opts = append(opts, experiment.WithReplay(cache))
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.New(cmd.OutOrStdout(), 50, int(c.MaxSteps),
			time.Second)
		opts = append(opts, experiment.WithStepHook[int64, int8](
			func(uint64) { bar.Increment() }))
	}

	exp, err := experiment.NewOnline[int64, int8](created.Env, learner,
		created.Starter, created.Ender, c.MaxSteps, opts...)
	if err != nil {
		return err
	}

	level.Info(logger).Log("msg", "starting experiment", "env",
		created.Line, "agent", c.Agent.Type, "strategy", strategy, "steps",
		c.MaxSteps)
	err = exp.Run()
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		return err
	}

	if err := exp.Save(); err != nil {
		return err
	}
	if err := c.Save(prefix + "_config.json"); err != nil {
		return err
	}

	level.Info(logger).Log("msg", "saved experiment data", "episodes",
		exp.Episodes(), "returns", prefix+"_returns.bin", "avgReward",
		avgReward.Current())
	return nil
}

func rolloutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Print a forward trajectory sampled from the start state",
		RunE:  rollout,
	}
	cmd.Flags().IntVar(&horizon, "horizon", 10, "Number of steps to sample")
	cmd.Flags().BoolVar(&colors, "color", true, "Color the output")
	return cmd
}

func rollout(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel)
	if err != nil {
		return err
	}

	strategy, err := c.Strategy.Build(c.Seed)
	if err != nil {
		return err
	}
	created, err := c.EnvConf.Create(strategy, c.Seed, logger)
	if err != nil {
		return err
	}
	uniform := policy.NewUniform[int64, int8](created.Env.ActionSpace(),
		c.Seed)

	records, err := created.Env.SampleForwardTrajectory(horizon, uniform)
	if err != nil {
		return err
	}

	au := aurora.NewAurora(colors)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%v\n%v\n", created.Line, strategy)
	fmt.Fprintf(out, "%5v %8v %8v\n", "step", "state", "reward")
	fmt.Fprintf(out, "%5d %8v %8v\n", 0, au.Cyan(c.EnvConf.Start), "-")
	for i, rec := range records {
		state := au.Blue(fmt.Sprintf("%8d", rec.NewState))
		if created.Line.AtGoal(rec.NewState) {
			state = au.Green(fmt.Sprintf("%8d", rec.NewState))
		}
		fmt.Fprintf(out, "%5d %v %v\n", i+1, state,
			au.Yellow(fmt.Sprintf("%8.2f", rec.Reward)))
	}
	fmt.Fprintf(out, "return: %v\n", au.Bold(fmt.Sprintf("%.4f",
		environment.Return(records, c.EnvConf.Discount))))
	return nil
}

func plotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot returns.bin...",
		Short: "Plot the episodic returns saved by one or more runs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  plotReturns,
	}
	cmd.Flags().StringVarP(&plotOut, "out", "o", "returns.png",
		"File to save the plot to")
	cmd.Flags().IntVarP(&window, "window", "w", 10,
		"Number of episodes in the moving average")
	return cmd
}

// movingAverage returns the mean of each run of window consecutive
// values of data
func movingAverage(data []float64, window int) []float64 {
	if window < 1 || len(data) < window {
		return nil
	}

	out := make([]float64, 0, len(data)-window+1)
	for i := window; i <= len(data); i++ {
		out = append(out, stat.Mean(data[i-window:i], nil))
	}
	return out
}

func plotReturns(cmd *cobra.Command, args []string) error {
	p := plot.New()
	p.Title.Text = "Episodic return"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = fmt.Sprintf("Return (moving average over %d)", window)

	for i, filename := range args {
		data, err := tracker.LoadData[float64](filename)
		if err != nil {
			return err
		}
		smoothed := movingAverage(data, window)
		if len(smoothed) == 0 {
			return fmt.Errorf("%v: %d episodes is fewer than the window of %d",
				filename, len(data), window)
		}

		points := make(plotter.XYs, len(smoothed))
		for j := range smoothed {
			points[j] = plotter.XY{
				X: float64(j + window),
				Y: smoothed[j],
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(filepath.Base(filename), line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, plotOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved plot to %v\n", plotOut)
	return nil
}
