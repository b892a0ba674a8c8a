package main

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/armon/go-metrics"
	json "github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/TheBitDrifter/stockroom"
	"github.com/TheBitDrifter/stockroom/tick"
)

type runOptions struct {
	entities    int
	ticks       int
	movingRatio float64
	friction    float64
	seed        int64
	profile     string
	json        bool
}

// runSummary is what a run reports once every tick has completed.
type runSummary struct {
	Ticks        uint64             `json:"ticks"`
	Created      int                `json:"created"`
	Moving       int                `json:"moving"`
	StillMoving  int                `json:"still_moving"`
	Elapsed      time.Duration      `json:"elapsed_ns"`
	SystemMeanMs map[string]float64 `json:"system_mean_ms"`
	Storage      stockroom.Stats    `json:"storage"`
	SystemOrder  []string           `json:"systems"`
}

func newRunCmd(a *app) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Populate a storage and run the movement simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if opts.profile != "" {
				defer startProfile(opts.profile).Stop()
			}
			summary, err := a.run(opts)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), summary, opts.json)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.entities, "entities", 10000, "number of entities to create")
	flags.IntVar(&opts.ticks, "ticks", 600, "number of ticks to run")
	flags.Float64Var(&opts.movingRatio, "moving-ratio", 0.5, "share of entities created with a velocity")
	flags.Float64Var(&opts.friction, "friction", 0.99, "per-tick velocity multiplier")
	flags.Int64Var(&opts.seed, "seed", 1, "random seed for the initial population")
	flags.StringVar(&opts.profile, "profile", "", "write a cpu or mem profile to the working directory")
	flags.BoolVar(&opts.json, "json", false, "print the summary as JSON")
	return cmd
}

func (o runOptions) validate() error {
	switch {
	case o.entities < 0:
		return eris.Errorf("--entities must not be negative, got %d", o.entities)
	case o.ticks < 0:
		return eris.Errorf("--ticks must not be negative, got %d", o.ticks)
	case o.movingRatio < 0 || o.movingRatio > 1:
		return eris.Errorf("--moving-ratio must be within [0, 1], got %v", o.movingRatio)
	case o.friction < 0 || o.friction > 1:
		return eris.Errorf("--friction must be within [0, 1], got %v", o.friction)
	}
	switch o.profile {
	case "", "cpu", "mem":
		return nil
	}
	return eris.Errorf("unknown profile mode %q, want cpu or mem", o.profile)
}

func startProfile(mode string) interface{ Stop() } {
	kind := profile.CPUProfile
	if mode == "mem" {
		kind = profile.MemProfile
	}
	return profile.Start(kind, profile.ProfilePath("."), profile.NoShutdownHook)
}

func (a *app) run(opts runOptions) (runSummary, error) {
	sink := metrics.NewInmemSink(time.Minute, time.Minute)
	conf := metrics.DefaultConfig("stockroom")
	conf.EnableHostname = false
	conf.EnableRuntimeMetrics = false
	m, err := metrics.New(conf, sink)
	if err != nil {
		return runSummary{}, eris.Wrap(err, "failed to set up metrics")
	}

	sto := stockroom.Factory.NewStorage(append(a.settings.Options(), stockroom.WithLogger(a.logger))...)
	stockroom.RegisterComponent[Position](sto)
	stockroom.RegisterComponent[Velocity](sto)

	rng := rand.New(rand.NewSource(opts.seed))
	moving := populate(sto, rng, opts.entities, opts.movingRatio)
	a.logger.Info().
		Int("entities", opts.entities).
		Int("moving", moving).
		Msg("populated storage")

	world := tick.NewWorld(sto, tick.WithLogger(a.logger), tick.WithMetrics(m))
	world.
		RegisterSystem("movement", tick.SystemFunc(movement)).
		RegisterSystem("drift", tick.SystemFunc(drift)).
		RegisterSystem("friction", newFriction(opts.friction))

	start := time.Now()
	world.Run(opts.ticks)
	elapsed := time.Since(start)

	stillMoving, _ := stockroom.Query[Velocity](sto)
	summary := runSummary{
		Ticks:        world.Tick(),
		Created:      opts.entities,
		Moving:       moving,
		StillMoving:  len(stillMoving),
		Elapsed:      elapsed,
		SystemMeanMs: systemMeans(sink, world.SystemNames()),
		Storage:      sto.Stats(),
		SystemOrder:  world.SystemNames(),
	}
	a.logger.Info().
		Uint64("ticks", summary.Ticks).
		Dur("elapsed", elapsed).
		Msg("run complete")
	return summary, nil
}

// systemMeans averages each system's recorded timing across every retained interval.
func systemMeans(sink *metrics.InmemSink, names []string) map[string]float64 {
	means := make(map[string]float64, len(names))
	for _, name := range names {
		suffix := "system." + name
		var sum float64
		var count int
		for _, interval := range sink.Data() {
			for key, sample := range interval.Samples {
				if strings.HasSuffix(key, suffix) {
					sum += sample.Sum
					count += sample.Count
				}
			}
		}
		if count > 0 {
			means[name] = sum / float64(count)
		}
	}
	return means
}

func writeSummary(w io.Writer, s runSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(s), "failed to encode summary")
	}

	fmt.Fprintf(w, "ticks:        %d\n", s.Ticks)
	fmt.Fprintf(w, "entities:     %d (%d moving, %d still moving)\n", s.Storage.Entities, s.Moving, s.StillMoving)
	fmt.Fprintf(w, "groups:       %d\n", s.Storage.Groups)
	fmt.Fprintf(w, "elapsed:      %s\n", s.Elapsed)
	for _, name := range s.SystemOrder {
		fmt.Fprintf(w, "system %-8s %.4fms/tick\n", name, s.SystemMeanMs[name])
	}
	return nil
}
