package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "pprof"
	quietKey   = "quiet"
	sizeKey    = "size"
	roundsKey  = "rounds"
	htmlKey    = "html"
	repeatsKey = "repeats"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark signalgraph propagation and list diffing",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Time writes through grids of memo chains ending in effects",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.IntFlag{
						Name:  itersKey,
						Usage: "Writes per grid",
						Value: 100,
					},
					&cli.BoolFlag{
						Name:  quietKey,
						Usage: "Skip rendering the table (warm up only)",
					},
				},
				Action: profiled(propagate),
			},
			{
				Name:  "graph",
				Usage: "Run layered graphs with static and dynamic memos",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.IntFlag{
						Name:  repeatsKey,
						Usage: "Timed repeats per config, best one is reported",
						Value: 5,
					},
				},
				Action: profiled(graph),
			},
			{
				Name:  "diff",
				Usage: "Compare keyed and Myers edit scripts on random list updates",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.IntFlag{
						Name:  sizeKey,
						Usage: "List length",
						Value: 1_000,
					},
					&cli.IntFlag{
						Name:  roundsKey,
						Usage: "Random updates per scenario",
						Value: 50,
					},
					&cli.StringFlag{
						Name:  htmlKey,
						Usage: "Also write the results as an HTML table to this file",
					},
				},
				Action: profiled(diffs),
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  profileKey,
		Usage: "Write a CPU profile to this file",
	}
}

// profiled wraps a benchmark action with optional CPU profiling.
func profiled(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		name := cmd.String(profileKey)
		if name == "" {
			return action(ctx, cmd)
		}
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("writing CPU profile to %s", name)
		return action(ctx, cmd)
	}
}
