package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

type graphConfig struct {
	name           string  // friendly name, unique
	width          int     // width of the dependency graph
	totalLayers    int     // depth of the dependency graph
	staticFraction float64 // fraction of memos that always read all of their sources
	nSources       int     // sources read by each memo
	readFraction   float64 // fraction of leaves read after every write
	iterations     int
}

var graphConfigs = []graphConfig{
	{
		name:           "simple component",
		width:          10,
		staticFraction: 1,
		nSources:       2,
		totalLayers:    5,
		readFraction:   0.2,
		iterations:     60_000,
	},
	{
		name:           "dynamic component",
		width:          10,
		totalLayers:    10,
		staticFraction: 0.75,
		nSources:       6,
		readFraction:   0.2,
		iterations:     15_000,
	},
	{
		name:           "large web app",
		width:          1_000,
		totalLayers:    12,
		staticFraction: 0.95,
		nSources:       4,
		readFraction:   1,
		iterations:     700,
	},
	{
		name:           "wide dense",
		width:          1_000,
		totalLayers:    5,
		staticFraction: 1,
		nSources:       25,
		readFraction:   1,
		iterations:     300,
	},
	{
		name:           "deep",
		width:          5,
		totalLayers:    500,
		staticFraction: 1,
		nSources:       3,
		readFraction:   1,
		iterations:     500,
	},
	{
		name:           "very dynamic",
		width:          100,
		totalLayers:    15,
		staticFraction: 0.5,
		nSources:       6,
		readFraction:   1,
		iterations:     200,
	},
}

func (cfg graphConfig) title() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources)
	if cfg.staticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if cfg.readFraction < 1 {
		fmt.Fprintf(&sb, " read %0.2f%%", 100*cfg.readFraction)
	}
	return sb.String()
}

type layeredGraph struct {
	rs      *reactive.ReactiveSystem
	sources []reactive.Signal[int]
	layers  [][]reactive.Memo[int]
}

// graph is the layered memo benchmark: each write hits one source, then some
// or all of the leaves are read, which pulls the lazy memos up to date.
func graph(ctx context.Context, cmd *cli.Command) error {
	repeats := int(cmd.Int(repeatsKey))
	if repeats <= 0 {
		return fmt.Errorf("%s must be positive, got %d", repeatsKey, repeats)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "recomputes", "updateRate", "title",
	})

	for _, cfg := range graphConfigs {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("Running '%s' config", cfg.name)
		counter := new(int64)
		g := makeGraph(cfg, counter)

		// warm up
		runGraph(g, cfg)

		best := time.Duration(math.MaxInt64)
		var bestCount int64
		var sum int
		for i := 0; i < repeats; i++ {
			*counter = 0
			start := time.Now()
			sum = runGraph(g, cfg)
			if d := time.Since(start); d < best {
				best = d
				bestCount = *counter
			}
		}
		log.Printf("'%s' leaf sum %d", cfg.name, sum)

		updateRate := float64(bestCount) / (float64(best) / float64(time.Millisecond))
		table.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(int64(cfg.iterations)),
			cfg.name,
			fmt.Sprint(best),
			humanize.Comma(bestCount),
			humanize.Comma(int64(updateRate)),
			cfg.title(),
		})
	}
	table.Render()
	return nil
}

func makeGraph(cfg graphConfig, counter *int64) *layeredGraph {
	rs := reactive.NewReactiveSystem()
	g := &layeredGraph{rs: rs, sources: make([]reactive.Signal[int], cfg.width)}
	prev := make([]reactive.Readable[int], cfg.width)
	for i := range g.sources {
		g.sources[i] = reactive.NewSignal(rs, i)
		prev[i] = g.sources[i]
	}

	random := rand.New(rand.NewSource(0))
	for l := 0; l < cfg.totalLayers-1; l++ {
		row := make([]reactive.Memo[int], len(prev))
		for myDex := range prev {
			mine := make([]reactive.Readable[int], 0, cfg.nSources)
			for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
				mine = append(mine, prev[(myDex+sourceDex)%len(prev)])
			}

			if random.Float64() < cfg.staticFraction {
				row[myDex] = reactive.NewMemo(rs, func(rc *reactive.ReadContext) int {
					*counter++
					sum := 0
					for _, src := range mine {
						sum += src.Get(rc)
					}
					return sum
				})
				continue
			}

			first, tail := mine[0], mine[1:]
			row[myDex] = reactive.NewMemo(rs, func(rc *reactive.ReadContext) int {
				*counter++
				sum := first.Get(rc)
				shouldDrop := sum&0x1 > 0
				dropDex := 0
				if len(tail) > 0 {
					dropDex = sum % len(tail)
				}
				for i, src := range tail {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += src.Get(rc)
				}
				return sum
			})
		}
		g.layers = append(g.layers, row)
		for i, m := range row {
			prev[i] = m
		}
	}
	return g
}

func runGraph(g *layeredGraph, cfg graphConfig) int {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skip := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	read := removeElems(leaves, skip, random)

	for i := 0; i < cfg.iterations; i++ {
		sourceDex := i % len(g.sources)
		g.sources[sourceDex].Set(g.rs, i+sourceDex)
		for _, leaf := range read {
			leaf.Get(g.rs)
		}
	}

	sum := 0
	for _, leaf := range read {
		sum += leaf.Get(g.rs)
	}
	return sum
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
