package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

// propagate builds w chains of h memos hanging off one signal, each chain
// ending in an effect, and times single writes to the signal.
func propagate(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(itersKey))
	if iters <= 0 {
		return fmt.Errorf("%s must be positive, got %d", itersKey, iters)
	}
	log.Printf("warming up")

	tbl := table.NewWriter()
	tbl.SetTitle("signalgraph propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "nodes", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			if err := ctx.Err(); err != nil {
				return err
			}
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			var failure error
			rs := reactive.NewReactiveSystem(reactive.WithErrorHandler(func(from reactive.NodeID, err error) {
				failure = fmt.Errorf("%s: %w", from, err)
			}))
			src := reactive.NewSignal(rs, 1)
			for i := 0; i < w; i++ {
				var last reactive.Readable[int] = src
				for j := 0; j < h; j++ {
					prev := last
					last = reactive.NewMemo(rs, func(rc *reactive.ReadContext) int {
						return prev.Get(rc) + 1
					})
				}
				leaf := last
				reactive.NewEffect(rs, func(ec *reactive.EffectContext) error {
					if v := leaf.Get(ec); v < 0 {
						return fmt.Errorf("negative leaf %d", v)
					}
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(rs, src.Get(rs)+1)
				tach.AddTime(time.Since(start))
			}
			if failure != nil {
				return failure
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				fmt.Sprintf("propagate: %d * %d", w, h),
				rs.Len(),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			})
		}
	}

	if !cmd.Bool(quietKey) {
		tbl.Render()
	}
	return nil
}
