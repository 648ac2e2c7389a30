package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/signalgraph/diff"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"github.com/valyala/quicktemplate"
)

type scenario struct {
	name   string
	mutate func(r *rand.Rand, keys []uint64, next func() uint64) []uint64
}

var scenarios = []scenario{
	{"append", func(r *rand.Rand, keys []uint64, next func() uint64) []uint64 {
		return append(keys, next(), next())
	}},
	{"remove one", func(r *rand.Rand, keys []uint64, next func() uint64) []uint64 {
		i := r.Intn(len(keys))
		return slices.Delete(keys, i, i+1)
	}},
	{"swap two", func(r *rand.Rand, keys []uint64, next func() uint64) []uint64 {
		i, j := r.Intn(len(keys)), r.Intn(len(keys))
		keys[i], keys[j] = keys[j], keys[i]
		return keys
	}},
	{"replace one", func(r *rand.Rand, keys []uint64, next func() uint64) []uint64 {
		keys[r.Intn(len(keys))] = next()
		return keys
	}},
	{"reverse", func(r *rand.Rand, keys []uint64, next func() uint64) []uint64 {
		slices.Reverse(keys)
		return keys
	}},
	{"shuffle", func(r *rand.Rand, keys []uint64, next func() uint64) []uint64 {
		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		return keys
	}},
}

type diffResult struct {
	scenario string
	algo     string
	elapsed  time.Duration
	edits    int
	counts   map[diff.OpKind]int
}

// diffs times the keyed diff and the Myers diff over the same random list
// updates and checks that every script replays to the new list.
func diffs(ctx context.Context, cmd *cli.Command) error {
	size := int(cmd.Int(sizeKey))
	rounds := int(cmd.Int(roundsKey))
	if size <= 0 || rounds <= 0 {
		return fmt.Errorf("%s and %s must be positive", sizeKey, roundsKey)
	}

	var results []diffResult
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("Running '%s' scenario", sc.name)

		r := rand.New(rand.NewSource(0))
		serial := 0
		next := func() uint64 {
			serial++
			return xxhash.Sum64String("row-" + strconv.Itoa(serial))
		}
		keyed := diffResult{scenario: sc.name, algo: "keyed", counts: map[diff.OpKind]int{}}
		myers := diffResult{scenario: sc.name, algo: "myers", counts: map[diff.OpKind]int{}}

		for round := 0; round < rounds; round++ {
			old := make([]uint64, size)
			for i := range old {
				old[i] = next()
			}
			new := sc.mutate(r, slices.Clone(old), next)

			start := time.Now()
			edits := diff.Keyed(old, new, new)
			keyed.elapsed += time.Since(start)
			if err := tally(&keyed, old, new, edits); err != nil {
				return err
			}

			start = time.Now()
			edits = diff.Sequence(old, new)
			myers.elapsed += time.Since(start)
			if err := tally(&myers, old, new, edits); err != nil {
				return err
			}
		}
		results = append(results, keyed, myers)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"scenario", "algo", "size", "rounds", "time/op", "edits", "moves", "inserts", "removes", "replaces"})
	for _, res := range results {
		table.Append([]string{
			res.scenario,
			res.algo,
			humanize.Comma(int64(size)),
			humanize.Comma(int64(rounds)),
			fmt.Sprint(res.elapsed / time.Duration(rounds)),
			humanize.Comma(int64(res.edits)),
			humanize.Comma(int64(res.counts[diff.OpMove])),
			humanize.Comma(int64(res.counts[diff.OpInsert])),
			humanize.Comma(int64(res.counts[diff.OpRemove])),
			humanize.Comma(int64(res.counts[diff.OpReplace])),
		})
	}
	table.Render()

	if name := cmd.String(htmlKey); name != "" {
		if err := writeHTML(name, size, rounds, results); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.Printf("wrote %s", name)
	}
	return nil
}

func tally(res *diffResult, old, new []uint64, edits []diff.Edit[uint64]) error {
	if got := diff.Apply(slices.Clone(old), edits); !slices.Equal(got, new) {
		return fmt.Errorf("%s/%s: script does not replay to the new list", res.scenario, res.algo)
	}
	res.edits += len(edits)
	for k, n := range diff.Count(edits) {
		res.counts[k] += n
	}
	return nil
}

func writeHTML(name string, size, rounds int, results []diffResult) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)

	qw := quicktemplate.AcquireWriter(bw)
	defer quicktemplate.ReleaseWriter(qw)
	n, e := qw.N(), qw.E()

	n.S("<!DOCTYPE html>\n<html><head><title>signalgraph diff</title></head><body>\n")
	n.S("<h1>diff: ")
	n.D(size)
	n.S(" rows, ")
	n.D(rounds)
	n.S(" rounds</h1>\n<table>\n")
	n.S("<tr><th>scenario</th><th>algo</th><th>time/op</th><th>edits</th><th>moves</th><th>inserts</th><th>removes</th><th>replaces</th></tr>\n")
	for _, res := range results {
		n.S("<tr><td>")
		e.S(res.scenario)
		n.S("</td><td>")
		e.S(res.algo)
		n.S("</td><td>")
		e.S((res.elapsed / time.Duration(rounds)).String())
		for _, v := range []int{
			res.edits,
			res.counts[diff.OpMove],
			res.counts[diff.OpInsert],
			res.counts[diff.OpRemove],
			res.counts[diff.OpReplace],
		} {
			n.S("</td><td>")
			n.D(v)
		}
		n.S("</td></tr>\n")
	}
	n.S("</table>\n</body></html>\n")

	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
