package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/halfmove/chesscore/pkg/engine"
	"github.com/halfmove/chesscore/pkg/engine/console"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth   = flag.Uint("depth", 0, "Search depth limit (zero for unbounded)")
	hash    = flag.Uint("hash", 64, "Transposition table size in MB (zero to disable)")
	noise   = flag.Uint("noise", 10, "Evaluation noise in millipawns (zero if deterministic)")
	threads = flag.Uint("threads", 1, "Lazy-SMP search thread count")
	useBook = flag.Bool("book", true, "Consult the opening book in the opening phase")
	cache   = flag.Bool("evalcache", true, "Cache static evaluations within a search")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: chesscore [options]

chesscore is a chess engine core exposed over a simple debugging console
protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.NewSearcher()
	e := engine.New(ctx, "chesscore", "halfmove", s, engine.WithOptions(engine.Options{
		Depth:     *depth,
		Hash:      *hash,
		Noise:     *noise,
		Threads:   *threads,
		UseBook:   *useBook,
		EvalCache: *cache,
	}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
