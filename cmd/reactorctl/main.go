// Command reactorctl runs demonstration scenarios and prints the
// resulting dependency graph. It is a debugging aid, not part of the core
// engine.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kestrel-state/reactor"
	"github.com/kestrel-state/reactor/examples/diamond"
)

func main() {
	cmd := &cli.Command{
		Name:  "reactorctl",
		Usage: "exercise the reactive graph and print its state",
		Commands: []*cli.Command{
			{
				Name:   "diamond",
				Usage:  "run the diamond-dependency scenario and print the graph",
				Action: runDiamond,
			},
			{
				Name:   "dump",
				Usage:  "print an empty-graph snapshot",
				Action: runDump,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runDiamond(ctx context.Context, cmd *cli.Command) error {
	result := diamond.Run()
	fmt.Printf("diamond settled at %d after %d recomputations\n", result.FinalValue, result.SumRecomputeCount)
	fmt.Println(reactor.DumpTable())
	return nil
}

func runDump(ctx context.Context, cmd *cli.Command) error {
	fmt.Println(reactor.DumpTable())
	return nil
}
