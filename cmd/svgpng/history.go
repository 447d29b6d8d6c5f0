package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benoitkugler/svgpng/history"
	"github.com/google/subcommands"
)

type historyCmd struct {
	env   *env
	clear bool
}

func (h *historyCmd) Name() string     { return "history" }
func (h *historyCmd) Synopsis() string { return "List the recently converted files" }
func (h *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&h.clear, "clear", false, "remove all entries")
}
func (h *historyCmd) Usage() string {
	return `history [-clear]
  List the last converted files, most recent first.
`
}

func (h *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := history.Open(h.env.cfg.History)
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	if h.clear {
		if err := store.Save(ctx, nil); err != nil {
			fmt.Println("[svgpng] Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("[svgpng] History cleared")
		return subcommands.ExitSuccess
	}

	entries, err := store.Load(ctx)
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	printHistory(os.Stdout, entries)
	return subcommands.ExitSuccess
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recent files")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s\n", e.Date.Local().Format(time.DateTime), e.Name)
	}
}
