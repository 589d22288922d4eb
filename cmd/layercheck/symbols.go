package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"layercheck/internal/driver"
	"layercheck/internal/symbols"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] [path...]",
	Short: "Summarize the symbol table of the tree",
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().Bool("list", false, "list every definition")
	symbolsCmd.Flags().Bool("private", false, "with --list, only private definitions")
	symbolsCmd.Flags().String("module", "", "with --list, only definitions of this module")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := driver.Scan(ctx, s.project, s.paths, s.opts)
	if err != nil {
		reportFatal(res)
		return err
	}

	out := cmd.OutOrStdout()
	st := res.Codebase.Stats()
	fmt.Fprintf(out, "files:            %d\n", len(res.Files))
	fmt.Fprintf(out, "types:            %d (%d private)\n", st.Types, st.TypesRestricted)
	fmt.Fprintf(out, "record fields:    %d\n", st.Fields)
	fmt.Fprintf(out, "names:            %d (%d private)\n", st.Names, st.NamesRestricted)
	fmt.Fprintf(out, "file statics:     %d\n", st.Statics)
	fmt.Fprintf(out, "typedefs:         %d\n", st.Typedefs)
	fmt.Fprintf(out, "macros:           %d\n", st.Macros)
	if n := res.Bag.ErrorCount(); n > 0 {
		fmt.Fprintf(out, "errors:           %d\n", n)
	}

	list, _ := cmd.Flags().GetBool("list")
	if !list {
		return nil
	}
	onlyPrivate, _ := cmd.Flags().GetBool("private")
	module, _ := cmd.Flags().GetString("module")
	keep := func(d *symbols.Definition) bool {
		return (!onlyPrivate || d.Private()) && (module == "" || d.Module == module)
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	writeDefs(tw, "type", symbols.Sorted(res.Codebase.Types), keep)
	writeDefs(tw, "name", symbols.Sorted(res.Codebase.Names), keep)
	writeDefs(tw, "macro", symbols.Sorted(res.Codebase.Macros), keep)
	return tw.Flush()
}

func writeDefs(w io.Writer, table string, defs []*symbols.Definition, keep func(*symbols.Definition) bool) {
	for _, d := range defs {
		if !keep(d) {
			continue
		}
		flags := strings.Join(d.Flags.Strings(), ",")
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t[%s]\t%s\t%s\n", table, d.Kind, d.Name, d.Module, flags, d.Path())
	}
}
