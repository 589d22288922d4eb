package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"layercheck/internal/access"
	"layercheck/internal/driver"
)

var usesCmd = &cobra.Command{
	Use:   "uses [flags] module",
	Short: "List the names a module takes from other modules",
	Long: `uses lists, per file, the functions and globals of other modules that
module refers to. With --used-by the direction is reversed: the list shows
who refers to the names of module.`,
	Args: cobra.ExactArgs(1),
	RunE: runUses,
}

func init() {
	usesCmd.Flags().Bool("used-by", false, "list the uses of module's names by other modules")
	usesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runUses(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	usedBy, _ := cmd.Flags().GetBool("used-by")

	s, err := openSession(cmd, nil)
	if err != nil {
		return err
	}
	module := args[0]
	if !s.project.Modules.Has(module) {
		return fmt.Errorf("unknown module %q", module)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	all, res, err := driver.Uses(ctx, s.project, s.paths, s.opts)
	if err != nil {
		reportFatal(res)
		return err
	}
	uses := access.UsesOf(all, module)
	if usedBy {
		uses = access.UsedBy(all, module)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if uses == nil {
			uses = []access.Use{}
		}
		return enc.Encode(uses)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, u := range uses {
		fmt.Fprintf(tw, "[%s]\t%s\t%s\t[%s]\t%d\n", u.From, u.File, u.Name, u.To, u.Count)
	}
	return tw.Flush()
}
