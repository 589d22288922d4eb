package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"layercheck/internal/diagfmt"
	"layercheck/internal/driver"
	"layercheck/internal/version"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|relative|absolute|basename)")
	cmd.Flags().Bool("source", false, "show the offending source line (pretty format)")
	cmd.Flags().Bool("codes", false, "show diagnostic codes (pretty format)")
}

// printDiagnostics writes the diagnostics of res to stdout in the format
// chosen by --format.
func printDiagnostics(cmd *cobra.Command, res *driver.Result, invocation []string) error {
	format, _ := cmd.Flags().GetString("format")
	pathFlag, _ := cmd.Flags().GetString("path-mode")
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return fmt.Errorf("unknown path mode %q", pathFlag)
	}
	out := cmd.OutOrStdout()

	switch format {
	case "pretty":
		showSource, _ := cmd.Flags().GetBool("source")
		showCodes, _ := cmd.Flags().GetBool("codes")
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:      useColor(cmd, os.Stdout),
			PathMode:   pathMode,
			ShowCode:   showCodes,
			ShowNotes:  true,
			ShowSource: showSource,
		})
		if n := res.Bag.ErrorCount(); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d errors\n", n)
		}
		return nil
	case "short":
		diagfmt.Short(out, res.Bag, res.FileSet, true)
		return nil
	case "json":
		return diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "layercheck",
			ToolVersion:    version.Version,
			InvocationArgs: invocation,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
