package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"layercheck/internal/driver"
	"layercheck/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Report private accesses across module boundaries",
	Long: `check scans the tree (or the given files and directories), builds the
symbol table and checks every function body. The exit status is 1 when any
error was found, including errors above --max-diagnostics.`,
	RunE: runCheck,
}

func init() {
	addOutputFlags(checkCmd)
	checkCmd.Flags().Bool("disk-cache", false, "cache macro expansion results between runs")
	checkCmd.Flags().Bool("clear-cache", false, "drop the expansion cache before the run")
	checkCmd.Flags().String("progress", "off", "show a progress view (auto|on|off)")
	checkCmd.Flags().Bool("timings", false, "report the duration of each stage")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	if err := setupCache(cmd, &s.opts); err != nil {
		return err
	}
	timings, _ := cmd.Flags().GetBool("timings")
	if timings {
		s.opts.Timer = observ.NewTimer()
	}
	progress, _ := cmd.Flags().GetString("progress")
	mode, err := parseProgressMode(progress)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var res *driver.Result
	if mode.enabled() {
		res, err = runCheckWithUI(ctx, s)
	} else {
		res, err = driver.Check(ctx, s.project, s.paths, s.opts)
	}
	if res == nil {
		return err
	}

	if timings {
		res.Bag.Add(driver.TimingDiagnostic("check", len(res.Files), s.opts.Timer.Report()))
		defer fmt.Fprint(os.Stderr, s.opts.Timer.Summary())
	}
	if s.opts.Cache != nil {
		defer fmt.Fprintf(os.Stderr, "expansion cache: %d hits, %d misses\n", res.CacheHits, res.CacheMisses)
	}
	if perr := printDiagnostics(cmd, res, os.Args[1:]); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errViolations
	}
	return nil
}

func setupCache(cmd *cobra.Command, opts *driver.Options) error {
	enabled, _ := cmd.Flags().GetBool("disk-cache")
	clearCache, _ := cmd.Flags().GetBool("clear-cache")
	if !enabled && !clearCache {
		return nil
	}
	cache, err := driver.OpenDiskCache("layercheck")
	if err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("disk cache: %w", err)
		}
	}
	if enabled {
		opts.Cache = cache
	}
	return nil
}
