package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"layercheck/internal/prof"
	"layercheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "layercheck",
	Short: "Module boundary checker for C code bases",
	Long: `layercheck builds a symbol table of a C tree without a compiler front end
and reports uses of entities private to one module from another module.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: startProfiling,
}

// profiles started by --cpuprofile, --memprofile and --trace; stopped in main
var profiles *prof.Session

// errViolations makes the process exit with status 1 without printing
// anything more: the diagnostics were already reported.
var errViolations = errors.New("violations found")

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(usesCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(statementsCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to layercheck.toml (default: searched upwards from the current directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("jobs", 0, "parallel workers (0 = config value, then GOMAXPROCS)")
	pf.Bool("single-pass", false, "parse files unexpanded, recording macros as they appear")
	pf.Bool("expand-constants", false, "also expand macros whose body is a single literal")
	pf.String("level", "warning", "least severe diagnostics shown (debug5..debug|info|warning|error|fatal)")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics kept (0 = no limit)")
	pf.Bool("auto-modules", false, "derive modules from the directories under src/")
	pf.String("cpuprofile", "", "write a CPU profile to this file")
	pf.String("memprofile", "", "write a heap profile to this file")
	pf.String("trace", "", "write a runtime trace to this file")
}

func startProfiling(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	opts.CPU, _ = pf.GetString("cpuprofile")
	opts.Mem, _ = pf.GetString("memprofile")
	opts.Trace, _ = pf.GetString("trace")
	if !opts.Enabled() {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	profiles = s
	return nil
}

func main() {
	err := rootCmd.Execute()
	if perr := profiles.Stop(); perr != nil {
		fmt.Fprintf(os.Stderr, "layercheck: profiling: %v\n", perr)
	}
	if err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintf(os.Stderr, "layercheck: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
