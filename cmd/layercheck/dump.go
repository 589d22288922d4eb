package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"layercheck/internal/diag"
	"layercheck/internal/diagfmt"
	"layercheck/internal/driver"
	"layercheck/internal/lexer"
	"layercheck/internal/source"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Print the token stream of a C file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var statementsCmd = &cobra.Command{
	Use:   "statements [flags] file",
	Short: "Print the statements of a C file with their kinds",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatements,
}

var expandCmd = &cobra.Command{
	Use:   "expand [flags] file",
	Short: "Print a file with the macros of the whole tree expanded",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("trivia", false, "keep spaces and comments")
	statementsCmd.Flags().Bool("raw", false, "split the text as is, without macro expansion")
}

// loadOne reads a single file outside of any tree.
func loadOne(path string) (*source.File, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fs.Get(id), nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	trivia, _ := cmd.Flags().GetBool("trivia")

	f, err := loadOne(args[0])
	if err != nil {
		return err
	}
	toks := lexer.Tokenize(string(f.Content), 0)
	if !trivia {
		toks = toks.Code()
	}
	for _, t := range toks {
		if t.Kind == token.Invalid {
			pos := f.Position(uint32(t.Start)) // #nosec G115 -- offsets come from the file
			fmt.Fprintf(os.Stderr, "%s:%d:%d: WARNING: invalid token %q\n", f.Path, pos.Line, pos.Col, t.Text)
		}
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks, f)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks, f)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runStatements(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	if raw {
		f, err := loadOne(args[0])
		if err != nil {
			return err
		}
		return diagfmt.FormatStatements(cmd.OutOrStdout(), stmt.FromText(string(f.Content), 0, token.DefaultIgnore), f)
	}

	text, f, ignore, err := expandInTree(cmd, args[0])
	if err != nil {
		return err
	}
	return diagfmt.FormatStatements(cmd.OutOrStdout(), stmt.FromText(text, 0, ignore), f)
}

func runExpand(cmd *cobra.Command, args []string) error {
	text, _, _, err := expandInTree(cmd, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

// expandInTree expands arg with the macros of every file of its tree and
// prints the expansion warnings on stderr.
func expandInTree(cmd *cobra.Command, arg string) (string, *source.File, token.Set, error) {
	s, err := openSession(cmd, nil)
	if err != nil {
		return "", nil, nil, err
	}
	target, err := relTarget(s.project, arg)
	if err != nil {
		return "", nil, nil, err
	}
	paths := s.paths
	if len(filterPaths(paths, []string{target})) == 0 {
		paths = append(paths, target)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	text, res, err := driver.ExpandFile(ctx, s.project, paths, target, s.opts)
	if res != nil && res.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), ShowNotes: true})
	}
	if err != nil {
		return "", nil, nil, err
	}
	f, _ := res.File(target)
	return text, f, s.project.Ignore, nil
}

// reportFatal prints the diagnostics of a run that stopped early.
func reportFatal(res *driver.Result) {
	if res == nil || !res.Bag.HasFatal() {
		return
	}
	items := diag.NewBag(0)
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevFatal {
			items.Add(d)
		}
	}
	diagfmt.Pretty(os.Stderr, items, res.FileSet, diagfmt.PrettyOpts{})
}
