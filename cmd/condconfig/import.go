package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/condconfig/pkg/cli"
	"mercator-hq/condconfig/pkg/importer"
)

var importFlags struct {
	bootstrapFlags
	output string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import all documents once",
	Long: `Import every document under <root>/data/environments once, in lexical path order.

Each file is reported as imported, skipped or failed. A malformed document stops
the batch under the default "abort" policy and the command exits with status 2.`,
	Example: `  # Import using condconfig.yaml in the current directory
  condconfig import

  # Import another web root
  condconfig import --root /srv/commerce

  # Report every file as JSON and keep going past malformed documents
  condconfig import --on-malformed continue --output json`,
	RunE: runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFlags.root, "root", "", "override the web root")
	importCmd.Flags().StringVar(&importFlags.onMalformed, "on-malformed", "", "batch policy for malformed documents (abort, continue)")
	importCmd.Flags().StringVarP(&importFlags.output, "output", "o", "text", "output format (text, json, csv)")
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(importFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}

	a, err := newApp(cmd, importFlags.bootstrapFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := cli.SetupSignalHandler(commandContext(cmd))
	defer cancel()

	result, err := a.runImport(ctx)
	if result == nil {
		return cli.NewCommandError("import", err)
	}

	out := cmd.OutOrStdout()
	if fmtErr := cli.NewFormatter(format).FormatTo(out, outcomeTable(a.importer.Dir(), result)); fmtErr != nil {
		return fmtErr
	}
	if format == cli.FormatText {
		fmt.Fprintf(out, "\n%s: %d files, %d imported, %d skipped, %d failed (%s)\n",
			result.State,
			len(result.Files),
			result.Count(importer.StatusImported),
			result.Count(importer.StatusSkipped),
			result.Count(importer.StatusFailed),
			result.Duration().Round(time.Millisecond),
		)
	}

	switch result.State {
	case importer.RunAborted:
		last := result.Outcomes[len(result.Outcomes)-1]
		return cli.NewExitError(cli.ExitAborted,
			fmt.Errorf("import aborted at %s: %w", relPath(a.importer.Dir(), last.Path), last.Err))
	case importer.RunCancelled:
		return cli.NewCommandError("import", err)
	}
	return nil
}

// outcomeTable lists one row per file, including files an abort left unprocessed.
func outcomeTable(dir string, result *importer.RunResult) cli.Table {
	table := cli.Table{Headers: []string{"file", "kind", "status", "reason", "entity_id"}}
	for _, o := range result.Outcomes {
		table.Rows = append(table.Rows, []string{
			relPath(dir, o.Path),
			o.Kind.String(),
			o.Status.String(),
			o.Reason,
			o.EntityID,
		})
	}
	for _, path := range result.Unprocessed {
		table.Rows = append(table.Rows, []string{relPath(dir, path), "", "unprocessed", "", ""})
	}
	return table
}

func relPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
