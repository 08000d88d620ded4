package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/condconfig/pkg/cli"
	"mercator-hq/condconfig/pkg/importer"
)

var classifyFlags struct {
	bootstrapFlags
	output string
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show how each document would be handled",
	Long: `Classify every document and evaluate conditional policy sets against the
current app settings without importing anything.

Unlike import, classify never stops at a malformed document.`,
	Example: `  # Table of documents and what import would do with them
  condconfig classify

  # Machine-readable output
  condconfig classify --output json`,
	RunE: runClassifyCmd,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyFlags.root, "root", "", "override the web root")
	classifyCmd.Flags().StringVarP(&classifyFlags.output, "output", "o", "text", "output format (text, json, csv)")
}

func runClassifyCmd(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(classifyFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}

	a, err := newApp(cmd, classifyFlags.bootstrapFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	previews, err := a.importer.Preview(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("classify", err)
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), previewTable(a.importer.Dir(), previews))
}

func previewTable(dir string, previews []importer.Preview) cli.Table {
	table := cli.Table{Headers: []string{"file", "kind", "disposition", "would_import", "detail"}}
	for _, p := range previews {
		table.Rows = append(table.Rows, []string{
			relPath(dir, p.Path),
			p.Kind.String(),
			p.Disposition.String(),
			strconv.FormatBool(p.WouldImport),
			previewDetail(p),
		})
	}
	return table
}

// previewDetail explains a preview in one line: the error, the failed
// condition, or the type tag.
func previewDetail(p importer.Preview) string {
	switch {
	case p.Err != nil:
		return p.Err.Error()
	case p.Evaluation != nil && p.Evaluation.Failed != nil:
		return p.Evaluation.Failed.Setting + " " + string(p.Evaluation.Reason)
	default:
		return p.TypeTag
	}
}
