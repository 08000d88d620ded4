/*
Package cli provides command-line helpers for the condconfig command.

Output Formatting:

Command results are written as text, JSON or CSV. Tabular results use Table,
which every formatter understands:

	formatter := cli.NewFormatter(cli.FormatJSON)
	table := cli.Table{Headers: []string{"file", "kind"}, Rows: rows}
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Exit Codes:

Commands return an *ExitError to pick a specific exit code; ExitCode maps any
returned error to the code main passes to os.Exit.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
