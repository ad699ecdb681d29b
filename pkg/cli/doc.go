/*
Package cli provides command-line helpers for the netexport command.

Output Formatting:

Command results print as an aligned table, JSON or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, cli.ResultTable(results)); err != nil {
		return err
	}

Progress Reporting:

Long imports report progress on stderr:

	progress := cli.NewProgressReporter(nil)
	progress.Start(int64(len(statements)))
	for i := range statements {
		// Import statement
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit Codes:

ExitCode maps command errors to process exit codes; invalid configuration
or export settings exit with 2, other failures with 1.
*/
package cli
