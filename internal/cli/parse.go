package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/dropsimgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dropsimgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
dropsimgo - a destruction-order and lifetime model, one scenario at a time.

Usage:
  dropsimgo [options] [SCENARIO_PATH]

Arguments:
  SCENARIO_PATH
    Path to a single .hcl scenario file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	scenarioFlag := flagSet.String("scenario", "", "Name of a registered scenario to run.")
	sFlag := flagSet.String("s", "", "Name of a registered scenario to run (shorthand).")
	listFlag := flagSet.Bool("list", false, "List registered scenarios and exit.")
	checkOnlyFlag := flagSet.Bool("check-only", false, "Validate scenarios without printing the destruction trace.")
	reportFlag := flagSet.String("report", "", "Write a YAML report to this path ('-' for standard output).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	name := *scenarioFlag
	if name == "" {
		name = *sFlag
	}

	path := ""
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if name == "" && path == "" && !*listFlag {
		slog.Debug("Nothing to run, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		ScenarioName: name,
		ScenarioPath: path,
		ListOnly:     *listFlag,
		CheckOnly:    *checkOnlyFlag,
		ReportPath:   *reportFlag,
		LogFormat:    *logFormatFlag,
		LogLevel:     *logLevelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
