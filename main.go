package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rfpludwick/machines/internal/config"
	"github.com/rfpludwick/machines/internal/logging"
	"github.com/rfpludwick/machines/internal/metrics"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// Everything a single invocation needs: streams, CLI flags, and the settings
// derived from defaults, the configuration file and those flags
type application struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	flagConfigurationFile string
	flagLogLevel          string
	flagLogFormat         string
	flagMetricsFile       string
	flagFormat            string

	appConfig  config.File
	appLogger  *slog.Logger
	appMetrics *metrics.Metrics
}

func newApplication(stdin io.Reader, stdout, stderr io.Writer) *application {
	return &application{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

func main() {
	app := newApplication(os.Stdin, os.Stdout, os.Stderr)

	if err := app.execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Runs the command line, then writes the metrics file if one is configured.
// Metrics are written for failed commands too, once bootstrapping got far
// enough to create them.
func (app *application) execute(args []string) error {
	root := app.rootCommand()
	root.SetArgs(args)

	err := root.Execute()

	if app.appMetrics != nil && app.appConfig.MetricsFile != "" {
		if writeErr := app.appMetrics.WriteFile(app.appConfig.MetricsFile); writeErr != nil {
			err = errors.Join(err, writeErr)
		}
	}

	return err
}

func (app *application) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "machines",
		Short: "Handheld console emulator and N-dimensional Conway cube simulator",
		Long: `machines runs two small simulations over puzzle input.

  machines cube                  Conway cubes in 2 to 6 dimensions
  machines console run           Run boot code until it loops or terminates
  machines console repair        Find the jmp/nop swap that lets boot code terminate
  machines console disasm        List boot code with instruction indices

Settings come from built-in defaults, then the --configuration file (YAML, or
TOML when the name ends in .toml), then command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.processConfigurationFile(); err != nil {
				return err
			}

			app.processConfigurationCli(cmd)

			return app.bootstrap()
		},
	}

	root.SetIn(app.stdin)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&app.flagConfigurationFile, "configuration", "", "Path to configuration file to use")
	flags.StringVar(&app.flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&app.flagLogFormat, "log-format", "", "Log format: auto, text or json")
	flags.StringVar(&app.flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")
	flags.StringVar(&app.flagFormat, "format", formatText, "Result format: text or yaml")

	root.AddCommand(app.cubeCommand(), app.consoleCommand())

	return root
}

// Processes the configuration file, if any, on top of the defaults
func (app *application) processConfigurationFile() error {
	if app.flagConfigurationFile == "" {
		app.appConfig = config.Defaults()

		return nil
	}

	cf, err := config.Load(app.flagConfigurationFile)

	if err != nil {
		return fmt.Errorf("configuration file %s: %w", app.flagConfigurationFile, err)
	}

	app.appConfig = cf

	return nil
}

// Processes the global flags; only flags given on the command line override the file
func (app *application) processConfigurationCli(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		app.appConfig.LogLevel = app.flagLogLevel
	}

	if flags.Changed("log-format") {
		app.appConfig.LogFormat = app.flagLogFormat
	}

	if flags.Changed("metrics-file") {
		app.appConfig.MetricsFile = app.flagMetricsFile
	}
}

// Common bootstrapping after the configuration file and global flags have been processed
func (app *application) bootstrap() error {
	if app.flagFormat != formatText && app.flagFormat != formatYAML {
		return fmt.Errorf("unknown result format %q", app.flagFormat)
	}

	level, err := logging.ParseLevel(app.appConfig.LogLevel)

	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: app.appConfig.LogFormat,
		Output: app.stderr,
	})

	if err != nil {
		return err
	}

	app.appLogger = logger.With("run_id", uuid.NewString())
	app.appMetrics = metrics.New()

	return nil
}

// Opens the input file, or stdin when no file is configured
func (app *application) openInput(filename string) (io.ReadCloser, error) {
	if filename == "" {
		return io.NopCloser(app.stdin), nil
	}

	file, err := os.Open(filename)

	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}

	return file, nil
}

// Writes a result report as a YAML document to stdout
func (app *application) writeYAML(report any) error {
	body, err := yaml.Marshal(report)

	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err = app.stdout.Write(body)

	return err
}
