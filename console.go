package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rfpludwick/machines/internal/console"
)

// Result of a console run, as printed with --format yaml
type consoleReport struct {
	Accumulator int    `yaml:"accumulator"`
	Status      string `yaml:"status"`
	PC          int    `yaml:"pc"`
	Steps       int    `yaml:"steps"`
	Visited     int    `yaml:"visited"`
}

// Result of a repair search, as printed with --format yaml
type repairReport struct {
	Site        int    `yaml:"site"`
	Original    string `yaml:"original"`
	Repaired    string `yaml:"repaired"`
	Accumulator int    `yaml:"accumulator"`
	Attempts    int    `yaml:"attempts"`
}

func (app *application) consoleCommand() *cobra.Command {
	var (
		flagInputFile string
		flagTrace     bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run, repair or list handheld console boot code",
		Long: `Boot code is one instruction per line: acc, jmp or nop followed by a signed
integer, e.g. "jmp -4".`,
	}

	cmd.PersistentFlags().StringVar(&flagInputFile, "input", "", "Input file to use rather than stdin")
	cmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "Log every executed instruction at debug level")

	// Processes the console flags passed by the CLI and loads the program
	loadProgram := func(cmd *cobra.Command) (console.Program, error) {
		cf := &app.appConfig.Console

		if cmd.Flags().Changed("input") {
			cf.InputFile = flagInputFile
		}

		if cmd.Flags().Changed("trace") {
			cf.Trace = flagTrace
		}

		input, err := app.openInput(cf.InputFile)

		if err != nil {
			return nil, err
		}

		defer input.Close()

		program, err := console.ParseProgram(input)

		if err != nil {
			return nil, fmt.Errorf("input error: %w", err)
		}

		return program, nil
	}

	cmd.AddCommand(
		app.consoleRunCommand(loadProgram),
		app.consoleRepairCommand(loadProgram),
		app.consoleDisasmCommand(loadProgram),
	)

	return cmd
}

func (app *application) consoleRunCommand(loadProgram func(*cobra.Command) (console.Program, error)) *cobra.Command {
	var flagBudget int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run until an instruction repeats or the program terminates",
		Long: `Runs the boot code and prints the accumulator when the console stops.

By default the console stops just before any instruction would run a second
time. With --budget the console instead runs without loop detection for at
most that many instructions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loadProgram(cmd)

			if err != nil {
				return err
			}

			if cmd.Flags().Changed("budget") {
				app.appConfig.Console.StepBudget = flagBudget
			}

			if err := app.appConfig.Validate(); err != nil {
				return err
			}

			cf := app.appConfig.Console
			logger := app.appLogger.With("command", "console run")

			c := console.Load(program)

			if cf.Trace {
				c.Logger = logger
			}

			if cf.StepBudget > 0 {
				c.Run(cf.StepBudget, false)
			} else {
				c.Run(0, true)
			}

			app.appMetrics.ObserveConsole(c.Status().String(), c.Steps())
			logger.Info("console stopped",
				"status", c.Status().String(),
				"accumulator", c.Accumulator(),
				"pc", c.PC(),
				"steps", c.Steps())

			if app.flagFormat == formatYAML {
				return app.writeYAML(consoleReport{
					Accumulator: c.Accumulator(),
					Status:      c.Status().String(),
					PC:          c.PC(),
					Steps:       c.Steps(),
					Visited:     c.Visited(),
				})
			}

			_, err = fmt.Fprintln(app.stdout, c.Accumulator())

			return err
		},
	}

	cmd.Flags().IntVar(&flagBudget, "budget", 0, "Run without loop detection for at most this many instructions")

	return cmd
}

func (app *application) consoleRepairCommand(loadProgram func(*cobra.Command) (console.Program, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Find the single jmp/nop swap that makes the program terminate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loadProgram(cmd)

			if err != nil {
				return err
			}

			logger := app.appLogger.With("command", "console repair")

			var searchLogger *slog.Logger

			if app.appConfig.Console.Trace {
				searchLogger = logger
			}

			result, stats, err := console.Repair(program, searchLogger)

			outcomes := make(map[string]int, len(stats.Outcomes))

			for status, runs := range stats.Outcomes {
				outcomes[status.String()] = runs
			}

			app.appMetrics.ObserveRepair(stats.Attempts, stats.Steps, outcomes)

			if errors.Is(err, console.ErrNoRepair) {
				logger.Warn("repair search exhausted", "attempts", stats.Attempts, "steps", stats.Steps)

				return err
			}

			logger.Info("program repaired",
				"site", result.Site,
				"original", result.Original.String(),
				"accumulator", result.Accumulator,
				"attempts", stats.Attempts)

			if app.flagFormat == formatYAML {
				return app.writeYAML(repairReport{
					Site:        result.Site,
					Original:    result.Original.String(),
					Repaired:    result.Original.Toggled().String(),
					Accumulator: result.Accumulator,
					Attempts:    stats.Attempts,
				})
			}

			_, err = fmt.Fprintln(app.stdout, result.Accumulator)

			return err
		},
	}
}

func (app *application) consoleDisasmCommand(loadProgram func(*cobra.Command) (console.Program, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm",
		Short: "List the program with instruction indices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loadProgram(cmd)

			if err != nil {
				return err
			}

			return program.Disassemble(app.stdout)
		},
	}
}
