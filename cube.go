package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rfpludwick/machines/internal/cube"
	"github.com/rfpludwick/machines/internal/geom"
)

type cubeFlags struct {
	inputFile          string
	outputFile         string
	outputDirectory    string
	generations        int
	dimensions         int
	newLifeSpawn       []int
	existingLifeRemain []int
}

// Result of a cube run, as printed with --format yaml
type cubeReport struct {
	Dimensions  int    `yaml:"dimensions"`
	Generations int    `yaml:"generations"`
	Rule        string `yaml:"rule"`
	Active      int    `yaml:"active"`
	Known       int    `yaml:"known"`
}

func (app *application) cubeCommand() *cobra.Command {
	var flags cubeFlags

	cmd := &cobra.Command{
		Use:   "cube",
		Short: "Simulate Conway cubes seeded from a 2-D picture of '#' and '.'",
		Long: `Reads a picture of '#' (active) and '.' (inactive) cells, embeds it at zero
in every higher dimension, runs the configured number of generations and prints
how many cells are active at the end.

Examples:
  machines cube --input day17.txt                 # 3 dimensions, 6 generations
  machines cube --input day17.txt --dims 4
  machines cube --dims 2 --generations 100 --outdir ticks < glider.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.processCubeConfigurationCli(cmd, flags)

			if err := app.appConfig.Validate(); err != nil {
				return err
			}

			return app.runCube()
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.inputFile, "input", "", "Input file to use rather than stdin")
	f.StringVar(&flags.outputFile, "output", "", "Write the final active cells to this file")
	f.StringVar(&flags.outputDirectory, "outdir", "", "Output directory to log all generations")
	f.IntVar(&flags.generations, "generations", 0, "Number of generations to run")
	f.IntVar(&flags.dimensions, "dims", 0, fmt.Sprintf("Number of dimensions, 2 through %d", geom.MaxDims))
	f.IntSliceVar(&flags.newLifeSpawn, "newlife", nil, "How many neighbors are required for new life to spawn; comma-delimited")
	f.IntSliceVar(&flags.existingLifeRemain, "exlife", nil, "How many neighbors are required for existing life to remain; comma-delimited")

	return cmd
}

// Processes the cube flags passed by the CLI
func (app *application) processCubeConfigurationCli(cmd *cobra.Command, flags cubeFlags) {
	cf := &app.appConfig.Cube
	changed := cmd.Flags().Changed

	if changed("input") {
		cf.InputFile = flags.inputFile
	}

	if changed("output") {
		cf.OutputFile = flags.outputFile
	}

	if changed("outdir") {
		cf.OutputDirectory = flags.outputDirectory
	}

	if changed("generations") {
		cf.Generations = flags.generations
	}

	if changed("dims") {
		cf.Dimensions = flags.dimensions
	}

	if changed("newlife") {
		cf.NewLifeSpawn = flags.newLifeSpawn
	}

	if changed("exlife") {
		cf.ExistingLifeRemain = flags.existingLifeRemain
	}
}

func (app *application) runCube() error {
	cf := app.appConfig.Cube
	logger := app.appLogger.With("command", "cube")

	input, err := app.openInput(cf.InputFile)

	if err != nil {
		return err
	}

	rows, err := cube.ReadRows(input)
	input.Close()

	if err != nil {
		return err
	}

	grid, err := cube.NewWithRule(rows, cf.Dimensions, cube.Rule{
		Birth:   cf.NewLifeSpawn,
		Survive: cf.ExistingLifeRemain,
	})

	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	digits, err := prepareOutputDirectory(cf.OutputDirectory, cf.Generations)

	if err != nil {
		return err
	}

	logger.Info("simulation starting",
		"dimensions", cf.Dimensions,
		"generations", cf.Generations,
		"rule", grid.Rule().String(),
		"active", grid.CountActive())

	// Run the simulation
	for generation := 0; generation < cf.Generations; generation++ {
		if err := outputGridGeneration(grid, cf.OutputDirectory, digits); err != nil {
			return err
		}

		grid.Step()

		active, known := grid.CountActive(), grid.Known()
		app.appMetrics.ObserveGeneration(active, known)
		logger.Debug("generation", "generation", grid.Generation(), "active", active, "known", known)
	}

	// And we're done; let's wrap up
	if err := outputGridGeneration(grid, cf.OutputDirectory, digits); err != nil {
		return err
	}

	if cf.OutputFile != "" {
		if err := writeGridFile(grid, cf.OutputFile); err != nil {
			return err
		}
	}

	logger.Info("simulation finished", "active", grid.CountActive(), "known", grid.Known())

	if app.flagFormat == formatYAML {
		return app.writeYAML(cubeReport{
			Dimensions:  grid.Dims(),
			Generations: grid.Generation(),
			Rule:        grid.Rule().String(),
			Active:      grid.CountActive(),
			Known:       grid.Known(),
		})
	}

	_, err = fmt.Fprintln(app.stdout, grid.CountActive())

	return err
}

// Creates the output directory if needed and returns the zero-padding width
// for per-generation file names
func prepareOutputDirectory(dir string, generations int) (int, error) {
	if dir == "" {
		return 0, nil
	}

	fileInfo, err := os.Stat(dir)

	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("unable to create output directory %s: %w", dir, err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("unable to stat output directory %s: %w", dir, err)
	} else if !fileInfo.IsDir() {
		return 0, fmt.Errorf("output directory %s exists but is a file", dir)
	}

	return len(fmt.Sprint(generations)), nil
}

// Outputs the grid for the current generation when an output directory is set
func outputGridGeneration[P cube.Coord[P]](grid *cube.Grid[P], dir string, digits int) error {
	if dir == "" {
		return nil
	}

	filename := filepath.Join(dir, fmt.Sprintf("%0*d.txt", digits, grid.Generation()))

	return writeGridFile(grid, filename)
}

func writeGridFile[P cube.Coord[P]](grid *cube.Grid[P], filename string) error {
	file, err := os.Create(filename)

	if err != nil {
		return fmt.Errorf("opening output file %s: %w", filename, err)
	}

	if err := grid.Write(file); err != nil {
		file.Close()

		return fmt.Errorf("writing output file %s: %w", filename, err)
	}

	return file.Close()
}
