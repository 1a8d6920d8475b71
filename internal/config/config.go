// Package config loads the machines configuration file. Files ending in .toml
// are read as TOML; anything else is read as YAML. Values missing from the file
// keep their defaults, and command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Configuration file struct
type File struct {
	LogLevel    string `yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat   string `yaml:"log_format" toml:"log_format" validate:"omitempty,oneof=auto text json"`
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`

	Cube    Cube    `yaml:"cube" toml:"cube"`
	Console Console `yaml:"console" toml:"console"`
}

type Cube struct {
	InputFile          string `yaml:"input_file" toml:"input_file"`
	OutputFile         string `yaml:"output_file" toml:"output_file"`
	OutputDirectory    string `yaml:"output_directory" toml:"output_directory"`
	Generations        int    `yaml:"generations" toml:"generations" validate:"gte=1,lte=1000"`
	Dimensions         int    `yaml:"dimensions" toml:"dimensions" validate:"gte=2,lte=6"`
	NewLifeSpawn       []int  `yaml:"new_life_spawn" toml:"new_life_spawn" validate:"dive,gte=0,lte=728"`
	ExistingLifeRemain []int  `yaml:"existing_life_remain" toml:"existing_life_remain" validate:"dive,gte=0,lte=728"`
}

type Console struct {
	InputFile  string `yaml:"input_file" toml:"input_file"`
	StepBudget int    `yaml:"step_budget" toml:"step_budget" validate:"gte=0"`
	Trace      bool   `yaml:"trace" toml:"trace"`
}

var validate = validator.New()

// Defaults returns the configuration used when no file is given.
func Defaults() File {
	return File{
		LogLevel:  "info",
		LogFormat: "auto",
		Cube: Cube{
			Generations:        6,
			Dimensions:         3,
			NewLifeSpawn:       []int{3},
			ExistingLifeRemain: []int{2, 3},
		},
	}
}

// Load reads and validates the configuration file at path on top of Defaults.
func Load(path string) (File, error) {
	cf := Defaults()

	body, err := os.ReadFile(path)

	if err != nil {
		return cf, fmt.Errorf("reading configuration file: %w", err)
	}

	if err := Decode(body, filepath.Ext(path), &cf); err != nil {
		return cf, err
	}

	return cf, cf.Validate()
}

// Decode overlays body onto cf. ext selects the format: ".toml" for TOML,
// anything else for YAML. Unknown keys are rejected.
func Decode(body []byte, ext string, cf *File) error {
	if strings.EqualFold(ext, ".toml") {
		md, err := toml.Decode(string(body), cf)

		if err != nil {
			return fmt.Errorf("decoding configuration TOML: %w", err)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))

			for i, key := range undecoded {
				keys[i] = key.String()
			}

			sort.Strings(keys)

			return fmt.Errorf("decoding configuration TOML: unknown keys %s", strings.Join(keys, ", "))
		}

		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(body))
	decoder.KnownFields(true)

	// An empty document leaves the defaults alone
	if err := decoder.Decode(cf); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding configuration YAML: %w", err)
	}

	return nil
}

// Validate checks every field against its constraints.
func (cf File) Validate() error {
	if err := validate.Struct(cf); err != nil {
		var verrs validator.ValidationErrors

		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))

			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}

			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}

		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
