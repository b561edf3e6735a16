package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when --config is
// not given and the file exists.
const DefaultConfigFile = "scriptvec.yaml"

// Config is the optional project file of the compile command. Every key
// mirrors a compile flag; a flag set on the command line wins.
type Config struct {
	Corpus         string `yaml:"corpus"`
	Overrides      string `yaml:"overrides"`
	OutputDir      string `yaml:"output_dir"`
	ReplaceInFile  string `yaml:"replace_in_file"`
	JSONOut        string `yaml:"json_out"`
	ChunkSize      int    `yaml:"chunk_size"`
	Workers        int    `yaml:"workers"`
	DB             string `yaml:"db"`
	ForkNamespace  string `yaml:"fork_namespace"`
	ErrorNamespace string `yaml:"error_namespace"`
}

// LoadConfig decodes a project file. Unknown keys are errors.
func LoadConfig(path string) (*Config, error) {
	data, err := readInput(path, "config")
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("decoding config: %v", err), Path: path, Err: err}
	}
	return &cfg, nil
}

// findConfig returns the project file to use: explicit if given, else
// DefaultConfigFile when present. A nil config means none.
func findConfig(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := LoadConfig(explicit)
		return cfg, explicit, err
	}
	if _, err := os.Stat(DefaultConfigFile); errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	cfg, err := LoadConfig(DefaultConfigFile)
	return cfg, DefaultConfigFile, err
}

// apply copies config values into opts for every flag the user did not
// set. changed reports whether a flag was given on the command line.
func (c *Config) apply(opts *CompileOptions, changed func(flag string) bool) {
	if c == nil {
		return
	}
	str := func(flag, value string, dst *string) {
		if value != "" && !changed(flag) {
			*dst = value
		}
	}
	num := func(flag string, value int, dst *int) {
		if value != 0 && !changed(flag) {
			*dst = value
		}
	}
	str("overrides", c.Overrides, &opts.Overrides)
	str("output-dir", c.OutputDir, &opts.OutputDir)
	str("replace-in-file", c.ReplaceInFile, &opts.ReplaceInFile)
	str("json-out", c.JSONOut, &opts.JSONOut)
	num("chunk-size", c.ChunkSize, &opts.ChunkSize)
	num("workers", c.Workers, &opts.Workers)
	str("db", c.DB, &opts.DB)
	str("fork-namespace", c.ForkNamespace, &opts.ForkNamespace)
	str("error-namespace", c.ErrorNamespace, &opts.ErrorNamespace)
}
