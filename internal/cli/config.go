package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/toyz/modgen/internal/errors"
	"github.com/toyz/modgen/pkg/modgen"
)

// DefaultConfigFile is looked up in the working directory when no config
// path is given
const DefaultConfigFile = ".modgen.yaml"

// GeneratedHeader is the first line of every generated file
const GeneratedHeader = "// Code generated by modgen. DO NOT EDIT."

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds the settings shared by the expand, clean and watch commands
type Config struct {
	// InputSuffix selects the files to expand
	InputSuffix string `yaml:"input_suffix"`

	// OutputSuffix replaces InputSuffix in the generated file's name
	OutputSuffix string `yaml:"output_suffix"`

	Attribute             string `yaml:"attribute"`
	Placeholder           string `yaml:"placeholder"`
	ExpandTypeDefinitions bool   `yaml:"expand_type_definitions"`

	// Header prepends GeneratedHeader to generated files. The cleaner only
	// removes files that carry it.
	Header bool `yaml:"header"`

	// Concurrency bounds the files expanded at once; 0 means GOMAXPROCS
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		InputSuffix:  ".mg.rs",
		OutputSuffix: ".rs",
		Attribute:    modgen.DefaultAttribute,
		Placeholder:  modgen.DefaultPlaceholder,
		Header:       true,
	}
}

// LoadConfig reads a YAML config over the defaults. An empty path loads
// DefaultConfigFile if it exists; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.WrapConfigurationError(path, "open", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.WrapConfigurationError(path, "decode", err).
			WithSuggestion("Known keys: input_suffix, output_suffix, attribute, placeholder, expand_type_definitions, header, concurrency")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.WrapConfigurationError(path, "validate", err)
	}
	return cfg, nil
}

// Validate checks the settings for consistency
func (c Config) Validate() error {
	switch {
	case c.InputSuffix == "":
		return errors.New(errors.ConfigurationErrorCode, "input_suffix cannot be empty")
	case c.OutputSuffix == "":
		return errors.New(errors.ConfigurationErrorCode, "output_suffix cannot be empty")
	case c.InputSuffix == c.OutputSuffix:
		return errors.Newf(errors.ConfigurationErrorCode, "input_suffix and output_suffix are both '%s'", c.InputSuffix).
			WithSuggestion("Use a distinct suffix for inputs, such as .mg.rs")
	case strings.HasSuffix(c.OutputSuffix, c.InputSuffix):
		return errors.Newf(errors.ConfigurationErrorCode, "output_suffix '%s' would match input_suffix '%s'", c.OutputSuffix, c.InputSuffix)
	case !identPattern.MatchString(c.Attribute):
		return errors.Newf(errors.ConfigurationErrorCode, "attribute '%s' is not an identifier", c.Attribute)
	case !identPattern.MatchString(c.Placeholder):
		return errors.Newf(errors.ConfigurationErrorCode, "placeholder '%s' is not an identifier", c.Placeholder)
	case c.Concurrency < 0:
		return errors.Newf(errors.ConfigurationErrorCode, "concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// OutputPath returns the generated file's path for an input file
func (c Config) OutputPath(input string) string {
	return strings.TrimSuffix(input, c.InputSuffix) + c.OutputSuffix
}

// IsInput reports whether path names an input file
func (c Config) IsInput(path string) bool {
	return strings.HasSuffix(path, c.InputSuffix)
}

// Options translates the config into expansion options
func (c Config) Options(logger *zap.Logger) []modgen.Option {
	opts := []modgen.Option{
		modgen.WithAttribute(c.Attribute),
		modgen.WithPlaceholder(c.Placeholder),
		modgen.WithTypeDefinitions(c.ExpandTypeDefinitions),
	}
	if logger != nil {
		opts = append(opts, modgen.WithLogger(logger))
	}
	return opts
}

// String renders the config for verbose output
func (c Config) String() string {
	return fmt.Sprintf("inputs *%s -> *%s, attribute #[%s], placeholder %s",
		c.InputSuffix, c.OutputSuffix, c.Attribute, c.Placeholder)
}
