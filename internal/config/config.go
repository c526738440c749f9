// Package config resolves external settings into the immutable run configuration.
package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	aerrors "astdump/internal/errors"
)

// Format is the structured-text format artifacts are rendered in.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ParseMode selects the export granularity.
type ParseMode string

const (
	// ModeFile exports the whole compilation unit per source file
	ModeFile ParseMode = "file"
	// ModeMethod exports every method declaration of a source file
	ModeMethod ParseMode = "method"
)

// Setting keys. Each key is also read from the environment as ASTDUMP_<KEY>.
const (
	KeyProjectRoot         = "project_root"
	KeyOutputFormat        = "output_format"
	KeyParseMode           = "parse_mode"
	KeyWorkers             = "workers"
	KeyIncludeConstructors = "include_constructors"
	KeyLogLevel            = "log_level"
	KeyLogFile             = "log_file"
	KeyHistory             = "history"
)

const (
	EnvPrefix          = "ASTDUMP"
	DefaultProjectRoot = "."
	SourceDirName      = "source"
	OutputDirName      = "out"
	StateDirName       = ".astdump"
	SourceExtension    = ".java"

	configFileName = "astdump"
	dotEnvFile     = ".env"
)

// Config is the resolved run configuration. It is passed by value and never
// mutated after Resolve returns.
type Config struct {
	ProjectRoot         string    `toml:"project_root"`
	Format              Format    `toml:"output_format"`
	Mode                ParseMode `toml:"parse_mode"`
	Workers             int       `toml:"workers"`
	IncludeConstructors bool      `toml:"include_constructors"`
	LogLevel            string    `toml:"log_level"`
	LogFile             string    `toml:"log_file,omitempty"`
	History             bool      `toml:"history"`
}

// SourceDir is the read-only input tree.
func (c Config) SourceDir() string {
	return filepath.Join(c.ProjectRoot, SourceDirName)
}

// OutputDir is the root every artifact is written under.
func (c Config) OutputDir() string {
	return filepath.Join(c.ProjectRoot, OutputDirName)
}

// StateDir holds run history.
func (c Config) StateDir() string {
	return StateDirOf(c.ProjectRoot)
}

// ReportPath returns the path of the persisted report for a run name.
func (c Config) ReportPath(runName string) string {
	return filepath.Join(c.ProjectRoot, runName+".json")
}

// WriteTOML writes the configuration in astdump.toml syntax.
func (c Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyProjectRoot, DefaultProjectRoot)
	v.SetDefault(KeyParseMode, string(ModeFile))
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyIncludeConstructors, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyHistory, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// output_format has no default; bind it explicitly so IsSet sees the env var.
	_ = v.BindEnv(KeyOutputFormat)

	return v
}

// Load reads .env and the optional astdump.toml from workDir into v, then resolves.
// Variables already present in the environment win over .env entries.
func Load(v *viper.Viper, workDir string) (Config, error) {
	if err := ReadSources(v, workDir); err != nil {
		return Config{}, err
	}
	return Resolve(v)
}

// LoadProjectRoot reads the same sources as Load but resolves only the project
// root, for commands that never export and so need no output format.
func LoadProjectRoot(v *viper.Viper, workDir string) (string, error) {
	if err := ReadSources(v, workDir); err != nil {
		return "", err
	}
	return projectRoot(v), nil
}

// ReadSources loads .env into the environment and astdump.toml into v.
func ReadSources(v *viper.Viper, workDir string) error {
	if err := godotenv.Load(filepath.Join(workDir, dotEnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return aerrors.New(aerrors.ConfigError, "failed to load .env", err)
	}

	v.SetConfigName(configFileName)
	v.SetConfigType("toml")
	v.AddConfigPath(workDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return aerrors.New(aerrors.ConfigError, "failed to read astdump.toml", err)
		}
	}
	return nil
}

// Resolve validates the settings held by v and builds the run configuration.
func Resolve(v *viper.Viper) (Config, error) {
	format, err := ParseFormat(v.GetString(KeyOutputFormat))
	if err != nil {
		return Config{}, err
	}

	workers := v.GetInt(KeyWorkers)
	if workers < 1 {
		workers = 1
	}

	return Config{
		ProjectRoot:         projectRoot(v),
		Format:              format,
		Mode:                ParseModeOf(v.GetString(KeyParseMode)),
		Workers:             workers,
		IncludeConstructors: v.GetBool(KeyIncludeConstructors),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFile:             strings.TrimSpace(v.GetString(KeyLogFile)),
		History:             v.GetBool(KeyHistory),
	}, nil
}

func projectRoot(v *viper.Viper) string {
	root := strings.TrimSpace(v.GetString(KeyProjectRoot))
	if root == "" {
		root = DefaultProjectRoot
	}
	return filepath.Clean(root)
}

// StateDirOf is the state directory of a project root.
func StateDirOf(projectRoot string) string {
	return filepath.Join(projectRoot, StateDirName)
}

// ParseFormat maps a setting value to a Format. Absent or unknown values are fatal.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatYAML:
		return FormatYAML, nil
	case FormatXML:
		return FormatXML, nil
	}
	if strings.TrimSpace(s) == "" {
		return "", aerrors.Newf(aerrors.ConfigError, "output format is not set (allowed: yaml, xml)")
	}
	return "", aerrors.Newf(aerrors.ConfigError, "unsupported output format %q (allowed: yaml, xml)", s)
}

// ParseModeOf maps a setting value to a ParseMode, falling back to ModeFile.
func ParseModeOf(s string) ParseMode {
	if ParseMode(strings.ToLower(strings.TrimSpace(s))) == ModeMethod {
		return ModeMethod
	}
	return ModeFile
}
