package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"astdump/internal/config"
	"astdump/internal/version"
)

// workDir is where .env and astdump.toml are looked up.
const workDir = "."

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "astdump",
		Short: "Export Java sources as YAML or XML syntax trees",
		Long: `astdump walks <project>/source, parses every .java file and writes its syntax
tree to the mirrored path under <project>/out with a .yaml or .xml suffix.

In file mode each artifact holds the whole compilation unit. In method mode it
holds one document per method declaration. A JSON run report named
log_<timestamp>.json is written to the project root.

Settings come from flags, ASTDUMP_* environment variables (.env is loaded),
astdump.toml in the working directory, then defaults.

Examples:
  astdump --format yaml
  astdump --project ./proj --format xml --mode method --workers 4
  ASTDUMP_OUTPUT_FORMAT=yaml astdump`,
		Version:       version.Info(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, v)
		},
	}
	cmd.SetVersionTemplate("astdump version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.String("project", config.DefaultProjectRoot, "Project root containing source/")
	flags.String("format", "", "Output format (yaml, xml)")
	flags.String("mode", string(config.ModeFile), "Parse mode (file, method)")
	flags.Int("workers", 1, "Number of files exported concurrently")
	flags.Bool("include-constructors", false, "Export constructors alongside methods in method mode")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, silent)")
	flags.String("log-file", "", "Also write logs to this file")
	flags.Bool("history", true, "Record the run in <project>/.astdump/history.db")
	bindFlags(v, flags)

	cmd.AddCommand(newConfigCmd(v))
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newHistoryCmd(v))
	cmd.AddCommand(newInspectCmd())
	return cmd
}

// bindFlags maps persistent flags onto their setting keys. Only flags that
// were set on the command line override env and file values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	keys := map[string]string{
		"project":              config.KeyProjectRoot,
		"format":               config.KeyOutputFormat,
		"mode":                 config.KeyParseMode,
		"workers":              config.KeyWorkers,
		"include-constructors": config.KeyIncludeConstructors,
		"log-level":            config.KeyLogLevel,
		"log-file":             config.KeyLogFile,
		"history":              config.KeyHistory,
	}
	for name, key := range keys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func loadConfig(v *viper.Viper) (config.Config, error) {
	return config.Load(v, workDir)
}
