package cmd

import (
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubev2v/sqltoolkit/internal/config"
	"github.com/kubev2v/sqltoolkit/internal/logger"
)

// envPrefix prefixes the environment variable of every flag:
// --server-http-port is read from SQLTK_SERVER_HTTP_PORT.
const envPrefix = "SQLTK"

func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	restore := func() {}

	root := &cobra.Command{
		Use:           "sqltk",
		Short:         "Parse, augment and render SQL SELECT statements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnvironment(cmd)

			undo, err := logger.Setup(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			restore = undo
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			restore()
		},
	}

	registerLogFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		NewRunCommand(cfg),
		NewParseCommand(cfg),
		NewRenderCommand(cfg),
	)

	return root
}

func registerLogFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format (console, json)")
}

// bindEnvironment fills every flag left unset on the command line from its
// environment variable.
func bindEnvironment(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
}
