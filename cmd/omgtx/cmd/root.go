// Package cmd implements omgtx, a command-line tool for the child-chain
// transaction core: deriving wallet keys, building and signing UTXO
// spends, and inspecting encoded transactions. The root command is wired
// with cobra for commands, pflag for flags, and viper for config-file and
// environment overlay.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lover33/elixir-omg/logger"
)

const (
	// envPrefix is prepended to every flag name to form its environment
	// variable equivalent, e.g. --keystore becomes OMGTX_KEYSTORE.
	envPrefix = "OMGTX"

	defaultConfigFile = "config.yaml"
	defaultHomeDir    = "$HOME/.omgtx"
)

type rootConfiguration struct {
	HomeDir    string
	CfgFile    string
	LogLevel   string
	LogFormat  string
	LogTimeFmt string
}

type App struct {
	rootCmd *cobra.Command
	config  *rootConfiguration
}

// New builds the omgtx command tree.
func New() *App {
	config := &rootConfiguration{}
	rootCmd := &cobra.Command{
		Use:           "omgtx",
		Short:         "omgtx builds and inspects child-chain transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd, config)
		},
	}
	rootCmd.PersistentFlags().StringVar(&config.HomeDir, "home", defaultHomeDir, "omgtx home directory")
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file location (default is $HOME/.omgtx/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", logger.FormatText, "log attribute shape: text, wallet, ecs")
	rootCmd.PersistentFlags().StringVar(&config.LogTimeFmt, "log-time-format", "", "time layout for the log timestamp, or \"none\" to omit it")

	rootCmd.AddCommand(
		newKeygenCmd(config),
		newBuildCmd(config),
		newDecodeCmd(config),
	)

	return &App{rootCmd: rootCmd, config: config}
}

// Execute runs the command tree. Each subcommand builds its own log/slog
// logger on stderr via newLogger.
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

func newLogger(root *rootConfiguration) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(root.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logger.NewReplaceAttr(root.LogFormat, root.LogTimeFmt),
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func initializeConfig(cmd *cobra.Command, rootConfig *rootConfiguration) error {
	v := viper.New()

	if rootConfig.CfgFile == "" {
		rootConfig.CfgFile = rootConfig.HomeDir + string(os.PathSeparator) + defaultConfigFile
	}
	v.SetConfigFile(os.ExpandEnv(rootConfig.CfgFile))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return bindFlags(cmd, v)
}

// bindFlags binds each cobra flag to its viper equivalent (config file and
// environment variable), so the precedence is: explicit flag > env var >
// config file > default.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindErr = fmt.Errorf("binding env for flag %s: %w", f.Name, err)
				return
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindErr = fmt.Errorf("applying config value to flag %s: %w", f.Name, err)
				return
			}
		}
	})
	return bindErr
}
