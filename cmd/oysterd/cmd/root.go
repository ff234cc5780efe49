package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oyster-market/oyster/app"
)

const (
	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"

	configName = "oysterd"
	envPrefix  = "OYSTER"
)

var sdkConfigOnce sync.Once

type configKey struct{}

// NewRootCmd creates the root command for oysterd.
func NewRootCmd() *cobra.Command {
	initSDKConfig()

	rootCmd := &cobra.Command{
		Use:   "oysterd",
		Short: "Oyster compute marketplace ledger",
		Long: `oysterd runs the Oyster job ledger in process: it replays job scenarios
against the market and timelock modules, quotes usage costs and manages
ledger genesis files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, v))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, app.DefaultNodeHome, "directory holding oysterd.yaml")
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error|disabled)")
	rootCmd.PersistentFlags().String(flagLogFormat, "plain", "log format (plain|json)")

	rootCmd.AddCommand(
		SimulateCmd(),
		QuoteCmd(),
		GenesisCmd(),
	)

	return rootCmd
}

func initSDKConfig() {
	sdkConfigOnce.Do(func() {
		app.SetConfig()
	})
}

// loadConfig layers flags over OYSTER_* environment variables over
// <home>/oysterd.yaml.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString(flagHome))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s config: %w", configName, err)
		}
	}

	return v, nil
}

// configFromCmd returns the configuration loaded by the root command.
func configFromCmd(cmd *cobra.Command) *viper.Viper {
	if cmd.Context() != nil {
		if v, ok := cmd.Context().Value(configKey{}).(*viper.Viper); ok {
			return v
		}
	}
	return viper.New()
}

// newLogger builds the process logger from --log-level and --log-format.
func newLogger(v *viper.Viper) (log.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", flagLogLevel, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	switch format := v.GetString(flagLogFormat); format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
	default:
		return nil, fmt.Errorf("invalid %s %q", flagLogFormat, format)
	}

	return log.NewLogger(os.Stderr, opts...), nil
}
