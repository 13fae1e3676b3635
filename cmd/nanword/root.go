package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/nantag"
	"github.com/wippyai/nantag/resource"
	"github.com/wippyai/nantag/store"
)

const envPrefix = "NANWORD"

type options struct {
	configFile string
	logLevel   string
	plain      bool
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "nanword",
		Short:        "Encode, decode and inspect NaN-tagged words",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfiguration(cmd, opts.configFile); err != nil {
				return err
			}
			logger, err := setupLogger(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			nantag.SetLogger(logger)
			resource.SetLogger(logger)
			store.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&opts.plain, "plain", false, "tab-separated output without styling")

	root.AddCommand(
		newEncodeCmd(opts),
		newDecodeCmd(opts),
		newStackCmd(opts),
		newInspectCmd(),
	)
	return root
}

// styled reports whether output should be rendered with lipgloss.
func (o *options) styled() bool {
	return !o.plain && term.IsTerminal(int(os.Stdout.Fd()))
}

func initConfiguration(cmd *cobra.Command, configFile string) error {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	bindFlags(cmd, v)
	return nil
}

// bindFlags applies config file and environment values to flags the user
// did not set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		flagName := f.Name
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))
			flagName = strings.ReplaceAll(f.Name, "-", "_")
		}

		if !f.Changed && v.IsSet(flagName) {
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(flagName)))
		} else if !f.Changed && v.IsSet(f.Name) {
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func setupLogger(level string) (*zap.Logger, error) {
	loggerCfg := &zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.WarnLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	loggerCfg.Level = lvl

	return loggerCfg.Build(zap.AddStacktrace(zap.DPanicLevel))
}
