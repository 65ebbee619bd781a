// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	flagConfig      = "config"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagConcurrency = "concurrency"
	flagMetrics     = "metrics"
)

// options are the settings shared by every sub command.
type options struct {
	logLevel    int
	logFormat   string
	concurrency int
	metrics     bool
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "newton",
		Short:         "Unconstrained minimization with the full-step Newton method",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfig(v, cmd.Flags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "config file (default is ./newton.yaml when present)")
	flags.Int(flagLogLevel, 0, "log verbosity: 0 lifecycle, 1 iterations, 2 iterates, 3 hessians")
	flags.String(flagLogFormat, "console", "log encoding: console or json")
	flags.Int(flagConcurrency, runtime.GOMAXPROCS(0), "maximum number of problems optimized at once")
	flags.Bool(flagMetrics, false, "print Prometheus metrics after the run")

	cmd.AddCommand(newSolveCommand(v))
	return cmd
}

// readConfig layers flags over environment over the config file.
func readConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix("NEWTON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("newton")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func loadOptions(v *viper.Viper) (o options, err error) {
	o = options{
		logLevel:    v.GetInt(flagLogLevel),
		logFormat:   v.GetString(flagLogFormat),
		concurrency: v.GetInt(flagConcurrency),
		metrics:     v.GetBool(flagMetrics),
	}
	switch {
	case o.logLevel < 0:
		err = fmt.Errorf("%s must not be negative", flagLogLevel)
	case o.logFormat != "console" && o.logFormat != "json":
		err = fmt.Errorf("%s must be console or json, got %q", flagLogFormat, o.logFormat)
	case o.concurrency <= 0:
		err = fmt.Errorf("%s must greater than 0", flagConcurrency)
	}
	return
}

// newLogger builds a zap backed logr.Logger where V(n) is enabled up to the log level.
func newLogger(o options) (logr.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	if o.logFormat == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-o.logLevel))
	cfg.Sampling = nil
	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("build logger: %w", err)
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
