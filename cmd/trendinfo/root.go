package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-detrend/detrend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newRootCmd builds the command with its own viper instance so repeated
// invocations do not share configuration.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "trendinfo [flags] [scenario ...]",
		Short: "Fit and remove trends from synthetic light curves.",
		Long: `trendinfo synthesizes deterministic light curves, runs the robust spline
de-trender on each and prints knots, refinement passes, breakpoints and the
residual scatter of the de-trended flux.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfigFile(v); err != nil {
				return err
			}
			var err error
			logger, err = newLogger(v.GetBool("verbose"))
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool("list") {
				return printList(cmd.OutOrStdout())
			}
			s, err := loadSettings(v)
			if err != nil {
				return err
			}

			entries := resolveScenarios(args, cmd.ErrOrStderr())
			if len(entries) == 0 {
				return fmt.Errorf("no matching scenarios (use --list to see available)")
			}

			rows := make([]row, 0, len(entries))
			for _, e := range entries {
				r, err := runScenario(e, s, logger)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", e.name, err)
				}
				rows = append(rows, r)
			}
			return printTable(cmd.OutOrStdout(), rows)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	def := detrend.PresetProfile(detrend.PresetDefault)
	f := cmd.Flags()
	f.Float64("q", def.Q, "Reweighting severity; lower clips outliers harder")
	f.Float64("dt", def.Dt, "Base knot spacing in days")
	f.Float64("tol", def.Tol, "Convergence threshold on the median chi-squared")
	f.Int("maxiter", def.MaxIter, "Reweighting iterations per refinement pass")
	f.Int("maxditer", def.MaxDIter, "Discontinuity refinement passes (>= 1)")
	f.Float64("fill-times", 0, "Fill knots across gaps longer than this many days (0 = off)")
	f.Int("nfill", def.NFill, "Knots inserted per gap and per breakpoint")
	f.Float64("threshold", def.Threshold, "Minimum kernel score of a breakpoint")
	f.String("preset", "default", "Parameter preset: default or kepler")
	f.Int64("seed", 1, "Noise seed of the synthetic light curves")
	f.BoolP("verbose", "v", false, "Log fit progress at debug level")
	f.Bool("list", false, "List available scenarios")
	f.String("config", "", "Path to config file")
	if err := v.BindPFlags(f); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	v.SetEnvPrefix("TRENDINFO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

// loadConfigFile reads --config or an optional .trendinfo.yaml.
func loadConfigFile(v *viper.Viper) error {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".trendinfo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
