package cmd

import (
	"errors"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/speclint/speclint/internal/config"
	"github.com/speclint/speclint/internal/report"
)

var (
	selectorFlag  string
	thresholdFlag string
	formatFlag    string
	configFlag    string
	jobsFlag      int
	noColorFlag   bool
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:          "speclint [flags] <file ...>",
	Short:        "speclint — CSS selector specificity linter",
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlag {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		return RunCheck(cmd.OutOrStdout(), args, opts)
	},
}

func init() {
	rootCmd.Flags().StringVar(&selectorFlag, "selector", "", "Analyze a single selector instead of files")
	rootCmd.Flags().StringVar(&thresholdFlag, "threshold", "0,1,3,3", "Specificity threshold")
	rootCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text or json")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (default "+config.DefaultFile+" if present)")
	rootCmd.Flags().IntVar(&jobsFlag, "jobs", runtime.NumCPU(), "Max files analyzed concurrently")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "Debug logging to stderr")
}

// resolveOptions merges flags over the config file over built-in defaults.
// A flag that was explicitly set always wins.
func resolveOptions(cmd *cobra.Command) (Options, error) {
	var cfg *config.Config
	var err error
	if configFlag != "" {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Selector:  selectorFlag,
		Threshold: thresholdFlag,
		Format:    formatFlag,
		Jobs:      jobsFlag,
		Ignore:    cfg.Ignore,
		Verbose:   verboseFlag,
	}
	flags := cmd.Flags()
	if !flags.Changed("threshold") && cfg.Threshold != "" {
		opts.Threshold = cfg.Threshold
	}
	if !flags.Changed("format") && cfg.Format != "" {
		opts.Format = cfg.Format
	}
	if !flags.Changed("jobs") && cfg.Jobs > 0 {
		opts.Jobs = cfg.Jobs
	}
	return opts, nil
}

// newLogger builds the --verbose debug logger. Everything goes to stderr
// so report output stays clean.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = zapcore.OmitKey
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, report.ErrViolations) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
