// Command casereport builds aggregate views over legal-case exports.
//
//	casereport build   -c pipeline.yaml --filter-key 12345678000199
//	casereport serve   -c pipeline.yaml
//	casereport validate -c pipeline.yaml
//	casereport schema
//
// Files given as arguments are read as additional file sources.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arthurrossibr/general-vision-simplified/internal/config"
)

var (
	// Global flags
	verbose        bool
	cfgPath        string
	envFiles       []string
	filterKey      string
	metricsBackend string

	logger       *zap.Logger
	closeMetrics = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "casereport",
	Short: "Aggregate views over legal-case exports",
	Long: `casereport loads lawsuit exports (JSON arrays, envelopes or NDJSON) from
files, HTTP or S3, and computes a fixed set of named views for one filter
key: distributions, rankings, year series and duration/value histograms.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeMetrics()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVarP(&cfgPath, "config", "c", "", "pipeline config (JSON or YAML)")
	pf.StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before the config")
	pf.StringVar(&filterKey, "filter-key", "", "identity number splitting ACTIVE/PASSIVE (overrides config and FILTER_KEY)")
	pf.StringVar(&metricsBackend, "metrics-backend", "", "none, pushgateway or datadog (overrides config and METRICS_BACKEND)")

	rootCmd.AddCommand(buildCmd, serveCmd, validateCmd, schemaCmd)
}

// loadPipeline resolves the effective configuration: defaults, then the
// config file, then the environment, then flags and file arguments.
func loadPipeline(args []string) (config.Pipeline, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return config.Pipeline{}, err
	}

	p := config.Defaults()
	if cfgPath != "" {
		var err error
		if p, err = config.Load(cfgPath); err != nil {
			return config.Pipeline{}, err
		}
	}
	config.ApplyEnv(&p, os.LookupEnv)
	applyFlags(&p, args)
	return p, nil
}

func applyFlags(p *config.Pipeline, args []string) {
	if filterKey != "" {
		p.Report.FilterKey = filterKey
	}
	if metricsBackend != "" {
		p.Metrics.Backend = metricsBackend
	}
	for _, path := range args {
		p.Sources = append(p.Sources, config.Source{Kind: "file", File: config.SourceFile{Path: path}})
	}
}

// checkPipeline logs every issue and fails on errors.
func checkPipeline(p config.Pipeline) error {
	issues := config.Validate(p)
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			logger.Error("config issue", zap.String("path", iss.Path), zap.String("message", iss.Message))
		} else {
			logger.Warn("config issue", zap.String("path", iss.Path), zap.String("message", iss.Message))
		}
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
