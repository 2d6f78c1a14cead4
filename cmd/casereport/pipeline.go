package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/arthurrossibr/general-vision-simplified/internal/config"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource"
	"github.com/arthurrossibr/general-vision-simplified/internal/metrics"
	"github.com/arthurrossibr/general-vision-simplified/internal/metrics/datadog"
	"github.com/arthurrossibr/general-vision-simplified/internal/metrics/prompush"
	jsonparser "github.com/arthurrossibr/general-vision-simplified/internal/parser/json"
	"github.com/arthurrossibr/general-vision-simplified/internal/report"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
	"github.com/arthurrossibr/general-vision-simplified/internal/store"
	"github.com/arthurrossibr/general-vision-simplified/internal/transformer/builtin"
)

// setupMetrics installs the configured backend and returns its closer.
// Backend failures only disable metrics; they never stop a run.
func setupMetrics(m config.Metrics, job string, log *zap.Logger) func() {
	var closer func() error
	switch m.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(job, m.PushgatewayURL)
		if err != nil {
			log.Warn("metrics: pushgateway backend unavailable; using nop", zap.Error(err))
			return func() {}
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      m.DatadogAddr,
			Namespace: "casereport.",
			Tags:      []string{"job:" + job},
		})
		if err != nil {
			log.Warn("metrics: datadog backend unavailable; using nop", zap.Error(err))
			return func() {}
		}
		metrics.SetBackend(b)
		closer = b.Close
	case "", "none":
		log.Debug("metrics: disabled")
		return func() {}
	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", m.Backend))
		return func() {}
	}
	log.Debug("metrics: enabled", zap.String("backend", m.Backend), zap.String("job", job))

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := metrics.Flush(); err != nil {
				log.Warn("metrics: flush error", zap.Error(err))
			}
			if closer != nil {
				if err := closer(); err != nil {
					log.Warn("metrics: close error", zap.Error(err))
				}
			}
			metrics.SetBackend(nil)
		})
	}
}

// loadSnapshot reads every configured source into a snapshot.
func loadSnapshot(ctx context.Context, p config.Pipeline, log *zap.Logger) (*store.Snapshot, error) {
	drops := skiplog.New()
	sources, err := datasource.FromConfig(ctx, p.Sources, drops)
	if err != nil {
		return nil, err
	}
	opt := store.Options{
		Job:    p.Job,
		Parser: jsonparser.New(jsonparser.FromConfigOptions(p.Parser.Options)),
		Logger: log,
		Drops:  drops,
	}
	if len(p.Transform) > 0 {
		if opt.Transform, err = builtin.FromConfig(p.Transform, opt.Drops); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	return store.Load(ctx, sources, opt)
}

func newBuilder(p config.Pipeline, log *zap.Logger) (*report.Builder, error) {
	def, err := report.FromConfig(p.Report)
	if err != nil {
		return nil, err
	}
	return report.NewBuilder(def, report.WithJob(p.Job), report.WithLogger(log))
}
