package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arthurrossibr/general-vision-simplified/internal/config"
	"github.com/arthurrossibr/general-vision-simplified/internal/report"
	"github.com/arthurrossibr/general-vision-simplified/internal/server"
	"github.com/arthurrossibr/general-vision-simplified/internal/store"
)

var (
	outPath  string
	viewName string
	pretty   bool
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Load the sources and print the report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline(args)
		if err != nil {
			return err
		}
		if err := checkPipeline(p); err != nil {
			return err
		}
		closeMetrics = setupMetrics(p.Metrics, p.Job, logger)

		ctx := cmd.Context()
		snap, err := loadSnapshot(ctx, p, logger)
		if err != nil {
			return err
		}
		b, err := newBuilder(p, logger)
		if err != nil {
			return err
		}
		r, err := b.Build(ctx, snap, p.Report.FilterKey)
		if err != nil {
			return err
		}

		var out any = r
		if viewName != "" {
			t, ok := r.Views[viewName]
			if !ok {
				return fmt.Errorf("unknown view %q", viewName)
			}
			out = t
		}
		return writeJSON(cmd.OutOrStdout(), outPath, out, pretty)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [files...]",
	Short: "Serve reports over HTTP; SIGHUP reloads the sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline(args)
		if err != nil {
			return err
		}
		if err := checkPipeline(p); err != nil {
			return err
		}
		closeMetrics = setupMetrics(p.Metrics, p.Job, logger)

		b, err := newBuilder(p, logger)
		if err != nil {
			return err
		}
		cache := report.NewCache(b)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var current atomic.Pointer[store.Snapshot]
		snap, err := loadSnapshot(ctx, p, logger)
		if err != nil {
			return err
		}
		current.Store(snap)
		go reloadOnHangup(ctx, p, &current)

		srv := server.New(server.Config{Addr: p.Server.Addr}, cache, current.Load, logger)
		return srv.ListenAndServe(ctx)
	},
}

// reloadOnHangup swaps in a fresh snapshot on every SIGHUP. A failed
// reload keeps the previous snapshot. The report cache notices the new
// snapshot ID on the next request.
func reloadOnHangup(ctx context.Context, p config.Pipeline, current *atomic.Pointer[store.Snapshot]) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			snap, err := loadSnapshot(ctx, p, logger)
			if err != nil {
				logger.Error("reload failed; keeping previous snapshot", zap.Error(err))
				continue
			}
			current.Store(snap)
			logger.Info("snapshot reloaded", zap.String("snapshot", snap.ID), zap.Int("records", snap.Len()))
		}
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate the configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline(args)
		if err != nil {
			return err
		}
		if err := checkPipeline(p); err != nil {
			return err
		}
		if _, err := report.FromConfig(p.Report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: %s\n", describe(cfgPath))
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := report.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to a file instead of stdout")
	buildCmd.Flags().StringVar(&viewName, "view", "", "print only this view")
	buildCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
}

func writeJSON(stdout io.Writer, path string, v any, indent bool) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func describe(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
