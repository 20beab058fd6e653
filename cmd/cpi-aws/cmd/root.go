// Package cmd implements the cpi-aws command line host shim: it bridges a
// host's per-call invocation model onto the dispatcher, one action per
// invocation (run) or one per stdin line (serve).
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetops/cpi-aws/internal/config"
	"github.com/fleetops/cpi-aws/internal/dispatch"
	"github.com/fleetops/cpi-aws/internal/metrics"
	"github.com/fleetops/cpi-aws/pkg/cpi"
	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

var (
	configPath string

	cfg       *config.Configuration
	collector *metrics.Collector
	provider  cpi.Provider
)

var rootCmd = &cobra.Command{
	Use:           "cpi-aws",
	Short:         "AWS compute provider adapter",
	Long:          "cpi-aws translates the provider-agnostic CPI action vocabulary into AWS EC2/EBS calls.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		slog.SetDefault(newLogger(cfg.Global.LogLevel))
		if cfg.Global.MetricsEnabled {
			collector = metrics.NewCollector()
		}
		provider = dispatch.New(cfg, collector, slog.Default())
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// response is the JSON envelope written for every dispatched action.
type response struct {
	Success bool             `json:"success"`
	Result  any              `json:"result,omitempty"`
	Warning string           `json:"warning,omitempty"`
	Error   *cpierrors.Error `json:"error,omitempty"`
}

func writeResult(w io.Writer, res cpi.Result) error {
	resp := response{
		Success: !res.Failed(),
		Result:  res.Payload,
		Warning: res.Warning,
	}
	if res.Failed() {
		var e *cpierrors.Error
		if !errors.As(res.Err, &e) {
			e = cpierrors.New(cpierrors.KindUnknownBackend, res.Err.Error())
		}
		resp.Error = e
	}

	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}
