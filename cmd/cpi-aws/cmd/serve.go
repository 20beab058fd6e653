package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetops/cpi-aws/pkg/cpi"
	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

var metricsAddr string

// request is the generic dispatch envelope consumed in serve mode, one JSON
// object per line.
type request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Read action envelopes from stdin and write result envelopes to stdout",
	Long: `Reads JSON objects of the form {"action": "...", "params": {...}} from
stdin, one per line, dispatching each in order. Useful for hosts that drive
the adapter over a pipe instead of one process per action.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if metricsAddr != "" && collector != nil {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			go func() {
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					slog.Warn("metrics server stopped", "err", err)
				}
			}()
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		out := os.Stdout

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var req request
			if err := json.Unmarshal(line, &req); err != nil {
				res := cpi.Failure(cpierrors.Newf(cpierrors.KindInvalidParameters, "malformed request envelope: %v", err))
				if werr := writeResult(out, res); werr != nil {
					return werr
				}
				continue
			}

			res := provider.Dispatch(cmd.Context(), req.Action, req.Params)
			if err := writeResult(out, res); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to expose prometheus metrics on, e.g. :9090")
	rootCmd.AddCommand(serveCmd)
}
