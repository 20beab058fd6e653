package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	runParams []string
	runJSON   string
)

var runCmd = &cobra.Command{
	Use:   "run <action>",
	Short: "Dispatch a single CPI action and print the result envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bag := make(map[string]any)

		if runJSON != "" {
			if err := json.Unmarshal([]byte(runJSON), &bag); err != nil {
				return fmt.Errorf("invalid --json payload: %w", err)
			}
		}
		for _, kv := range runParams {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --param %q, expected key=value", kv)
			}
			bag[key] = value
		}

		res := provider.Dispatch(cmd.Context(), args[0], bag)
		if err := writeResult(os.Stdout, res); err != nil {
			return err
		}
		if res.Failed() {
			// non-zero exit without double-printing the classified error
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runParams, "param", "p", nil, "action parameter as key=value (repeatable, string values)")
	runCmd.Flags().StringVar(&runJSON, "json", "", "action parameters as a JSON object (merged before --param)")
	rootCmd.AddCommand(runCmd)
}
