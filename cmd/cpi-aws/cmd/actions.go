package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetops/cpi-aws/pkg/cpi"
)

var actionsJSON bool

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the CPI action vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := cpi.Definitions()

		if actionsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(defs)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ACTION\tREQUIRED PARAMETERS\tDESCRIPTION")
		for _, d := range defs {
			var required []byte
			for _, p := range d.Parameters {
				if !p.Required {
					continue
				}
				if len(required) > 0 {
					required = append(required, ',', ' ')
				}
				required = append(required, p.Name...)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, required, d.Description)
		}
		return w.Flush()
	},
}

func init() {
	actionsCmd.Flags().BoolVar(&actionsJSON, "json", false, "print full definitions as JSON")
	rootCmd.AddCommand(actionsCmd)
}
