package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
)

func newPalettesCmd(env *Environment) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "List table header palettes",
		Args:  exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			palettes := readmeforge.Palettes()

			if jsonOutput {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(palettes)
			}

			tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tBACKGROUND\tHEADER TEXT\tROW STRIPE")
			for _, p := range palettes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Key, p.Background, p.HeaderText, p.RowStripe)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}
