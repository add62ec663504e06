package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(env.Stdout, "readmeforge %s\n", Version)
			return err
		},
	}
}
