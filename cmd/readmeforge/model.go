package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
)

func newModelCmd(env *Environment) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "model <file.md>",
		Short: "Print the parsed document model as JSON",
		Long: `Parse a README and print its document model: title, sections with
their paragraphs, tables, lists and code blocks.`,
		Args: exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			if err := validateMarkdownExtension(path); err != nil {
				return err
			}
			content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
			if err != nil {
				return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
			}

			doc, err := readmeforge.ParseMarkdown(string(content), filepath.Base(path))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(env.Stdout)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(doc)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print on one line")

	return cmd
}
