package main

import (
	"fmt"

	"github.com/spf13/cobra"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
)

func newConvertCmd(env *Environment) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert <file.md|dir>",
		Short: "Convert README files to PDF, DOCX or HTML reports",
		Long: `Convert a Markdown file, or every .md/.markdown file under a directory,
into styled reports. Each input produces <stem>_report.<ext> per format,
next to the input or under --output.

Examples:
  readmeforge convert README.md
  readmeforge convert README.md -f pdf,docx --palette teal
  readmeforge convert docs/ -o reports/ -f html --workers 4`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, env, &f, args[0])
		},
	}

	fs := cmd.Flags()
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addDocumentFlags(fs, &f.document)
	addPDFFlags(fs, &f.pdf)
	fs.IntVarP(&f.workers, "workers", "w", 0, fmt.Sprintf("parallel conversions, 0 means auto (max %d)", readmeforge.MaxPoolSize))

	return cmd
}

func runConvert(cmd *cobra.Command, env *Environment, f *convertFlags, input string) error {
	ctx := cmd.Context()

	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	formats, err := parseFormats(f.output.formats)
	if err != nil {
		return err
	}

	cfg := cloneConfig(env.Config)
	applyDocumentFlags(cmd.Flags(), &f.document, cfg)
	applyPDFFlags(cmd.Flags(), &f.pdf, cfg)
	opts, err := converterOptions(cfg, env)
	if err != nil {
		return err
	}

	files, err := discoverFiles(input, f.output.output, formats)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoInput, input)
	}

	poolSize := min(readmeforge.ResolvePoolSize(f.workers), len(files))
	if f.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := readmeforge.NewConverterPool(poolSize, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			env.Logger.Warn("closing converter pool", "error", err)
		}
	}()

	// Surface option errors once instead of per file.
	conv, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	pool.Release(conv)

	results := convertBatch(ctx, pool, files, formats)
	failed := printResults(results, f.common, env.Stdout, env.Stderr)

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return errReported{results[0].Err}
	default:
		return errReported{fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))}
	}
}
