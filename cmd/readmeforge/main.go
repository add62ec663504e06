// Command readmeforge converts README Markdown into styled HTML, PDF and
// DOCX reports, and serves the same conversion over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/assets"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command-line usage.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrInvalidPalette = errors.New("unknown palette")
)

// errReported wraps an error whose details were already printed.
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }
func (e errReported) Unwrap() error { return e.err }

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	os.Exit(run(context.Background(), os.Args[1:], DefaultEnv()))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	ctx, stop := notifyContext(ctx)
	defer stop()

	root := newRootCmd(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var reported errReported
	if errors.As(err, &reported) {
		if hint := hintFor(err, env); hint != "" {
			fmt.Fprintln(env.Stderr, strings.TrimPrefix(hint, "\n"))
		}
	} else {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
	}
	return exitCodeFor(err)
}

func newRootCmd(env *Environment) *cobra.Command {
	var configName string

	root := &cobra.Command{
		Use:   "readmeforge",
		Short: "Turn README Markdown into styled HTML, PDF and DOCX reports",
		Long: `readmeforge parses a README into sections, tables, lists and code
blocks, and renders it as a report with a colored table palette.

Configuration is read from --config (a name searched in . and the user
config directory, or a path), then READMEFORGE_* environment variables,
then command flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup(configName)
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})
	root.PersistentFlags().StringVarP(&configName, "config", "c", "",
		"config file name or path (env "+config.EnvConfig+")")

	root.AddCommand(
		newConvertCmd(env),
		newModelCmd(env),
		newPalettesCmd(env),
		newServeCmd(env),
		newDoctorCmd(env),
		newVersionCmd(env),
	)
	return root
}

// exactArgs is cobra.ExactArgs with the error classified as usage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, readmeforge.ErrBrowserConnect),
		errors.Is(err, readmeforge.ErrPageCreate),
		errors.Is(err, readmeforge.ErrPageLoad),
		errors.Is(err, readmeforge.ErrPDFGeneration):
		inContainer, _ := isContainer(env.Getenv)
		return hints.ForBrowserConnect(hints.Env{Getenv: env.Getenv, InContainer: inContainer})
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, ErrInvalidPalette):
		return hints.ForPalette(paletteKeys())
	case errors.Is(err, ErrInvalidExtension):
		return hints.ForUnsupportedInput()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.Builtin(assets.Style))
	}
	return ""
}

// triedPaths extracts the searched locations from a config-not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

func paletteKeys() []string {
	palettes := readmeforge.Palettes()
	keys := make([]string, len(palettes))
	for i, p := range palettes {
		keys[i] = p.Key
	}
	return keys
}
