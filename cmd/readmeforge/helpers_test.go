package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
)

// testRun holds the captured output of one CLI invocation.
type testRun struct {
	code   int
	stdout string
	stderr string
}

// newTestEnv returns an isolated environment reading vars instead of the
// process environment.
func newTestEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.DiscardHandler),
	}
	return env, &stdout, &stderr
}

// runCLI runs the command line against a fresh environment.
func runCLI(t *testing.T, vars map[string]string, args ...string) testRun {
	t.Helper()
	env, stdout, stderr := newTestEnv(vars)
	code := run(context.Background(), args, env)
	return testRun{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// writeFile creates a file under dir, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleReadme = `# Sample Tool

A small tool.

## Usage

| Flag | Meaning |
|------|---------|
| -v   | verbose |

` + "```go\nfmt.Println(\"hi\")\n```\n"
