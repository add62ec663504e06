package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/cache"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/store"
)

// errDoctorFailed makes doctor exit 1 after its report was printed.
var errDoctorFailed = errReported{fmt.Errorf("doctor found errors")}

// serviceTimeout bounds each network probe.
const serviceTimeout = 3 * time.Second

type level string

const (
	levelOK    level = "OK"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

type finding struct {
	Level   level  `json:"level"`
	Message string `json:"message"`
}

type doctorSection struct {
	Name     string    `json:"name"`
	Findings []finding `json:"findings"`
}

func (s *doctorSection) add(l level, format string, args ...any) {
	s.Findings = append(s.Findings, finding{Level: l, Message: fmt.Sprintf(format, args...)})
}

// doctorReport is the doctor output; --json prints it as is.
type doctorReport struct {
	Status   string          `json:"status"` // ready, warnings or errors
	Engine   string          `json:"pdf_engine"`
	Sections []doctorSection `json:"sections"`
}

func (r *doctorReport) count(l level) int {
	n := 0
	for _, s := range r.Sections {
		for _, f := range s.Findings {
			if f.Level == l {
				n++
			}
		}
	}
	return n
}

// find returns the findings of the named section.
func (r *doctorReport) find(name string) []finding {
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Findings
		}
	}
	return nil
}

func newDoctorCmd(env *Environment) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the browser, environment and services",
		Long: `Diagnose the conversion environment. Exits 0 when ready (warnings
included) and 1 when errors were found.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := runDoctor(cmd.Context(), env)

			if jsonOutput {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printDoctorReport(env.Stdout, report)
			}

			if report.Status == "errors" {
				return errDoctorFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runDoctor(ctx context.Context, env *Environment) *doctorReport {
	cfg := env.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	engine := strings.ToLower(cfg.PDF.Engine)
	if engine == "" {
		engine = "auto"
	}

	environment, sandboxAdvice := checkEnvironment(env.Getenv)
	report := &doctorReport{
		Engine: engine,
		Sections: []doctorSection{
			checkBrowser(engine, env.Getenv, sandboxAdvice),
			environment,
			checkSystem(),
			checkServices(ctx, cfg),
		},
	}

	switch {
	case report.count(levelError) > 0:
		report.Status = "errors"
	case report.count(levelWarn) > 0:
		report.Status = "warnings"
	default:
		report.Status = "ready"
	}
	return report
}

// checkBrowser locates Chrome. A missing browser is an error only for the
// chrome engine; auto falls back to the native engine and native never
// looks.
func checkBrowser(engine string, getenv func(string) string, sandboxAdvice bool) doctorSection {
	s := doctorSection{Name: "Browser"}
	s.add(levelOK, "PDF engine: %s", engine)
	if engine == "native" {
		return s
	}

	missing := func(msg string) doctorSection {
		if engine == "chrome" {
			s.add(levelError, "%s", msg)
		} else {
			s.add(levelWarn, "%s; PDFs will use the native engine", msg)
		}
		return s
	}

	bin := getenv("ROD_BROWSER_BIN")
	if bin == "" {
		var found bool
		if bin, found = launcher.LookPath(); !found {
			return missing("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
		}
	}
	if _, err := os.Stat(bin); err != nil {
		return missing("Chrome not found at " + bin)
	}
	s.add(levelOK, "Found at %s", bin)

	if out, err := exec.Command(bin, "--version").Output(); err == nil { // #nosec G204 -- configured browser binary
		s.add(levelOK, "Version: %s", strings.TrimSpace(string(out)))
	} else {
		s.add(levelWarn, "Could not get Chrome version: %v", err)
	}

	switch {
	case getenv("ROD_NO_SANDBOX") == "1":
		s.add(levelOK, "Sandbox: disabled (ROD_NO_SANDBOX=1)")
	case sandboxAdvice:
		s.add(levelWarn, "Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	default:
		s.add(levelOK, "Sandbox: enabled")
	}
	return s
}

// checkEnvironment reports the platform and whether Chrome's sandbox is
// likely to fail here.
func checkEnvironment(getenv func(string) string) (doctorSection, bool) {
	s := doctorSection{Name: "Environment"}
	s.add(levelOK, "Platform: %s/%s", runtime.GOOS, runtime.GOARCH)

	container, signal := isContainer(getenv)
	if container {
		s.add(levelOK, "Container: detected (%s)", signal)
	}
	ci := false
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			s.add(levelOK, "CI: detected (%s)", v)
			ci = true
			break
		}
	}
	return s, container || ci
}

// isContainer reports whether we run in a container, and the signal that
// said so.
func isContainer(getenv func(string) string) (bool, string) {
	switch {
	case getenv("READMEFORGE_CONTAINER") == "1":
		return true, "READMEFORGE_CONTAINER=1"
	case getenv("container") != "":
		return true, "container=" + getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	return false, ""
}

// checkSystem verifies the browser engine can stage pages in the temp dir.
func checkSystem() doctorSection {
	s := doctorSection{Name: "System"}
	f, err := os.CreateTemp("", "readmeforge-doctor-*")
	if err != nil {
		s.add(levelError, "Temp directory not writable: %s", os.TempDir())
		return s
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	s.add(levelOK, "Temp directory: writable")
	return s
}

// checkServices probes the history store and the preview cache.
func checkServices(ctx context.Context, cfg *config.Config) doctorSection {
	s := doctorSection{Name: "Services"}

	ctx, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()

	switch driver := strings.ToLower(cfg.Storage.Driver); driver {
	case "", config.DriverNone:
		s.add(levelOK, "Storage: none (history disabled)")
	case config.DriverPostgres:
		if err := store.Ping(ctx, cfg.Storage.DSN); err != nil {
			s.add(levelWarn, "Storage: postgres unreachable; history will use sqlite at %s", cfg.Storage.SQLitePath)
		} else {
			s.add(levelOK, "Storage: postgres")
		}
	default:
		s.add(levelOK, "Storage: %s", driver)
	}

	if cfg.Cache.RedisAddr == "" {
		s.add(levelOK, "Cache: memory")
		return s
	}
	rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.CacheTTL())
	if err != nil {
		s.add(levelWarn, "Cache: redis at %s unreachable; previews will be cached in memory", cfg.Cache.RedisAddr)
		return s
	}
	_ = rc.Close()
	s.add(levelOK, "Cache: redis at %s", cfg.Cache.RedisAddr)
	return s
}

var statusLines = map[string]string{
	"ready":    "Ready to convert",
	"warnings": "Ready with warnings",
	"errors":   "Not ready (see errors above)",
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "readmeforge doctor")
	for _, s := range r.Sections {
		fmt.Fprintf(w, "\n%s\n", s.Name)
		for _, f := range s.Findings {
			fmt.Fprintf(w, "  [%s] %s\n", f.Level, f.Message)
		}
	}
	fmt.Fprintf(w, "\nStatus: %s\n", statusLines[r.Status])
}
