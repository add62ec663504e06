// Package hints turns common readmeforge failures into short suggestions
// printed under the error, as "\n  hint: a; b".
package hints

import (
	"path/filepath"
	"strings"
)

// Env is the part of the process environment the browser hint inspects.
type Env struct {
	Getenv      func(string) string
	InContainer bool
}

func (e Env) get(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

func (e Env) inCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if e.get(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests how to get Chrome running, or how to avoid it.
func ForBrowserConnect(env Env) string {
	var hints []string
	if (env.inCI() || env.InContainer) && env.get("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if env.get("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a custom Chrome")
	}
	hints = append(hints, "or use --pdf-engine native to render without a browser")
	return format(hints...)
}

// ForTimeout suggests a longer browser timeout.
func ForTimeout() string {
	return format("for large READMEs, raise --timeout or READMEFORGE_PDF_TIMEOUT")
}

// ForConfigNotFound suggests --config, and the user config location when it
// was among the searched paths.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(filepath.ToSlash(p), "/readmeforge/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is shown when a report cannot be written.
func ForOutputDirectory() string {
	return format("check the output directory exists and is writable")
}

// ForStyleNotFound lists the stylesheets that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForPalette lists the accepted palette keys.
func ForPalette(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return format("palettes: " + strings.Join(keys, ", "))
}

// ForUnsupportedInput is shown for a source that is not Markdown.
func ForUnsupportedInput() string {
	return format("only .md and .markdown files are converted")
}

func format(hints ...string) string {
	if len(hints) == 0 || (len(hints) == 1 && hints[0] == "") {
		return ""
	}
	return "\n  hint: " + strings.Join(hints, "; ")
}
