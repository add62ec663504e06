package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName    = "report"
	DefaultTemplateName = "report"
)

// MaxNameLength bounds an asset name.
const MaxNameLength = 64

//go:embed styles templates
var builtin embed.FS

// Kind is a category of report asset.
type Kind int

const (
	Style Kind = iota
	Template
)

func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "style"
}

func (k Kind) dir() string {
	if k == Template {
		return "templates"
	}
	return "styles"
}

func (k Kind) ext() string {
	if k == Template {
		return ".html"
	}
	return ".css"
}

func (k Kind) errNotFound() error {
	if k == Template {
		return ErrTemplateNotFound
	}
	return ErrStyleNotFound
}

// Loader returns the content of an asset by kind and name.
type Loader interface {
	Load(kind Kind, name string) (string, error)
}

// Load reads a built-in asset.
func Load(kind Kind, name string) (string, error) {
	return Embedded().Load(kind, name)
}

// Builtin lists the names of the built-in assets of a kind, sorted.
func Builtin(kind Kind) []string {
	entries, err := fs.ReadDir(builtin, kind.dir())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), kind.ext()); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// ValidateName accepts names made of ASCII letters, digits, '-' and '_'.
// Anything else could select a different extension or leave the asset
// directory.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, MaxNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}

type embedded struct{}

// Embedded returns the loader for the built-in assets.
func Embedded() Loader { return embedded{} }

func (embedded) Load(kind Kind, name string) (string, error) {
	return read(builtin, kind, name)
}

func read(fsys fs.FS, kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(fsys, path.Join(kind.dir(), name+kind.ext()))
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", kind.errNotFound(), name)
	default:
		return "", fmt.Errorf("%w: %s %q: %v", ErrAssetRead, kind, name, err)
	}
}
