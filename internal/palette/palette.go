// Package palette is the closed registry of table accent colors shared by the
// HTML, PDF and DOCX renderers. The registry is built at init and never
// mutated, so lookups are safe from any goroutine.
package palette

import (
	"fmt"
	"strings"
)

// Key identifies one entry of the registry.
type Key int

// Registry entries. Default is the zero value.
const (
	Default Key = iota
	None
	Slate
	Stone
	Zinc
	Steel
	Sage
	Ocean
	Dusk
	Wine
	Cedar
	Teal
	Graphite
	Forest
	numKeys
)

// DefaultKey is the string form of Default.
const DefaultKey = "default"

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexNoHash returns the color as "RRGGBB", the form OOXML expects.
func (c RGB) HexNoHash() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Colors is the fixed-field color record of a palette entry.
type Colors struct {
	Key        Key
	Name       string
	Background RGB // table header background
	HeaderText RGB // table header text
	RowStripe  RGB // even body rows
}

var names = [numKeys]string{
	Default:  DefaultKey,
	None:     "none",
	Slate:    "slate",
	Stone:    "stone",
	Zinc:     "zinc",
	Steel:    "steel",
	Sage:     "sage",
	Ocean:    "ocean",
	Dusk:     "dusk",
	Wine:     "wine",
	Cedar:    "cedar",
	Teal:     "teal",
	Graphite: "graphite",
	Forest:   "forest",
}

var white = RGB{0xff, 0xff, 0xff}

var registry = [numKeys]Colors{
	Default:  {Background: RGB{0x11, 0x11, 0x11}, HeaderText: white, RowStripe: RGB{0xf5, 0xf5, 0xf5}},
	None:     {Background: white, HeaderText: RGB{0x11, 0x11, 0x11}, RowStripe: RGB{0xf8, 0xf8, 0xf8}},
	Slate:    {Background: RGB{0x47, 0x55, 0x69}, HeaderText: white, RowStripe: RGB{0xf1, 0xf5, 0xf9}},
	Stone:    {Background: RGB{0x57, 0x53, 0x4e}, HeaderText: white, RowStripe: RGB{0xf5, 0xf5, 0xf4}},
	Zinc:     {Background: RGB{0x52, 0x52, 0x5b}, HeaderText: white, RowStripe: RGB{0xf4, 0xf4, 0xf5}},
	Steel:    {Background: RGB{0x4b, 0x60, 0x70}, HeaderText: white, RowStripe: RGB{0xee, 0xf2, 0xf5}},
	Sage:     {Background: RGB{0x4a, 0x67, 0x41}, HeaderText: white, RowStripe: RGB{0xf0, 0xf4, 0xef}},
	Ocean:    {Background: RGB{0x2d, 0x5f, 0x7a}, HeaderText: white, RowStripe: RGB{0xed, 0xf4, 0xf8}},
	Dusk:     {Background: RGB{0x5b, 0x4d, 0x7a}, HeaderText: white, RowStripe: RGB{0xf3, 0xf0, 0xf7}},
	Wine:     {Background: RGB{0x7a, 0x2d, 0x3e}, HeaderText: white, RowStripe: RGB{0xf9, 0xee, 0xf0}},
	Cedar:    {Background: RGB{0x7a, 0x4a, 0x2d}, HeaderText: white, RowStripe: RGB{0xf8, 0xf1, 0xec}},
	Teal:     {Background: RGB{0x2d, 0x6b, 0x6b}, HeaderText: white, RowStripe: RGB{0xed, 0xf5, 0xf5}},
	Graphite: {Background: RGB{0x3d, 0x44, 0x51}, HeaderText: white, RowStripe: RGB{0xf0, 0xf1, 0xf3}},
	Forest:   {Background: RGB{0x2d, 0x5a, 0x3d}, HeaderText: white, RowStripe: RGB{0xed, 0xf4, 0xf0}},
}

var byName = make(map[string]Key, numKeys)

func init() {
	for k := Key(0); k < numKeys; k++ {
		registry[k].Key = k
		registry[k].Name = names[k]
		byName[names[k]] = k
	}
}

// String returns the serialized key.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return DefaultKey
	}
	return names[k]
}

// Colors returns the registry entry for k, or Default for an out-of-range key.
func (k Key) Colors() Colors {
	if k < 0 || k >= numKeys {
		return registry[Default]
	}
	return registry[k]
}

// ParseKey looks up a serialized key. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseKey(s string) (Key, bool) {
	k, ok := byName[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// IsValid reports whether s names a registry entry.
func IsValid(s string) bool {
	_, ok := ParseKey(s)
	return ok
}

// Resolve returns the colors for s. Unknown keys resolve to Default.
func Resolve(s string) Colors {
	k, _ := ParseKey(s)
	return k.Colors()
}

// Normalize returns the canonical key for s, substituting DefaultKey for
// unknown values. Callers use it at the input boundary.
func Normalize(s string) string {
	k, _ := ParseKey(s)
	return k.String()
}

// Keys returns every registry key in declaration order.
func Keys() []Key {
	keys := make([]Key, numKeys)
	for k := range keys {
		keys[k] = Key(k)
	}
	return keys
}

// All returns every registry entry in declaration order.
func All() []Colors {
	all := make([]Colors, numKeys)
	copy(all, registry[:])
	return all
}
