package palette

import (
	"sync"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		wantKey Key
		wantBG  string
	}{
		{name: "default", key: "default", wantKey: Default, wantBG: "#111111"},
		{name: "none", key: "none", wantKey: None, wantBG: "#ffffff"},
		{name: "ocean", key: "ocean", wantKey: Ocean, wantBG: "#2d5f7a"},
		{name: "case insensitive", key: "  Forest ", wantKey: Forest, wantBG: "#2d5a3d"},
		{name: "unknown falls back", key: "not-a-real-key", wantKey: Default, wantBG: "#111111"},
		{name: "empty falls back", key: "", wantKey: Default, wantBG: "#111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tt.key)
			if got.Key != tt.wantKey {
				t.Errorf("Resolve(%q).Key = %v, want %v", tt.key, got.Key, tt.wantKey)
			}
			if got.Background.Hex() != tt.wantBG {
				t.Errorf("Resolve(%q).Background = %s, want %s", tt.key, got.Background.Hex(), tt.wantBG)
			}
		})
	}
}

func TestResolve_UnknownMatchesDefault(t *testing.T) {
	t.Parallel()

	if Resolve("not-a-real-key") != Resolve(DefaultKey) {
		t.Error("Resolve(unknown) differs from Resolve(default)")
	}
}

func TestRegistryIsComplete(t *testing.T) {
	t.Parallel()

	keys := Keys()
	if len(keys) != 14 {
		t.Fatalf("len(Keys()) = %d, want 14", len(keys))
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		name := k.String()
		if name == "" {
			t.Errorf("key %d has no name", k)
		}
		if seen[name] {
			t.Errorf("duplicate key name %q", name)
		}
		seen[name] = true

		parsed, ok := ParseKey(name)
		if !ok || parsed != k {
			t.Errorf("ParseKey(%q) = %v, %v; want %v, true", name, parsed, ok, k)
		}
		if k.Colors().Name != name {
			t.Errorf("Colors().Name = %q, want %q", k.Colors().Name, name)
		}
	}
}

func TestKey_OutOfRange(t *testing.T) {
	t.Parallel()

	k := Key(99)
	if k.String() != DefaultKey {
		t.Errorf("Key(99).String() = %q, want %q", k.String(), DefaultKey)
	}
	if k.Colors() != Default.Colors() {
		t.Error("Key(99).Colors() should be the default entry")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize("WINE"); got != "wine" {
		t.Errorf("Normalize(WINE) = %q, want wine", got)
	}
	if got := Normalize("<script>"); got != DefaultKey {
		t.Errorf("Normalize(<script>) = %q, want %q", got, DefaultKey)
	}
}

func TestRGB_Hex(t *testing.T) {
	t.Parallel()

	c := RGB{0x2d, 0x5f, 0x7a}
	if c.Hex() != "#2d5f7a" {
		t.Errorf("Hex() = %q", c.Hex())
	}
	if c.HexNoHash() != "2D5F7A" {
		t.Errorf("HexNoHash() = %q", c.HexNoHash())
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	t.Parallel()

	all := All()
	all[0].Background = RGB{1, 2, 3}
	if Default.Colors().Background == (RGB{1, 2, 3}) {
		t.Error("All() exposed the registry to mutation")
	}
}

func TestResolve_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := Keys()[i%len(Keys())]
			if Resolve(k.String()).Key != k {
				t.Errorf("concurrent Resolve(%q) mismatch", k)
			}
		}(i)
	}
	wg.Wait()
}
