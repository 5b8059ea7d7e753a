package asset

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/chopper/internal/component"
)

// AppearanceEntry tells the terminal renderer how to draw one texture.
type AppearanceEntry struct {
	ID    string `yaml:"id"`
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"` // #rrggbb
}

// Manifest is the appearance table loaded from assets/manifest.yaml.
type Manifest struct {
	entries []AppearanceEntry
}

// LoadManifest loads the texture appearance table.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset manifest: %w", err)
	}
	var doc struct {
		Textures []AppearanceEntry `yaml:"textures"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse asset manifest: %w", err)
	}
	for i, e := range doc.Textures {
		if e.ID == "" {
			return nil, fmt.Errorf("asset manifest entry %d: missing id", i)
		}
		if utf8.RuneCountInString(e.Glyph) > 1 {
			return nil, fmt.Errorf("asset manifest %q: glyph %q is more than one rune", e.ID, e.Glyph)
		}
		if _, err := ParseColor(e.Color); err != nil {
			return nil, fmt.Errorf("asset manifest %q: %w", e.ID, err)
		}
	}
	return &Manifest{entries: doc.Textures}, nil
}

// Count returns the number of entries loaded.
func (m *Manifest) Count() int {
	return len(m.entries)
}

// Apply sets the appearance of every listed texture in s.
func (m *Manifest) Apply(s *Store) {
	for _, e := range m.entries {
		glyph := defaultGlyph(e.ID)
		if e.Glyph != "" {
			glyph, _ = utf8.DecodeRuneInString(e.Glyph)
		}
		c, _ := ParseColor(e.Color)
		s.SetAppearance(e.ID, glyph, c)
	}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". An empty string is white.
func ParseColor(s string) (component.Color, error) {
	if s == "" {
		return component.ColorWhite, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return component.Color{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return component.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return component.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
