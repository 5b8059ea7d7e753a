package asset

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/component"
)

var ErrUnknownAsset = errors.New("unknown asset")

// Texture is the renderer-facing handle of an image asset. The terminal
// renderer draws a texture as a single glyph in a single colour.
type Texture struct {
	ID    string
	File  string
	Glyph rune
	Color component.Color
}

// Font is a font asset. Size is in points.
type Font struct {
	ID   string
	File string
	Size int
}

// Store maps string ids to loaded assets. Files are recorded, not decoded:
// a renderer that needs pixel data opens File itself.
type Store struct {
	textures map[string]Texture
	fonts    map[string]Font
	log      *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		textures: make(map[string]Texture),
		fonts:    make(map[string]Font),
		log:      log,
	}
}

// AddTexture registers a texture, replacing any texture with the same id.
// The glyph defaults to the first letter of the id.
func (s *Store) AddTexture(id, file string) {
	t := Texture{ID: id, File: file, Glyph: defaultGlyph(id), Color: component.ColorWhite}
	if old, ok := s.textures[id]; ok {
		t.Glyph, t.Color = old.Glyph, old.Color
	}
	s.textures[id] = t
	s.log.Info("texture added", zap.String("id", id), zap.String("file", file))
}

func (s *Store) AddFont(id, file string, size int) {
	s.fonts[id] = Font{ID: id, File: file, Size: size}
	s.log.Info("font added", zap.String("id", id), zap.String("file", file), zap.Int("size", size))
}

// SetAppearance overrides how the terminal renderer draws texture id. The
// texture does not have to be added yet.
func (s *Store) SetAppearance(id string, glyph rune, c component.Color) {
	t, ok := s.textures[id]
	if !ok {
		t = Texture{ID: id}
	}
	t.Glyph, t.Color = glyph, c
	s.textures[id] = t
}

func (s *Store) Texture(id string) (Texture, error) {
	t, ok := s.textures[id]
	if !ok {
		return Texture{}, fmt.Errorf("texture %q: %w", id, ErrUnknownAsset)
	}
	return t, nil
}

func (s *Store) Font(id string) (Font, error) {
	f, ok := s.fonts[id]
	if !ok {
		return Font{}, fmt.Errorf("font %q: %w", id, ErrUnknownAsset)
	}
	return f, nil
}

// Count returns the number of textures and fonts held.
func (s *Store) Count() int {
	return len(s.textures) + len(s.fonts)
}

func (s *Store) ClearAssets() {
	clear(s.textures)
	clear(s.fonts)
}

func defaultGlyph(id string) rune {
	for _, r := range id {
		return r
	}
	return '?'
}
