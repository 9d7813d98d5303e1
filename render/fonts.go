package render

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontRole names one of the closed set of typographic roles the slide
// renderers draw with.
type FontRole string

const (
	FontBold     FontRole = "bold"
	FontSemibold FontRole = "semibold"
	FontRegular  FontRole = "regular"
	FontMedium   FontRole = "medium"
	FontSerif    FontRole = "serif"
)

type fontKey struct {
	role FontRole
	size float64
}

// FontCache resolves (role, size) pairs to font faces. Candidate file
// paths are tried in order per role; on a miss the role's embedded Go
// font is used, so resolution never fails. Faces are cached for the
// lifetime of the cache, keyed exactly by (role, size).
//
// The cache is safe for concurrent use; pre-warm it or share it across
// renderers when rendering slides in parallel.
type FontCache struct {
	mu     sync.RWMutex
	paths  map[FontRole][]string
	parsed map[string]*opentype.Font
	faces  map[fontKey]font.Face
}

// NewFontCache creates a cache over the given per-role candidate path
// lists. A nil map uses DefaultFontPaths.
func NewFontCache(paths map[FontRole][]string) *FontCache {
	if paths == nil {
		paths = DefaultFontPaths()
	}
	return &FontCache{
		paths:  paths,
		parsed: make(map[string]*opentype.Font),
		faces:  make(map[fontKey]font.Face),
	}
}

// DefaultFontPaths returns the candidate font files tried for each role:
// the user's font directory first, then a local fonts/ directory. The
// Pretendard and MaruBuri families are the deck's house fonts; callers
// on hosts without them fall through to the embedded Go fonts.
func DefaultFontPaths() map[FontRole][]string {
	home, _ := os.UserHomeDir()
	userFonts := filepath.Join(home, "Library", "Fonts")
	candidates := func(names ...string) []string {
		var out []string
		for _, n := range names {
			if home != "" {
				out = append(out, filepath.Join(userFonts, n))
			}
			out = append(out, filepath.Join("fonts", n))
		}
		return out
	}
	return map[FontRole][]string{
		FontBold:     candidates("Pretendard-Bold.otf"),
		FontSemibold: candidates("Pretendard-SemiBold.otf"),
		FontRegular:  candidates("Pretendard-Regular.otf"),
		FontMedium:   candidates("Pretendard-Medium.otf"),
		FontSerif:    candidates("MaruBuri-SemiBold.ttf", "Pretendard-SemiBold.otf"),
	}
}

// embeddedTTF maps each role to its built-in fallback font data.
var embeddedTTF = map[FontRole][]byte{
	FontBold:     gobold.TTF,
	FontSemibold: gomedium.TTF,
	FontRegular:  goregular.TTF,
	FontMedium:   gomedium.TTF,
	FontSerif:    goregular.TTF,
}

// Face returns a font face for the role at the given pixel size. It
// never fails: if no candidate path loads, the role's embedded fallback
// is used, and as a last resort a fixed bitmap face.
func (fc *FontCache) Face(role FontRole, size float64) font.Face {
	key := fontKey{role: role, size: size}

	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if face, ok := fc.faces[key]; ok {
		return face
	}

	face := fc.newFace(role, size)
	fc.faces[key] = face
	return face
}

// newFace resolves the role's font and builds a face at size. Caller
// holds the write lock.
func (fc *FontCache) newFace(role FontRole, size float64) font.Face {
	opts := &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}

	paths := fc.paths[role]
	if paths == nil {
		paths = fc.paths[FontRegular]
	}
	for _, path := range paths {
		f := fc.parseFile(path)
		if f == nil {
			continue
		}
		face, err := opentype.NewFace(f, opts)
		if err != nil {
			continue
		}
		return face
	}

	data, ok := embeddedTTF[role]
	if !ok {
		data = goregular.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, opts)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// parseFile reads and parses a font file, memoizing the parsed font so
// multiple sizes of the same file share one parse. Caller holds the
// write lock. Returns nil if the file is missing or unparseable.
func (fc *FontCache) parseFile(path string) *opentype.Font {
	if f, ok := fc.parsed[path]; ok {
		return f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fc.parsed[path] = nil
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		fc.parsed[path] = nil
		return nil
	}
	fc.parsed[path] = f
	return f
}
