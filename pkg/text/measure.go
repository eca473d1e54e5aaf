package text

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontConfig holds paths to TrueType files used for text measurement and
// rendering. Empty paths use the bundled Go fonts.
type FontConfig struct {
	Regular string
	Bold    string
}

// FontPath returns the font path for the given weight.
func (fc FontConfig) FontPath(bold bool) string {
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	return fc.Regular
}

type faceKey struct {
	size float64
	bold bool
}

// Fonts hands out font faces by size and weight. Faces are cached; a Fonts
// is safe for concurrent use.
type Fonts struct {
	config FontConfig

	mu    sync.Mutex
	fonts map[bool]*truetype.Font
	faces map[faceKey]font.Face
}

func NewFonts(config FontConfig) *Fonts {
	return &Fonts{
		config: config,
		fonts:  make(map[bool]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns a face of the given pixel size.
func (f *Fonts) Face(size float64, bold bool) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := faceKey{size, bold}
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f.font(bold), &truetype.Options{Size: size})
	f.faces[key] = face
	return face
}

// font parses the configured file once, falling back to the Go fonts.
func (f *Fonts) font(bold bool) *truetype.Font {
	if ft, ok := f.fonts[bold]; ok {
		return ft
	}
	var ft *truetype.Font
	if path := f.config.FontPath(bold); path != "" {
		var err error
		if ft, err = loadFont(path); err != nil {
			slog.Warn("text: font not loaded, using bundled font", "path", path, "err", err)
		}
	}
	if ft == nil {
		data := goregular.TTF
		if bold {
			data = gobold.TTF
		}
		// The bundled fonts are known-good.
		ft, _ = truetype.Parse(data)
	}
	f.fonts[bold] = ft
	return ft
}

func loadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}

// MeasureText measures the width and height of text.
func (f *Fonts) MeasureText(text string, size float64, bold bool) (width, height float64) {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(f.Face(size, bold))
	return dc.MeasureString(text)
}

// BreakTextIntoLines breaks collapsed text into lines no wider than
// maxWidth. A single word wider than maxWidth gets a line of its own.
func (f *Fonts) BreakTextIntoLines(text string, size float64, bold bool, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(f.Face(size, bold))

	lines := make([]string, 0)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := dc.MeasureString(candidate); w <= maxWidth || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// CollapseWhitespace folds runs of whitespace into single spaces, as
// white-space: normal does.
func CollapseWhitespace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteRune(r)
	}
	if space && sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	return sb.String()
}
