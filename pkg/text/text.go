// Package text measures and wraps text so headless hosts can give text
// items realistic heights.
package text

import (
	stderrors "errors"
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-drift/virtualcontent/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is used when no font size is specified.
const DefaultFontSize = 16

// Style describes how text is laid out.
type Style struct {
	// Size is the font size in pixels.
	Size float64
	// LineHeight is a multiple of Size. Zero uses the font's own line
	// spacing.
	LineHeight float64
	// PreserveWhitespace keeps trailing spaces and leading spaces on
	// wrapped lines.
	PreserveWhitespace bool
}

// Line represents a single laid-out line of text.
type Line struct {
	Text  string
	Width float64
}

// Layout contains measured text metrics.
type Layout struct {
	Text       string
	Style      Style
	Width      float64
	Height     float64
	LineHeight float64
	Lines      []Line
}

// FontManager resolves sized faces from one parsed font.
// It is safe for concurrent use.
type FontManager struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

var (
	defaultFontManager     *FontManager
	defaultFontManagerErr  error
	defaultFontManagerOnce sync.Once
)

// NewFontManager parses TrueType or OpenType data.
func NewFontManager(data []byte) (*FontManager, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &FontManager{font: f, faces: make(map[float64]font.Face)}, nil
}

// DefaultFontManager returns a shared manager for the bundled Go Regular
// font.
func DefaultFontManager() (*FontManager, error) {
	defaultFontManagerOnce.Do(func() {
		manager, err := NewFontManager(goregular.TTF)
		if err != nil {
			defaultFontManagerErr = err
			errors.Report(&errors.VirtualError{
				Op:   "text.DefaultFontManager",
				Kind: errors.KindInit,
				Err:  err,
			})
			return
		}
		defaultFontManager = manager
	})
	return defaultFontManager, defaultFontManagerErr
}

// face returns a cached face for size. Callers must hold m.mu.
func (m *FontManager) face(size float64) (font.Face, error) {
	if face, ok := m.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[size] = face
	return face, nil
}

// Layout measures text and wraps it within maxWidth. A maxWidth of zero
// disables wrapping; explicit newlines always start a new line.
func (m *FontManager) Layout(text string, style Style, maxWidth float64) (*Layout, error) {
	if m == nil {
		return nil, stderrors.New("font manager required")
	}
	if style.Size <= 0 {
		style.Size = DefaultFontSize
	}
	if maxWidth < 0 || math.IsInf(maxWidth, 0) || math.IsNaN(maxWidth) {
		maxWidth = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(style.Size)
	if err != nil {
		return nil, err
	}

	lineHeight := style.Size * style.LineHeight
	if lineHeight <= 0 {
		lineHeight = toFloat(face.Metrics().Height)
	}

	measure := func(s string) float64 {
		return toFloat(font.MeasureString(face, s))
	}
	advance := func(prev, r rune) float64 {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance('�')
		}
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		return toFloat(adv)
	}

	lines := layoutLines(text, maxWidth, measure, advance, style.PreserveWhitespace)
	width := 0.0
	for _, line := range lines {
		width = math.Max(width, line.Width)
	}
	return &Layout{
		Text:       text,
		Style:      style,
		Width:      width,
		Height:     lineHeight * float64(len(lines)),
		LineHeight: lineHeight,
		Lines:      lines,
	}, nil
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func layoutLines(text string, maxWidth float64, measure func(string) float64, advance func(prev, r rune) float64, preserveWhitespace bool) []Line {
	paragraphs := strings.Split(text, "\n")
	lines := make([]Line, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		if !preserveWhitespace {
			paragraph = strings.TrimRightFunc(paragraph, unicode.IsSpace)
		}
		if paragraph == "" {
			lines = append(lines, Line{})
			continue
		}
		if maxWidth == 0 {
			lines = append(lines, Line{Text: paragraph, Width: measure(paragraph)})
			continue
		}
		for _, line := range wrapParagraph(paragraph, maxWidth, advance, preserveWhitespace) {
			lines = append(lines, Line{Text: line, Width: measure(line)})
		}
	}
	return lines
}

// wrapParagraph breaks text at the last whitespace that fits within
// maxWidth. A word wider than maxWidth is broken between runes; every line
// holds at least one rune.
func wrapParagraph(text string, maxWidth float64, advance func(prev, r rune) float64, preserveWhitespace bool) []string {
	var lines []string
	start := 0
	for start < len(text) {
		lastBreak := -1
		lastFit := -1
		width := 0.0
		prev := rune(-1)
		for i := start; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			next := i + size
			w := width + advance(prev, r)
			if w > maxWidth && !unicode.IsSpace(r) {
				break
			}
			width, prev = w, r
			lastFit = next
			if unicode.IsSpace(r) {
				lastBreak = next
			}
			i = next
		}
		if lastFit == -1 {
			_, size := utf8.DecodeRuneInString(text[start:])
			lastFit = start + size
		}
		cut := lastFit
		if lastFit < len(text) && lastBreak > start && lastBreak < lastFit {
			cut = lastBreak
		}
		line := text[start:cut]
		if !preserveWhitespace {
			line = strings.TrimRightFunc(line, unicode.IsSpace)
		}
		lines = append(lines, line)
		start = cut
		if preserveWhitespace {
			continue
		}
		for start < len(text) {
			r, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
