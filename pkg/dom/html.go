package dom

import (
	"io"
	"strings"

	"github.com/go-drift/virtualcontent/pkg/errors"
	"github.com/go-drift/virtualcontent/pkg/text"
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// BaseFontSize is the font size of unstyled blocks.
	BaseFontSize = 16.0
	// DefaultLineHeight is the multiplier for 'line-height: normal'.
	DefaultLineHeight = 1.2
)

// blockStyle approximates a user-agent stylesheet entry.
type blockStyle struct {
	fontSize float64
	margin   float64 // in em
	pre      bool
}

var blockStyles = map[atom.Atom]blockStyle{
	atom.H1:         {fontSize: 32, margin: 0.67},
	atom.H2:         {fontSize: 24, margin: 0.83},
	atom.H3:         {fontSize: 18.72, margin: 1},
	atom.H4:         {fontSize: 16, margin: 1.33},
	atom.H5:         {fontSize: 13.28, margin: 1.67},
	atom.H6:         {fontSize: 10.72, margin: 2.33},
	atom.P:          {fontSize: BaseFontSize, margin: 1},
	atom.Blockquote: {fontSize: BaseFontSize, margin: 1},
	atom.Ul:         {fontSize: BaseFontSize, margin: 1},
	atom.Ol:         {fontSize: BaseFontSize, margin: 1},
	atom.Dl:         {fontSize: BaseFontSize, margin: 1},
	atom.Pre:        {fontSize: 13, margin: 1, pre: true},
}

// headerElements never render in the body.
var headerElements = map[atom.Atom]bool{
	atom.Link:   true,
	atom.Script: true,
	atom.Style:  true,
}

// ParseHTML parses a document and returns the children of its body as
// nodes ready to be appended to a Container. Element heights come from
// laying out their text with fonts at the container width; a nil fonts
// uses the default font manager. Header elements are dropped.
func ParseHTML(r io.Reader, fonts *text.FontManager) ([]virtual.Node, error) {
	if fonts == nil {
		var err error
		if fonts, err = text.DefaultFontManager(); err != nil {
			return nil, err
		}
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	body := findBody(root)
	if body == nil {
		return nil, nil
	}

	var nodes []virtual.Node
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			nodes = append(nodes, NewText(n.Data))
		case html.ElementNode:
			if headerElements[n.DataAtom] {
				continue
			}
			nodes = append(nodes, newHTMLElement(n, fonts))
		}
	}
	return nodes, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func newHTMLElement(n *html.Node, fonts *text.FontManager) *ElementNode {
	style, ok := blockStyles[n.DataAtom]
	if !ok {
		style = blockStyle{fontSize: BaseFontSize}
	}
	el := NewTextElement(n.Data, textContent(n, style.pre), fonts, text.Style{
		Size:               style.fontSize,
		LineHeight:         DefaultLineHeight,
		PreserveWhitespace: style.pre,
	})
	margin := style.margin * style.fontSize
	el.SetMargins(margin, margin)
	for _, attr := range n.Attr {
		if attr.Key == "id" {
			el.ID = attr.Val
		}
	}
	return el
}

// NewTextElement returns a detached element holding content, whose height
// is the height of content laid out with style at the container width.
func NewTextElement(tag, content string, fonts *text.FontManager, style text.Style) *ElementNode {
	el := NewElementFunc(tag, textHeight(tag, content, fonts, style))
	el.SetText(content)
	return el
}

// textHeight lays out content at the container width. An empty element
// has no height.
func textHeight(tag, content string, fonts *text.FontManager, style text.Style) HeightFunc {
	if strings.TrimSpace(content) == "" {
		return FixedHeight(0)
	}
	return func(width float64) float64 {
		layout, err := fonts.Layout(content, style, width)
		if err != nil {
			errors.Report(&errors.VirtualError{
				Op:   "dom.textHeight",
				Kind: errors.KindGeometry,
				Item: tag,
				Err:  err,
			})
			return 0
		}
		return layout.Height
	}
}

// textContent concatenates the text below n. Outside pre, runs of
// whitespace collapse to one space.
func textContent(n *html.Node, pre bool) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if headerElements[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Br || n.DataAtom == atom.Li {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	if pre {
		return strings.Trim(b.String(), "\n")
	}
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
