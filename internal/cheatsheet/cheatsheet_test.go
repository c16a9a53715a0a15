package cheatsheet

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/conneroisu/keymapdoc/internal/keymap"
	"github.com/conneroisu/keymapdoc/internal/layers"
)

func sampleData() *keymap.Data {
	return &keymap.Data{
		ID:         "ferris-sweep-qwerty",
		Keyboard:   "ferris/sweep",
		KeymapName: "qwerty",
		RealLayers: layers.RealLayers(),
		AllSymbols: []keymap.CatalogEntry{
			{
				Symbol: "a", Description: "Lowercase a", Category: "letters",
				AccessMethods: map[string][]keymap.AccessMethod{
					layers.RealBase: {{Layer: layers.RealBase, Notation: "R2C1"}},
				},
			},
			{
				Symbol: "<", Description: "Less than", Category: "non-printing", Priority: 3,
				AccessMethods: map[string][]keymap.AccessMethod{
					layers.RealSymbol: {{Layer: layers.RealSymbol, Notation: "R1C2"}},
					"GAMING":          {{Layer: "GAMING", Notation: "R3C3"}},
				},
			},
		},
	}
}

// parse returns the document tree of a rendered page.
func parse(t *testing.T, data []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	return doc
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func element(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		b.WriteString(t.Data)
	}
	return b.String()
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), &buf, sampleData()))
	doc := parse(t, buf.Bytes())

	titles := findAll(doc, element("title"))
	require.Len(t, titles, 1)
	assert.Equal(t, "qwerty (ferris/sweep) cheat sheet", text(titles[0]))

	var layerNames []string
	for _, s := range findAll(doc, func(n *html.Node) bool {
		return element("section")(n) && attr(n, "class") == "layer"
	}) {
		layerNames = append(layerNames, attr(s, "data-layer"))
	}
	assert.Equal(t, []string{layers.RealBase, layers.RealNav, layers.RealSymbol, "GAMING"}, layerNames)
}

func TestRenderLayerRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), &buf, sampleData()))
	doc := parse(t, buf.Bytes())

	sections := findAll(doc, func(n *html.Node) bool {
		return element("section")(n) && attr(n, "data-layer") == layers.RealSymbol
	})
	require.Len(t, sections, 1)

	rows := findAll(sections[0], element("tr"))
	require.Len(t, rows, 2, "header plus one symbol")
	cells := findAll(rows[1], element("td"))
	require.Len(t, cells, 3)
	assert.Equal(t, "<", text(cells[0]))
	assert.Equal(t, "Less than", text(cells[1]))
	assert.Equal(t, "R1C2", text(cells[2]))

	nav := findAll(doc, func(n *html.Node) bool {
		return element("section")(n) && attr(n, "data-layer") == layers.RealNav
	})
	require.Len(t, nav, 1)
	assert.Len(t, findAll(nav[0], element("tr")), 1, "no symbols on nav")
}

func TestRenderCategories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), &buf, sampleData()))
	doc := parse(t, buf.Bytes())

	var headings []string
	for _, s := range findAll(doc, func(n *html.Node) bool {
		return element("section")(n) && attr(n, "class") == "category"
	}) {
		h := findAll(s, element("h3"))
		require.Len(t, h, 1)
		headings = append(headings, text(h[0]))
	}
	assert.Equal(t, []string{"Letters", "Non-Printing"}, headings)

	codes := findAll(doc, func(n *html.Node) bool {
		return element("section")(n) && attr(n, "data-category") == "non-printing"
	})
	require.Len(t, codes, 1)
	var notations []string
	for _, c := range findAll(codes[0], element("code")) {
		notations = append(notations, text(c))
	}
	assert.Equal(t, []string{"R1C2", "R3C3"}, notations)
}

func TestRenderEscapesText(t *testing.T) {
	data := sampleData()
	data.KeymapName = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), &buf, data))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Empty(t, findAll(parse(t, buf.Bytes()), element("script")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderReportsWriteErrors(t *testing.T) {
	err := Render(context.Background(), failingWriter{}, sampleData())
	assert.EqualError(t, err, "disk full")
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cheatsheets")
	second := sampleData()
	second.ID = "corne-colemak"
	second.Keyboard = "corne"
	second.KeymapName = "colemak"

	paths, err := WriteAll(context.Background(), dir, []*keymap.Data{sampleData(), second})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "ferris-sweep-qwerty.html"),
		filepath.Join(dir, "corne-colemak.html"),
		filepath.Join(dir, IndexFile),
	}, paths)

	index, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	var hrefs []string
	for _, a := range findAll(parse(t, index), element("a")) {
		hrefs = append(hrefs, attr(a, "href"))
	}
	assert.Equal(t, []string{"ferris-sweep-qwerty.html", "corne-colemak.html"}, hrefs)
}

func TestRemovePage(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteAll(context.Background(), dir, []*keymap.Data{sampleData()})
	require.NoError(t, err)

	require.NoError(t, RemovePage(dir, "ferris-sweep-qwerty"))
	assert.NoFileExists(t, PagePath(dir, "ferris-sweep-qwerty"))
	assert.NoError(t, RemovePage(dir, "ferris-sweep-qwerty"), "removing twice is fine")

	index, err := WriteIndex(context.Background(), dir, nil)
	require.NoError(t, err)
	content, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Empty(t, findAll(parse(t, content), element("a")))
}
