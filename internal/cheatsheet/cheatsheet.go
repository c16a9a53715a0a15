// Package cheatsheet renders keymap catalogs as standalone HTML pages.
//
// Each page lists, per real layer, every symbol the layer reaches together
// with the notations that type it, followed by the full catalog grouped by
// category.
package cheatsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/keymapdoc/internal/keymap"
)

// IndexFile is the name of the page linking every cheat sheet.
const IndexFile = "index.html"

const stylesheet = `body{font-family:system-ui,sans-serif;margin:2rem;color:#222}
table{border-collapse:collapse;margin-bottom:2rem}
th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}
td.symbol{font-size:1.25rem;text-align:center}
code{background:#f4f4f4;padding:0 .2rem}`

// Render writes the cheat sheet of data to w.
func Render(ctx context.Context, w io.Writer, data *keymap.Data) error {
	return Page(data).Render(ctx, w)
}

// Page is the cheat sheet of one keymap.
func Page(data *keymap.Data) templ.Component {
	title := fmt.Sprintf("%s (%s) cheat sheet", data.KeymapName, data.Keyboard)

	sections := []templ.Component{heading(1, title)}
	for _, rl := range data.RealLayers {
		sections = append(sections, layerSection(rl.Name, data.AllSymbols))
	}
	for _, name := range otherLayers(data) {
		sections = append(sections, layerSection(name, data.AllSymbols))
	}
	sections = append(sections, heading(2, "By category"))
	sections = append(sections, categorySections(data.AllSymbols)...)

	return document(title, templ.Join(sections...))
}

// Index links the cheat sheets of keymaps.
func Index(keymaps []*keymap.Data) templ.Component {
	list := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<ul>")
		for _, km := range keymaps {
			hw.raw(`<li><a href="`)
			hw.text(km.ID + ".html")
			hw.raw(`">`)
			hw.text(km.KeymapName)
			hw.raw("</a> <small>")
			hw.text(km.Keyboard)
			hw.raw("</small></li>")
		}
		hw.raw("</ul>")
		return hw.err
	})
	return document("Keymaps", templ.Join(heading(1, "Keymaps"), list))
}

// WriteAll writes <dir>/<id>.html for every keymap plus an index page and
// returns the written paths.
func WriteAll(ctx context.Context, dir string, keymaps []*keymap.Data) ([]string, error) {
	written, err := WritePages(ctx, dir, keymaps)
	if err != nil {
		return written, err
	}
	index, err := WriteIndex(ctx, dir, keymaps)
	if err != nil {
		return written, err
	}
	return append(written, index), nil
}

// WritePages writes <dir>/<id>.html for every keymap.
func WritePages(ctx context.Context, dir string, keymaps []*keymap.Data) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	written := make([]string, 0, len(keymaps))
	for _, km := range keymaps {
		path := PagePath(dir, km.ID)
		if err := writeFile(ctx, path, Page(km)); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteIndex writes the index page linking keymaps.
func WriteIndex(ctx context.Context, dir string, keymaps []*keymap.Data) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	index := filepath.Join(dir, IndexFile)
	if err := writeFile(ctx, index, Index(keymaps)); err != nil {
		return "", err
	}
	return index, nil
}

// PagePath returns the cheat sheet file of keymap id.
func PagePath(dir, id string) string {
	return filepath.Join(dir, id+".html")
}

// RemovePage deletes the cheat sheet of keymap id. A missing page is not an
// error.
func RemovePage(dir, id string) error {
	if err := os.Remove(PagePath(dir, id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing cheat sheet of %s: %w", id, err)
	}
	return nil
}

func writeFile(ctx context.Context, path string, c templ.Component) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.Render(ctx, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func document(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		hw.text(title)
		hw.raw("</title><style>" + stylesheet + "</style></head><body>")
		if hw.err != nil {
			return hw.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		hw.raw("</body></html>")
		return hw.err
	})
}

func heading(level int, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(fmt.Sprintf("<h%d>", level))
		hw.text(text)
		hw.raw(fmt.Sprintf("</h%d>", level))
		return hw.err
	})
}

// layerSection lists the entries reachable on layer, in catalog order.
func layerSection(layer string, entries []keymap.CatalogEntry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="layer" data-layer="`)
		hw.text(layer)
		hw.raw(`"><h2>`)
		hw.text(layer)
		hw.raw("</h2><table><thead><tr><th>Symbol</th><th>Description</th><th>Keys</th></tr></thead><tbody>")
		for _, e := range entries {
			methods := e.AccessMethods[layer]
			if len(methods) == 0 {
				continue
			}
			notations := make([]string, len(methods))
			for i, m := range methods {
				notations[i] = m.Notation
			}
			row(hw, e, notations)
		}
		hw.raw("</tbody></table></section>")
		return hw.err
	})
}

func categorySections(entries []keymap.CatalogEntry) []templ.Component {
	var order []string
	groups := make(map[string][]keymap.CatalogEntry)
	for _, e := range entries {
		if _, ok := groups[e.Category]; !ok {
			order = append(order, e.Category)
		}
		groups[e.Category] = append(groups[e.Category], e)
	}

	sections := make([]templ.Component, 0, len(order))
	for _, category := range order {
		sections = append(sections, categorySection(category, groups[category]))
	}
	return sections
}

func categorySection(category string, entries []keymap.CatalogEntry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		title := cases.Title(language.English).String(category)

		hw := &htmlWriter{w: w}
		hw.raw(`<section class="category" data-category="`)
		hw.text(category)
		hw.raw(`"><h3>`)
		hw.text(title)
		hw.raw("</h3><table><tbody>")
		for _, e := range entries {
			row(hw, e, e.Notations())
		}
		hw.raw("</tbody></table></section>")
		return hw.err
	})
}

func row(hw *htmlWriter, e keymap.CatalogEntry, notations []string) {
	hw.raw(`<tr><td class="symbol">`)
	hw.text(e.Symbol)
	hw.raw("</td><td>")
	hw.text(e.Description)
	hw.raw("</td><td>")
	for i, n := range notations {
		if i > 0 {
			hw.raw(" ")
		}
		hw.raw("<code>")
		hw.text(n)
		hw.raw("</code>")
	}
	hw.raw("</td></tr>")
}

// otherLayers returns layer names used by the catalog that are not real
// layers, sorted.
func otherLayers(data *keymap.Data) []string {
	known := make(map[string]bool)
	for _, rl := range data.RealLayers {
		known[rl.Name] = true
	}

	var names []string
	for _, e := range data.AllSymbols {
		for _, name := range keymap.ExtraLayers(e.AccessMethods) {
			if !known[name] && !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}
