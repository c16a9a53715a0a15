// Package keymap builds the symbol catalog of one keymap: it flattens each
// declared layer, extracts the symbols every key types and merges them into
// one deduplicated, sorted entry per (symbol, description) pair.
package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/extract"
	"github.com/conneroisu/keymapdoc/internal/keydef"
	"github.com/conneroisu/keymapdoc/internal/layers"
	"github.com/conneroisu/keymapdoc/internal/symbolmap"
	"github.com/conneroisu/keymapdoc/internal/types"
)

// Defaults for generated image paths.
const (
	DefaultPublicRoot = "/public/generated"
	DefaultImageExt   = "svg"
)

// Layer is one declared layer. Keys are flattened row-major from the layout
// grid and Symbols hold everything those keys type, in key order.
type Layer struct {
	Name    string
	Keys    []keydef.Key
	Symbols []extract.Access
}

type layerDoc struct {
	Name    string           `json:"name" yaml:"name"`
	Keys    []keydef.View    `json:"keys" yaml:"keys"`
	Symbols []extract.Access `json:"symbols" yaml:"symbols"`
}

func (l Layer) doc() layerDoc {
	views := make([]keydef.View, len(l.Keys))
	for i, k := range l.Keys {
		views[i] = keydef.ViewOf(k)
	}
	symbols := l.Symbols
	if symbols == nil {
		symbols = []extract.Access{}
	}
	return layerDoc{Name: l.Name, Keys: views, Symbols: symbols}
}

// MarshalJSON encodes keys through their flat view.
func (l Layer) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.doc())
}

// MarshalYAML encodes keys through their flat view.
func (l Layer) MarshalYAML() (any, error) {
	return l.doc(), nil
}

// AccessMethod is the part of an extract.Access kept in the catalog.
type AccessMethod struct {
	Layer      string         `json:"layer" yaml:"layer"`
	Position   int            `json:"position" yaml:"position"`
	Coordinate string         `json:"coordinate" yaml:"coordinate"`
	Notation   string         `json:"notation" yaml:"notation"`
	Method     extract.Method `json:"method" yaml:"method"`
	KeyLabel   string         `json:"keyLabel" yaml:"keyLabel"`
}

func methodOf(a extract.Access) AccessMethod {
	return AccessMethod{
		Layer:      a.Layer,
		Position:   a.Position,
		Coordinate: a.Coordinate,
		Notation:   a.Notation,
		Method:     a.Method,
		KeyLabel:   a.KeyLabel,
	}
}

// CatalogEntry is the canonical record of one (symbol, description) pair.
// AccessMethods is keyed by real layer name.
type CatalogEntry struct {
	Symbol        string                    `json:"symbol" yaml:"symbol"`
	Description   string                    `json:"description" yaml:"description"`
	Category      string                    `json:"category" yaml:"category"`
	Priority      int                       `json:"priority" yaml:"priority"`
	AccessMethods map[string][]AccessMethod `json:"accessMethods" yaml:"accessMethods"`
}

// LayerOrder lists the layers reaching the entry: real layers in display
// order, then any others sorted by name.
func (e CatalogEntry) LayerOrder() []string {
	var order []string
	for _, rl := range layers.RealLayers() {
		if len(e.AccessMethods[rl.Name]) > 0 {
			order = append(order, rl.Name)
		}
	}
	return append(order, ExtraLayers(e.AccessMethods)...)
}

// Notations returns every notation reaching the entry in LayerOrder.
func (e CatalogEntry) Notations() []string {
	var out []string
	for _, name := range e.LayerOrder() {
		for _, m := range e.AccessMethods[name] {
			out = append(out, m.Notation)
		}
	}
	return out
}

// ImagePath is the expected location of one layer's rendered image.
type ImagePath struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Data is everything known about one keymap.
type Data struct {
	ID         string             `json:"id" yaml:"id"`
	Keyboard   string             `json:"keyboard" yaml:"keyboard"`
	KeymapName string             `json:"keymapName" yaml:"keymapName"`
	LayoutFile string             `json:"layoutFile" yaml:"layoutFile"`
	Layers     []Layer            `json:"layers" yaml:"layers"`
	AllSymbols []CatalogEntry     `json:"allSymbols" yaml:"allSymbols"`
	RealLayers []layers.RealLayer `json:"realLayers" yaml:"realLayers"`
	SVGPaths   []ImagePath        `json:"svgPaths" yaml:"svgPaths"`
}

// Builder turns layout files into Data. It holds no mutable state and is
// safe for concurrent use.
type Builder struct {
	extractor  *extract.Extractor
	publicRoot string
	imageExt   string
}

// Option configures a Builder.
type Option func(*Builder)

// WithPublicRoot sets the URL root of generated images.
func WithPublicRoot(root string) Option {
	return func(b *Builder) {
		if root != "" {
			b.publicRoot = root
		}
	}
}

// WithImageExt sets the extension of generated images.
func WithImageExt(ext string) Option {
	return func(b *Builder) {
		if ext != "" {
			b.imageExt = strings.TrimPrefix(ext, ".")
		}
	}
}

// NewBuilder returns a Builder that resolves keycodes through table.
func NewBuilder(table *symbolmap.Table, opts ...Option) *Builder {
	b := &Builder{
		extractor:  extract.New(table),
		publicRoot: DefaultPublicRoot,
		imageExt:   DefaultImageExt,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildLayer flattens rows in row-major order and extracts the symbols of
// every key, using the flattened index as position.
func (b *Builder) BuildLayer(name string, rows [][]any) Layer {
	n := 0
	for _, row := range rows {
		n += len(row)
	}

	layer := Layer{
		Name:    name,
		Keys:    make([]keydef.Key, 0, n),
		Symbols: []extract.Access{},
	}

	pos := 0
	for _, row := range rows {
		for _, raw := range row {
			key := keydef.Parse(raw)
			layer.Keys = append(layer.Keys, key)
			layer.Symbols = append(layer.Symbols, b.extractor.Key(key, name, pos)...)
			pos++
		}
	}
	return layer
}

// Assemble builds every layer of layout and aggregates them into Data for
// info.
func (b *Builder) Assemble(info types.KeymapInfo, layout *Layout) *Data {
	built := make([]Layer, len(layout.Layers))
	images := make([]ImagePath, len(layout.Layers))
	for i, raw := range layout.Layers {
		built[i] = b.BuildLayer(raw.Name, raw.Rows)
		images[i] = ImagePath{Name: raw.Name, Path: b.ImagePath(info.ID, raw.Name)}
	}

	return &Data{
		ID:         info.ID,
		Keyboard:   info.Keyboard,
		KeymapName: info.Keymap,
		LayoutFile: info.Path,
		Layers:     built,
		AllSymbols: Aggregate(built),
		RealLayers: layers.RealLayers(),
		SVGPaths:   images,
	}
}

// ImagePath returns the public path of the image for layer of keymap id.
func (b *Builder) ImagePath(id, layer string) string {
	return path.Join(b.publicRoot, id, strings.ToLower(layer)+"."+b.imageExt)
}

// Parse builds Data for info from layout file content.
func (b *Builder) Parse(info types.KeymapInfo, data []byte) (*Data, error) {
	layout, err := ParseLayout(data)
	if err != nil {
		return nil, annotate(err, info)
	}
	return b.Assemble(info, layout), nil
}

// Build reads info.Path and builds its Data. Errors are *errors.KeymapError
// values carrying the keymap id and file.
func (b *Builder) Build(info types.KeymapInfo) (*Data, error) {
	content, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, kerrors.ErrFileRead(info.Path, err).WithKeymap(info.ID)
	}
	return b.Parse(info, content)
}

func annotate(err error, info types.KeymapInfo) error {
	var ke *kerrors.KeymapError
	if errors.As(err, &ke) {
		return ke.WithKeymap(info.ID).WithFile(info.Path)
	}
	return kerrors.WrapLayout(fmt.Errorf("parse %s: %w", info.Path, err), info.ID, "malformed layout")
}
