// Package notebook implements detection and repair of malformed widget
// metadata in Jupyter notebook files.
//
// Notebooks saved by some frontends carry widget entries under
// metadata.widgets that are missing their required "state" key, which breaks
// downstream renderers. The Scan/Repair pair finds those entries and splices
// a minimal placeholder state into the file.
//
// The notebook is carried around as its original raw bytes rather than a
// decoded map: scanning reads the bytes with gjson and repairing edits them
// with sjson, so key order and the formatting of everything the repair does
// not touch survive the round trip byte-for-byte.
package notebook

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// WidgetStateMediaType is the key under metadata.widgets that namespaces
// widget state data inside notebook metadata.
const WidgetStateMediaType = "application/vnd.jupyter.widget-state+json"

// ErrNotObject indicates the file parsed as JSON but the top level is not an
// object, so it cannot be a notebook document.
var ErrNotObject = errors.New("top-level value is not an object")

// ErrInvalidJSON indicates the file is not valid JSON at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// Document is a parsed notebook, backed by the original file bytes.
type Document struct {
	raw []byte
}

// Parse validates data as a JSON object and wraps it in a Document.
// It does not require any notebook-specific keys to be present; a notebook
// without metadata.widgets is a valid document with no widgets.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, ErrNotObject
	}
	return &Document{raw: data}, nil
}

// Bytes returns the document's underlying bytes.
func (d *Document) Bytes() []byte {
	return d.raw
}

// pathEscaper escapes the characters gjson/sjson paths treat specially, so
// widget IDs and the media-type key (which contains dots) address the literal
// object key. Widget IDs are opaque text and may contain any of these.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`:`, `\:`,
)

// widgetStatePath returns the gjson/sjson path of the widget-state map.
func widgetStatePath() string {
	return "metadata.widgets." + pathEscaper.Replace(WidgetStateMediaType)
}

// entryStatePath returns the gjson/sjson path of one widget entry's state.
func entryStatePath(widgetID string) string {
	return widgetStatePath() + "." + pathEscaper.Replace(widgetID) + ".state"
}
