// Package svgmeta inspects accepted SVG icons for sizing metadata worth
// flagging in diagnostics.
package svgmeta

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Info summarizes the sizing attributes of an SVG root element.
type Info struct {
	Width   string
	Height  string
	ViewBox string
}

// Scalable reports whether renderers can scale the icon predictably: a
// viewBox, or an explicit width and height pair.
func (i Info) Scalable() bool {
	return i.ViewBox != "" || (i.Width != "" && i.Height != "")
}

// Inspect parses SVG bytes and extracts sizing attributes. The caller has
// already signature-sniffed the bytes; a document that still fails to parse
// is reported as an error the caller downgrades to a warning.
func Inspect(data []byte) (Info, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Info{}, fmt.Errorf("svg does not parse as XML: %w", err)
	}
	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return Info{}, fmt.Errorf("document root is not an svg element")
	}

	return Info{
		Width:   root.SelectAttrValue("width", ""),
		Height:  root.SelectAttrValue("height", ""),
		ViewBox: root.SelectAttrValue("viewBox", ""),
	}, nil
}
