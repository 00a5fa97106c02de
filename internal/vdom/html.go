package vdom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls HTML serialization.
type Options struct {
	// Bind turns a handler prop into an attribute. When nil, or when it
	// returns ok=false, the handler is omitted from the output.
	Bind func(handlerID, prop string) (attr, val string, ok bool)
}

var attrNames = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

func RenderHTML(w io.Writer, root *Elem, opts Options) error {
	if root == nil {
		return nil
	}
	n := toNode(root, elemPath("", 0, root), opts)
	return html.Render(w, n)
}

func RenderHTMLString(root *Elem, opts Options) (string, error) {
	var b strings.Builder
	if err := RenderHTML(&b, root, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toNode(e *Elem, path string, opts Options) *html.Node {
	if e.IsText() {
		return &html.Node{Type: html.TextNode, Data: e.Text}
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
		Attr:     attrsOf(e, path, opts),
	}
	for i := range e.Children {
		c := &e.Children[i]
		n.AppendChild(toNode(c, elemPath(path, i, c), opts))
	}
	return n
}

func attrsOf(e *Elem, path string, opts Options) []html.Attribute {
	keys := make([]string, 0, len(e.Props))
	for k := range e.Props {
		if k != KeyPropKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []html.Attribute
	for _, k := range keys {
		v := e.Props[k]
		if _, ok := handlerOf(v); ok {
			if opts.Bind == nil {
				continue
			}
			if attr, val, ok := opts.Bind(HandlerID(path, k), k); ok {
				out = append(out, html.Attribute{Key: attr, Val: val})
			}
			continue
		}
		name := k
		if mapped, ok := attrNames[k]; ok {
			name = mapped
		}
		switch t := v.(type) {
		case nil:
		case bool:
			if t {
				out = append(out, html.Attribute{Key: name})
			}
		case string:
			out = append(out, html.Attribute{Key: name, Val: t})
		default:
			out = append(out, html.Attribute{Key: name, Val: fmt.Sprint(t)})
		}
	}
	return out
}
