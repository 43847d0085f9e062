package render

import (
	"encoding/xml"
	"io"
	"strings"
)

// element is one node of a parsed markup payload.
type element struct {
	name     string
	attrs    map[string]string
	text     string // direct character data only
	children []*element
}

// parseFragment parses a message's markup payload into an element tree.
// Payloads are XML-ish fragments, not documents, so the decoder runs
// non-strict with HTML entities and auto-closed void tags, and the fragment
// is wrapped in a synthetic root.
func parseFragment(markup string) (*element, error) {
	dec := newFragmentDecoder(markup)

	root := &element{name: "root"}
	stack := []*element{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			top := stack[len(stack)-1]
			top.text += string(t)
		}
	}
	return root, nil
}

// stripTags returns the payload's text with all markup removed. Elements
// named in skip contribute nothing, subtrees included.
func stripTags(markup string, skip ...string) (string, error) {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	dec := newFragmentDecoder(markup)
	var b strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 || skipped[t.Name.Local] {
				depth++
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
			}
		case xml.CharData:
			if depth == 0 {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func newFragmentDecoder(markup string) *xml.Decoder {
	dec := xml.NewDecoder(strings.NewReader("<root>" + markup + "</root>"))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	return dec
}

// find returns the first descendant with the given name, depth-first.
func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if hit := c.find(name); hit != nil {
			return hit
		}
	}
	return nil
}

// findAll returns every descendant with the given name, depth-first.
func (e *element) findAll(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

func (e *element) attr(key string) string {
	return e.attrs[key]
}
