package converter

import (
	"encoding/xml"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/telveo/xj/internal/models"
)

// Reserved output keys. A child element literally named "#text" (or an
// "@name"-shaped tag) collides with these and silently overwrites; that
// matches the attribute-collision policy and is not disambiguated.
const (
	TextKey    = "#text"
	AttrPrefix = "@"
)

// KeyStyle selects an optional restyling of element- and attribute-derived
// output keys. The empty style keeps names verbatim. Styling applies to
// the local name only; the "@" prefix, the "#text" marker, and any
// namespace qualification are left alone.
type KeyStyle string

const (
	KeyStyleNone   KeyStyle = ""
	KeyStyleSnake  KeyStyle = "snake"
	KeyStyleCamel  KeyStyle = "camel"
	KeyStylePascal KeyStyle = "pascal"
)

// Valid reports whether s names a known key style.
func (s KeyStyle) Valid() bool {
	switch s {
	case KeyStyleNone, KeyStyleSnake, KeyStyleCamel, KeyStylePascal:
		return true
	}
	return false
}

func (s KeyStyle) apply(name string) string {
	switch s {
	case KeyStyleSnake:
		return strcase.ToSnake(name)
	case KeyStyleCamel:
		return strcase.ToLowerCamel(name)
	case KeyStylePascal:
		return strcase.ToCamel(name)
	}
	return name
}

// Options controls conversion. The zero value converts with namespaces
// kept, mixed content dropped, empty elements as empty objects, no root
// wrapper, and compact encoding; Default returns the tool's defaults.
// Options are passed by value through the recursion and never mutated.
type Options struct {
	// StripNamespaces removes namespace qualification from every element
	// and attribute name before conversion.
	StripNamespaces bool
	// PreserveMixedContent keeps an element's own leading text under the
	// "#text" key when the element also has children.
	PreserveMixedContent bool
	// EmptyElementsAsNull converts an element with no attributes, no
	// children, and no non-blank text to null instead of {}.
	EmptyElementsAsNull bool
	// PreserveRoot wraps the converted document under the root element's
	// name. Read by Document, not by Convert.
	PreserveRoot bool
	// PrettyPrint indents the encoded JSON. Read by the encoder, not by
	// Convert.
	PrettyPrint bool
	// KeyStyle optionally restyles output keys.
	KeyStyle KeyStyle
}

// Default returns the default conversion options: root preserved, pretty
// output, mixed content kept.
func Default() Options {
	return Options{
		PreserveRoot:         true,
		PrettyPrint:          true,
		PreserveMixedContent: true,
	}
}

// key renders a qualified name as an output key, honoring StripNamespaces
// and KeyStyle.
func (o Options) key(n xml.Name) string {
	if o.StripNamespaces {
		n.Space = ""
	}
	n.Local = o.KeyStyle.apply(n.Local)
	return models.QualifiedName(n)
}

// StripNamespaces removes namespace qualification from every element and
// attribute name reachable from root, in place. The pass is total and
// idempotent; unqualified names are left unchanged. It must complete
// before any conversion starts reading the tree.
func StripNamespaces(root *models.Element) {
	if root == nil {
		return
	}
	root.Name.Space = ""
	for i := range root.Attrs {
		root.Attrs[i].Name.Space = ""
	}
	for _, child := range root.Children {
		StripNamespaces(child)
	}
}

// Convert maps one element to its JSON-compatible value, depth first. The
// result is a pure function of the element's attributes, text, and
// children; the recursion depth equals the document's nesting depth.
//
// Attributes come first under "@"-prefixed keys (duplicate keys resolve
// last-write-wins). Repeated child tags promote to a list on the second
// occurrence and accumulate in document order; a single occurrence is
// never wrapped. An attribute-free, child-free element with non-blank
// text collapses to a bare string.
func Convert(el *models.Element, opts Options) models.Value {
	result := models.NewObject()
	for _, a := range el.Attrs {
		result.Set(AttrPrefix+opts.key(a.Name), a.Value)
	}

	text := strings.TrimSpace(el.Text)

	// Per-tag accumulator: the single-vs-list shape is materialized once,
	// after all siblings are grouped.
	var order []string
	groups := make(map[string][]models.Value)
	for _, child := range el.Children {
		tag := opts.key(child.Name)
		if _, seen := groups[tag]; !seen {
			order = append(order, tag)
		}
		groups[tag] = append(groups[tag], Convert(child, opts))
	}

	switch {
	case len(order) > 0:
		for _, tag := range order {
			if vals := groups[tag]; len(vals) == 1 {
				result.Set(tag, vals[0])
			} else {
				result.Set(tag, models.Array(vals))
			}
		}
		if text != "" && opts.PreserveMixedContent {
			result.Set(TextKey, text)
		}
	case text != "":
		if result.Len() == 0 {
			return text
		}
		result.Set(TextKey, text)
	case result.Len() == 0:
		if opts.EmptyElementsAsNull {
			return nil
		}
	}
	return result
}

// Document converts a whole parsed document: the namespace pass runs
// first when requested, then the root is converted and, under
// PreserveRoot, wrapped in a single-key object keyed by the root
// element's name.
func Document(root *models.Element, opts Options) models.Value {
	if opts.StripNamespaces {
		StripNamespaces(root)
	}
	value := Convert(root, opts)
	if !opts.PreserveRoot {
		return value
	}
	doc := models.NewObject()
	doc.Set(opts.key(root.Name), value)
	return doc
}
