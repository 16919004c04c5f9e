package models

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
)

// Element is one node of a parsed XML tree: a qualified name, the
// attributes in document order, the character data appearing before the
// first child element, and the child elements in document order. Each
// element is owned by its parent's Children slice; the root is owned by
// whoever parsed the document.
type Element struct {
	Name     xml.Name
	Attrs    []Attr
	Text     string
	Children []*Element
}

// Attr is a single attribute with its qualified name.
type Attr struct {
	Name  xml.Name
	Value string
}

// Tag renders the element's qualified name. Namespaced names use the
// "{uri}local" form; unqualified names are just the local name.
func (e *Element) Tag() string {
	return QualifiedName(e.Name)
}

// QualifiedName renders an xml.Name the same way Tag does.
func QualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Value is a JSON-compatible value produced by conversion. The concrete
// types are string, nil, *Object, and Array; numbers and booleans are
// never synthesized, so numeric-looking text stays a string.
type Value any

// Array is an ordered list of values.
type Array []Value

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a string-keyed mapping with unique keys kept in first-insertion
// order. Setting an existing key overwrites its value in place without
// moving the key.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set inserts key with value v, or overwrites the existing entry for key.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.members)
}

// Members returns the entries in insertion order. The returned slice is
// the Object's backing storage and must not be modified.
func (o *Object) Members() []Member {
	return o.members
}

// MarshalJSON writes the object with its keys in insertion order. Members
// are marshaled without HTML escaping; the enclosing encoder re-escapes
// when it wants escaping.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendJSON(&buf, m.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := appendJSON(&buf, m.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// appendJSON marshals v compactly onto buf with HTML escaping disabled.
func appendJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline the caller doesn't want.
	buf.Truncate(buf.Len() - 1)
	return nil
}
