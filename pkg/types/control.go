// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ControlEntry is one recommendation listed in a benchmark's table of contents.
type ControlEntry struct {
	// ID is the dotted numeric identifier (e.g. "1.2.3").
	ID string `json:"id" yaml:"id"`

	// Title is the recommendation title with the page-number leader removed.
	Title string `json:"title" yaml:"title"`
}

// Category returns the top-level numeric prefix of the entry's ID.
func (e ControlEntry) Category() string {
	key, _, _ := strings.Cut(e.ID, ".")
	return key
}

// Category groups the controls sharing the same leading ID component.
type Category struct {
	// Key is the leading component of every control ID in the category.
	Key string `json:"key" yaml:"key"`

	// Controls lists entries in table-of-contents order.
	Controls []ControlEntry `json:"controls" yaml:"controls"`
}

// TableOfContents holds categories in order of first appearance.
type TableOfContents struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// IsEmpty reports whether no categories were found.
func (t TableOfContents) IsEmpty() bool {
	return len(t.Categories) == 0
}

// Len returns the total number of controls across all categories.
func (t TableOfContents) Len() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Controls)
	}
	return n
}

// Entries returns every control in traversal order.
func (t TableOfContents) Entries() []ControlEntry {
	out := make([]ControlEntry, 0, t.Len())
	for _, c := range t.Categories {
		out = append(out, c.Controls...)
	}
	return out
}

// Field is one extracted section of a control's detail text.
type Field struct {
	Name string
	Text string
}

// ControlDetails holds extracted sections in extraction order. Only sections
// whose label was found are present.
type ControlDetails []Field

// Get returns the text for the named section and whether it was present.
func (d ControlDetails) Get(name string) (string, bool) {
	for _, f := range d {
		if f.Name == name {
			return f.Text, true
		}
	}
	return "", false
}

// Names returns the section names in order.
func (d ControlDetails) Names() []string {
	names := make([]string, len(d))
	for i, f := range d {
		names[i] = f.Name
	}
	return names
}

// ControlRecord is a ControlEntry merged with its ControlDetails. It marshals
// to a flat object: id, title, then each detail in extraction order. A detail
// whose name collides with an entry key overrides that key's value in place.
type ControlRecord struct {
	ControlEntry
	Details ControlDetails
}

// Fields returns the flattened key/value pairs in output order.
func (r ControlRecord) Fields() []Field {
	fields := []Field{
		{Name: "id", Text: r.ID},
		{Name: "title", Text: r.Title},
	}
	for _, d := range r.Details {
		replaced := false
		for i := range fields {
			if fields[i].Name == d.Name {
				fields[i].Text = d.Text
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, d)
		}
	}
	return fields
}

// MarshalJSON writes the record as a flat object with stable key order and
// no HTML escaping.
func (r ControlRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, f.Name); err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", f.Name, err)
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, f.Text); err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", f.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString appends s as a JSON string literal without the trailing
// newline json.Encoder adds.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON reads a flat object produced by MarshalJSON. Keys other than
// id and title become details in the order they appear.
func (r *ControlRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("control record: expected object, got %v", tok)
	}

	var rec ControlRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("control record field %q: %w", key, err)
		}
		switch key {
		case "id":
			rec.ID = value
		case "title":
			rec.Title = value
		default:
			rec.Details = append(rec.Details, Field{Name: key, Text: value})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = rec
	return nil
}

// MarshalYAML writes the record as a mapping with the same key order as JSON.
func (r ControlRecord) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.Fields() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Text},
		)
	}
	return node, nil
}
