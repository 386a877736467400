// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections extracts the labeled parts of a control's detail text:
// Profile Applicability, Description, Rationale, Impact, Audit, Remediation,
// Default Value and References.
//
// The detail text lives after the first "Appendix" marker. A control's
// window runs from the first literal occurrence of its ID to the next
// control's ID at the start of a line, or to the end of the text. Inside the
// window each section is found by its label and ends at the earliest of its
// terminators, so missing optional sections do not disturb the others.
package sections

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cisbench/internal/pattern"
	"github.com/pdiddy/cisbench/pkg/types"
)

const appendixMarker = "Appendix"

// Section describes one labeled field. Label and Until are regular
// expressions whose \s, \d and \w classes match Unicode; the captured text starts after Label and any whitespace that
// follows it, and stops at the first match of any Until pattern or at the end
// of the window.
type Section struct {
	Name  string   `yaml:"name"`
	Label string   `yaml:"label"`
	Until []string `yaml:"until"`

	label *regexp.Regexp
	until []*regexp.Regexp
}

// Set is an ordered, compiled list of sections.
type Set struct {
	sections []Section
}

// DefaultSections returns the eight benchmark sections in extraction order.
func DefaultSections() []Section {
	return []Section{
		{Name: "profile", Label: `Profile Applicability:`, Until: []string{`\n\s*Description:`, `Rationale:`, `Impact:`, `Audit:`}},
		{Name: "description", Label: `Description:`, Until: []string{`\n\s*Rationale:`, `Impact:`, `Audit:`}},
		{Name: "rationale", Label: `Rationale:`, Until: []string{`\n\s*Impact:`, `Audit:`}},
		{Name: "impact", Label: `Impact:`, Until: []string{`\n\s*Audit:`, `Remediation:`}},
		{Name: "audit", Label: `Audit:`, Until: []string{`\n\s*Remediation:`}},
		{Name: "remediation", Label: `Remediation:`, Until: []string{`\n\s*Default Value:`}},
		{Name: "default_value", Label: `Default Value:`, Until: []string{`\n\s*References:`}},
		{Name: "references", Label: `References:`, Until: []string{`\n\s*CIS Controls:`}},
	}
}

var defaultSet = MustCompile(DefaultSections())

// Default returns the compiled default section set.
func Default() *Set {
	return defaultSet
}

// Compile validates and compiles sections, preserving their order.
func Compile(sections []Section) (*Set, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("section set is empty")
	}
	seen := make(map[string]bool)
	out := make([]Section, len(sections))
	for i, s := range sections {
		if s.Name == "" {
			return nil, fmt.Errorf("section %d: name is required", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("section %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if s.Label == "" {
			return nil, fmt.Errorf("section %q: label is required", s.Name)
		}

		label, err := pattern.Compile(`(?:` + s.Label + `)\s*`)
		if err != nil {
			return nil, fmt.Errorf("section %q: compiling label: %w", s.Name, err)
		}
		until := make([]*regexp.Regexp, len(s.Until))
		for j, u := range s.Until {
			re, err := pattern.Compile(u)
			if err != nil {
				return nil, fmt.Errorf("section %q: compiling terminator %q: %w", s.Name, u, err)
			}
			until[j] = re
		}

		s.Until = append([]string(nil), s.Until...)
		s.label = label
		s.until = until
		out[i] = s
	}
	return &Set{sections: out}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(sections []Section) *Set {
	s, err := Compile(sections)
	if err != nil {
		panic(err)
	}
	return s
}

// sectionsFile is the YAML layout of a custom section set.
type sectionsFile struct {
	Sections []Section `yaml:"sections"`
}

// Load reads a YAML section set from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sections file: %w", err)
	}
	var f sectionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sections file %s: %w", path, err)
	}
	set, err := Compile(f.Sections)
	if err != nil {
		return nil, fmt.Errorf("sections file %s: %w", path, err)
	}
	return set, nil
}

// Names returns the section names in extraction order.
func (s *Set) Names() []string {
	names := make([]string, len(s.sections))
	for i, sec := range s.sections {
		names[i] = sec.Name
	}
	return names
}

// Extract applies every section to window in order. A section is included
// only when its label is present; its text is trimmed of surrounding
// whitespace and may be empty.
func (s *Set) Extract(window string) types.ControlDetails {
	var details types.ControlDetails
	for _, sec := range s.sections {
		loc := sec.label.FindStringIndex(window)
		if loc == nil {
			continue
		}
		body := window[loc[1]:]
		end := len(body)
		for _, re := range sec.until {
			if m := re.FindStringIndex(body); m != nil && m[0] < end {
				end = m[0]
			}
		}
		details = append(details, types.Field{
			Name: sec.Name,
			Text: pattern.TrimSpace(body[:end]),
		})
	}
	return details
}

// Appendix returns the text after the first "Appendix" marker, with leading
// whitespace removed. ok is false when the marker is missing.
func Appendix(text string) (appendix string, ok bool) {
	i := strings.Index(text, appendixMarker)
	if i < 0 {
		return "", false
	}
	return pattern.TrimLeftSpace(text[i+len(appendixMarker):]), true
}

// Window isolates a control's detail text: from the first occurrence of id up
// to, not including, the newline before the next occurrence of nextID. An
// empty nextID extends the window to the end of appendix. Both IDs are
// matched literally. ok is false when id does not occur.
//
// The first occurrence of id is used even when it is a substring of another
// token (for example "1.1" inside "11.1").
func Window(appendix, id, nextID string) (window string, ok bool) {
	start := strings.Index(appendix, id)
	if start < 0 {
		return "", false
	}
	end := len(appendix)
	if nextID != "" {
		from := start + len(id)
		if j := strings.Index(appendix[from:], "\n"+nextID); j >= 0 {
			end = from + j
		}
	}
	return appendix[start:end], true
}

// Extractor pulls control details out of one document. The appendix region
// is located once.
type Extractor struct {
	set      *Set
	appendix string
	ok       bool
}

// NewExtractor prepares detail extraction over the full document text. A nil
// set selects the default sections.
func NewExtractor(fullText string, set *Set) *Extractor {
	if set == nil {
		set = defaultSet
	}
	appendix, ok := Appendix(fullText)
	return &Extractor{set: set, appendix: appendix, ok: ok}
}

// HasAppendix reports whether the document contains an appendix region.
func (e *Extractor) HasAppendix() bool {
	return e.ok
}

// Details returns the sections found for id, bounded by nextID. It returns
// nil when the appendix or the control's window is missing.
func (e *Extractor) Details(id, nextID string) types.ControlDetails {
	if !e.ok {
		return nil
	}
	window, ok := Window(e.appendix, id, nextID)
	if !ok {
		return nil
	}
	return e.set.Extract(window)
}

// Details extracts the sections for a single control from the full document
// text.
func Details(id, fullText, nextID string, set *Set) types.ControlDetails {
	return NewExtractor(fullText, set).Details(id, nextID)
}
