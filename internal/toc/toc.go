// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toc maps control IDs to titles by scanning a benchmark's table of
// contents. The table of contents is the text between the first "Table of
// Contents" marker and the next line that starts with "Appendix".
package toc

import (
	"errors"
	"strings"

	"github.com/pdiddy/cisbench/internal/pattern"
	"github.com/pdiddy/cisbench/pkg/types"
)

// ErrNotFound reports that the table-of-contents markers are missing.
var ErrNotFound = errors.New("table of contents not found")

const startMarker = "Table of Contents"

var (
	// endMarker closes the region: an Appendix heading at the start of a line.
	endMarker = pattern.MustCompile(`\n\s*Appendix`)

	// entryPattern matches a dotted ID with two to four components at a line
	// start, followed by a title that runs to the first period. The period is
	// assumed to begin the page-number leader dots, so a title containing an
	// abbreviation such as "U.S." is cut short.
	entryPattern = pattern.MustCompile(`(?m)^\s*(\d+(?:\.\d+){1,3})\s+([\s\S]*?)\.`)
)

// Region returns the table-of-contents text, without the start marker and
// its trailing whitespace. ok is false when either marker is missing.
func Region(text string) (region string, ok bool) {
	i := strings.Index(text, startMarker)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(startMarker):]
	body := pattern.TrimLeftSpace(rest)

	if loc := endMarker.FindStringIndex(body); loc != nil {
		return body[:loc[0]], true
	}
	// The Appendix line may directly follow the marker, inside the whitespace
	// that was trimmed; the region is then empty.
	if endMarker.MatchString(rest) {
		return "", true
	}
	return "", false
}

// Parse locates the table of contents in the full document text and groups
// its entries by category. It returns ErrNotFound with an empty result when
// the markers are missing.
func Parse(text string) (types.TableOfContents, error) {
	region, ok := Region(text)
	if !ok {
		return types.TableOfContents{}, ErrNotFound
	}
	return ParseRegion(region), nil
}

// ParseRegion scans a table-of-contents region for entries. Categories keep
// the order of their first entry; entries keep document order. When an ID is
// listed twice the first listing wins.
func ParseRegion(region string) types.TableOfContents {
	var result types.TableOfContents
	index := make(map[string]int)
	seen := make(map[string]bool)

	for _, m := range entryPattern.FindAllStringSubmatch(region, -1) {
		entry := types.ControlEntry{
			ID:    pattern.TrimSpace(m[1]),
			Title: pattern.TrimSpace(m[2]),
		}
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		key := entry.Category()
		i, ok := index[key]
		if !ok {
			i = len(result.Categories)
			index[key] = i
			result.Categories = append(result.Categories, types.Category{Key: key})
		}
		result.Categories[i].Controls = append(result.Categories[i].Controls, entry)
	}
	return result
}
