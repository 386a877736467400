// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "github.com/pdiddy/cisbench/pkg/types"

// Step pairs a control with the ID that bounds its detail window.
type Step struct {
	Entry types.ControlEntry

	// NextID is empty for the last control, whose window runs to the end of
	// the appendix.
	NextID string
}

// Traverse lists every control in table-of-contents order with its next ID:
// the following control in the same category; for the last control of a
// category, the first control of the next category; otherwise none. An empty
// next category also yields none.
func Traverse(contents types.TableOfContents) []Step {
	steps := make([]Step, 0, contents.Len())
	cats := contents.Categories
	for ci, cat := range cats {
		for i, entry := range cat.Controls {
			var next string
			switch {
			case i+1 < len(cat.Controls):
				next = cat.Controls[i+1].ID
			case ci+1 < len(cats) && len(cats[ci+1].Controls) > 0:
				next = cats[ci+1].Controls[0].ID
			}
			steps = append(steps, Step{Entry: entry, NextID: next})
		}
	}
	return steps
}
