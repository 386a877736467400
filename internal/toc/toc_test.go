// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cisbench/pkg/types"
)

func TestParse(t *testing.T) {
	text := "CIS Example Benchmark\nTable of Contents\n1 Section\n1.1 Control One.......12\n1.2 Control Two.......13\nAppendix"

	got, err := Parse(text)
	require.NoError(t, err)

	want := types.TableOfContents{Categories: []types.Category{{
		Key: "1",
		Controls: []types.ControlEntry{
			{ID: "1.1", Title: "Control One"},
			{ID: "1.2", Title: "Control Two"},
		},
	}}}
	assert.Equal(t, want, got)
}

func TestParseMissingMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no table of contents", text: "1.1 Control One.......12\nAppendix\n1.1 Control One"},
		{name: "no appendix", text: "Table of Contents\n1.1 Control One.......12\n"},
		{name: "appendix only before marker", text: "Appendix\nTable of Contents\n1.1 Control One....3"},
		{name: "appendix not at line start", text: "Table of Contents\n1.1 See the Appendix.......12"},
		{name: "empty text", text: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.True(t, got.IsEmpty())
		})
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "strips marker and leading whitespace",
			text:   "Table of Contents\n\n  1.1 A....1\n  Appendix: Summary",
			want:   "1.1 A....1",
			wantOK: true,
		},
		{
			name:   "first appendix line ends the region",
			text:   "Table of Contents\n1.1 A....1\nAppendix A\n2.1 B....2\nAppendix B",
			want:   "1.1 A....1",
			wantOK: true,
		},
		{
			name:   "appendix directly after marker",
			text:   "Table of Contents\nAppendix",
			want:   "",
			wantOK: true,
		},
		{
			name:   "first marker wins",
			text:   "Table of Contents\n1.1 A....1\nTable of Contents\n1.2 B....2\nAppendix",
			want:   "1.1 A....1\nTable of Contents\n1.2 B....2",
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Region(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []types.Category
	}{
		{
			name: "groups by leading component in first-seen order",
			in: "2 Services\n2.1 Ensure A....5\n1 Setup\n1.1 Ensure B....7\n2.2 Ensure C....9\n",
			want: []types.Category{
				{Key: "2", Controls: []types.ControlEntry{{ID: "2.1", Title: "Ensure A"}, {ID: "2.2", Title: "Ensure C"}}},
				{Key: "1", Controls: []types.ControlEntry{{ID: "1.1", Title: "Ensure B"}}},
			},
		},
		{
			name: "two to four components",
			in:   "1.1 Two....1\n1.1.1 Three....2\n1.1.1.1 Four....3\n1.1.1.1.1 Five....4\n",
			want: []types.Category{
				{Key: "1", Controls: []types.ControlEntry{
					{ID: "1.1", Title: "Two"},
					{ID: "1.1.1", Title: "Three"},
					{ID: "1.1.1.1", Title: "Four"},
				}},
			},
		},
		{
			name: "indented entries",
			in:   "   3.4 Ensure indented (Automated) ........ 40\n",
			want: []types.Category{
				{Key: "3", Controls: []types.ControlEntry{{ID: "3.4", Title: "Ensure indented (Automated)"}}},
			},
		},
		{
			name: "title wrapping onto the next line",
			in:   "5.1 Ensure a long title that\nwraps (Manual) ....... 88\n",
			want: []types.Category{
				{Key: "5", Controls: []types.ControlEntry{{ID: "5.1", Title: "Ensure a long title that\nwraps (Manual)"}}},
			},
		},
		{
			name: "id mid-line is ignored",
			in:   "see section 1.1 for details.\n",
			want: nil,
		},
		{
			name: "bare top-level numbers are not entries",
			in:   "1 Initial Setup\n12\n",
			want: nil,
		},
		{
			name: "duplicate id keeps first listing",
			in:   "1.1 First....1\n1.1 Second....2\n1.2 Third....3\n",
			want: []types.Category{
				{Key: "1", Controls: []types.ControlEntry{{ID: "1.1", Title: "First"}, {ID: "1.2", Title: "Third"}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRegion(tt.in)
			assert.Equal(t, tt.want, got.Categories)
		})
	}
}

// A period inside a title is taken as the start of the leader dots. This is
// a known limitation of the title heuristic and is kept as-is.
func TestParseRegionTruncatesTitleAtInternalPeriod(t *testing.T) {
	got := ParseRegion("1.1 Ensure U.S. locale is set....12\n")
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Ensure U", got.Categories[0].Controls[0].Title)
}

func TestTableOfContentsHelpers(t *testing.T) {
	got := ParseRegion("1.1 A....1\n1.2 B....2\n2.1 C....3\n")
	assert.Equal(t, 3, got.Len())
	ids := make([]string, 0, got.Len())
	for _, e := range got.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"1.1", "1.2", "2.1"}, ids)
}

func TestParseUnicodeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "no-break space after id",
			text: "Table of Contents\n1.1\u00a0Control One.....12\n1.2 Control Two.....13\nAppendix\n1.1 Control One",
		},
		{
			name: "em space indentation",
			text: "Table of Contents\n\u20031.1 Control One.....12\n\u20031.2\u2003Control Two.....13\n\u2003Appendix",
		},
		{
			name: "no-break space before appendix heading",
			text: "Table of Contents\n1.1 Control One.....12\n1.2 Control Two.....13\n\u00a0Appendix: Summary Table",
		},
	}
	want := types.TableOfContents{Categories: []types.Category{{
		Key: "1",
		Controls: []types.ControlEntry{
			{ID: "1.1", Title: "Control One"},
			{ID: "1.2", Title: "Control Two"},
		},
	}}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
