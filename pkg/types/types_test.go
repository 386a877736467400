// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestControlEntryCategory(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"1.1", "1"},
		{"5.2.3.1", "5"},
		{"12.4", "12"},
		{"7", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ControlEntry{ID: tt.id}.Category())
		})
	}
}

func TestTableOfContents(t *testing.T) {
	toc := TableOfContents{Categories: []Category{
		{Key: "1", Controls: []ControlEntry{{ID: "1.1"}, {ID: "1.2"}}},
		{Key: "2", Controls: []ControlEntry{{ID: "2.1"}}},
	}}
	assert.False(t, toc.IsEmpty())
	assert.Equal(t, 3, toc.Len())
	assert.Equal(t, []ControlEntry{{ID: "1.1"}, {ID: "1.2"}, {ID: "2.1"}}, toc.Entries())
	assert.True(t, TableOfContents{}.IsEmpty())
}

func TestControlRecordFields(t *testing.T) {
	rec := ControlRecord{
		ControlEntry: ControlEntry{ID: "1.1", Title: "TOC title"},
		Details: ControlDetails{
			{Name: "audit", Text: "check"},
			{Name: "title", Text: "appendix title"},
		},
	}
	assert.Equal(t, []Field{
		{Name: "id", Text: "1.1"},
		{Name: "title", Text: "appendix title"},
		{Name: "audit", Text: "check"},
	}, rec.Fields())
}

func TestControlRecordJSON(t *testing.T) {
	rec := ControlRecord{
		ControlEntry: ControlEntry{ID: "2.2.1", Title: "Ensure <x> & \"y\""},
		Details: ControlDetails{
			{Name: "rationale", Text: "línea\nnext"},
			{Name: "impact", Text: ""},
		},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2.2.1","title":"Ensure <x> & \"y\"","rationale":"línea\nnext","impact":""}`, string(data))

	var back ControlRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestControlRecordJSONKeyOrder(t *testing.T) {
	rec := ControlRecord{
		ControlEntry: ControlEntry{ID: "1.1", Title: "T"},
		Details:      ControlDetails{{Name: "remediation", Text: "r"}, {Name: "audit", Text: "a"}},
	}
	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1.1","title":"T","remediation":"r","audit":"a"}`, string(data))
}

func TestControlRecordUnmarshalRejectsNonObject(t *testing.T) {
	var rec ControlRecord
	assert.Error(t, json.Unmarshal([]byte(`["1.1"]`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`{"id": 7}`), &rec))
}

func TestControlRecordYAML(t *testing.T) {
	rec := ControlRecord{
		ControlEntry: ControlEntry{ID: "1.10", Title: "Ensure yes"},
		Details:      ControlDetails{{Name: "profile", Text: "Level 1"}},
	}
	data, err := yaml.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, "id: \"1.10\"\ntitle: Ensure yes\nprofile: Level 1\n", string(data))
}

func TestControlDetails(t *testing.T) {
	d := ControlDetails{{Name: "audit", Text: "a"}, {Name: "impact", Text: ""}}

	got, ok := d.Get("impact")
	assert.True(t, ok)
	assert.Empty(t, got)

	_, ok = d.Get("references")
	assert.False(t, ok)

	assert.Equal(t, []string{"audit", "impact"}, d.Names())
}

func TestBenchmarkID(t *testing.T) {
	assert.Equal(t, "CIS_Ubuntu_Linux_22.04_LTS_Benchmark_v2.0.0",
		BenchmarkID("/pdfs/CIS_Ubuntu_Linux_22.04_LTS_Benchmark_v2.0.0.pdf"))
	assert.Equal(t, "bench", BenchmarkID("bench"))
}

func TestParseConfigValidate(t *testing.T) {
	valid := DefaultParseConfig()
	valid.Output.Dir = "out"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ParseConfig)
	}{
		{"unknown backend", func(c *ParseConfig) { c.Extraction.Backend = "ocr" }},
		{"unknown format", func(c *ParseConfig) { c.Output.Format = "xml" }},
		{"negative indent", func(c *ParseConfig) { c.Output.Indent = -1 }},
		{"missing output folder", func(c *ParseConfig) { c.Output.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOutputFormatExtension(t *testing.T) {
	assert.Equal(t, ".json", OutputJSON.Extension())
	assert.Equal(t, ".yaml", OutputYAML.Extension())
}
