package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/datadeck-dev/datadeck/internal/api"
)

func validResponse() *api.UploadResponse {
	return &api.UploadResponse{
		Success:   true,
		DatasetID: "ds-7",
		Meta: &api.UploadMeta{
			Sniff:       api.SniffMeta{Filetype: "csv", Encoding: "utf-8", Delimiter: ",", Ext: "csv"},
			ShapeSample: []int{100, 3},
			ShapeTotal:  []int{120, 3},
			Columns:     []string{"name", "age", "city"},
			Ext:         "csv",
			RawPath:     "/data/raw/ds-7.csv",
		},
		PreviewDF: []map[string]json.RawMessage{
			{"name": json.RawMessage(`"kim"`), "age": json.RawMessage(`31`), "city": json.RawMessage(`"seoul"`)},
			{"name": json.RawMessage(`"lee"`), "age": json.RawMessage(`null`), "city": json.RawMessage(`"busan"`)},
		},
		DtypeDF: []api.DtypeEntry{
			{Column: "name", NullCount: 0, NullRatio: 0, Dtype: "object"},
			{Column: "age", NullCount: 12, NullRatio: 10, Dtype: "float64"},
			{Column: "city", NullCount: 0, NullRatio: 0, Dtype: "object"},
		},
	}
}

func TestDecodeBinding(t *testing.T) {
	b, err := DecodeBinding(validResponse())
	if err != nil {
		t.Fatalf("DecodeBinding failed: %v", err)
	}

	if b.DatasetID != "ds-7" {
		t.Errorf("DatasetID = %q", b.DatasetID)
	}
	if b.ShapeTotal != (Shape{Rows: 120, Columns: 3}) {
		t.Errorf("ShapeTotal = %+v", b.ShapeTotal)
	}
	if b.ShapeSample != (Shape{Rows: 100, Columns: 3}) {
		t.Errorf("ShapeSample = %+v", b.ShapeSample)
	}
	if len(b.Stats) != len(b.Columns) {
		t.Errorf("stats/columns mismatch: %d vs %d", len(b.Stats), len(b.Columns))
	}
	if b.Sniff.Delimiter != "," || b.Ext != "csv" || b.RawPath != "/data/raw/ds-7.csv" {
		t.Errorf("metadata lost: %+v", b)
	}

	// Preview cells: strings unwrapped, numbers kept as text, nulls empty.
	if got := b.Preview[0]["name"]; got != "kim" {
		t.Errorf(`Preview[0]["name"] = %q, want kim`, got)
	}
	if got := b.Preview[0]["age"]; got != "31" {
		t.Errorf(`Preview[0]["age"] = %q, want 31`, got)
	}
	if got := b.Preview[1]["age"]; got != "" {
		t.Errorf(`Preview[1]["age"] = %q, want empty for null`, got)
	}
}

func TestDecodeBindingShapeMismatches(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*api.UploadResponse)
	}{
		{"missing dataset id", func(r *api.UploadResponse) { r.DatasetID = "" }},
		{"missing meta", func(r *api.UploadResponse) { r.Meta = nil }},
		{"empty columns", func(r *api.UploadResponse) { r.Meta.Columns = nil }},
		{"short shape", func(r *api.UploadResponse) { r.Meta.ShapeTotal = []int{120} }},
		{"long shape", func(r *api.UploadResponse) { r.Meta.ShapeSample = []int{1, 2, 3} }},
		{"negative shape", func(r *api.UploadResponse) { r.Meta.ShapeTotal = []int{-1, 3} }},
		{"stats count mismatch", func(r *api.UploadResponse) { r.DtypeDF = r.DtypeDF[:2] }},
		{"stat for unknown column", func(r *api.UploadResponse) { r.DtypeDF[1].Column = "ghost" }},
		{"duplicate stat column", func(r *api.UploadResponse) { r.DtypeDF[1].Column = "name" }},
		{"negative null count", func(r *api.UploadResponse) { r.DtypeDF[0].NullCount = -1 }},
		{"ratio above 100", func(r *api.UploadResponse) { r.DtypeDF[0].NullRatio = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := validResponse()
			tt.mutate(resp)

			_, err := DecodeBinding(resp)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error = %v, want *DecodeError", err)
			}
		})
	}
}

func TestStatsOrderMayDifferFromSchema(t *testing.T) {
	resp := validResponse()
	resp.DtypeDF[0], resp.DtypeDF[2] = resp.DtypeDF[2], resp.DtypeDF[0]

	b, err := DecodeBinding(resp)
	if err != nil {
		t.Fatalf("DecodeBinding failed on reordered stats: %v", err)
	}
	if b.Stats[0].Column != "city" {
		t.Errorf("stats order not preserved: %+v", b.Stats[0])
	}
}

func TestDisplayPreviewCap(t *testing.T) {
	resp := validResponse()
	resp.PreviewDF = nil
	for i := 0; i < 35; i++ {
		resp.PreviewDF = append(resp.PreviewDF, map[string]json.RawMessage{
			"name": json.RawMessage(fmt.Sprintf(`"row%d"`, i)),
			"age":  json.RawMessage(`1`),
			"city": json.RawMessage(`"x"`),
		})
	}

	b, err := DecodeBinding(resp)
	if err != nil {
		t.Fatalf("DecodeBinding failed: %v", err)
	}
	if len(b.Preview) != 35 {
		t.Errorf("Preview holds %d rows, want all 35 materialized", len(b.Preview))
	}
	if got := len(b.DisplayPreview()); got != PreviewDisplayLimit {
		t.Errorf("DisplayPreview returns %d rows, want %d", got, PreviewDisplayLimit)
	}
}

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"data.csv", true},
		{"data.CSV", true},
		{"data.tsv", true},
		{"notes.txt", true},
		{"sheet.xlsx", false},
		{"archive.csv.gz", false},
		{"noext", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := AllowedFile(tt.name); got != tt.want {
			t.Errorf("AllowedFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidSampleRows(t *testing.T) {
	for _, n := range SampleRowsChoices {
		if !ValidSampleRows(n) {
			t.Errorf("ValidSampleRows(%d) = false for a listed choice", n)
		}
	}
	for _, n := range []int{0, 10, 99, 3000, -50} {
		if ValidSampleRows(n) {
			t.Errorf("ValidSampleRows(%d) = true, want false", n)
		}
	}
}

func TestBindingSummary(t *testing.T) {
	b, err := DecodeBinding(validResponse())
	if err != nil {
		t.Fatalf("DecodeBinding failed: %v", err)
	}
	want := "ds-7 | 120 rows × 3 cols | CSV"
	if got := b.Summary(); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}
