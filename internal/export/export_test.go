package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/son-changwook/routepick/internal/contract"
)

func sampleRoutes() []contract.Route {
	return []contract.Route{
		{RouteID: 1, Name: "파란 V3", Level: &contract.ClimbingLevel{LevelID: 3, LevelName: "V3"}},
		{RouteID: 2, Name: "Red, slab"},
	}
}

func TestExportCSVColumnsAndHeader(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, sampleRoutes(), contract.ExportOptions{
		Format:         contract.FormatCSV,
		Columns:        []string{"name", "routeId", "level.levelName"},
		IncludeHeaders: true,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "name,routeId,level.levelName\n파란 V3,1,V3\n\"Red, slab\",2,\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}

	buf.Reset()
	_ = Export(&buf, sampleRoutes(), contract.ExportOptions{Format: contract.FormatCSV, Columns: []string{"routeId"}})
	if buf.String() != "1\n2\n" {
		t.Fatalf("header should be omitted, got %q", buf.String())
	}
}

func TestExportRejectsOtherFormats(t *testing.T) {
	for _, f := range []contract.ExportFormat{contract.FormatXLSX, contract.FormatPDF} {
		err := Export(&bytes.Buffer{}, sampleRoutes(), contract.ExportOptions{Format: f, Columns: []string{"name"}})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", f, err)
		}
	}
	err := Export(&bytes.Buffer{}, sampleRoutes(), contract.ExportOptions{Format: contract.FormatCSV})
	if !errors.Is(err, contract.ErrValidation) {
		t.Fatalf("expected validation error for missing columns, got %v", err)
	}
}

func TestExportNestedValuesAsJSON(t *testing.T) {
	var buf bytes.Buffer
	rec := map[string]any{"id": 1, "tags": []string{"crimp", "sloper"}, "active": true}
	if err := Export(&buf, []map[string]any{rec}, contract.ExportOptions{Format: contract.FormatCSV, Columns: []string{"tags", "active", "missing"}}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.String() != "\"[\"\"crimp\"\",\"\"sloper\"\"]\",true,\n" {
		t.Fatalf("unexpected csv %q", buf.String())
	}
}

func TestImportTagsReportsRowErrors(t *testing.T) {
	in := strings.Join([]string{
		"tagName,tagType,displayOrder,isUserSelectable,isRouteTaggable",
		"크림프,hold_type,1,true,true",
		",STYLE,2,true,false",
		"dyno,JUMPING,x,maybe,true",
		"overhang,WALL_ANGLE,3,false,true",
	}, "\n")
	forms, res, err := ImportTags(strings.NewReader(in))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.TotalRows != 4 || res.SuccessRows != 2 || res.ErrorRows != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(forms) != 2 || forms[0].TagType != contract.TagTypeHoldType || !forms[0].IsRouteTaggable {
		t.Fatalf("unexpected forms %+v", forms)
	}

	byCell := map[string]bool{}
	for _, e := range res.Errors {
		byCell[e.Column+"@"+string(rune('0'+e.Row))] = true
	}
	for _, want := range []string{"tagName@3", "displayOrder@4", "isUserSelectable@4", "tagType@4"} {
		if !byCell[want] {
			t.Fatalf("missing error %s in %+v", want, res.Errors)
		}
	}
}

func TestImportTagsKeepsGoingPastMalformedRows(t *testing.T) {
	in := strings.Join([]string{
		"tagName,tagType,description",
		`crimp,HOLD_TYPE,"two`,
		`lines"`,
		`bad"quote,STYLE,x`,
		",STYLE,",
		"sloper,HOLD_TYPE,ok",
	}, "\n")
	forms, res, err := ImportTags(strings.NewReader(in))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.TotalRows != 4 || res.SuccessRows != 2 || res.ErrorRows != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(forms) != 2 || forms[0].Description != "two\nlines" || forms[1].TagName != "sloper" {
		t.Fatalf("unexpected forms %+v", forms)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("unexpected errors %+v", res.Errors)
	}
	if e := res.Errors[0]; e.Row != 4 || !strings.Contains(e.Message, "bare") {
		t.Fatalf("parse error not reported on its row: %+v", e)
	}
	if e := res.Errors[1]; e.Row != 5 || e.Column != "tagName" {
		t.Fatalf("line numbers drifted after a multi-line record: %+v", e)
	}
}

func TestImportTagsRequiresHeader(t *testing.T) {
	if _, _, err := ImportTags(strings.NewReader("name,type\nx,STYLE\n")); err == nil {
		t.Fatalf("expected missing column error")
	}
	if _, _, err := ImportTags(strings.NewReader("")); err == nil {
		t.Fatalf("expected empty file error")
	}
}
