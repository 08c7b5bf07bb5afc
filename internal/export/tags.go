package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/son-changwook/routepick/internal/contract"
)

var tagColumns = []string{"tagName", "tagType", "tagCategory", "description", "isUserSelectable", "isRouteTaggable", "displayOrder"}

// ImportTags reads tag rows from CSV with a header row naming the columns.
// Rows that fail to parse or validate are reported by line and column and
// left out of the returned forms.
func ImportTags(r io.Reader) ([]contract.TagFormData, contract.ImportResult, error) {
	result := contract.ImportResult{Errors: []contract.ImportError{}}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, result, errors.New("empty file")
	}
	if err != nil {
		return nil, result, err
	}
	index := map[string]int{}
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{"tagName", "tagType"} {
		if _, ok := index[required]; !ok {
			return nil, result, fmt.Errorf("missing column %q", required)
		}
	}

	var forms []contract.TagFormData
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			result.TotalRows++
			result.ErrorRows++
			result.Errors = append(result.Errors, contract.ImportError{Row: perr.StartLine, Message: perr.Err.Error()})
			continue
		}
		if err != nil {
			return forms, result, err
		}
		result.TotalRows++
		line, _ := cr.FieldPos(0)
		form, rowErrs := parseTagRow(rec, index, line)
		if len(rowErrs) > 0 {
			result.ErrorRows++
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.SuccessRows++
		forms = append(forms, form)
	}
	return forms, result, nil
}

func parseTagRow(rec []string, index map[string]int, line int) (contract.TagFormData, []contract.ImportError) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var errs []contract.ImportError
	fail := func(col, msg string) {
		errs = append(errs, contract.ImportError{Row: line, Column: col, Message: msg})
	}
	parseBool := func(col string) bool {
		v := get(col)
		if v == "" {
			return false
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(col, "not a boolean: "+v)
		}
		return b
	}

	form := contract.TagFormData{
		TagName:          get("tagName"),
		TagType:          contract.TagType(strings.ToUpper(get("tagType"))),
		TagCategory:      get("tagCategory"),
		Description:      get("description"),
		IsUserSelectable: parseBool("isUserSelectable"),
		IsRouteTaggable:  parseBool("isRouteTaggable"),
	}
	if v := get("displayOrder"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("displayOrder", "not an integer: "+v)
		}
		form.DisplayOrder = n
	}

	var verr *contract.ValidationError
	if err := contract.Validate(form); errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fail(f.Field, ruleMessage(f))
		}
	}
	return form, errs
}

func ruleMessage(f contract.FieldError) string {
	switch f.Rule {
	case "required":
		return "required"
	case "enum":
		return "must be one of " + strings.Join(tagTypeNames(), ", ")
	case "max":
		return "at most " + f.Param + " characters"
	}
	if f.Param != "" {
		return f.Rule + "=" + f.Param
	}
	return f.Rule
}

func tagTypeNames() []string {
	out := make([]string, len(contract.TagTypes))
	for i, t := range contract.TagTypes {
		out[i] = string(t)
	}
	return out
}

// TagColumns is the full header ImportTags understands.
func TagColumns() []string { return append([]string(nil), tagColumns...) }
