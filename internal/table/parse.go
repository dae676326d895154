package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse ingests the raw content of one file. Notices about the file's
// structure and values are appended to sink in source order.
func Parse[T any](data []byte, schema Schema[T], sink *notice.Container) *Table[T] {
	t := &Table[T]{File: schema.File, Status: StatusOK, columns: map[string]int{}}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		t.Status = StatusParseError
		sink.Add(notice.New(CodeCSVParsingFailed, notice.Error, "file is not valid UTF-8").
			At(t.File, 0).
			Str("filename", t.File))
		return t
	}
	if len(bytes.TrimSpace(data)) == 0 {
		emptyFile(t, schema.Required, sink)
		return t
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		parseFailed(t, err, sink)
		return t
	}
	headerLine, _ := r.FieldPos(0)
	if !readHeader(t, headerLine, header, schema, sink) {
		return t
	}

	rows := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rows++
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			recordFailed(t, perr, sink)
			continue
		}
		if err != nil {
			parseFailed(t, err, sink)
			return t
		}
		line, _ := r.FieldPos(0)
		if row := readRecord(t, line, record, schema, sink); row != nil {
			t.Rows = append(t.Rows, schema.Build(row))
			t.RowNumbers = append(t.RowNumbers, line)
		}
	}
	if rows == 0 {
		emptyFile(t, schema.Required, sink)
	}
	return t
}

func emptyFile[T any](t *Table[T], required bool, sink *notice.Container) {
	sev := notice.Warning
	if required {
		sev = notice.Error
	}
	sink.Add(notice.New(CodeEmptyFile, sev, "file has no data rows").
		At(t.File, 0).
		Str("filename", t.File))
}

// recordFailed reports one record the CSV reader could not split into
// fields. The reader resumes at the next record.
func recordFailed[T any](t *Table[T], perr *csv.ParseError, sink *notice.Container) {
	sink.Add(notice.New(CodeCSVParsingFailed, notice.Error, "row could not be parsed as CSV").
		At(t.File, perr.StartLine).
		Str("filename", t.File).
		Int("csvRowNumber", perr.StartLine).
		Str("reason", perr.Err.Error()))
}

func parseFailed[T any](t *Table[T], err error, sink *notice.Container) {
	t.Status = StatusParseError
	n := notice.New(CodeCSVParsingFailed, notice.Error, "file could not be parsed as CSV").
		Str("filename", t.File)
	line := 0
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		line = perr.StartLine
		n.Int("csvRowNumber", line).Str("reason", perr.Err.Error())
	} else {
		n.Str("reason", err.Error())
	}
	sink.Add(n.At(t.File, line))
}

// readHeader indexes the header and reports whether rows can be read.
func readHeader[T any](t *Table[T], line int, header []string, schema Schema[T], sink *notice.Container) bool {
	known := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		known[f.Name] = true
	}

	t.Headers = make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		t.Headers[i] = h
		name := strings.ToLower(h)
		switch {
		case name == "":
			sink.Add(notice.New(CodeEmptyColumnName, notice.Error, "column has no name").
				At(t.File, line).
				Str("filename", t.File).
				Int("index", i))
			continue
		case t.HasColumn(name):
			t.Status = StatusParseError
			sink.Add(notice.New(CodeDuplicatedColumn, notice.Error, "column appears more than once in the header").
				At(t.File, line).
				Str("filename", t.File).
				Str("fieldName", h).
				Int("firstIndex", t.columns[name]).
				Int("secondIndex", i))
			continue
		case !known[name]:
			sink.Add(notice.New(CodeUnknownColumn, notice.Info, "column is not defined for this file and is ignored").
				At(t.File, line).
				Str("filename", t.File).
				Str("fieldName", h).
				Int("index", i))
		}
		t.columns[name] = i
	}

	for _, f := range schema.Fields {
		if f.Required && !t.HasColumn(f.Name) {
			t.Status = StatusParseError
			sink.Add(notice.New(CodeMissingRequiredColumn, notice.Error, "required column is missing from the header").
				At(t.File, line).
				Str("filename", t.File).
				Str("fieldName", f.Name))
		}
	}
	return t.Status == StatusOK
}

// readRecord checks one record and returns its decoding view, or nil when
// the record is skipped.
func readRecord[T any](t *Table[T], line int, record []string, schema Schema[T], sink *notice.Container) *Row {
	blank := true
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			blank = false
			break
		}
	}
	if blank {
		sink.Add(notice.New(CodeEmptyRow, notice.Warning, "row has no values").
			At(t.File, line).
			Str("filename", t.File).
			Int("csvRowNumber", line))
		return nil
	}
	if len(record) != len(t.Headers) {
		sink.Add(notice.New(CodeInvalidRowLength, notice.Error, "row does not have as many values as the header").
			At(t.File, line).
			Str("filename", t.File).
			Int("csvRowNumber", line).
			Int("rowLength", len(record)).
			Int("headerCount", len(t.Headers)))
		return nil
	}

	for i, v := range record {
		name := strings.ToLower(t.Headers[i])
		if name == "" {
			continue
		}
		if strings.ContainsAny(v, "\n\r") {
			sink.Add(notice.New(CodeNewLineInValue, notice.Error, "value contains a line break").
				At(t.File, line).
				Str("filename", t.File).
				Int("csvRowNumber", line).
				Str("fieldName", t.Headers[i]).
				Str("fieldValue", v))
		}
		if trimmed := strings.TrimSpace(v); trimmed != v {
			sink.Add(notice.New(CodeLeadingOrTrailingWhitespace, notice.Warning, "value has leading or trailing whitespace").
				At(t.File, line).
				Str("filename", t.File).
				Int("csvRowNumber", line).
				Str("fieldName", t.Headers[i]).
				Str("fieldValue", v))
			record[i] = trimmed
		}
	}

	for _, f := range schema.Fields {
		if !f.Required {
			continue
		}
		if i := t.columns[f.Name]; record[i] == "" {
			sink.Add(notice.New(CodeMissingRequiredField, notice.Error, "required field has no value").
				At(t.File, line).
				Str("filename", t.File).
				Int("csvRowNumber", line).
				Str("fieldName", f.Name))
		}
	}

	return &Row{file: t.File, number: line, record: record, columns: t.columns, sink: sink}
}
