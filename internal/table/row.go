package table

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone fields must validate on hosts without zoneinfo

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
)

// Field declares one recognized column of a file.
type Field struct {
	Name string
	// Required columns must be in the header and carry a value on every row.
	Required bool
}

// Schema describes how to ingest one GTFS file into rows of type T.
type Schema[T any] struct {
	File string
	// Required files produce an error-level empty_file notice when empty.
	Required bool
	Fields   []Field
	Build    func(r *Row) T
}

// FileName returns the canonical file name.
func (s Schema[T]) FileName() string { return s.File }

// Row is the decoding view over one CSV record handed to Schema.Build.
// Getters return the zero value (or nil) when the column is absent, the
// value is empty, or the value fails to decode; decode failures also emit a
// notice that names the field.
type Row struct {
	file    string
	number  int
	record  []string
	columns map[string]int
	sink    *notice.Container
}

// NewRow builds a standalone row view. Used by tests and by parsers of
// non-CSV files that share the field decoders.
func NewRow(file string, number int, headers, record []string, sink *notice.Container) *Row {
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return &Row{file: file, number: number, record: record, columns: cols, sink: sink}
}

// Number is the 1-based source line of the row.
func (r *Row) Number() int { return r.number }

// Text returns the trimmed value of the column.
func (r *Row) Text(name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

// Has reports whether the column carries a non-empty value.
func (r *Row) Has(name string) bool {
	return r.Text(name) != ""
}

func (r *Row) fieldError(code string, sev notice.Severity, name, value, msg string) {
	r.sink.Add(notice.New(code, sev, msg).
		At(r.file, r.number).
		Str("filename", r.file).
		Int("csvRowNumber", r.number).
		Str("fieldName", name).
		Str("fieldValue", value))
}

func (r *Row) Int(name string) *int {
	s := r.Text(name)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.fieldError(CodeInvalidInteger, notice.Error, name, s, "value is not a valid integer")
		return nil
	}
	return &v
}

func (r *Row) Float(name string) *float64 {
	s := r.Text(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || strings.ContainsAny(s, "xXpP_nN") {
		r.fieldError(CodeInvalidFloat, notice.Error, name, s, "value is not a valid decimal number")
		return nil
	}
	return &v
}

func (r *Row) Date(name string) *Date {
	s := r.Text(name)
	if s == "" {
		return nil
	}
	d, ok := ParseDate(s)
	if !ok {
		r.fieldError(CodeInvalidDate, notice.Error, name, s, "value is not a valid YYYYMMDD date")
		return nil
	}
	return &d
}

func (r *Row) Time(name string) *Time {
	s := r.Text(name)
	if s == "" {
		return nil
	}
	t, ok := ParseTime(s)
	if !ok {
		r.fieldError(CodeInvalidTime, notice.Error, name, s, "value is not a valid HH:MM:SS time")
		return nil
	}
	return &t
}

func (r *Row) Color(name string) *Color {
	s := r.Text(name)
	if s == "" {
		return nil
	}
	c, ok := ParseColor(s)
	if !ok {
		r.fieldError(CodeInvalidColor, notice.Error, name, s, "value is not a six digit hexadecimal color")
		return nil
	}
	return &c
}

// Enum decodes an integer enumeration. Integers outside allowed produce a
// warning and decode to nil.
func (r *Row) Enum(name string, allowed ...int) *int {
	return r.EnumFunc(name, func(v int) bool {
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	})
}

// EnumFunc is Enum for enumerations too large to list.
func (r *Row) EnumFunc(name string, valid func(int) bool) *int {
	v := r.Int(name)
	if v == nil {
		return nil
	}
	if !valid(*v) {
		r.fieldError(CodeUnexpectedEnumValue, notice.Warning, name, r.Text(name), "value is not one of the allowed enumeration values")
		return nil
	}
	return v
}

// URL returns the value when it is an absolute http or https URL.
func (r *Row) URL(name string) string {
	s := r.Text(name)
	if s == "" {
		return ""
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		r.fieldError(CodeInvalidURL, notice.Error, name, s, "value is not a valid http or https URL")
		return ""
	}
	return s
}

func (r *Row) Email(name string) string {
	s := r.Text(name)
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		r.fieldError(CodeInvalidEmail, notice.Error, name, s, "value is not a valid email address")
		return ""
	}
	return s
}

// Timezone returns the value when it names an IANA time zone.
func (r *Row) Timezone(name string) string {
	s := r.Text(name)
	if s == "" {
		return ""
	}
	if s == "Local" || strings.HasPrefix(s, "/") {
		r.fieldError(CodeInvalidTimezone, notice.Error, name, s, "value is not a valid IANA time zone")
		return ""
	}
	if _, err := time.LoadLocation(s); err != nil {
		r.fieldError(CodeInvalidTimezone, notice.Error, name, s, "value is not a valid IANA time zone")
		return ""
	}
	return s
}

// Language returns the value when it is a well-formed BCP 47 tag.
func (r *Row) Language(name string) string {
	s := r.Text(name)
	if s == "" {
		return ""
	}
	if _, err := language.Parse(s); err != nil {
		r.fieldError(CodeInvalidLanguageCode, notice.Error, name, s, "value is not a valid BCP 47 language code")
		return ""
	}
	return s
}

// Currency returns the value when it is an ISO 4217 currency code.
func (r *Row) Currency(name string) string {
	s := r.Text(name)
	if s == "" {
		return ""
	}
	if _, err := currency.ParseISO(s); err != nil || len(s) != 3 {
		r.fieldError(CodeInvalidCurrency, notice.Error, name, s, "value is not a valid ISO 4217 currency code")
		return ""
	}
	return s
}
