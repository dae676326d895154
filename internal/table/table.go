// Package table turns raw GTFS CSV files into typed, row-tracked tables.
//
// Ingestion never fails with a Go error: malformed files, rows and fields are
// reported as notices and the remaining content is kept on a best-effort
// basis. A table's Status distinguishes a file that was not provided from one
// that was provided but could not be used.
package table

import (
	"iter"
	"strings"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
)

// Status is the load outcome of a single file.
type Status int

const (
	StatusOK Status = iota
	StatusMissingFile
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusMissingFile:
		return "missing_file"
	case StatusParseError:
		return "parse_error"
	default:
		return "ok"
	}
}

// Table is the in-memory form of one CSV file. Rows and RowNumbers always
// have the same length; RowNumbers[i] is the 1-based physical line of Rows[i].
//
// All methods are safe to call on a nil *Table, which is how optional files
// that were not provided are represented.
type Table[T any] struct {
	File       string
	Headers    []string
	Rows       []T
	RowNumbers []int
	Status     Status

	columns map[string]int
}

// Missing returns an empty table marked as not provided. Required files use
// it so rules can iterate them unconditionally.
func Missing[T any](file string) *Table[T] {
	return &Table[T]{File: file, Status: StatusMissingFile, columns: map[string]int{}}
}

// Unreadable returns a table for a file that exists but whose bytes could
// not be obtained, and records why.
func Unreadable[T any](file string, err error, sink *notice.Container) *Table[T] {
	sink.Add(notice.New(CodeCSVParsingFailed, notice.Error, "file could not be read").
		At(file, 0).
		Str("filename", file).
		Str("reason", err.Error()))
	return &Table[T]{File: file, Status: StatusParseError, columns: map[string]int{}}
}

// Present reports whether the file was part of the feed.
func (t *Table[T]) Present() bool {
	return t != nil && t.Status != StatusMissingFile
}

// HasFatalErrors reports whether the file was provided but is unusable.
func (t *Table[T]) HasFatalErrors() bool {
	return t != nil && t.Status == StatusParseError
}

// Usable reports whether the file was provided and parsed.
func (t *Table[T]) Usable() bool {
	return t.Present() && !t.HasFatalErrors()
}

// HasColumn reports whether the header authored the column, regardless of the
// values in it. Matching is case-insensitive.
func (t *Table[T]) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.columns[strings.ToLower(name)]
	return ok
}

func (t *Table[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table[T]) Empty() bool {
	return t.Len() == 0
}

// RowNumber returns the source line of the i-th row.
func (t *Table[T]) RowNumber(i int) int {
	return t.RowNumbers[i]
}

// All iterates the rows with their source line numbers.
func (t *Table[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		if t == nil {
			return
		}
		for i := range t.Rows {
			if !yield(t.RowNumbers[i], &t.Rows[i]) {
				return
			}
		}
	}
}
