package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the notice row layout shared by CSV and XLSX.
var columns = []string{
	"code",
	"severity",
	"file",
	"row",
	"message",
	"context",
}

// Writer wraps csv.Writer for exporting notices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteNotices writes one row per notice.
func (w *Writer) WriteNotices(notices []*notice.Notice) error {
	for _, n := range notices {
		if err := w.csv.Write(noticeToRow(n)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes the BOM, the header and every notice of r.
func WriteCSV(w io.Writer, r *Report) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteNotices(r.Notices.Notices()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func noticeToRow(n *notice.Notice) []string {
	row := make([]string, len(columns))
	row[0] = n.Code
	row[1] = n.Severity.String()
	row[2] = n.File
	if n.Row > 0 {
		row[3] = strconv.Itoa(n.Row)
	}
	row[4] = n.Message
	row[5] = formatContext(n)
	return row
}

// formatContext renders context fields as "key=value" pairs in field order.
func formatContext(n *notice.Notice) string {
	var b strings.Builder
	for i, k := range n.Fields() {
		if i > 0 {
			b.WriteString("; ")
		}
		v, _ := n.Get(k)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v.String())
	}
	return b.String()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a feed name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "feed"
	}
	return s
}

// BuildFilename returns {sanitized_feed_name}_report_{YYYY-MM-DD}.{format}.
func BuildFilename(feedName string, f Format, at time.Time) string {
	base := strings.TrimSuffix(feedName, ".zip")
	return fmt.Sprintf("%s_report_%s.%s", SanitizeFilename(base), at.Format("2006-01-02"), f)
}
