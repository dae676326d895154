// Package report assembles validation results into the published report and
// renders it as JSON, CSV or XLSX.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// Format names an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts json, csv and xlsx. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ContentType is the MIME type of the rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Options echoes the run configuration.
type Options struct {
	CurrentDate string   `json:"current_date"`
	CountryCode string   `json:"country_code,omitempty"`
	VendorRules bool     `json:"vendor_rules"`
	Thorough    bool     `json:"thorough"`
	Skipped     []string `json:"skipped_validators,omitempty"`
}

// Summary counts notices per severity.
type Summary struct {
	Valid    bool `json:"valid"`
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Infos    int  `json:"infos"`
	Total    int  `json:"total"`
}

// Report is the result of one validation run.
type Report struct {
	RunID       uuid.UUID          `json:"run_id"`
	ValidatedAt time.Time          `json:"validated_at"`
	Options     Options            `json:"options"`
	Summary     Summary            `json:"summary"`
	CodeSummary []notice.CodeCount `json:"code_summary"`
	Notices     *notice.Container  `json:"notices"`
}

// Build assembles a report. Notices keep their emission order.
func Build(runID uuid.UUID, validatedAt time.Time, cfg *validator.Config, notices *notice.Container) *Report {
	if notices == nil {
		notices = notice.NewContainer()
	}
	codes := notices.CountsByCode()
	if codes == nil {
		codes = []notice.CodeCount{}
	}
	return &Report{
		RunID:       runID,
		ValidatedAt: validatedAt.UTC(),
		Options: Options{
			CurrentDate: cfg.Today().String(),
			CountryCode: cfg.CountryCode,
			VendorRules: cfg.VendorRules,
			Thorough:    cfg.Thorough,
			Skipped:     cfg.Skip,
		},
		Summary: Summary{
			Valid:    notices.IsValid(),
			Errors:   notices.ErrorCount(),
			Warnings: notices.WarningCount(),
			Infos:    notices.InfoCount(),
			Total:    notices.Len(),
		},
		CodeSummary: codes,
		Notices:     notices,
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Write renders r in the given format.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	default:
		return WriteJSON(w, r)
	}
}
