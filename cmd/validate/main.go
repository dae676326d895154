// Command validate checks a GTFS feed (zip archive or directory) and writes
// the report.
//
// Usage:
//
//	validate -input feed.zip -output report.json [-format json|csv|xlsx]
//	         [-date YYYYMMDD] [-country CC] [-thorough] [-vendor] [-skip a,b]
//
// The exit status is 0 for a valid feed, 1 when the report holds errors and
// 2 when the feed could not be validated at all.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/config"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/logging"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/progress"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/report"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "feed zip archive or directory (required)")
	output := fs.String("output", "", "report file; stdout when empty")
	format := fs.String("format", "json", "report format: json, csv or xlsx")
	date := fs.String("date", "", "current date override, YYYYMMDD")
	country := fs.String("country", "", "ISO 3166-1 country code for phone checks")
	thorough := fs.Bool("thorough", false, "enable expensive checks")
	vendor := fs.Bool("vendor", false, "enable vendor rules")
	skip := fs.String("skip", "", "comma-separated validator names to skip")
	parallelism := fs.Int("parallelism", 4, "validators run at once")
	logLevel := fs.String("log-level", "warn", "log level")
	verbose := fs.Bool("progress", false, "log load and validation progress")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *input == "" {
		fmt.Fprintln(stderr, "validate: -input is required")
		fs.Usage()
		return 2
	}

	slog.SetDefault(logging.New(stderr, *logLevel, "text"))

	f, err := report.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(stderr, "validate:", err)
		return 2
	}

	defaults := config.ValidationConfig{
		Parallelism:  *parallelism,
		MaxArchiveMB: 4096,
	}
	opts := service.ValidateOptions{
		CountryCode: *country,
		Date:        *date,
		VendorRules: vendor,
		Thorough:    thorough,
	}
	for _, name := range strings.Split(*skip, ",") {
		if name = strings.TrimSpace(name); name != "" {
			opts.Skip = append(opts.Skip, name)
		}
	}

	var reporter port.ProgressReporter
	if *verbose {
		reporter = progress.NewLogger(slog.Default())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := service.NewValidationService(nil, nil, defaults, reporter)
	res, err := svc.ValidatePath(ctx, *input, opts)
	if err != nil {
		fmt.Fprintln(stderr, "validate:", err)
		return 2
	}

	if err := writeReport(*output, stdout, res.Report, f); err != nil {
		fmt.Fprintln(stderr, "validate:", err)
		return 2
	}

	s := res.Report.Summary
	fmt.Fprintf(stderr, "%d errors, %d warnings, %d infos\n", s.Errors, s.Warnings, s.Infos)
	if !s.Valid {
		return 1
	}
	return 0
}

func writeReport(path string, stdout io.Writer, r *report.Report, f report.Format) error {
	if path == "" {
		return report.Write(stdout, r, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.Write(out, r, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
