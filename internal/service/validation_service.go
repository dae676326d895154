package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/config"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/loader"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/logging"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/progress"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/report"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator/rules"
)

// ValidateOptions overrides the configured run defaults for one request.
// Nil pointers and empty strings keep the default.
type ValidateOptions struct {
	CountryCode string
	Date        string
	VendorRules *bool
	Thorough    *bool
	Skip        []string
	// StoreReport uploads the JSON report when object storage is configured.
	StoreReport bool
}

// ValidationResult is the outcome of a completed run.
type ValidationResult struct {
	Report    *report.Report
	ReportKey string
	ReportURL string
}

// ValidationService defines the feed validation contract.
type ValidationService interface {
	ValidateArchive(ctx context.Context, data []byte, opts ValidateOptions) (*ValidationResult, error)
	ValidateObject(ctx context.Context, key string, opts ValidateOptions) (*ValidationResult, error)
	ValidatePath(ctx context.Context, p string, opts ValidateOptions) (*ValidationResult, error)
}

type validationService struct {
	storage  port.ObjectStorage
	s3cfg    *config.S3Config
	defaults config.ValidationConfig
	loader   *loader.Loader
	registry *validator.Registry
	reporter port.ProgressReporter
	now      func() time.Time
}

// NewValidationService creates a new ValidationService implementation.
// storage may be nil, which disables ValidateObject and report upload.
func NewValidationService(
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
	defaults config.ValidationConfig,
	reporter port.ProgressReporter,
) ValidationService {
	return &validationService{
		storage:  storage,
		s3cfg:    s3cfg,
		defaults: defaults,
		loader:   loader.New(defaults.MaxArchiveBytes(), nil),
		registry: rules.NewRegistry(),
		reporter: progress.OrNoop(reporter),
		now:      time.Now,
	}
}

func (s *validationService) storageEnabled() bool {
	return s.storage != nil && s.s3cfg != nil && s.s3cfg.Enabled()
}

func (s *validationService) ValidateArchive(ctx context.Context, data []byte, opts ValidateOptions) (*ValidationResult, error) {
	files, err := s.loader.FromZip(data)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, files, opts)
}

func (s *validationService) ValidateObject(ctx context.Context, key string, opts ValidateOptions) (*ValidationResult, error) {
	if !s.storageEnabled() {
		return nil, domain.ErrStorageUnavailable
	}
	if !isZipKey(key) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, path.Ext(key))
	}
	data, err := s.storage.Download(ctx, s.s3cfg.Bucket, key)
	if err != nil {
		return nil, err
	}
	return s.ValidateArchive(ctx, data, opts)
}

func (s *validationService) ValidatePath(ctx context.Context, p string, opts ValidateOptions) (*ValidationResult, error) {
	files, err := s.loader.FromPath(p)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, files, opts)
}

func isZipKey(key string) bool {
	return strings.EqualFold(path.Ext(key), ".zip")
}

// runConfig layers the request options over the configured defaults.
func (s *validationService) runConfig(opts ValidateOptions, now time.Time) (*validator.Config, error) {
	vc := s.defaults
	if opts.CountryCode != "" {
		vc.CountryCode = opts.CountryCode
	}
	if opts.Date != "" {
		vc.Date = opts.Date
	}
	if opts.VendorRules != nil {
		vc.VendorRules = *opts.VendorRules
	}
	if opts.Thorough != nil {
		vc.Thorough = *opts.Thorough
	}
	if len(opts.Skip) > 0 {
		vc.SkipValidators = append(append([]string(nil), vc.SkipValidators...), opts.Skip...)
	}
	for _, name := range vc.SkipValidators {
		if s.registry.Get(name) == nil {
			return nil, fmt.Errorf("%w: unknown validator %q", domain.ErrInvalidOption, name)
		}
	}
	return vc.RunConfig(now)
}

func (s *validationService) validate(ctx context.Context, files gtfs.FileSet, opts ValidateOptions) (*ValidationResult, error) {
	log := logging.FromContext(ctx)
	started := s.now()

	cfg, err := s.runConfig(opts, started)
	if err != nil {
		return nil, err
	}

	sink := notice.NewContainer()
	feed := gtfs.Read(files, sink, s.reporter)

	engine := validator.NewEngine(s.registry, s.reporter)
	engine.Parallelism = s.defaults.Parallelism
	out, err := engine.Run(ctx, feed, cfg)
	if err != nil {
		return nil, fmt.Errorf("running validators: %w", err)
	}
	sink.AddAll(out)

	runID := uuid.New()
	rep := report.Build(runID, started, cfg, sink)
	log.Info("feed validated",
		"run_id", runID,
		"files", len(files.Names()),
		"errors", rep.Summary.Errors,
		"warnings", rep.Summary.Warnings,
		"duration", time.Since(started),
	)

	result := &ValidationResult{Report: rep}
	if opts.StoreReport && s.storageEnabled() {
		if err := s.storeReport(ctx, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *validationService) storeReport(ctx context.Context, result *ValidationResult) error {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, result.Report); err != nil {
		return err
	}

	key := s.s3cfg.ReportPrefix + result.Report.RunID.String() + ".json"
	size := int64(buf.Len())
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        &buf,
		ContentType: report.FormatJSON.ContentType(),
		Size:        size,
	}); err != nil {
		return fmt.Errorf("storing report: %w", err)
	}
	result.ReportKey = key

	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, key, s.s3cfg.PresignExpiry)
	if err != nil {
		// The report is stored; a missing link is not fatal.
		logging.FromContext(ctx).Warn("presigning report url failed", "key", key, "error", err)
		return nil
	}
	result.ReportURL = url
	return nil
}
