package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/config"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/service"
	"github.com/abasis-ltd/gtfs.guru-sub001/mocks"
)

var feedFiles = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"A1,Metro,https://metro.example,Europe/Paris\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,Central,48.85,2.35\nS2,Nord,48.88,2.35\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_type\nR1,A1,1,3\n",
	"trips.txt":  "route_id,service_id,trip_id\nR1,WK,T1\n",
	"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,S1,1,08:00:00,08:00:00\nT1,S2,2,08:10:00,08:10:00\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"WK,1,1,1,1,1,0,0,20260101,20261231\n",
}

func feedZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func defaults() config.ValidationConfig {
	return config.ValidationConfig{Date: "20260302", Parallelism: 2, MaxArchiveMB: 8}
}

func s3cfg() *config.S3Config {
	return &config.S3Config{Bucket: "feeds", ReportPrefix: "reports/", PresignExpiry: 600}
}

func TestValidateArchive_CleanFeed(t *testing.T) {
	svc := service.NewValidationService(nil, nil, defaults(), nil)

	res, err := svc.ValidateArchive(context.Background(), feedZip(t, feedFiles), service.ValidateOptions{})
	require.NoError(t, err)

	assert.True(t, res.Report.Summary.Valid, "%v", res.Report.CodeSummary)
	assert.Equal(t, "20260302", res.Report.Options.CurrentDate)
	assert.Empty(t, res.ReportKey)
}

func TestValidateArchive_ReportsIngestionAndRuleNotices(t *testing.T) {
	files := map[string]string{}
	for k, v := range feedFiles {
		files[k] = v
	}
	delete(files, "agency.txt")
	files["stops.txt"] += "S1,Dup,48.85,2.35\n"

	svc := service.NewValidationService(nil, nil, defaults(), nil)
	res, err := svc.ValidateArchive(context.Background(), feedZip(t, files), service.ValidateOptions{})
	require.NoError(t, err)

	var codes []string
	for _, c := range res.Report.CodeSummary {
		codes = append(codes, c.Code)
	}
	assert.Contains(t, codes, "missing_required_file")
	assert.Contains(t, codes, "duplicate_key")
	assert.False(t, res.Report.Summary.Valid)
}

func TestValidateArchive_InvalidArchive(t *testing.T) {
	svc := service.NewValidationService(nil, nil, defaults(), nil)

	_, err := svc.ValidateArchive(context.Background(), []byte("nope"), service.ValidateOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidArchive)
}

func TestValidateArchive_InvalidOptions(t *testing.T) {
	svc := service.NewValidationService(nil, nil, defaults(), nil)
	data := feedZip(t, feedFiles)

	_, err := svc.ValidateArchive(context.Background(), data, service.ValidateOptions{CountryCode: "XYZ1"})
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, err = svc.ValidateArchive(context.Background(), data, service.ValidateOptions{Skip: []string{"no_such_rule"}})
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestValidateArchive_OptionsOverrideDefaults(t *testing.T) {
	svc := service.NewValidationService(nil, nil, defaults(), nil)
	thorough := true

	res, err := svc.ValidateArchive(context.Background(), feedZip(t, feedFiles), service.ValidateOptions{
		CountryCode: "fr",
		Date:        "20270101",
		Thorough:    &thorough,
		Skip:        []string{"unusable_trip"},
	})
	require.NoError(t, err)

	assert.Equal(t, "FR", res.Report.Options.CountryCode)
	assert.Equal(t, "20270101", res.Report.Options.CurrentDate)
	assert.True(t, res.Report.Options.Thorough)
	assert.Equal(t, []string{"unusable_trip"}, res.Report.Options.Skipped)
}

func TestValidateObject_DownloadsAndStoresReport(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "feeds", "in/feed.zip").Return(feedZip(t, feedFiles), nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "feeds" && strings.HasPrefix(in.Key, "reports/") && in.ContentType == "application/json"
	})).Return(&port.UploadOutput{Location: "s3://feeds/reports/x.json"}, nil)
	storage.On("GetPresignedURL", mock.Anything, "feeds", mock.AnythingOfType("string"), int64(600)).
		Return("https://signed.example/report", nil)

	svc := service.NewValidationService(storage, s3cfg(), defaults(), nil)
	res, err := svc.ValidateObject(context.Background(), "in/feed.zip", service.ValidateOptions{StoreReport: true})
	require.NoError(t, err)

	assert.Equal(t, "reports/"+res.Report.RunID.String()+".json", res.ReportKey)
	assert.Equal(t, "https://signed.example/report", res.ReportURL)
	storage.AssertExpectations(t)
}

func TestValidateObject_PresignFailureKeepsResult(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "feeds", "feed.zip").Return(feedZip(t, feedFiles), nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("GetPresignedURL", mock.Anything, "feeds", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	svc := service.NewValidationService(storage, s3cfg(), defaults(), nil)
	res, err := svc.ValidateObject(context.Background(), "feed.zip", service.ValidateOptions{StoreReport: true})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ReportKey)
	assert.Empty(t, res.ReportURL)
}

func TestValidateObject_Errors(t *testing.T) {
	unconfigured := service.NewValidationService(nil, nil, defaults(), nil)
	_, err := unconfigured.ValidateObject(context.Background(), "feed.zip", service.ValidateOptions{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	storage := new(mocks.MockObjectStorage)
	svc := service.NewValidationService(storage, s3cfg(), defaults(), nil)
	_, err = svc.ValidateObject(context.Background(), "feed.tar.gz", service.ValidateOptions{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	storage.On("Download", mock.Anything, "feeds", "missing.zip").Return(nil, domain.ErrFeedNotFound)
	_, err = svc.ValidateObject(context.Background(), "missing.zip", service.ValidateOptions{})
	assert.ErrorIs(t, err, domain.ErrFeedNotFound)

	storage.On("Download", mock.Anything, "feeds", "ok.zip").Return(feedZip(t, feedFiles), nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, domain.ErrUploadFailed)
	_, err = svc.ValidateObject(context.Background(), "ok.zip", service.ValidateOptions{StoreReport: true})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestValidatePath_Directory(t *testing.T) {
	dir := t.TempDir()
	for name, content := range feedFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	reporter := new(mocks.MockProgressReporter)
	reporter.On("SetTotalFiles", mock.Anything).Maybe()
	reporter.On("OnStartFileLoad", mock.Anything).Maybe()
	reporter.On("OnFinishFileLoad", mock.Anything).Maybe()
	reporter.On("SetTotalValidators", mock.Anything).Once()
	reporter.On("OnStartValidation", mock.Anything).Maybe()
	reporter.On("OnFinishValidation", mock.Anything).Maybe()
	reporter.On("IncrementValidatorProgress").Maybe()

	svc := service.NewValidationService(nil, nil, defaults(), reporter)
	res, err := svc.ValidatePath(context.Background(), dir, service.ValidateOptions{})
	require.NoError(t, err)

	assert.True(t, res.Report.Summary.Valid)
	reporter.AssertExpectations(t)
}
