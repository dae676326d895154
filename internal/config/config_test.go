package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/config"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Validation.Parallelism)
	assert.Equal(t, int64(512)<<20, cfg.Validation.MaxArchiveBytes())
	assert.Equal(t, "reports/", cfg.S3.ReportPrefix)
	assert.False(t, cfg.S3.Enabled())
	assert.Empty(t, cfg.Validation.SkipValidators)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GTFS_VALIDATION_COUNTRY_CODE", "ca")
	t.Setenv("GTFS_VALIDATION_THOROUGH", "true")
	t.Setenv("GTFS_VALIDATION_SKIP_VALIDATORS", "unusable_trip, vendor:mixed_case,")
	t.Setenv("GTFS_S3_BUCKET", "feeds")
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.True(t, cfg.Validation.Thorough)
	assert.Equal(t, []string{"unusable_trip", "vendor:mixed_case"}, cfg.Validation.SkipValidators)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_RejectsBadCountry(t *testing.T) {
	t.Setenv("GTFS_VALIDATION_COUNTRY_CODE", "ZZZ")

	_, err := config.Load()
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestValidationConfig_RunConfig(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	v := config.ValidationConfig{
		CountryCode:    "fr",
		Date:           "20250115",
		VendorRules:    true,
		SkipValidators: []string{"unusable_trip"},
	}

	cfg, err := v.RunConfig(now)
	require.NoError(t, err)

	assert.Equal(t, "FR", cfg.CountryCode)
	assert.Equal(t, "20250115", cfg.Today().String())
	assert.True(t, cfg.VendorRules)
	assert.False(t, cfg.Thorough)
	assert.True(t, cfg.Skipped("unusable_trip"))
}

func TestValidationConfig_RunConfig_InvalidDate(t *testing.T) {
	v := config.ValidationConfig{Date: "20250230"}

	_, err := v.RunConfig(time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestValidationConfig_RunConfig_DefaultsToNow(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	cfg, err := (&config.ValidationConfig{}).RunConfig(now)
	require.NoError(t, err)

	assert.Equal(t, now, cfg.CurrentDate)
	assert.Empty(t, cfg.CountryCode)
}
