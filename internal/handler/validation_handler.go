package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/report"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/service"
)

// ValidationHandler handles feed validation endpoints.
type ValidationHandler struct {
	validationService service.ValidationService
	maxBytes          int64
}

// NewValidationHandler creates a new ValidationHandler. Uploads larger than
// maxBytes are rejected before validation.
func NewValidationHandler(validationService service.ValidationService, maxBytes int64) *ValidationHandler {
	return &ValidationHandler{validationService: validationService, maxBytes: maxBytes}
}

// ValidationResponse is the JSON body of a completed validation.
type ValidationResponse struct {
	Report    *report.Report `json:"report"`
	ReportKey string         `json:"report_key,omitempty" example:"reports/6f1c2a9e-3b7d-4c1e-9a51-0d2f8e7b4c10.json"`
	ReportURL string         `json:"report_url,omitempty" example:"https://bucket.s3.amazonaws.com/reports/6f1c2a9e.json?X-Amz-Signature=..."`
}

// ObjectRequest is the body of POST /api/v1/validations/s3.
type ObjectRequest struct {
	Key         string `json:"key" binding:"required" example:"feeds/metro/gtfs.zip"`
	StoreReport bool   `json:"store_report" example:"false"`
}

// Upload handles POST /api/v1/validations
// @Summary Validate an uploaded feed
// @Description Validate a GTFS zip archive sent as multipart form data and return the report
// @Tags validations
// @Accept multipart/form-data
// @Produce json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param feed formData file true "GTFS zip archive"
// @Param format query string false "Report format: json, csv or xlsx" default(json)
// @Param country_code query string false "ISO 3166-1 alpha-2 country code used for phone number checks"
// @Param date query string false "Current date override, YYYYMMDD"
// @Param vendor_rules query bool false "Enable vendor rules"
// @Param thorough query bool false "Enable thorough checks"
// @Param skip query string false "Comma-separated validator names to skip"
// @Param store_report query bool false "Store the JSON report in object storage"
// @Success 200 {object} Response{data=ValidationResponse} "Validation report"
// @Failure 400 {object} ErrorResponseBody "Invalid option or file type"
// @Failure 413 {object} ErrorResponseBody "Feed exceeds the size limit"
// @Failure 422 {object} ErrorResponseBody "Feed archive cannot be read"
// @Failure 500 {object} ErrorResponseBody "Internal error"
// @Router /api/v1/validations [post]
func (h *ValidationHandler) Upload(c *gin.Context) {
	format, opts, ok := parseRequestOptions(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("feed")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "feed field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		HandleError(c, domain.ErrArchiveTooLarge)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return
	}

	res, err := h.validationService.ValidateArchive(c.Request.Context(), data, opts)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondReport(c, res, format, header.Filename)
}

// FromObject handles POST /api/v1/validations/s3
// @Summary Validate a feed from object storage
// @Description Download a GTFS zip archive from the configured bucket, validate it and return the report
// @Tags validations
// @Accept json
// @Produce json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body ObjectRequest true "Object key of the feed"
// @Param format query string false "Report format: json, csv or xlsx" default(json)
// @Param country_code query string false "ISO 3166-1 alpha-2 country code used for phone number checks"
// @Param date query string false "Current date override, YYYYMMDD"
// @Param vendor_rules query bool false "Enable vendor rules"
// @Param thorough query bool false "Enable thorough checks"
// @Param skip query string false "Comma-separated validator names to skip"
// @Success 200 {object} Response{data=ValidationResponse} "Validation report"
// @Failure 400 {object} ErrorResponseBody "Invalid option or file type"
// @Failure 413 {object} ErrorResponseBody "Feed exceeds the size limit"
// @Failure 422 {object} ErrorResponseBody "Feed archive cannot be read"
// @Failure 404 {object} ErrorResponseBody "Feed not found"
// @Failure 503 {object} ErrorResponseBody "Object storage is not configured"
// @Router /api/v1/validations/s3 [post]
func (h *ValidationHandler) FromObject(c *gin.Context) {
	format, opts, ok := parseRequestOptions(c)
	if !ok {
		return
	}

	var req ObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "key is required")
		return
	}
	opts.StoreReport = opts.StoreReport || req.StoreReport

	res, err := h.validationService.ValidateObject(c.Request.Context(), req.Key, opts)
	if err != nil {
		HandleError(c, err)
		return
	}
	name := req.Key
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	respondReport(c, res, format, name)
}

// parseRequestOptions reads format and run options from the query string.
// It writes the error response itself and returns false on bad input.
func parseRequestOptions(c *gin.Context) (report.Format, service.ValidateOptions, bool) {
	var opts service.ValidateOptions

	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be one of json, csv, xlsx")
		return "", opts, false
	}

	opts.CountryCode = c.Query("country_code")
	opts.Date = c.Query("date")
	for _, flag := range []struct {
		name string
		dst  **bool
	}{
		{"vendor_rules", &opts.VendorRules},
		{"thorough", &opts.Thorough},
	} {
		raw, present := c.GetQuery(flag.name)
		if !present {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_OPTION", flag.name+" must be a boolean")
			return "", opts, false
		}
		*flag.dst = &v
	}
	if skip := c.Query("skip"); skip != "" {
		for _, name := range strings.Split(skip, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Skip = append(opts.Skip, name)
			}
		}
	}
	opts.StoreReport, _ = strconv.ParseBool(c.Query("store_report"))
	return format, opts, true
}

func respondReport(c *gin.Context, res *service.ValidationResult, format report.Format, feedName string) {
	if format == report.FormatJSON {
		RespondOK(c, ValidationResponse{
			Report:    res.Report,
			ReportKey: res.ReportKey,
			ReportURL: res.ReportURL,
		})
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, res.Report, format); err != nil {
		HandleError(c, fmt.Errorf("rendering report: %w", err))
		return
	}
	filename := report.BuildFilename(feedName, format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if res.ReportURL != "" {
		c.Header("X-Report-URL", res.ReportURL)
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
