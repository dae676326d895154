package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/handler"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/report"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/service"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
	"github.com/abasis-ltd/gtfs.guru-sub001/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleResult() *service.ValidationResult {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	sink := notice.NewContainer()
	sink.Add(notice.New("duplicate_key", notice.Error, "duplicate key").At("stops.txt", 3))
	return &service.ValidationResult{
		Report: report.Build(uuid.New(), now, validator.DefaultConfig(now), sink),
	}
}

func multipartFeed(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestValidationHandler_Upload_JSON(t *testing.T) {
	mockSvc := new(mocks.MockValidationService)
	h := handler.NewValidationHandler(mockSvc, 1<<20)

	mockSvc.On("ValidateArchive", mock.Anything, []byte("PK-zip"), mock.MatchedBy(func(o service.ValidateOptions) bool {
		return o.CountryCode == "US" && o.Thorough != nil && *o.Thorough && o.VendorRules == nil
	})).Return(sampleResult(), nil)

	body, contentType := multipartFeed(t, "feed", "metro.zip", []byte("PK-zip"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations?country_code=US&thorough=true", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Report struct {
				Summary report.Summary `json:"summary"`
			} `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Report.Summary.Errors)
	mockSvc.AssertExpectations(t)
}

func TestValidationHandler_Upload_CSV(t *testing.T) {
	mockSvc := new(mocks.MockValidationService)
	h := handler.NewValidationHandler(mockSvc, 1<<20)
	mockSvc.On("ValidateArchive", mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(), nil)

	body, contentType := multipartFeed(t, "feed", "Metro Lyon.zip", []byte("PK"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations?format=csv", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Metro_Lyon_report_")
	assert.Contains(t, w.Body.String(), "duplicate_key,ERROR,stops.txt,3")
}

func TestValidationHandler_Upload_NoFile(t *testing.T) {
	h := handler.NewValidationHandler(new(mocks.MockValidationService), 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations", http.NoBody)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationHandler_Upload_BadQuery(t *testing.T) {
	h := handler.NewValidationHandler(new(mocks.MockValidationService), 1<<20)

	for _, query := range []string{"format=pdf", "thorough=maybe"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations?"+query, http.NoBody)

		h.Upload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestValidationHandler_Upload_TooLarge(t *testing.T) {
	h := handler.NewValidationHandler(new(mocks.MockValidationService), 4)

	body, contentType := multipartFeed(t, "feed", "feed.zip", []byte("0123456789"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestValidationHandler_Upload_InvalidArchive(t *testing.T) {
	mockSvc := new(mocks.MockValidationService)
	h := handler.NewValidationHandler(mockSvc, 1<<20)
	mockSvc.On("ValidateArchive", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidArchive)

	body, contentType := multipartFeed(t, "feed", "feed.zip", []byte("junk"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp handler.ErrorResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ARCHIVE", resp.Error.Code)
}

func TestValidationHandler_FromObject(t *testing.T) {
	mockSvc := new(mocks.MockValidationService)
	h := handler.NewValidationHandler(mockSvc, 1<<20)
	res := sampleResult()
	res.ReportKey = "reports/x.json"
	res.ReportURL = "https://signed.example/x"
	mockSvc.On("ValidateObject", mock.Anything, "in/metro.zip", mock.MatchedBy(func(o service.ValidateOptions) bool {
		return o.StoreReport
	})).Return(res, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations/s3",
		strings.NewReader(`{"key":"in/metro.zip","store_report":true}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.FromObject(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"report_url":"https://signed.example/x"`)
	mockSvc.AssertExpectations(t)
}

func TestValidationHandler_FromObject_Errors(t *testing.T) {
	mockSvc := new(mocks.MockValidationService)
	h := handler.NewValidationHandler(mockSvc, 1<<20)
	mockSvc.On("ValidateObject", mock.Anything, "missing.zip", mock.Anything).Return(nil, domain.ErrFeedNotFound)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing key", `{}`, http.StatusBadRequest},
		{"not found", `{"key":"missing.zip"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations/s3", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			h.FromObject(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrFeedNotFound, http.StatusNotFound, "FEED_NOT_FOUND"},
		{domain.ErrArchiveTooLarge, http.StatusRequestEntityTooLarge, "ARCHIVE_TOO_LARGE"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrInvalidOption, http.StatusBadRequest, "INVALID_OPTION"},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code, _ := handler.MapDomainError(tt.err)
		assert.Equal(t, tt.status, status, tt.code)
		assert.Equal(t, tt.code, code)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(42, false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","validators":42,"storage":false}`, w.Body.String())

	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, handler.HealthResponse{Status: "ok", Validators: 42}, resp)
}
