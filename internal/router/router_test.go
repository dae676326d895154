package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/handler"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/router"
	"github.com/abasis-ltd/gtfs.guru-sub001/mocks"
)

func TestSetup_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := new(mocks.MockValidationService)
	mockSvc.On("ValidateObject", mock.Anything, "feed.zip", mock.Anything).Return(nil, domain.ErrStorageUnavailable)

	r := router.Setup(
		handler.NewValidationHandler(mockSvc, 1<<20),
		handler.NewHealthHandler(1, false),
		nil,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validations/s3", strings.NewReader(`{"key":"feed.zip"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	mockSvc.AssertExpectations(t)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/validations", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
