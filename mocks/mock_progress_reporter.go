package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockProgressReporter is a mock implementation of port.ProgressReporter.
type MockProgressReporter struct {
	mock.Mock
}

func (m *MockProgressReporter) SetTotalFiles(n int) {
	m.Called(n)
}

func (m *MockProgressReporter) OnStartFileLoad(file string) {
	m.Called(file)
}

func (m *MockProgressReporter) OnFinishFileLoad(file string) {
	m.Called(file)
}

func (m *MockProgressReporter) SetTotalValidators(n int) {
	m.Called(n)
}

func (m *MockProgressReporter) OnStartValidation(name string) {
	m.Called(name)
}

func (m *MockProgressReporter) OnFinishValidation(name string) {
	m.Called(name)
}

func (m *MockProgressReporter) IncrementValidatorProgress() {
	m.Called()
}
