package testutil

import (
	"context"
	"sync"

	"github.com/vendora/taxengine/internal/domain/provider"
)

// MockTaxProvider implements provider.Calculator for testing. It records every
// request it receives so tests can assert on call counts.
type MockTaxProvider struct {
	mu          sync.Mutex
	calls       int
	lastRequest *provider.Request
	result      *provider.Result
	err         error
}

// NewMockTaxProvider creates a new mock tax provider
func NewMockTaxProvider() *MockTaxProvider {
	return &MockTaxProvider{}
}

// SetResult configures the result returned by CalculateTax
func (m *MockTaxProvider) SetResult(result *provider.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = result
	m.err = nil
}

// SetError configures CalculateTax to fail
func (m *MockTaxProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of times CalculateTax was invoked
func (m *MockTaxProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, or nil if none were made
func (m *MockTaxProvider) LastRequest() *provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset clears recorded calls and configured responses
func (m *MockTaxProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = 0
	m.lastRequest = nil
	m.result = nil
	m.err = nil
}

func (m *MockTaxProvider) CalculateTax(ctx context.Context, req *provider.Request) (*provider.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastRequest = req

	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &provider.Result{}, nil
}
