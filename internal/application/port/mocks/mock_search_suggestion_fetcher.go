package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSearchSuggestionFetcher is a mock implementation of port.SearchSuggestionFetcher.
type MockSearchSuggestionFetcher struct {
	mock.Mock
}

type MockSearchSuggestionFetcher_Expecter struct {
	mock *mock.Mock
}

func (_m *MockSearchSuggestionFetcher) EXPECT() *MockSearchSuggestionFetcher_Expecter {
	return &MockSearchSuggestionFetcher_Expecter{mock: &_m.Mock}
}

// NewMockSearchSuggestionFetcher creates a mock that asserts its expectations on cleanup.
func NewMockSearchSuggestionFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSearchSuggestionFetcher {
	m := &MockSearchSuggestionFetcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockSearchSuggestionFetcher) Fetch(ctx context.Context, autocompleteURL, query string) ([]string, error) {
	ret := _m.Called(ctx, autocompleteURL, query)
	var r0 []string
	if v := ret.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, ret.Error(1)
}

type MockSearchSuggestionFetcher_Fetch_Call struct {
	*mock.Call
}

func (_e *MockSearchSuggestionFetcher_Expecter) Fetch(ctx interface{}, autocompleteURL interface{}, query interface{}) *MockSearchSuggestionFetcher_Fetch_Call {
	return &MockSearchSuggestionFetcher_Fetch_Call{Call: _e.mock.On("Fetch", ctx, autocompleteURL, query)}
}

func (_c *MockSearchSuggestionFetcher_Fetch_Call) Return(results []string, err error) *MockSearchSuggestionFetcher_Fetch_Call {
	_c.Call.Return(results, err)
	return _c
}

func (_c *MockSearchSuggestionFetcher_Fetch_Call) Run(run func(ctx context.Context, autocompleteURL string, query string)) *MockSearchSuggestionFetcher_Fetch_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args.Get(0).(context.Context), args.Get(1).(string), args.Get(2).(string))
	})
	return _c
}
