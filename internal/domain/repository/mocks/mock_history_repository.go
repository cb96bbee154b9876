package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository.
type MockHistoryRepository struct {
	mock.Mock
}

type MockHistoryRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockHistoryRepository) EXPECT() *MockHistoryRepository_Expecter {
	return &MockHistoryRepository_Expecter{mock: &_m.Mock}
}

// NewMockHistoryRepository creates a mock that asserts its expectations on cleanup.
func NewMockHistoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHistoryRepository {
	m := &MockHistoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockHistoryRepository) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	ret := _m.Called(ctx, entry)
	if fn, ok := ret.Get(0).(func(context.Context, *entity.HistoryEntry) error); ok {
		return fn(ctx, entry)
	}
	return ret.Error(0)
}

type MockHistoryRepository_Save_Call struct {
	*mock.Call
}

func (_e *MockHistoryRepository_Expecter) Save(ctx interface{}, entry interface{}) *MockHistoryRepository_Save_Call {
	return &MockHistoryRepository_Save_Call{Call: _e.mock.On("Save", ctx, entry)}
}

func (_c *MockHistoryRepository_Save_Call) Run(run func(ctx context.Context, entry *entity.HistoryEntry)) *MockHistoryRepository_Save_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.HistoryEntry))
	})
	return _c
}

func (_c *MockHistoryRepository_Save_Call) Return(err error) *MockHistoryRepository_Save_Call {
	_c.Call.Return(err)
	return _c
}

func (_m *MockHistoryRepository) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	ret := _m.Called(ctx, url)
	var r0 *entity.HistoryEntry
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.HistoryEntry)
	}
	return r0, ret.Error(1)
}

type MockHistoryRepository_FindByURL_Call struct {
	*mock.Call
}

func (_e *MockHistoryRepository_Expecter) FindByURL(ctx interface{}, url interface{}) *MockHistoryRepository_FindByURL_Call {
	return &MockHistoryRepository_FindByURL_Call{Call: _e.mock.On("FindByURL", ctx, url)}
}

func (_c *MockHistoryRepository_FindByURL_Call) Return(entry *entity.HistoryEntry, err error) *MockHistoryRepository_FindByURL_Call {
	_c.Call.Return(entry, err)
	return _c
}

func (_m *MockHistoryRepository) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	ret := _m.Called(ctx, limit, offset)
	var r0 []*entity.HistoryEntry
	if v := ret.Get(0); v != nil {
		r0 = v.([]*entity.HistoryEntry)
	}
	return r0, ret.Error(1)
}

type MockHistoryRepository_GetRecent_Call struct {
	*mock.Call
}

func (_e *MockHistoryRepository_Expecter) GetRecent(ctx interface{}, limit interface{}, offset interface{}) *MockHistoryRepository_GetRecent_Call {
	return &MockHistoryRepository_GetRecent_Call{Call: _e.mock.On("GetRecent", ctx, limit, offset)}
}

func (_c *MockHistoryRepository_GetRecent_Call) Return(entries []*entity.HistoryEntry, err error) *MockHistoryRepository_GetRecent_Call {
	_c.Call.Return(entries, err)
	return _c
}

func (_m *MockHistoryRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

type MockHistoryRepository_Delete_Call struct {
	*mock.Call
}

func (_e *MockHistoryRepository_Expecter) Delete(ctx interface{}, id interface{}) *MockHistoryRepository_Delete_Call {
	return &MockHistoryRepository_Delete_Call{Call: _e.mock.On("Delete", ctx, id)}
}

func (_c *MockHistoryRepository_Delete_Call) Return(err error) *MockHistoryRepository_Delete_Call {
	_c.Call.Return(err)
	return _c
}

func (_m *MockHistoryRepository) DeleteAll(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

type MockHistoryRepository_DeleteAll_Call struct {
	*mock.Call
}

func (_e *MockHistoryRepository_Expecter) DeleteAll(ctx interface{}) *MockHistoryRepository_DeleteAll_Call {
	return &MockHistoryRepository_DeleteAll_Call{Call: _e.mock.On("DeleteAll", ctx)}
}

func (_c *MockHistoryRepository_DeleteAll_Call) Return(err error) *MockHistoryRepository_DeleteAll_Call {
	_c.Call.Return(err)
	return _c
}
