package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

// MockFavoriteRepository is a mock implementation of repository.FavoriteRepository.
type MockFavoriteRepository struct {
	mock.Mock
}

type MockFavoriteRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockFavoriteRepository) EXPECT() *MockFavoriteRepository_Expecter {
	return &MockFavoriteRepository_Expecter{mock: &_m.Mock}
}

// NewMockFavoriteRepository creates a mock that asserts its expectations on cleanup.
func NewMockFavoriteRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFavoriteRepository {
	m := &MockFavoriteRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockFavoriteRepository) Save(ctx context.Context, fav *entity.Favorite) error {
	ret := _m.Called(ctx, fav)
	if fn, ok := ret.Get(0).(func(context.Context, *entity.Favorite) error); ok {
		return fn(ctx, fav)
	}
	return ret.Error(0)
}

type MockFavoriteRepository_Save_Call struct {
	*mock.Call
}

func (_e *MockFavoriteRepository_Expecter) Save(ctx interface{}, fav interface{}) *MockFavoriteRepository_Save_Call {
	return &MockFavoriteRepository_Save_Call{Call: _e.mock.On("Save", ctx, fav)}
}

func (_c *MockFavoriteRepository_Save_Call) Run(run func(ctx context.Context, fav *entity.Favorite)) *MockFavoriteRepository_Save_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Favorite))
	})
	return _c
}

func (_c *MockFavoriteRepository_Save_Call) Return(err error) *MockFavoriteRepository_Save_Call {
	_c.Call.Return(err)
	return _c
}

func (_m *MockFavoriteRepository) FindByURL(ctx context.Context, url string) (*entity.Favorite, error) {
	ret := _m.Called(ctx, url)
	var r0 *entity.Favorite
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Favorite)
	}
	return r0, ret.Error(1)
}

type MockFavoriteRepository_FindByURL_Call struct {
	*mock.Call
}

func (_e *MockFavoriteRepository_Expecter) FindByURL(ctx interface{}, url interface{}) *MockFavoriteRepository_FindByURL_Call {
	return &MockFavoriteRepository_FindByURL_Call{Call: _e.mock.On("FindByURL", ctx, url)}
}

func (_c *MockFavoriteRepository_FindByURL_Call) Return(fav *entity.Favorite, err error) *MockFavoriteRepository_FindByURL_Call {
	_c.Call.Return(fav, err)
	return _c
}

func (_m *MockFavoriteRepository) GetAll(ctx context.Context) ([]*entity.Favorite, error) {
	ret := _m.Called(ctx)
	var r0 []*entity.Favorite
	if v := ret.Get(0); v != nil {
		r0 = v.([]*entity.Favorite)
	}
	return r0, ret.Error(1)
}

type MockFavoriteRepository_GetAll_Call struct {
	*mock.Call
}

func (_e *MockFavoriteRepository_Expecter) GetAll(ctx interface{}) *MockFavoriteRepository_GetAll_Call {
	return &MockFavoriteRepository_GetAll_Call{Call: _e.mock.On("GetAll", ctx)}
}

func (_c *MockFavoriteRepository_GetAll_Call) Return(favs []*entity.Favorite, err error) *MockFavoriteRepository_GetAll_Call {
	_c.Call.Return(favs, err)
	return _c
}

func (_m *MockFavoriteRepository) Delete(ctx context.Context, id entity.FavoriteID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

type MockFavoriteRepository_Delete_Call struct {
	*mock.Call
}

func (_e *MockFavoriteRepository_Expecter) Delete(ctx interface{}, id interface{}) *MockFavoriteRepository_Delete_Call {
	return &MockFavoriteRepository_Delete_Call{Call: _e.mock.On("Delete", ctx, id)}
}

func (_c *MockFavoriteRepository_Delete_Call) Return(err error) *MockFavoriteRepository_Delete_Call {
	_c.Call.Return(err)
	return _c
}
