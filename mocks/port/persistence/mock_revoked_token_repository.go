// Hand-maintained in the mockery expecter layout. Keep in sync with the port interface.

package persistence

import (
	context "context"
	time "time"

	port "github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	mock "github.com/stretchr/testify/mock"
)

var _ port.RevokedTokenRepository = (*MockRevokedTokenRepository)(nil)

// MockRevokedTokenRepository is a mock of the RevokedTokenRepository port
type MockRevokedTokenRepository struct {
	mock.Mock
}

type MockRevokedTokenRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRevokedTokenRepository) EXPECT() *MockRevokedTokenRepository_Expecter {
	return &MockRevokedTokenRepository_Expecter{mock: &_m.Mock}
}

// DeleteExpired provides a mock function with given fields: ctx, now
func (_m *MockRevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ret := _m.Called(ctx, now)

	if len(ret) == 0 {
		panic("no return value specified for DeleteExpired")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, time.Time) (int64, error)); ok {
		return rf(ctx, now)
	}
	if rf, ok := ret.Get(0).(func(context.Context, time.Time) int64); ok {
		r0 = rf(ctx, now)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context, time.Time) error); ok {
		r1 = rf(ctx, now)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockRevokedTokenRepository_DeleteExpired_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DeleteExpired'
type MockRevokedTokenRepository_DeleteExpired_Call struct {
	*mock.Call
}

// DeleteExpired is a helper method to define mock.On call
//   - ctx context.Context
//   - now time.Time
func (_e *MockRevokedTokenRepository_Expecter) DeleteExpired(ctx interface{}, now interface{}) *MockRevokedTokenRepository_DeleteExpired_Call {
	return &MockRevokedTokenRepository_DeleteExpired_Call{Call: _e.mock.On("DeleteExpired", ctx, now)}
}

func (_c *MockRevokedTokenRepository_DeleteExpired_Call) Run(run func(ctx context.Context, now time.Time)) *MockRevokedTokenRepository_DeleteExpired_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(time.Time))
	})
	return _c
}

func (_c *MockRevokedTokenRepository_DeleteExpired_Call) Return(_a0 int64, _a1 error) *MockRevokedTokenRepository_DeleteExpired_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockRevokedTokenRepository_DeleteExpired_Call) RunAndReturn(run func(context.Context, time.Time) (int64, error)) *MockRevokedTokenRepository_DeleteExpired_Call {
	_c.Call.Return(run)
	return _c
}

// IsRevoked provides a mock function with given fields: ctx, tokenID
func (_m *MockRevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ret := _m.Called(ctx, tokenID)

	if len(ret) == 0 {
		panic("no return value specified for IsRevoked")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, tokenID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, tokenID)
	} else {
		r0 = ret.Get(0).(bool)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, tokenID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockRevokedTokenRepository_IsRevoked_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'IsRevoked'
type MockRevokedTokenRepository_IsRevoked_Call struct {
	*mock.Call
}

// IsRevoked is a helper method to define mock.On call
//   - ctx context.Context
//   - tokenID string
func (_e *MockRevokedTokenRepository_Expecter) IsRevoked(ctx interface{}, tokenID interface{}) *MockRevokedTokenRepository_IsRevoked_Call {
	return &MockRevokedTokenRepository_IsRevoked_Call{Call: _e.mock.On("IsRevoked", ctx, tokenID)}
}

func (_c *MockRevokedTokenRepository_IsRevoked_Call) Run(run func(ctx context.Context, tokenID string)) *MockRevokedTokenRepository_IsRevoked_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockRevokedTokenRepository_IsRevoked_Call) Return(_a0 bool, _a1 error) *MockRevokedTokenRepository_IsRevoked_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockRevokedTokenRepository_IsRevoked_Call) RunAndReturn(run func(context.Context, string) (bool, error)) *MockRevokedTokenRepository_IsRevoked_Call {
	_c.Call.Return(run)
	return _c
}

// Revoke provides a mock function with given fields: ctx, tokenID, expiresAt
func (_m *MockRevokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ret := _m.Called(ctx, tokenID, expiresAt)

	if len(ret) == 0 {
		panic("no return value specified for Revoke")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, time.Time) error); ok {
		r0 = rf(ctx, tokenID, expiresAt)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockRevokedTokenRepository_Revoke_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Revoke'
type MockRevokedTokenRepository_Revoke_Call struct {
	*mock.Call
}

// Revoke is a helper method to define mock.On call
//   - ctx context.Context
//   - tokenID string
//   - expiresAt time.Time
func (_e *MockRevokedTokenRepository_Expecter) Revoke(ctx interface{}, tokenID interface{}, expiresAt interface{}) *MockRevokedTokenRepository_Revoke_Call {
	return &MockRevokedTokenRepository_Revoke_Call{Call: _e.mock.On("Revoke", ctx, tokenID, expiresAt)}
}

func (_c *MockRevokedTokenRepository_Revoke_Call) Run(run func(ctx context.Context, tokenID string, expiresAt time.Time)) *MockRevokedTokenRepository_Revoke_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(time.Time))
	})
	return _c
}

func (_c *MockRevokedTokenRepository_Revoke_Call) Return(_a0 error) *MockRevokedTokenRepository_Revoke_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockRevokedTokenRepository_Revoke_Call) RunAndReturn(run func(context.Context, string, time.Time) error) *MockRevokedTokenRepository_Revoke_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockRevokedTokenRepository creates a new instance of MockRevokedTokenRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockRevokedTokenRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRevokedTokenRepository {
	mock := &MockRevokedTokenRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
