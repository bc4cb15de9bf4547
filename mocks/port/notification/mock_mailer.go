// Hand-maintained in the mockery expecter layout. Keep in sync with the port interface.

package notification

import (
	context "context"

	notification "github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	mock "github.com/stretchr/testify/mock"
)

var _ notification.Mailer = (*MockMailer)(nil)

// MockMailer is a mock of the Mailer port
type MockMailer struct {
	mock.Mock
}

type MockMailer_Expecter struct {
	mock *mock.Mock
}

func (_m *MockMailer) EXPECT() *MockMailer_Expecter {
	return &MockMailer_Expecter{mock: &_m.Mock}
}

// Send provides a mock function with given fields: ctx, email
func (_m *MockMailer) Send(ctx context.Context, email notification.Email) error {
	ret := _m.Called(ctx, email)

	if len(ret) == 0 {
		panic("no return value specified for Send")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, notification.Email) error); ok {
		r0 = rf(ctx, email)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockMailer_Send_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Send'
type MockMailer_Send_Call struct {
	*mock.Call
}

// Send is a helper method to define mock.On call
//   - ctx context.Context
//   - email notification.Email
func (_e *MockMailer_Expecter) Send(ctx interface{}, email interface{}) *MockMailer_Send_Call {
	return &MockMailer_Send_Call{Call: _e.mock.On("Send", ctx, email)}
}

func (_c *MockMailer_Send_Call) Run(run func(ctx context.Context, email notification.Email)) *MockMailer_Send_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(notification.Email))
	})
	return _c
}

func (_c *MockMailer_Send_Call) Return(_a0 error) *MockMailer_Send_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockMailer_Send_Call) RunAndReturn(run func(context.Context, notification.Email) error) *MockMailer_Send_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockMailer creates a new instance of MockMailer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMailer {
	mock := &MockMailer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
