// Hand-maintained in the mockery expecter layout. Keep in sync with the port interface.

package security

import (
	entity "github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	port "github.com/amirhossein-jamali/daily-earn/internal/domain/port/security"
	mock "github.com/stretchr/testify/mock"
)

var _ port.TokenIssuer = (*MockTokenIssuer)(nil)

// MockTokenIssuer is a mock of the TokenIssuer port
type MockTokenIssuer struct {
	mock.Mock
}

type MockTokenIssuer_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTokenIssuer) EXPECT() *MockTokenIssuer_Expecter {
	return &MockTokenIssuer_Expecter{mock: &_m.Mock}
}

// Issue provides a mock function with given fields: subjectID, role
func (_m *MockTokenIssuer) Issue(subjectID uint64, role entity.Role) (string, *entity.Session, error) {
	ret := _m.Called(subjectID, role)

	if len(ret) == 0 {
		panic("no return value specified for Issue")
	}

	var r0 string
	var r1 *entity.Session
	var r2 error
	if rf, ok := ret.Get(0).(func(uint64, entity.Role) (string, *entity.Session, error)); ok {
		return rf(subjectID, role)
	}
	if rf, ok := ret.Get(0).(func(uint64, entity.Role) string); ok {
		r0 = rf(subjectID, role)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(uint64, entity.Role) *entity.Session); ok {
		r1 = rf(subjectID, role)
	} else {
		if ret.Get(1) != nil {
			r1 = ret.Get(1).(*entity.Session)
		}
	}

	if rf, ok := ret.Get(2).(func(uint64, entity.Role) error); ok {
		r2 = rf(subjectID, role)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// MockTokenIssuer_Issue_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Issue'
type MockTokenIssuer_Issue_Call struct {
	*mock.Call
}

// Issue is a helper method to define mock.On call
//   - subjectID uint64
//   - role entity.Role
func (_e *MockTokenIssuer_Expecter) Issue(subjectID interface{}, role interface{}) *MockTokenIssuer_Issue_Call {
	return &MockTokenIssuer_Issue_Call{Call: _e.mock.On("Issue", subjectID, role)}
}

func (_c *MockTokenIssuer_Issue_Call) Run(run func(subjectID uint64, role entity.Role)) *MockTokenIssuer_Issue_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(uint64), args[1].(entity.Role))
	})
	return _c
}

func (_c *MockTokenIssuer_Issue_Call) Return(_a0 string, _a1 *entity.Session, _a2 error) *MockTokenIssuer_Issue_Call {
	_c.Call.Return(_a0, _a1, _a2)
	return _c
}

func (_c *MockTokenIssuer_Issue_Call) RunAndReturn(run func(uint64, entity.Role) (string, *entity.Session, error)) *MockTokenIssuer_Issue_Call {
	_c.Call.Return(run)
	return _c
}

// Parse provides a mock function with given fields: token
func (_m *MockTokenIssuer) Parse(token string) (*entity.Session, error) {
	ret := _m.Called(token)

	if len(ret) == 0 {
		panic("no return value specified for Parse")
	}

	var r0 *entity.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (*entity.Session, error)); ok {
		return rf(token)
	}
	if rf, ok := ret.Get(0).(func(string) *entity.Session); ok {
		r0 = rf(token)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Session)
		}
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(token)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTokenIssuer_Parse_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Parse'
type MockTokenIssuer_Parse_Call struct {
	*mock.Call
}

// Parse is a helper method to define mock.On call
//   - token string
func (_e *MockTokenIssuer_Expecter) Parse(token interface{}) *MockTokenIssuer_Parse_Call {
	return &MockTokenIssuer_Parse_Call{Call: _e.mock.On("Parse", token)}
}

func (_c *MockTokenIssuer_Parse_Call) Run(run func(token string)) *MockTokenIssuer_Parse_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockTokenIssuer_Parse_Call) Return(_a0 *entity.Session, _a1 error) *MockTokenIssuer_Parse_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTokenIssuer_Parse_Call) RunAndReturn(run func(string) (*entity.Session, error)) *MockTokenIssuer_Parse_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockTokenIssuer creates a new instance of MockTokenIssuer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTokenIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenIssuer {
	mock := &MockTokenIssuer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
