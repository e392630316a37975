package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/optinet/srotest/pkg/traffic"
)

// Leg mock
type Leg struct {
	mock.Mock
}

// Start provides a mock function
func (_m *Leg) Start() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Stop provides a mock function
func (_m *Leg) Stop() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Config provides a mock function
func (_m *Leg) Config() traffic.LegConfig {
	ret := _m.Called()
	return ret.Get(0).(traffic.LegConfig)
}

// Runner mock
type Runner struct {
	mock.Mock
}

// Run provides a mock function with given fields: command
func (_m *Runner) Run(command string) (traffic.Handle, error) {
	ret := _m.Called(command)

	var r0 traffic.Handle
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(traffic.Handle)
	}
	return r0, ret.Error(1)
}

// Handle mock
type Handle struct {
	mock.Mock
}

// Stop provides a mock function
func (_m *Handle) Stop() error {
	ret := _m.Called()
	return ret.Error(0)
}
