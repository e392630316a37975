package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/optinet/srotest/pkg/device"
)

// Resolver mock
type Resolver struct {
	mock.Mock
}

// Endpoint provides a mock function with given fields: role
func (_m *Resolver) Endpoint(role device.Role) (device.Endpoint, error) {
	ret := _m.Called(role)

	var r0 device.Endpoint
	if rf, ok := ret.Get(0).(func(device.Role) device.Endpoint); ok {
		r0 = rf(role)
	} else {
		r0 = ret.Get(0).(device.Endpoint)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(device.Role) error); ok {
		r1 = rf(role)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Intermediary provides a mock function with given fields: role
func (_m *Resolver) Intermediary(role device.Role) (device.Intermediary, error) {
	ret := _m.Called(role)

	var r0 device.Intermediary
	if rf, ok := ret.Get(0).(func(device.Role) device.Intermediary); ok {
		r0 = rf(role)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(device.Intermediary)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(device.Role) error); ok {
		r1 = rf(role)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
