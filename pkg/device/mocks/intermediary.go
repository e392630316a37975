package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/optinet/srotest/pkg/device"
)

// Intermediary mock
type Intermediary struct {
	mock.Mock
}

// Name provides a mock function
func (_m *Intermediary) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

// Config provides a mock function
func (_m *Intermediary) Config() device.ConfigManager {
	ret := _m.Called()

	var r0 device.ConfigManager
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.ConfigManager)
	}
	return r0
}

// Optimizer provides a mock function
func (_m *Intermediary) Optimizer() device.Optimizer {
	ret := _m.Called()

	var r0 device.Optimizer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.Optimizer)
	}
	return r0
}

// Shaper provides a mock function
func (_m *Intermediary) Shaper() device.Shaper {
	ret := _m.Called()

	var r0 device.Shaper
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.Shaper)
	}
	return r0
}

// Balancer provides a mock function
func (_m *Intermediary) Balancer() (device.Balancer, error) {
	ret := _m.Called()

	var r0 device.Balancer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.Balancer)
	}
	return r0, ret.Error(1)
}

// Stats provides a mock function
func (_m *Intermediary) Stats() device.StatsProvider {
	ret := _m.Called()

	var r0 device.StatsProvider
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.StatsProvider)
	}
	return r0
}

// Logs provides a mock function
func (_m *Intermediary) Logs() device.LogWatcher {
	ret := _m.Called()

	var r0 device.LogWatcher
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(device.LogWatcher)
	}
	return r0
}
