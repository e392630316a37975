package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/metrics"
	"github.com/optinet/srotest/pkg/policy"
)

// ConfigManager mock
type ConfigManager struct {
	mock.Mock
}

// Active provides a mock function
func (_m *ConfigManager) Active() (string, error) {
	ret := _m.Called()
	return ret.String(0), ret.Error(1)
}

// Save provides a mock function with given fields: name
func (_m *ConfigManager) Save(name string) error {
	ret := _m.Called(name)
	return ret.Error(0)
}

// SwitchTo provides a mock function with given fields: name
func (_m *ConfigManager) SwitchTo(name string) error {
	ret := _m.Called(name)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: name
func (_m *ConfigManager) Delete(name string) error {
	ret := _m.Called(name)
	return ret.Error(0)
}

// Copy provides a mock function with given fields: src, dst
func (_m *ConfigManager) Copy(src string, dst string) error {
	ret := _m.Called(src, dst)
	return ret.Error(0)
}

// ApplyTransport provides a mock function with given fields: bufferBytes
func (_m *ConfigManager) ApplyTransport(bufferBytes int) error {
	ret := _m.Called(bufferBytes)
	return ret.Error(0)
}

// Restart provides a mock function with given fields: clearStore
func (_m *ConfigManager) Restart(clearStore bool) error {
	ret := _m.Called(clearStore)
	return ret.Error(0)
}

// Optimizer mock
type Optimizer struct {
	mock.Mock
}

// AddPort provides a mock function with given fields: port
func (_m *Optimizer) AddPort(port int) error {
	ret := _m.Called(port)
	return ret.Error(0)
}

// AddRule provides a mock function with given fields: arrayID, group, kind
func (_m *Optimizer) AddRule(arrayID string, group int, kind policy.Kind) error {
	ret := _m.Called(arrayID, group, kind)
	return ret.Error(0)
}

// Enable provides a mock function
func (_m *Optimizer) Enable() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Disable provides a mock function
func (_m *Optimizer) Disable() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Shaper mock
type Shaper struct {
	mock.Mock
}

// RevertInitiate provides a mock function
func (_m *Shaper) RevertInitiate() error {
	ret := _m.Called()
	return ret.Error(0)
}

// RevertConfirm provides a mock function
func (_m *Shaper) RevertConfirm() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Balancer mock
type Balancer struct {
	mock.Mock
}

// SetMultiCore provides a mock function with given fields: enabled
func (_m *Balancer) SetMultiCore(enabled bool) error {
	ret := _m.Called(enabled)
	return ret.Error(0)
}

// StatsProvider mock
type StatsProvider struct {
	mock.Mock
}

// ArrayBundle provides a mock function with given fields: arrayID, interval
func (_m *StatsProvider) ArrayBundle(arrayID string, interval time.Duration) (metrics.Bundle, error) {
	ret := _m.Called(arrayID, interval)

	var r0 metrics.Bundle
	if rf, ok := ret.Get(0).(func(string, time.Duration) metrics.Bundle); ok {
		r0 = rf(arrayID, interval)
	} else {
		r0 = ret.Get(0).(metrics.Bundle)
	}

	return r0, ret.Error(1)
}

// LogWatcher mock
type LogWatcher struct {
	mock.Mock
}

// Mark provides a mock function
func (_m *LogWatcher) Mark() error {
	ret := _m.Called()
	return ret.Error(0)
}

// FindingsSince provides a mock function with given fields: min
func (_m *LogWatcher) FindingsSince(min device.Severity) (device.Finding, error) {
	ret := _m.Called(min)

	var r0 device.Finding
	if rf, ok := ret.Get(0).(func(device.Severity) device.Finding); ok {
		r0 = rf(min)
	} else {
		r0 = ret.Get(0).(device.Finding)
	}

	return r0, ret.Error(1)
}

// Impairer mock
type Impairer struct {
	mock.Mock
}

// Name provides a mock function
func (_m *Impairer) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

// Apply provides a mock function with given fields: profile
func (_m *Impairer) Apply(profile device.ImpairmentProfile) error {
	ret := _m.Called(profile)
	return ret.Error(0)
}

// RestoreDefaults provides a mock function
func (_m *Impairer) RestoreDefaults() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Meter mock
type Meter struct {
	mock.Mock
}

// Throughput provides a mock function with given fields: side, interval
func (_m *Meter) Throughput(side metrics.Side, interval time.Duration) (metrics.ThroughputSample, error) {
	ret := _m.Called(side, interval)

	var r0 metrics.ThroughputSample
	if rf, ok := ret.Get(0).(func(metrics.Side, time.Duration) metrics.ThroughputSample); ok {
		r0 = rf(side, interval)
	} else {
		r0 = ret.Get(0).(metrics.ThroughputSample)
	}

	return r0, ret.Error(1)
}
