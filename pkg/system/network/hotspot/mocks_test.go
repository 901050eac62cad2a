package network_hotspot

import (
	"github.com/stretchr/testify/mock"
)

type MockInterfaces struct {
	mock.Mock
}

func (m *MockInterfaces) Up(name string) error {
	return m.Called(name).Error(0)
}
func (m *MockInterfaces) Down(name string) error {
	return m.Called(name).Error(0)
}
func (m *MockInterfaces) FlushIPv4(name string) error {
	return m.Called(name).Error(0)
}
func (m *MockInterfaces) AddIPv4(name, cidr string) error {
	return m.Called(name, cidr).Error(0)
}
func (m *MockInterfaces) DefaultRouteInterface() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
func (m *MockInterfaces) SetIPv4Forwarding(enable bool) error {
	return m.Called(enable).Error(0)
}

type MockProcesses struct {
	mock.Mock
}

func (m *MockProcesses) Start(name string, arg ...string) error {
	argsSlice := []interface{}{name}
	for _, a := range arg {
		argsSlice = append(argsSlice, a)
	}
	return m.Called(argsSlice...).Error(0)
}
func (m *MockProcesses) Terminate(name string) error {
	return m.Called(name).Error(0)
}
func (m *MockProcesses) IsRunning(name string) bool {
	return m.Called(name).Bool(0)
}
func (m *MockProcesses) LookPath(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

type MockNAT struct {
	mock.Mock
}

func (m *MockNAT) Install(ap, wan string) error {
	return m.Called(ap, wan).Error(0)
}
func (m *MockNAT) Remove() error {
	return m.Called().Error(0)
}

type MockStation struct {
	mock.Mock
}

func (m *MockStation) Disconnect() bool {
	return m.Called().Bool(0)
}

type MockAPCapability struct {
	mock.Mock
}

func (m *MockAPCapability) SupportsAP() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}
