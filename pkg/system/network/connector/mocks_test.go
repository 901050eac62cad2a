package network_connector

import (
	"github.com/stretchr/testify/mock"
)

type MockInterfaces struct {
	mock.Mock
}

func (m *MockInterfaces) Up(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockInterfaces) Down(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockInterfaces) IsUp(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}
func (m *MockInterfaces) HasIPv4(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

type MockProcesses struct {
	mock.Mock
}

func variadic(name string, arg []string) []interface{} {
	argsSlice := []interface{}{name}
	for _, a := range arg {
		argsSlice = append(argsSlice, a)
	}
	return argsSlice
}

func (m *MockProcesses) Start(name string, arg ...string) error {
	args := m.Called(variadic(name, arg)...)
	return args.Error(0)
}
func (m *MockProcesses) Run(name string, arg ...string) ([]byte, error) {
	args := m.Called(variadic(name, arg)...)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}
func (m *MockProcesses) Terminate(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockProcesses) IsRunning(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}
