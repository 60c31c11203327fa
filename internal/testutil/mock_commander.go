package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCommander provides a testify mock for runner.Commander.
// The context is not part of the recorded call.
type MockCommander struct {
	mock.Mock
}

func (m *MockCommander) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	callArgs := m.Called(dir, name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

func (m *MockCommander) Run(ctx context.Context, dir, name string, args ...string) error {
	callArgs := m.Called(dir, name, args)
	return callArgs.Error(0)
}

func (m *MockCommander) LookPath(name string) (string, error) {
	callArgs := m.Called(name)
	return callArgs.String(0), callArgs.Error(1)
}
