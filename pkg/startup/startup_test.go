package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDependency struct {
	name      string
	dependsOn []string
	startErrs []error // popped per attempt; nil once exhausted
	stopErr   error
	log       *[]string
}

func (f *fakeDependency) GetName() string     { return f.name }
func (f *fakeDependency) DependsOn() []string { return f.dependsOn }

func (f *fakeDependency) Start(ctx context.Context) error {
	*f.log = append(*f.log, "start:"+f.name)
	if len(f.startErrs) > 0 {
		err := f.startErrs[0]
		f.startErrs = f.startErrs[1:]
		return err
	}
	return nil
}

func (f *fakeDependency) Stop(ctx context.Context) error {
	*f.log = append(*f.log, "stop:"+f.name)
	return f.stopErr
}

func testLogger(t *testing.T) ectologger.Logger {
	t.Helper()
	zapLogger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func TestStartHonorsDependsOn(t *testing.T) {
	var log []string
	boot := NewStartup(testLogger(t), 1)

	// Registered out of order: http depends on engine, engine on database.
	boot.AddDependency(&fakeDependency{name: "http", dependsOn: []string{"engine"}, log: &log})
	boot.AddDependency(&fakeDependency{name: "database", log: &log})
	boot.AddDependency(&fakeDependency{name: "engine", dependsOn: []string{"database"}, log: &log})

	require.NoError(t, boot.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:engine", "start:http"}, log)
}

func TestStartFailsOnUnregisteredDependency(t *testing.T) {
	var log []string
	boot := NewStartup(testLogger(t), 1)
	boot.AddDependency(&fakeDependency{name: "http", dependsOn: []string{"engine"}, log: &log})

	err := boot.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered")
}

func TestStartRetriesOnlyUnstartedDependencies(t *testing.T) {
	var log []string
	boot := NewStartup(testLogger(t), 2)
	boot.AddDependency(&fakeDependency{name: "database", log: &log})
	boot.AddDependency(&fakeDependency{name: "engine", startErrs: []error{errors.New("not ready")}, log: &log})

	require.NoError(t, boot.Start(context.Background()))

	// database started once; only engine retried on the second attempt.
	assert.Equal(t, []string{"start:database", "start:engine", "start:engine"}, log)
}

func TestStartGivesUpAfterMaxAttempts(t *testing.T) {
	var log []string
	boot := NewStartup(testLogger(t), 1)
	boot.AddDependency(&fakeDependency{name: "database", startErrs: []error{errors.New("connection refused")}, log: &log})

	err := boot.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup failed after 1 attempts")
}

func TestStopRunsInReverseOrderAndKeepsGoing(t *testing.T) {
	var log []string
	boot := NewStartup(testLogger(t), 1)
	boot.AddDependency(&fakeDependency{name: "database", log: &log})
	boot.AddDependency(&fakeDependency{name: "engine", stopErr: errors.New("flush failed"), log: &log})
	boot.AddDependency(&fakeDependency{name: "http", log: &log})

	require.NoError(t, boot.Start(context.Background()))
	log = nil

	err := boot.Stop(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"stop:http", "stop:engine", "stop:database"}, log)
}
