package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/ppa/internal/execshell"
	"github.com/temirov/ppa/internal/ui"
)

func TestConsoleCommandEventLoggerLevelsPerLifecycleStage(t *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	command := execshell.ShellCommand{
		Name:    execshell.CommandDpkgScanPackages,
		Details: execshell.CommandDetails{Arguments: []string{"--multiversion", "."}, WorkingDirectory: "/workspace/ppa"},
	}

	eventLogger.CommandStarted(command)
	eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
	eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: "no packages"})
	eventLogger.CommandExecutionFailed(command, errors.New("binary missing"))

	entries := observedLogs.All()
	require.Len(t, entries, 4)
	require.Equal(t, zap.InfoLevel, entries[0].Level)
	require.Equal(t, "Indexing packages in /workspace/ppa", entries[0].Message)
	require.Equal(t, zap.InfoLevel, entries[1].Level)
	require.Equal(t, zap.WarnLevel, entries[2].Level)
	require.Equal(t, zap.ErrorLevel, entries[3].Level)
	require.Contains(t, entries[3].Message, "binary missing")
}
