package reposync_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ppa/internal/execshell"
	"github.com/temirov/ppa/internal/reposync"
)

type recordingGitExecutor struct {
	commands []execshell.CommandDetails
	errors   []error
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, details)
	if len(executor.errors) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	nextError := executor.errors[0]
	executor.errors = executor.errors[1:]
	if nextError != nil {
		return execshell.ExecutionResult{}, nextError
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewServiceRequiresGitExecutor(t *testing.T) {
	_, creationError := reposync.NewService(reposync.ServiceDependencies{})
	require.Error(t, creationError)
}

func TestSyncClonesWhenCheckoutMissing(t *testing.T) {
	executor := &recordingGitExecutor{}
	service, creationError := reposync.NewService(reposync.ServiceDependencies{GitExecutor: executor})
	require.NoError(t, creationError)

	parentDirectory := t.TempDir()
	checkoutPath, syncError := service.Sync(context.Background(), reposync.Options{
		RepositorySlug:  "example/ppa",
		ParentDirectory: parentDirectory,
	})
	require.NoError(t, syncError)
	require.Equal(t, filepath.Join(parentDirectory, "ppa"), checkoutPath)

	require.Len(t, executor.commands, 1)
	require.Equal(t, []string{"clone", "https://github.com/example/ppa.git", checkoutPath}, executor.commands[0].Arguments)
	require.Empty(t, executor.commands[0].WorkingDirectory)
}

func TestSyncPullsWhenCheckoutExists(t *testing.T) {
	executor := &recordingGitExecutor{}
	service, creationError := reposync.NewService(reposync.ServiceDependencies{GitExecutor: executor})
	require.NoError(t, creationError)

	parentDirectory := t.TempDir()
	checkoutPath := filepath.Join(parentDirectory, "ppa")
	require.NoError(t, os.MkdirAll(filepath.Join(checkoutPath, ".git"), 0o755))

	resolvedPath, syncError := service.Sync(context.Background(), reposync.Options{
		RepositorySlug:  "example/ppa",
		ParentDirectory: parentDirectory,
	})
	require.NoError(t, syncError)
	require.Equal(t, checkoutPath, resolvedPath)

	require.Len(t, executor.commands, 1)
	require.Equal(t, []string{"pull"}, executor.commands[0].Arguments)
	require.Equal(t, checkoutPath, executor.commands[0].WorkingDirectory)
}

func TestSyncValidatesSlug(t *testing.T) {
	service, creationError := reposync.NewService(reposync.ServiceDependencies{GitExecutor: &recordingGitExecutor{}})
	require.NoError(t, creationError)

	testCases := []struct {
		name            string
		slug            string
		expectedMessage string
	}{
		{name: "empty", slug: "", expectedMessage: "repository slug is required"},
		{name: "missing_owner", slug: "/ppa", expectedMessage: "must use the owner/name form"},
		{name: "missing_name", slug: "example/", expectedMessage: "must use the owner/name form"},
		{name: "no_separator", slug: "example", expectedMessage: "must use the owner/name form"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, syncError := service.Sync(context.Background(), reposync.Options{RepositorySlug: testCase.slug, ParentDirectory: t.TempDir()})
			require.ErrorContains(t, syncError, testCase.expectedMessage)
		})
	}
}

func TestSyncPropagatesCloneFailures(t *testing.T) {
	executor := &recordingGitExecutor{errors: []error{errors.New("remote unavailable")}}
	service, creationError := reposync.NewService(reposync.ServiceDependencies{GitExecutor: executor})
	require.NoError(t, creationError)

	_, syncError := service.Sync(context.Background(), reposync.Options{
		RepositorySlug:  "example/ppa",
		ParentDirectory: t.TempDir(),
	})
	require.ErrorContains(t, syncError, "remote unavailable")
}
