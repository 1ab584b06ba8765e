package inspect_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ppa/internal/inspect"
)

func TestInspectCommandRendersListingForFlagPath(t *testing.T) {
	repositoryPath := t.TempDir()
	writeTestPackage(t,
		filepath.Join(repositoryPath, "mytool_1.2.3.deb"),
		controlTarGzMemberNameConstant,
		buildControlTarball(t, "Package: mytool\nVersion: 1.2.3\nArchitecture: amd64\nDescription: tool\n", gzipCompressor),
	)

	builder := &inspect.CommandBuilder{}
	inspectCommand, buildError := builder.Build()
	require.NoError(t, buildError)

	var outputBuffer bytes.Buffer
	inspectCommand.SetOut(&outputBuffer)
	inspectCommand.SetArgs([]string{"--path", repositoryPath})
	require.NoError(t, inspectCommand.Execute())
	require.Contains(t, outputBuffer.String(), "mytool 1.2.3 (amd64) mytool_1.2.3.deb")
}

func TestInspectCommandFallsBackToConfiguredPath(t *testing.T) {
	repositoryPath := t.TempDir()
	builder := &inspect.CommandBuilder{
		RepositoryPathProvider: func() string { return repositoryPath },
	}
	inspectCommand, buildError := builder.Build()
	require.NoError(t, buildError)

	var outputBuffer bytes.Buffer
	inspectCommand.SetOut(&outputBuffer)
	inspectCommand.SetArgs([]string{})
	require.NoError(t, inspectCommand.Execute())
	require.Contains(t, outputBuffer.String(), "no packages found")
}

func TestInspectCommandRequiresResolvablePath(t *testing.T) {
	builder := &inspect.CommandBuilder{}
	inspectCommand, buildError := builder.Build()
	require.NoError(t, buildError)

	inspectCommand.SetArgs([]string{})
	inspectCommand.SilenceErrors = true
	inspectCommand.SilenceUsage = true
	require.Error(t, inspectCommand.Execute())
}
