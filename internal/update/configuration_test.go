package update_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ppa/internal/update"
)

const validControlContentConstant = "Package: mytool\nVersion: 1.2.3\nArchitecture: amd64\nMaintainer: Maintainer <maintainer@example.com>\nDescription: command line tool\n"

func validConfigurationValues() update.ConfigurationValues {
	return update.ConfigurationValues{
		RepositorySlug:  "example/ppa",
		ParentDirectory: "/workspace",
		SigningKeyEmail: "maintainer@example.com",
		PackageName:     "mytool_1.2.3",
		ControlContent:  validControlContentConstant,
		Executables: []update.ExecutableValues{
			{Name: "mytool", SourcePath: "bin/mytool.dart"},
		},
		Defines: []update.DefineValues{
			{Name: "BUILD_CHANNEL", Value: "stable"},
		},
	}
}

func TestNewConfigurationAcceptsValidValues(t *testing.T) {
	configuration, configurationError := update.NewConfiguration(validConfigurationValues())
	require.NoError(t, configurationError)
	require.Equal(t, "example/ppa", configuration.RepositorySlug())
	require.Equal(t, "/workspace", configuration.ParentDirectory())
	require.Equal(t, "maintainer@example.com", configuration.SigningKeyEmail())
	require.Equal(t, "mytool_1.2.3", configuration.PackageName())
	require.Equal(t, validControlContentConstant, configuration.ControlContent())
	require.Len(t, configuration.Executables(), 1)
	require.Len(t, configuration.Defines(), 1)
}

func TestNewConfigurationRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*update.ConfigurationValues)
	}{
		{name: "missing_repository", mutate: func(values *update.ConfigurationValues) { values.RepositorySlug = "" }},
		{name: "malformed_repository", mutate: func(values *update.ConfigurationValues) { values.RepositorySlug = "example" }},
		{name: "repository_with_empty_owner", mutate: func(values *update.ConfigurationValues) { values.RepositorySlug = "/ppa" }},
		{name: "missing_parent_directory", mutate: func(values *update.ConfigurationValues) { values.ParentDirectory = "  " }},
		{name: "missing_signing_key", mutate: func(values *update.ConfigurationValues) { values.SigningKeyEmail = "" }},
		{name: "signing_key_without_at_sign", mutate: func(values *update.ConfigurationValues) { values.SigningKeyEmail = "maintainer" }},
		{name: "missing_package_name", mutate: func(values *update.ConfigurationValues) { values.PackageName = "" }},
		{name: "package_name_with_separator", mutate: func(values *update.ConfigurationValues) { values.PackageName = "nested/mytool" }},
		{name: "package_name_with_whitespace", mutate: func(values *update.ConfigurationValues) { values.PackageName = "my tool" }},
		{name: "missing_control", mutate: func(values *update.ConfigurationValues) { values.ControlContent = "" }},
		{name: "control_without_package_field", mutate: func(values *update.ConfigurationValues) { values.ControlContent = "Version: 1.2.3\n" }},
		{name: "control_without_version_field", mutate: func(values *update.ConfigurationValues) { values.ControlContent = "Package: mytool\n" }},
		{name: "missing_executables", mutate: func(values *update.ConfigurationValues) { values.Executables = nil }},
		{name: "executable_without_name", mutate: func(values *update.ConfigurationValues) {
			values.Executables = []update.ExecutableValues{{SourcePath: "bin/mytool.dart"}}
		}},
		{name: "executable_without_source", mutate: func(values *update.ConfigurationValues) {
			values.Executables = []update.ExecutableValues{{Name: "mytool"}}
		}},
		{name: "define_without_name", mutate: func(values *update.ConfigurationValues) {
			values.Defines = []update.DefineValues{{Value: "stable"}}
		}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			values := validConfigurationValues()
			testCase.mutate(&values)
			_, configurationError := update.NewConfiguration(values)
			require.Error(t, configurationError)
		})
	}
}

func TestConfigurationAccessorsReturnCopies(t *testing.T) {
	configuration, configurationError := update.NewConfiguration(validConfigurationValues())
	require.NoError(t, configurationError)

	executables := configuration.Executables()
	executables[0].Name = "mutated"
	require.Equal(t, "mytool", configuration.Executables()[0].Name)

	defines := configuration.Defines()
	defines[0].Value = "mutated"
	require.Equal(t, "stable", configuration.Defines()[0].Value)
}

func TestConfigurationPreservesDeclarationOrder(t *testing.T) {
	values := validConfigurationValues()
	values.Executables = []update.ExecutableValues{
		{Name: "first", SourcePath: "bin/first.dart"},
		{Name: "second", SourcePath: "bin/second.dart"},
		{Name: "third", SourcePath: "bin/third.dart"},
	}
	values.Defines = []update.DefineValues{
		{Name: "ALPHA", Value: "1"},
		{Name: "BETA", Value: "2"},
	}

	configuration, configurationError := update.NewConfiguration(values)
	require.NoError(t, configurationError)

	executables := configuration.Executables()
	require.Equal(t, "first", executables[0].Name)
	require.Equal(t, "second", executables[1].Name)
	require.Equal(t, "third", executables[2].Name)

	defines := configuration.Defines()
	require.Equal(t, "ALPHA", defines[0].Name)
	require.Equal(t, "BETA", defines[1].Name)
}
