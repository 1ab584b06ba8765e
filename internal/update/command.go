package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ppa/internal/assemble"
	"github.com/temirov/ppa/internal/execshell"
	"github.com/temirov/ppa/internal/publish"
	"github.com/temirov/ppa/internal/reposync"
	"github.com/temirov/ppa/internal/utils"
)

const (
	updateCommandUseConstant                = "pkg-debian-update"
	updateCommandAliasConstant              = "update"
	updateCommandShortDescriptionConstant   = "Build the Debian package and refresh the signed repository index"
	updateCommandLongDescriptionConstant    = "pkg-debian-update synchronizes the repository checkout, builds the Debian package from its Dart sources, and regenerates the signed apt index files."
	buildCommandUseConstant                 = "build"
	buildCommandShortDescriptionConstant    = "Build the Debian package without touching the repository index"
	buildCommandLongDescriptionConstant     = "build synchronizes the repository checkout and produces the .deb artifact, leaving the index files untouched."
	publishCommandUseConstant               = "publish"
	publishCommandShortDescriptionConstant  = "Regenerate and sign the repository index files"
	publishCommandLongDescriptionConstant   = "publish synchronizes the repository checkout and regenerates Packages, Packages.gz, Release, Release.gpg, and InRelease."
	unexpectedArgumentsErrorMessageConstant = "this command does not accept positional arguments"
	updateExecutionErrorTemplateConstant    = "pkg-debian-update failed: %w"
	buildExecutionErrorTemplateConstant     = "build failed: %w"
	publishExecutionErrorTemplateConstant   = "publish failed: %w"
	repositoryFlagNameConstant              = "repository"
	repositoryFlagDescriptionConstant       = "GitHub repository in owner/name form"
	parentDirectoryFlagNameConstant         = "parent-dir"
	parentDirectoryFlagDescriptionConstant  = "Directory holding the repository checkout"
	signingKeyFlagNameConstant              = "signing-key"
	signingKeyFlagDescriptionConstant       = "Email address selecting the gpg signing key"
	packageNameFlagNameConstant             = "package-name"
	packageNameFlagDescriptionConstant      = "Versioned package directory name, for example mytool_1.2.3"
	invalidConfigurationTemplateConstant    = "invalid configuration in %s: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the raw update configuration values.
type ConfigurationProvider func() ConfigurationValues

// PipelineExecutor runs the update pipeline stages.
type PipelineExecutor interface {
	Execute(executionContext context.Context, configuration Configuration) (string, error)
	ExecuteBuild(executionContext context.Context, configuration Configuration) (string, error)
	ExecutePublish(executionContext context.Context, configuration Configuration) error
}

// PipelineResolver creates pipeline executors for the commands.
type PipelineResolver interface {
	Resolve(logger *zap.Logger) (PipelineExecutor, error)
}

// CommandEventObserverProvider supplies the observer receiving shell command
// lifecycle events, typically for console output.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the update command family.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	PipelineResolver             PipelineResolver
	OperatingSystemInspector     OperatingSystemInspector
	CommandEventObserverProvider CommandEventObserverProvider
}

// Build constructs the pkg-debian-update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	updateCommand := &cobra.Command{
		Use:     updateCommandUseConstant,
		Aliases: []string{updateCommandAliasConstant},
		Short:   updateCommandShortDescriptionConstant,
		Long:    updateCommandLongDescriptionConstant,
		RunE: builder.runStage(updateExecutionErrorTemplateConstant, func(executionContext context.Context, executor PipelineExecutor, configuration Configuration) error {
			_, executionError := executor.Execute(executionContext, configuration)
			return executionError
		}),
	}
	builder.registerConfigurationFlags(updateCommand)
	return updateCommand, nil
}

// BuildAssembleCommand constructs the build command.
func (builder *CommandBuilder) BuildAssembleCommand() (*cobra.Command, error) {
	buildCommand := &cobra.Command{
		Use:   buildCommandUseConstant,
		Short: buildCommandShortDescriptionConstant,
		Long:  buildCommandLongDescriptionConstant,
		RunE: builder.runStage(buildExecutionErrorTemplateConstant, func(executionContext context.Context, executor PipelineExecutor, configuration Configuration) error {
			_, executionError := executor.ExecuteBuild(executionContext, configuration)
			return executionError
		}),
	}
	builder.registerConfigurationFlags(buildCommand)
	return buildCommand, nil
}

// BuildPublishCommand constructs the publish command.
func (builder *CommandBuilder) BuildPublishCommand() (*cobra.Command, error) {
	publishCommand := &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortDescriptionConstant,
		Long:  publishCommandLongDescriptionConstant,
		RunE: builder.runStage(publishExecutionErrorTemplateConstant, func(executionContext context.Context, executor PipelineExecutor, configuration Configuration) error {
			return executor.ExecutePublish(executionContext, configuration)
		}),
	}
	builder.registerConfigurationFlags(publishCommand)
	return publishCommand, nil
}

func (builder *CommandBuilder) registerConfigurationFlags(command *cobra.Command) {
	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	command.Flags().String(parentDirectoryFlagNameConstant, "", parentDirectoryFlagDescriptionConstant)
	command.Flags().String(signingKeyFlagNameConstant, "", signingKeyFlagDescriptionConstant)
	command.Flags().String(packageNameFlagNameConstant, "", packageNameFlagDescriptionConstant)
}

func (builder *CommandBuilder) runStage(errorTemplate string, stage func(context.Context, PipelineExecutor, Configuration) error) func(*cobra.Command, []string) error {
	return func(command *cobra.Command, arguments []string) error {
		if len(arguments) > 0 {
			return errors.New(unexpectedArgumentsErrorMessageConstant)
		}

		configuration, configurationError := builder.parseConfiguration(command)
		if configurationError != nil {
			return describeConfigurationError(command, configurationError)
		}

		logger := builder.resolveLogger()
		executor, resolutionError := builder.resolvePipeline(logger)
		if resolutionError != nil {
			return resolutionError
		}

		if executionError := stage(command.Context(), executor, configuration); executionError != nil {
			return fmt.Errorf(errorTemplate, executionError)
		}
		return nil
	}
}

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) (Configuration, error) {
	configurationValues := ConfigurationValues{}
	if builder.ConfigurationProvider != nil {
		configurationValues = builder.ConfigurationProvider()
	}

	repositoryFlagValue, repositoryFlagError := command.Flags().GetString(repositoryFlagNameConstant)
	if repositoryFlagError != nil {
		return Configuration{}, repositoryFlagError
	}
	configurationValues.RepositorySlug = selectStringValue(repositoryFlagValue, configurationValues.RepositorySlug)

	parentDirectoryFlagValue, parentDirectoryFlagError := command.Flags().GetString(parentDirectoryFlagNameConstant)
	if parentDirectoryFlagError != nil {
		return Configuration{}, parentDirectoryFlagError
	}
	configurationValues.ParentDirectory = selectStringValue(parentDirectoryFlagValue, configurationValues.ParentDirectory)

	signingKeyFlagValue, signingKeyFlagError := command.Flags().GetString(signingKeyFlagNameConstant)
	if signingKeyFlagError != nil {
		return Configuration{}, signingKeyFlagError
	}
	configurationValues.SigningKeyEmail = selectStringValue(signingKeyFlagValue, configurationValues.SigningKeyEmail)

	packageNameFlagValue, packageNameFlagError := command.Flags().GetString(packageNameFlagNameConstant)
	if packageNameFlagError != nil {
		return Configuration{}, packageNameFlagError
	}
	configurationValues.PackageName = selectStringValue(packageNameFlagValue, configurationValues.PackageName)

	return NewConfiguration(configurationValues)
}

// describeConfigurationError names the configuration file recorded in the
// command context so the operator knows which file carried the rejected values.
func describeConfigurationError(command *cobra.Command, configurationError error) error {
	contextAccessor := utils.NewCommandContextAccessor()
	configurationFilePath, configurationFilePathAvailable := contextAccessor.ConfigurationFilePath(command.Context())
	trimmedConfigurationFilePath := strings.TrimSpace(configurationFilePath)
	if !configurationFilePathAvailable || len(trimmedConfigurationFilePath) == 0 {
		return configurationError
	}
	return fmt.Errorf(invalidConfigurationTemplateConstant, trimmedConfigurationFilePath, configurationError)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolvePipeline(logger *zap.Logger) (PipelineExecutor, error) {
	if builder.PipelineResolver != nil {
		return builder.PipelineResolver.Resolve(logger)
	}

	var observer execshell.CommandEventObserver
	if builder.CommandEventObserverProvider != nil {
		observer = builder.CommandEventObserverProvider()
	}

	defaultResolver := &DefaultPipelineResolver{
		OperatingSystemInspector: builder.OperatingSystemInspector,
		CommandEventObserver:     observer,
	}
	return defaultResolver.Resolve(logger)
}

// DefaultPipelineResolver wires the shell executor and the stage services
// into a pipeline executor.
type DefaultPipelineResolver struct {
	OperatingSystemInspector OperatingSystemInspector
	CommandEventObserver     execshell.CommandEventObserver
}

// Resolve builds the update service with its collaborators.
func (resolver *DefaultPipelineResolver) Resolve(logger *zap.Logger) (PipelineExecutor, error) {
	shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), resolver.CommandEventObserver)
	if executorError != nil {
		return nil, executorError
	}

	synchronizer, synchronizerError := reposync.NewService(reposync.ServiceDependencies{GitExecutor: shellExecutor})
	if synchronizerError != nil {
		return nil, synchronizerError
	}

	assembler, assemblerError := assemble.NewService(assemble.ServiceDependencies{CommandExecutor: shellExecutor})
	if assemblerError != nil {
		return nil, assemblerError
	}

	publisher, publisherError := publish.NewService(publish.ServiceDependencies{CommandExecutor: shellExecutor})
	if publisherError != nil {
		return nil, publisherError
	}

	inspector := resolver.OperatingSystemInspector
	if inspector == nil {
		inspector = RuntimeOperatingSystemInspector{}
	}

	return NewService(ServiceDependencies{
		Logger:                   logger,
		OperatingSystemInspector: inspector,
		RepositorySynchronizer:   synchronizer,
		PackageAssembler:         assembler,
		RepositoryPublisher:      publisher,
	})
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
