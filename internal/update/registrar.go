package update

import (
	"errors"

	"github.com/spf13/cobra"
)

const (
	rootCommandRequiredMessageConstant = "root command is required"
	commandBuilderRequiredMessage      = "command builder is required"
)

// TaskRegistrar attaches the update command family to a root command exactly
// once. Repeated registration attempts are ignored so initialization code can
// run more than once without duplicating commands.
type TaskRegistrar struct {
	CommandBuilder           *CommandBuilder
	OperatingSystemInspector OperatingSystemInspector
}

// Register adds the pkg-debian-update, build, and publish commands to the
// root command unless the update command is already present. Registration
// fails on non-Linux hosts because the pipeline depends on dpkg tooling.
func (registrar *TaskRegistrar) Register(rootCommand *cobra.Command) error {
	if rootCommand == nil {
		return errors.New(rootCommandRequiredMessageConstant)
	}
	if registrar.CommandBuilder == nil {
		return errors.New(commandBuilderRequiredMessage)
	}

	inspector := registrar.OperatingSystemInspector
	if inspector == nil {
		inspector = RuntimeOperatingSystemInspector{}
	}
	if platformError := ensureLinux(inspector); platformError != nil {
		return platformError
	}

	if commandIsRegistered(rootCommand, updateCommandUseConstant) {
		return nil
	}

	updateCommand, updateBuildError := registrar.CommandBuilder.Build()
	if updateBuildError != nil {
		return updateBuildError
	}
	assembleCommand, assembleBuildError := registrar.CommandBuilder.BuildAssembleCommand()
	if assembleBuildError != nil {
		return assembleBuildError
	}
	publishCommand, publishBuildError := registrar.CommandBuilder.BuildPublishCommand()
	if publishBuildError != nil {
		return publishBuildError
	}

	rootCommand.AddCommand(updateCommand, assembleCommand, publishCommand)
	return nil
}

func commandIsRegistered(rootCommand *cobra.Command, commandName string) bool {
	for _, registeredCommand := range rootCommand.Commands() {
		if registeredCommand.Name() == commandName {
			return true
		}
	}
	return false
}
