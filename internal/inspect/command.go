package inspect

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

const (
	inspectCommandUseConstant               = "inspect"
	inspectCommandShortDescriptionConstant  = "List the Debian packages stored in the repository checkout"
	inspectCommandLongDescriptionConstant   = "inspect reads every .deb file in the repository checkout and prints its control metadata, newest version first."
	pathFlagNameConstant                    = "path"
	pathFlagDescriptionConstant             = "Repository checkout directory to inspect"
	unexpectedArgumentsErrorMessageConstant = "inspect does not accept positional arguments"
	repositoryPathUnresolvedMessageConstant = "repository path is required, set --path or configure the repository checkout"
)

// RepositoryPathProvider returns the configured repository checkout path.
type RepositoryPathProvider func() string

// CommandBuilder assembles the inspect command.
type CommandBuilder struct {
	RepositoryPathProvider RepositoryPathProvider
}

// Build constructs the inspect command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	inspectCommand := &cobra.Command{
		Use:   inspectCommandUseConstant,
		Short: inspectCommandShortDescriptionConstant,
		Long:  inspectCommandLongDescriptionConstant,
		RunE:  builder.runInspect,
	}
	inspectCommand.Flags().String(pathFlagNameConstant, "", pathFlagDescriptionConstant)
	return inspectCommand, nil
}

func (builder *CommandBuilder) runInspect(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	pathFlagValue, pathFlagError := command.Flags().GetString(pathFlagNameConstant)
	if pathFlagError != nil {
		return pathFlagError
	}

	repositoryPath := strings.TrimSpace(pathFlagValue)
	if len(repositoryPath) == 0 && builder.RepositoryPathProvider != nil {
		repositoryPath = strings.TrimSpace(builder.RepositoryPathProvider())
	}
	if len(repositoryPath) == 0 {
		return errors.New(repositoryPathUnresolvedMessageConstant)
	}

	return NewService().Render(repositoryPath, command.OutOrStdout())
}
