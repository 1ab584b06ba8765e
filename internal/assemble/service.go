package assemble

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/ppa/internal/execshell"
)

const (
	commandExecutorRequiredMessageConstant    = "command executor is required"
	repositoryPathRequiredMessageConstant     = "repository path is required"
	packageNameRequiredMessageConstant        = "package name is required"
	controlContentRequiredMessageConstant     = "control content is required"
	executablesRequiredMessageConstant        = "at least one executable is required"
	stagingCreationFailureTemplateConstant    = "unable to create staging directory %s: %w"
	controlWriteFailureTemplateConstant       = "unable to write control file %s: %w"
	compileFailureTemplateConstant            = "unable to compile executable %s: %w"
	packageBuildFailureTemplateConstant       = "unable to build package %s: %w"
	stagingRemovalFailureTemplateConstant     = "unable to remove staging directory %s: %w"
	controlDirectoryNameConstant              = "DEBIAN"
	controlFileNameConstant                   = "control"
	executableInstallPathConstant             = "usr/local/bin"
	debianPackageExtensionConstant            = ".deb"
	dartCompileSubcommandConstant             = "compile"
	dartCompileTargetConstant                 = "exe"
	dartDefineFlagTemplateConstant            = "-D%s=%s"
	dartOutputFlagConstant                    = "--output"
	dpkgDebBuildFlagConstant                  = "--build"
	stagingDirectoryPermissionsConstant       = os.FileMode(0o755)
	controlFilePermissionsConstant            = os.FileMode(0o644)
)

// CommandExecutor abstracts the external tooling required to assemble a package.
type CommandExecutor interface {
	ExecuteDart(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteDpkgDeb(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Executable names a compiled binary and the Dart source file it is built from.
type Executable struct {
	Name       string
	SourcePath string
}

// Define carries one compile-time definition passed to dart compile.
type Define struct {
	Name  string
	Value string
}

// Request describes a single package build.
type Request struct {
	RepositoryPath string
	PackageName    string
	ControlContent string
	Executables    []Executable
	Defines        []Define
}

// ServiceDependencies lists the collaborators required by the assemble service.
type ServiceDependencies struct {
	CommandExecutor CommandExecutor
}

// Service assembles Debian packages from Dart sources.
type Service struct {
	commandExecutor CommandExecutor
}

// NewService validates the provided dependencies and builds an assemble service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.CommandExecutor == nil {
		return nil, errors.New(commandExecutorRequiredMessageConstant)
	}
	return &Service{commandExecutor: dependencies.CommandExecutor}, nil
}

// Build stages the package tree, compiles each executable in declaration
// order, and produces <repository>/<package>.deb. The staging directory is
// removed on every exit path; a removal failure fails an otherwise
// successful build.
func (service *Service) Build(executionContext context.Context, request Request) (artifactPath string, buildError error) {
	if validationError := validateRequest(request); validationError != nil {
		return "", validationError
	}

	stagingPath := filepath.Join(request.RepositoryPath, request.PackageName)
	controlDirectoryPath := filepath.Join(stagingPath, controlDirectoryNameConstant)
	binaryDirectoryPath := filepath.Join(stagingPath, executableInstallPathConstant)

	defer func() {
		removalError := os.RemoveAll(stagingPath)
		if removalError != nil && buildError == nil {
			buildError = fmt.Errorf(stagingRemovalFailureTemplateConstant, stagingPath, removalError)
			artifactPath = ""
		}
	}()

	for _, directoryPath := range []string{controlDirectoryPath, binaryDirectoryPath} {
		if creationError := os.MkdirAll(directoryPath, stagingDirectoryPermissionsConstant); creationError != nil {
			return "", fmt.Errorf(stagingCreationFailureTemplateConstant, directoryPath, creationError)
		}
	}

	controlFilePath := filepath.Join(controlDirectoryPath, controlFileNameConstant)
	if writeError := os.WriteFile(controlFilePath, []byte(request.ControlContent), controlFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(controlWriteFailureTemplateConstant, controlFilePath, writeError)
	}

	for _, executable := range request.Executables {
		compiledPath := filepath.Join(binaryDirectoryPath, executable.Name)
		compileArguments := []string{dartCompileSubcommandConstant, dartCompileTargetConstant, executable.SourcePath}
		for _, define := range request.Defines {
			compileArguments = append(compileArguments, fmt.Sprintf(dartDefineFlagTemplateConstant, define.Name, define.Value))
		}
		compileArguments = append(compileArguments, dartOutputFlagConstant, compiledPath)

		_, compileError := service.commandExecutor.ExecuteDart(executionContext, execshell.CommandDetails{Arguments: compileArguments})
		if compileError != nil {
			return "", fmt.Errorf(compileFailureTemplateConstant, executable.Name, compileError)
		}
	}

	buildDetails := execshell.CommandDetails{
		Arguments:        []string{dpkgDebBuildFlagConstant, request.PackageName},
		WorkingDirectory: request.RepositoryPath,
	}
	_, packagingError := service.commandExecutor.ExecuteDpkgDeb(executionContext, buildDetails)
	if packagingError != nil {
		return "", fmt.Errorf(packageBuildFailureTemplateConstant, request.PackageName, packagingError)
	}

	return filepath.Join(request.RepositoryPath, request.PackageName+debianPackageExtensionConstant), nil
}

func validateRequest(request Request) error {
	if len(request.RepositoryPath) == 0 {
		return errors.New(repositoryPathRequiredMessageConstant)
	}
	if len(request.PackageName) == 0 {
		return errors.New(packageNameRequiredMessageConstant)
	}
	if len(request.ControlContent) == 0 {
		return errors.New(controlContentRequiredMessageConstant)
	}
	if len(request.Executables) == 0 {
		return errors.New(executablesRequiredMessageConstant)
	}
	return nil
}
