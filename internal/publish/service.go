package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/ppa/internal/execshell"
)

const (
	commandExecutorRequiredMessageConstant = "command executor is required"
	repositoryPathRequiredMessageConstant  = "repository path is required"
	signingKeyRequiredMessageConstant      = "signing key email is required"
	indexScanFailureTemplateConstant       = "unable to index packages in %s: %w"
	indexWriteFailureTemplateConstant      = "unable to write %s: %w"
	compressionFailureTemplateConstant     = "unable to compress %s: %w"
	releaseGenerationFailureTemplate       = "unable to generate release metadata in %s: %w"
	signatureFailureTemplateConstant       = "unable to sign %s: %w"
	packagesFileNameConstant               = "Packages"
	releaseFileNameConstant                = "Release"
	releaseSignatureFileNameConstant       = "Release.gpg"
	inReleaseFileNameConstant              = "InRelease"
	scanMultiversionFlagConstant           = "--multiversion"
	currentDirectoryArgumentConstant       = "."
	gzipKeepFlagConstant                   = "-k"
	gzipForceFlagConstant                  = "-f"
	aptFtparchiveReleaseSubcommandConstant = "release"
	gpgDefaultKeyFlagConstant              = "--default-key"
	gpgDetachedSignFlagConstant            = "-abs"
	gpgClearSignFlagConstant               = "--clearsign"
	gpgOutputFlagConstant                  = "-o"
	gpgStandardOutputTargetConstant        = "-"
	indexFilePermissionsConstant           = os.FileMode(0o644)
)

// CommandExecutor abstracts the external tooling required to publish a repository.
type CommandExecutor interface {
	ExecuteDpkgScanPackages(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGzip(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteAptFtparchive(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGPG(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Options describe a single publish run.
type Options struct {
	RepositoryPath  string
	SigningKeyEmail string
}

// ServiceDependencies lists the collaborators required by the publish service.
type ServiceDependencies struct {
	CommandExecutor CommandExecutor
}

// Service rebuilds and signs the apt repository index.
type Service struct {
	commandExecutor CommandExecutor
}

// NewService validates the provided dependencies and builds a publish service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.CommandExecutor == nil {
		return nil, errors.New(commandExecutorRequiredMessageConstant)
	}
	return &Service{commandExecutor: dependencies.CommandExecutor}, nil
}

// Publish regenerates Packages, Packages.gz, Release, Release.gpg, and
// InRelease inside the repository checkout. Each step runs only after the
// previous one succeeded.
//
// TODO: stage and push the regenerated index files with git add, git commit,
// and git push once unattended credential handling is settled.
func (service *Service) Publish(executionContext context.Context, options Options) error {
	if len(options.RepositoryPath) == 0 {
		return errors.New(repositoryPathRequiredMessageConstant)
	}
	if len(options.SigningKeyEmail) == 0 {
		return errors.New(signingKeyRequiredMessageConstant)
	}

	scanDetails := execshell.CommandDetails{
		Arguments:        []string{scanMultiversionFlagConstant, currentDirectoryArgumentConstant},
		WorkingDirectory: options.RepositoryPath,
	}
	scanResult, scanError := service.commandExecutor.ExecuteDpkgScanPackages(executionContext, scanDetails)
	if scanError != nil {
		return fmt.Errorf(indexScanFailureTemplateConstant, options.RepositoryPath, scanError)
	}
	if writeError := service.writeIndexFile(options.RepositoryPath, packagesFileNameConstant, scanResult.StandardOutput); writeError != nil {
		return writeError
	}

	compressionDetails := execshell.CommandDetails{
		Arguments:        []string{gzipKeepFlagConstant, gzipForceFlagConstant, packagesFileNameConstant},
		WorkingDirectory: options.RepositoryPath,
	}
	if _, compressionError := service.commandExecutor.ExecuteGzip(executionContext, compressionDetails); compressionError != nil {
		return fmt.Errorf(compressionFailureTemplateConstant, packagesFileNameConstant, compressionError)
	}

	releaseDetails := execshell.CommandDetails{
		Arguments:        []string{aptFtparchiveReleaseSubcommandConstant, currentDirectoryArgumentConstant},
		WorkingDirectory: options.RepositoryPath,
	}
	releaseResult, releaseError := service.commandExecutor.ExecuteAptFtparchive(executionContext, releaseDetails)
	if releaseError != nil {
		return fmt.Errorf(releaseGenerationFailureTemplate, options.RepositoryPath, releaseError)
	}
	if writeError := service.writeIndexFile(options.RepositoryPath, releaseFileNameConstant, releaseResult.StandardOutput); writeError != nil {
		return writeError
	}

	detachedSignatureDetails := execshell.CommandDetails{
		Arguments: []string{
			gpgDefaultKeyFlagConstant, options.SigningKeyEmail,
			gpgDetachedSignFlagConstant,
			gpgOutputFlagConstant, gpgStandardOutputTargetConstant,
			releaseFileNameConstant,
		},
		WorkingDirectory: options.RepositoryPath,
	}
	detachedResult, detachedError := service.commandExecutor.ExecuteGPG(executionContext, detachedSignatureDetails)
	if detachedError != nil {
		return fmt.Errorf(signatureFailureTemplateConstant, releaseFileNameConstant, detachedError)
	}
	if writeError := service.writeIndexFile(options.RepositoryPath, releaseSignatureFileNameConstant, detachedResult.StandardOutput); writeError != nil {
		return writeError
	}

	clearSignDetails := execshell.CommandDetails{
		Arguments: []string{
			gpgDefaultKeyFlagConstant, options.SigningKeyEmail,
			gpgClearSignFlagConstant,
			gpgOutputFlagConstant, gpgStandardOutputTargetConstant,
			releaseFileNameConstant,
		},
		WorkingDirectory: options.RepositoryPath,
	}
	clearSignResult, clearSignError := service.commandExecutor.ExecuteGPG(executionContext, clearSignDetails)
	if clearSignError != nil {
		return fmt.Errorf(signatureFailureTemplateConstant, inReleaseFileNameConstant, clearSignError)
	}
	if writeError := service.writeIndexFile(options.RepositoryPath, inReleaseFileNameConstant, clearSignResult.StandardOutput); writeError != nil {
		return writeError
	}

	return nil
}

func (service *Service) writeIndexFile(repositoryPath string, fileName string, content string) error {
	filePath := filepath.Join(repositoryPath, fileName)
	if writeError := os.WriteFile(filePath, []byte(content), indexFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(indexWriteFailureTemplateConstant, filePath, writeError)
	}
	return nil
}
