package reposync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/ppa/internal/execshell"
)

const (
	gitExecutorRequiredMessageConstant      = "repository sync requires a git executor"
	repositorySlugRequiredMessageConstant   = "repository slug is required"
	parentDirectoryRequiredMessageConstant  = "checkout parent directory is required"
	repositorySlugInvalidTemplateConstant   = "repository slug %q must use the owner/name form"
	cloneFailureTemplateConstant            = "failed to clone %s: %w"
	pullFailureTemplateConstant             = "failed to update checkout %s: %w"
	remoteURLTemplateConstant               = "https://github.com/%s.git"
	repositorySlugSeparatorConstant         = "/"
	gitDirectoryNameConstant                = ".git"
	gitCloneSubcommandConstant              = "clone"
	gitPullSubcommandConstant               = "pull"
	expectedRepositorySlugSegmentCount      = 2
	checkoutParentCreationFailureTemplate   = "failed to create checkout parent %s: %w"
	checkoutParentPermissionsConstant       = fs.FileMode(0o755)
)

// GitExecutor exposes the subset of shell execution used by the sync service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies supplies collaborators required for repository synchronization.
type ServiceDependencies struct {
	GitExecutor GitExecutor
}

// Options identifies the repository to synchronize.
type Options struct {
	RepositorySlug  string
	ParentDirectory string
	RemoteURL       string
}

// Service clones or updates the PPA checkout.
type Service struct {
	gitExecutor GitExecutor
}

// NewService constructs a Service after validating its dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, errors.New(gitExecutorRequiredMessageConstant)
	}
	return &Service{gitExecutor: dependencies.GitExecutor}, nil
}

// Sync ensures the checkout exists and is current, returning its path.
func (service *Service) Sync(executionContext context.Context, options Options) (string, error) {
	trimmedSlug := strings.TrimSpace(options.RepositorySlug)
	if len(trimmedSlug) == 0 {
		return "", errors.New(repositorySlugRequiredMessageConstant)
	}

	slugSegments := strings.Split(trimmedSlug, repositorySlugSeparatorConstant)
	if len(slugSegments) != expectedRepositorySlugSegmentCount || len(strings.TrimSpace(slugSegments[0])) == 0 || len(strings.TrimSpace(slugSegments[1])) == 0 {
		return "", fmt.Errorf(repositorySlugInvalidTemplateConstant, trimmedSlug)
	}

	trimmedParentDirectory := strings.TrimSpace(options.ParentDirectory)
	if len(trimmedParentDirectory) == 0 {
		return "", errors.New(parentDirectoryRequiredMessageConstant)
	}

	checkoutPath := filepath.Join(trimmedParentDirectory, slugSegments[1])

	if service.checkoutExists(checkoutPath) {
		_, pullError := service.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{gitPullSubcommandConstant},
			WorkingDirectory: checkoutPath,
		})
		if pullError != nil {
			return "", fmt.Errorf(pullFailureTemplateConstant, checkoutPath, pullError)
		}
		return checkoutPath, nil
	}

	if creationError := os.MkdirAll(trimmedParentDirectory, checkoutParentPermissionsConstant); creationError != nil {
		return "", fmt.Errorf(checkoutParentCreationFailureTemplate, trimmedParentDirectory, creationError)
	}

	remoteURL := strings.TrimSpace(options.RemoteURL)
	if len(remoteURL) == 0 {
		remoteURL = fmt.Sprintf(remoteURLTemplateConstant, trimmedSlug)
	}

	_, cloneError := service.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, remoteURL, checkoutPath},
	})
	if cloneError != nil {
		return "", fmt.Errorf(cloneFailureTemplateConstant, remoteURL, cloneError)
	}

	return checkoutPath, nil
}

func (service *Service) checkoutExists(checkoutPath string) bool {
	gitDirectoryInformation, statError := os.Stat(filepath.Join(checkoutPath, gitDirectoryNameConstant))
	if statError != nil {
		return false
	}
	return gitDirectoryInformation.IsDir()
}
