package update

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/ppa/internal/assemble"
	"github.com/temirov/ppa/internal/publish"
	"github.com/temirov/ppa/internal/reposync"
)

const (
	synchronizerRequiredMessageConstant      = "repository synchronizer is required"
	assemblerRequiredMessageConstant         = "package assembler is required"
	publisherRequiredMessageConstant         = "repository publisher is required"
	inspectorRequiredMessageConstant         = "operating system inspector is required"
	synchronizationFailureTemplateConstant   = "repository synchronization failed: %w"
	assemblyFailureTemplateConstant          = "package assembly failed: %w"
	publishingFailureTemplateConstant        = "repository publishing failed: %w"
	repositorySynchronizedLogMessageConstant = "repository synchronized"
	packageBuiltLogMessageConstant           = "package built"
	repositoryPublishedLogMessageConstant    = "repository index published"
	checkoutPathLogFieldNameConstant         = "checkout_path"
	artifactPathLogFieldNameConstant         = "artifact_path"
	repositorySlugLogFieldNameConstant       = "repository"
)

// RepositorySynchronizer clones or refreshes the repository checkout.
type RepositorySynchronizer interface {
	Sync(executionContext context.Context, options reposync.Options) (string, error)
}

// PackageAssembler builds the Debian package artifact.
type PackageAssembler interface {
	Build(executionContext context.Context, request assemble.Request) (string, error)
}

// RepositoryPublisher regenerates and signs the repository index.
type RepositoryPublisher interface {
	Publish(executionContext context.Context, options publish.Options) error
}

// ServiceDependencies lists the collaborators required by the update service.
type ServiceDependencies struct {
	Logger                   *zap.Logger
	OperatingSystemInspector OperatingSystemInspector
	RepositorySynchronizer   RepositorySynchronizer
	PackageAssembler         PackageAssembler
	RepositoryPublisher      RepositoryPublisher
}

// Service runs the full update pipeline.
type Service struct {
	logger       *zap.Logger
	inspector    OperatingSystemInspector
	synchronizer RepositorySynchronizer
	assembler    PackageAssembler
	publisher    RepositoryPublisher
}

// NewService validates the provided dependencies and builds an update service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.OperatingSystemInspector == nil {
		return nil, errors.New(inspectorRequiredMessageConstant)
	}
	if dependencies.RepositorySynchronizer == nil {
		return nil, errors.New(synchronizerRequiredMessageConstant)
	}
	if dependencies.PackageAssembler == nil {
		return nil, errors.New(assemblerRequiredMessageConstant)
	}
	if dependencies.RepositoryPublisher == nil {
		return nil, errors.New(publisherRequiredMessageConstant)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:       logger,
		inspector:    dependencies.OperatingSystemInspector,
		synchronizer: dependencies.RepositorySynchronizer,
		assembler:    dependencies.PackageAssembler,
		publisher:    dependencies.RepositoryPublisher,
	}, nil
}

// Execute synchronizes the repository checkout, builds the package, and
// publishes the refreshed index. The platform gate runs before any stage
// touches the filesystem, and each stage runs only after the previous one
// succeeded.
func (service *Service) Execute(executionContext context.Context, configuration Configuration) (string, error) {
	if platformError := ensureLinux(service.inspector); platformError != nil {
		return "", platformError
	}

	checkoutPath, synchronizationError := service.synchronize(executionContext, configuration)
	if synchronizationError != nil {
		return "", synchronizationError
	}

	artifactPath, assemblyError := service.assemblePackage(executionContext, configuration, checkoutPath)
	if assemblyError != nil {
		return "", assemblyError
	}

	if publishingError := service.publishIndex(executionContext, configuration, checkoutPath); publishingError != nil {
		return "", publishingError
	}

	return artifactPath, nil
}

// ExecuteBuild synchronizes the repository checkout and builds the package
// without touching the repository index.
func (service *Service) ExecuteBuild(executionContext context.Context, configuration Configuration) (string, error) {
	if platformError := ensureLinux(service.inspector); platformError != nil {
		return "", platformError
	}

	checkoutPath, synchronizationError := service.synchronize(executionContext, configuration)
	if synchronizationError != nil {
		return "", synchronizationError
	}

	return service.assemblePackage(executionContext, configuration, checkoutPath)
}

// ExecutePublish synchronizes the repository checkout and regenerates the
// signed index for the packages already stored there.
func (service *Service) ExecutePublish(executionContext context.Context, configuration Configuration) error {
	if platformError := ensureLinux(service.inspector); platformError != nil {
		return platformError
	}

	checkoutPath, synchronizationError := service.synchronize(executionContext, configuration)
	if synchronizationError != nil {
		return synchronizationError
	}

	return service.publishIndex(executionContext, configuration, checkoutPath)
}

func (service *Service) synchronize(executionContext context.Context, configuration Configuration) (string, error) {
	checkoutPath, synchronizationError := service.synchronizer.Sync(executionContext, reposync.Options{
		RepositorySlug:  configuration.RepositorySlug(),
		ParentDirectory: configuration.ParentDirectory(),
	})
	if synchronizationError != nil {
		return "", fmt.Errorf(synchronizationFailureTemplateConstant, synchronizationError)
	}
	service.logger.Info(repositorySynchronizedLogMessageConstant,
		zap.String(repositorySlugLogFieldNameConstant, configuration.RepositorySlug()),
		zap.String(checkoutPathLogFieldNameConstant, checkoutPath),
	)
	return checkoutPath, nil
}

func (service *Service) assemblePackage(executionContext context.Context, configuration Configuration, checkoutPath string) (string, error) {
	artifactPath, assemblyError := service.assembler.Build(executionContext, assemble.Request{
		RepositoryPath: checkoutPath,
		PackageName:    configuration.PackageName(),
		ControlContent: configuration.ControlContent(),
		Executables:    configuration.Executables(),
		Defines:        configuration.Defines(),
	})
	if assemblyError != nil {
		return "", fmt.Errorf(assemblyFailureTemplateConstant, assemblyError)
	}
	service.logger.Info(packageBuiltLogMessageConstant,
		zap.String(artifactPathLogFieldNameConstant, artifactPath),
	)
	return artifactPath, nil
}

func (service *Service) publishIndex(executionContext context.Context, configuration Configuration, checkoutPath string) error {
	publishingError := service.publisher.Publish(executionContext, publish.Options{
		RepositoryPath:  checkoutPath,
		SigningKeyEmail: configuration.SigningKeyEmail(),
	})
	if publishingError != nil {
		return fmt.Errorf(publishingFailureTemplateConstant, publishingError)
	}
	service.logger.Info(repositoryPublishedLogMessageConstant,
		zap.String(checkoutPathLogFieldNameConstant, checkoutPath),
	)
	return nil
}
