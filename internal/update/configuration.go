package update

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"pault.ag/go/debian/control"

	"github.com/temirov/ppa/internal/assemble"
)

const (
	repositorySlugMissingMessageConstant     = "repository slug is required"
	repositorySlugInvalidTemplateConstant    = "repository slug %q must use the owner/name form"
	parentDirectoryMissingMessageConstant    = "parent directory is required"
	signingKeyMissingMessageConstant         = "signing key email is required"
	signingKeyInvalidTemplateConstant        = "signing key email %q is not an email address"
	packageNameMissingMessageConstant        = "package name is required"
	packageNameInvalidTemplateConstant       = "package name %q must not contain path separators or whitespace"
	controlContentMissingMessageConstant     = "control file content is required"
	controlContentInvalidTemplateConstant    = "control file content is not parseable: %w"
	controlFieldMissingTemplateConstant      = "control file content is missing the %s field"
	executablesMissingMessageConstant        = "at least one executable is required"
	executableNameMissingTemplateConstant    = "executable %d is missing a name"
	executableSourceMissingTemplateConstant  = "executable %q is missing a source path"
	defineNameMissingTemplateConstant        = "define %d is missing a name"
	repositorySlugSeparatorConstant          = "/"
	emailAddressMarkerConstant               = "@"
	controlPackageFieldNameConstant          = "Package"
	controlVersionFieldNameConstant          = "Version"
	expectedRepositorySlugSegmentsConstant   = 2
)

// ExecutableValues names one compiled binary in raw configuration form.
type ExecutableValues struct {
	Name       string `mapstructure:"name"`
	SourcePath string `mapstructure:"source"`
}

// DefineValues carries one compile-time definition in raw configuration form.
type DefineValues struct {
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

// ConfigurationValues aggregates the raw settings decoded from the
// configuration file before validation.
type ConfigurationValues struct {
	RepositorySlug  string             `mapstructure:"repository"`
	ParentDirectory string             `mapstructure:"parent_directory"`
	SigningKeyEmail string             `mapstructure:"signing_key_email"`
	PackageName     string             `mapstructure:"package_name"`
	ControlContent  string             `mapstructure:"control"`
	Executables     []ExecutableValues `mapstructure:"executables"`
	Defines         []DefineValues     `mapstructure:"defines"`
}

// Configuration holds validated, immutable settings for the update pipeline.
// Instances are only produced by NewConfiguration, so holders can rely on
// every accessor returning validated data.
type Configuration struct {
	repositorySlug  string
	parentDirectory string
	signingKeyEmail string
	packageName     string
	controlContent  string
	executables     []assemble.Executable
	defines         []assemble.Define
}

type controlIdentity struct {
	Package string
	Version string
}

// NewConfiguration validates the raw values and returns an immutable
// configuration. Validation failures surface at construction so a
// misconfigured pipeline never starts running.
func NewConfiguration(values ConfigurationValues) (Configuration, error) {
	trimmedSlug := strings.TrimSpace(values.RepositorySlug)
	if len(trimmedSlug) == 0 {
		return Configuration{}, errors.New(repositorySlugMissingMessageConstant)
	}
	slugSegments := strings.Split(trimmedSlug, repositorySlugSeparatorConstant)
	if len(slugSegments) != expectedRepositorySlugSegmentsConstant ||
		len(strings.TrimSpace(slugSegments[0])) == 0 ||
		len(strings.TrimSpace(slugSegments[1])) == 0 {
		return Configuration{}, fmt.Errorf(repositorySlugInvalidTemplateConstant, trimmedSlug)
	}

	trimmedParentDirectory := strings.TrimSpace(values.ParentDirectory)
	if len(trimmedParentDirectory) == 0 {
		return Configuration{}, errors.New(parentDirectoryMissingMessageConstant)
	}

	trimmedSigningKeyEmail := strings.TrimSpace(values.SigningKeyEmail)
	if len(trimmedSigningKeyEmail) == 0 {
		return Configuration{}, errors.New(signingKeyMissingMessageConstant)
	}
	if !strings.Contains(trimmedSigningKeyEmail, emailAddressMarkerConstant) {
		return Configuration{}, fmt.Errorf(signingKeyInvalidTemplateConstant, trimmedSigningKeyEmail)
	}

	trimmedPackageName := strings.TrimSpace(values.PackageName)
	if len(trimmedPackageName) == 0 {
		return Configuration{}, errors.New(packageNameMissingMessageConstant)
	}
	if strings.ContainsAny(trimmedPackageName, "/\\ \t") {
		return Configuration{}, fmt.Errorf(packageNameInvalidTemplateConstant, trimmedPackageName)
	}

	if len(strings.TrimSpace(values.ControlContent)) == 0 {
		return Configuration{}, errors.New(controlContentMissingMessageConstant)
	}
	if controlError := validateControlContent(values.ControlContent); controlError != nil {
		return Configuration{}, controlError
	}

	if len(values.Executables) == 0 {
		return Configuration{}, errors.New(executablesMissingMessageConstant)
	}
	executables := make([]assemble.Executable, 0, len(values.Executables))
	for executableIndex, executableValues := range values.Executables {
		trimmedName := strings.TrimSpace(executableValues.Name)
		if len(trimmedName) == 0 {
			return Configuration{}, fmt.Errorf(executableNameMissingTemplateConstant, executableIndex)
		}
		trimmedSourcePath := strings.TrimSpace(executableValues.SourcePath)
		if len(trimmedSourcePath) == 0 {
			return Configuration{}, fmt.Errorf(executableSourceMissingTemplateConstant, trimmedName)
		}
		executables = append(executables, assemble.Executable{Name: trimmedName, SourcePath: trimmedSourcePath})
	}

	defines := make([]assemble.Define, 0, len(values.Defines))
	for defineIndex, defineValues := range values.Defines {
		trimmedName := strings.TrimSpace(defineValues.Name)
		if len(trimmedName) == 0 {
			return Configuration{}, fmt.Errorf(defineNameMissingTemplateConstant, defineIndex)
		}
		defines = append(defines, assemble.Define{Name: trimmedName, Value: defineValues.Value})
	}

	return Configuration{
		repositorySlug:  trimmedSlug,
		parentDirectory: trimmedParentDirectory,
		signingKeyEmail: trimmedSigningKeyEmail,
		packageName:     trimmedPackageName,
		controlContent:  values.ControlContent,
		executables:     executables,
		defines:         defines,
	}, nil
}

func validateControlContent(controlContent string) error {
	controlDecoder, decoderError := control.NewDecoder(bytes.NewReader([]byte(controlContent)), nil)
	if decoderError != nil {
		return fmt.Errorf(controlContentInvalidTemplateConstant, decoderError)
	}
	var identity controlIdentity
	if decodeError := controlDecoder.Decode(&identity); decodeError != nil {
		return fmt.Errorf(controlContentInvalidTemplateConstant, decodeError)
	}
	if len(strings.TrimSpace(identity.Package)) == 0 {
		return fmt.Errorf(controlFieldMissingTemplateConstant, controlPackageFieldNameConstant)
	}
	if len(strings.TrimSpace(identity.Version)) == 0 {
		return fmt.Errorf(controlFieldMissingTemplateConstant, controlVersionFieldNameConstant)
	}
	return nil
}

// RepositorySlug returns the owner/name form of the repository.
func (configuration Configuration) RepositorySlug() string {
	return configuration.repositorySlug
}

// ParentDirectory returns the directory holding the repository checkout.
func (configuration Configuration) ParentDirectory() string {
	return configuration.parentDirectory
}

// SigningKeyEmail returns the gpg key selector used for signing.
func (configuration Configuration) SigningKeyEmail() string {
	return configuration.signingKeyEmail
}

// PackageName returns the versioned package directory name.
func (configuration Configuration) PackageName() string {
	return configuration.packageName
}

// ControlContent returns the verbatim control file content.
func (configuration Configuration) ControlContent() string {
	return configuration.controlContent
}

// Executables returns a copy of the executables in declaration order.
func (configuration Configuration) Executables() []assemble.Executable {
	executables := make([]assemble.Executable, len(configuration.executables))
	copy(executables, configuration.executables)
	return executables
}

// Defines returns a copy of the compile definitions in declaration order.
func (configuration Configuration) Defines() []assemble.Define {
	defines := make([]assemble.Define, len(configuration.defines))
	copy(defines, configuration.defines)
	return defines
}
