package inspect

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	debversion "github.com/knqyf263/go-deb-version"
)

const (
	repositoryPathRequiredMessageConstant = "repository path is required"
	outputWriterRequiredMessageConstant   = "output writer is required"
	packageGlobPatternConstant            = "*.deb"
	globFailureTemplateConstant           = "unable to list packages in %s: %w"
	emptyRepositoryTemplateConstant       = "no packages found in %s\n"
	listingHeaderTemplateConstant         = "Packages in %s:\n"
	listingEntryTemplateConstant          = "  %s %s (%s) %s\n"
)

// PackageListing pairs a package file with its decoded control metadata.
type PackageListing struct {
	FileName string
	Metadata PackageMetadata
}

// Service renders the repository package listing.
type Service struct{}

// NewService builds an inspect service.
func NewService() *Service {
	return &Service{}
}

// ListPackages reads every .deb file in the repository and returns listings
// sorted by package name ascending, then version descending.
func (service *Service) ListPackages(repositoryPath string) ([]PackageListing, error) {
	if len(repositoryPath) == 0 {
		return nil, errors.New(repositoryPathRequiredMessageConstant)
	}

	packagePaths, globError := filepath.Glob(filepath.Join(repositoryPath, packageGlobPatternConstant))
	if globError != nil {
		return nil, fmt.Errorf(globFailureTemplateConstant, repositoryPath, globError)
	}

	listings := make([]PackageListing, 0, len(packagePaths))
	for _, packagePath := range packagePaths {
		metadata, readError := ReadPackageMetadata(packagePath)
		if readError != nil {
			return nil, readError
		}
		listings = append(listings, PackageListing{FileName: filepath.Base(packagePath), Metadata: metadata})
	}

	sort.SliceStable(listings, func(firstIndex int, secondIndex int) bool {
		firstListing := listings[firstIndex]
		secondListing := listings[secondIndex]
		if firstListing.Metadata.Package != secondListing.Metadata.Package {
			return firstListing.Metadata.Package < secondListing.Metadata.Package
		}
		return versionIsNewer(firstListing.Metadata.Version, secondListing.Metadata.Version)
	})

	return listings, nil
}

// Render writes the package listing for the repository to the provided writer.
func (service *Service) Render(repositoryPath string, outputWriter io.Writer) error {
	if outputWriter == nil {
		return errors.New(outputWriterRequiredMessageConstant)
	}

	listings, listingError := service.ListPackages(repositoryPath)
	if listingError != nil {
		return listingError
	}

	if len(listings) == 0 {
		_, writeError := fmt.Fprintf(outputWriter, emptyRepositoryTemplateConstant, repositoryPath)
		return writeError
	}

	if _, writeError := fmt.Fprintf(outputWriter, listingHeaderTemplateConstant, repositoryPath); writeError != nil {
		return writeError
	}
	for _, listing := range listings {
		_, writeError := fmt.Fprintf(outputWriter,
			listingEntryTemplateConstant,
			listing.Metadata.Package,
			listing.Metadata.Version,
			listing.Metadata.Architecture,
			listing.FileName,
		)
		if writeError != nil {
			return writeError
		}
	}
	return nil
}

// versionIsNewer compares two Debian version strings, falling back to a
// lexicographic comparison when either fails to parse.
func versionIsNewer(firstVersion string, secondVersion string) bool {
	parsedFirst, firstError := debversion.NewVersion(firstVersion)
	parsedSecond, secondError := debversion.NewVersion(secondVersion)
	if firstError != nil || secondError != nil {
		return firstVersion > secondVersion
	}
	return parsedFirst.GreaterThan(parsedSecond)
}
