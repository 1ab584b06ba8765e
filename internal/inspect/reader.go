package inspect

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/ulikunitz/xz"
	"pault.ag/go/debian/control"
)

const (
	controlArchivePrefixConstant        = "control.tar"
	gzipArchiveSuffixConstant           = ".gz"
	xzArchiveSuffixConstant             = ".xz"
	controlEntryNameConstant            = "control"
	archiveOpenFailureTemplateConstant  = "unable to open package %s: %w"
	archiveReadFailureTemplateConstant  = "unable to read package %s: %w"
	controlMissingTemplateConstant      = "package %s carries no control file"
	controlDecodeFailureTemplateConstant = "unable to decode control metadata of %s: %w"
)

// PackageMetadata holds the control fields surfaced by the repository listing.
// Field names follow the Debian control field names so the decoder can map them.
type PackageMetadata struct {
	Package      string
	Version      string
	Architecture string
	Maintainer   string
	Description  string
}

// ReadPackageMetadata extracts the control metadata from the .deb archive at
// the provided path.
func ReadPackageMetadata(packagePath string) (PackageMetadata, error) {
	packageFile, openError := os.Open(packagePath)
	if openError != nil {
		return PackageMetadata{}, fmt.Errorf(archiveOpenFailureTemplateConstant, packagePath, openError)
	}
	defer packageFile.Close()

	controlContent, extractionError := extractControlContent(packageFile)
	if extractionError != nil {
		return PackageMetadata{}, fmt.Errorf(archiveReadFailureTemplateConstant, packagePath, extractionError)
	}
	if controlContent == nil {
		return PackageMetadata{}, fmt.Errorf(controlMissingTemplateConstant, packagePath)
	}

	metadataDecoder, decoderError := control.NewDecoder(bytes.NewReader(controlContent), nil)
	if decoderError != nil {
		return PackageMetadata{}, fmt.Errorf(controlDecodeFailureTemplateConstant, packagePath, decoderError)
	}
	var metadata PackageMetadata
	if decodeError := metadataDecoder.Decode(&metadata); decodeError != nil {
		return PackageMetadata{}, fmt.Errorf(controlDecodeFailureTemplateConstant, packagePath, decodeError)
	}
	return metadata, nil
}

// extractControlContent walks the AR members of a .deb archive, locates the
// control tarball, and returns the bytes of its control entry. A nil slice
// with a nil error means no control file was present.
func extractControlContent(packageReader io.Reader) ([]byte, error) {
	archiveReader := ar.NewReader(packageReader)
	for {
		memberHeader, memberError := archiveReader.Next()
		if memberError == io.EOF {
			return nil, nil
		}
		if memberError != nil {
			return nil, memberError
		}
		if !strings.HasPrefix(memberHeader.Name, controlArchivePrefixConstant) {
			continue
		}

		memberContent := make([]byte, memberHeader.Size)
		if _, readError := io.ReadFull(archiveReader, memberContent); readError != nil {
			return nil, readError
		}

		tarSource, decompressionError := decompressControlMember(memberHeader.Name, bytes.NewReader(memberContent))
		if decompressionError != nil {
			return nil, decompressionError
		}
		return readControlEntry(tar.NewReader(tarSource))
	}
}

func decompressControlMember(memberName string, memberReader io.Reader) (io.Reader, error) {
	trimmedName := strings.TrimSpace(memberName)
	switch {
	case strings.HasSuffix(trimmedName, gzipArchiveSuffixConstant):
		return gzip.NewReader(memberReader)
	case strings.HasSuffix(trimmedName, xzArchiveSuffixConstant):
		return xz.NewReader(memberReader)
	default:
		return memberReader, nil
	}
}

func readControlEntry(tarReader *tar.Reader) ([]byte, error) {
	for {
		entryHeader, entryError := tarReader.Next()
		if entryError == io.EOF {
			return nil, nil
		}
		if entryError != nil {
			return nil, entryError
		}
		if filepath.Base(entryHeader.Name) != controlEntryNameConstant {
			continue
		}
		var contentBuffer bytes.Buffer
		if _, copyError := io.Copy(&contentBuffer, tarReader); copyError != nil {
			return nil, copyError
		}
		return contentBuffer.Bytes(), nil
	}
}
