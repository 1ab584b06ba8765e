package update

import (
	"fmt"
	"runtime"
)

const (
	linuxOperatingSystemConstant           = "linux"
	unsupportedPlatformTemplateConstant    = "pkg-debian-update requires linux, running on %s"
)

// OperatingSystemInspector reports the operating system the process runs on.
type OperatingSystemInspector interface {
	OperatingSystem() string
}

// RuntimeOperatingSystemInspector reads the operating system from the Go runtime.
type RuntimeOperatingSystemInspector struct{}

// OperatingSystem returns the runtime operating system identifier.
func (RuntimeOperatingSystemInspector) OperatingSystem() string {
	return runtime.GOOS
}

// ensureLinux fails when the inspected operating system is not linux. The
// pipeline depends on dpkg tooling that only exists there, so the check runs
// before any filesystem work.
func ensureLinux(inspector OperatingSystemInspector) error {
	operatingSystem := inspector.OperatingSystem()
	if operatingSystem != linuxOperatingSystemConstant {
		return fmt.Errorf(unsupportedPlatformTemplateConstant, operatingSystem)
	}
	return nil
}
