// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines abstractions used throughout ppa to
// run git, dart, dpkg-deb, dpkg-scanpackages, gzip, apt-ftparchive, and gpg in
// a testable manner.
package execshell
