// Package assemble stages a Debian package tree, compiles its executables
// with dart, and builds the final .deb artifact with dpkg-deb.
package assemble
