// Package update wires the repository synchronization, package assembly, and
// index publishing stages into the pkg-debian-update task and its cobra
// commands.
package update
