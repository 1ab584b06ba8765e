// Package publish regenerates the apt repository index files and signs the
// release with gpg. It produces Packages, Packages.gz, Release, Release.gpg,
// and InRelease inside the repository checkout.
package publish
