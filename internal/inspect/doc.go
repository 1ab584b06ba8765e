// Package inspect reads the Debian packages stored in a repository checkout
// and renders a listing of their control metadata, newest version first.
package inspect
