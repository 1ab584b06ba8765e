// Package reposync keeps the local PPA checkout current by cloning the
// configured repository when it is absent and pulling when it already exists.
package reposync
