// Package git wraps the go-git library behind the small set of repository
// operations the build pipeline needs.
//
// This package handles Git operations including:
//   - Repository initialization with main as the default branch
//   - Staging and committing generated files (empty commits allowed)
//   - Remote configuration with credential-free error reporting
//   - Pushing the main branch to a configured remote
//   - Reading the current HEAD commit hash
//
// Callers depend on the Service type rather than on go-git directly, which
// keeps the pipeline testable against local bare repositories.
package git
