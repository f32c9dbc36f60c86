// Package generate produces the static site files for a build request.
//
// A Provider (normally an OpenAI-compatible chat completion API) proposes
// the files for the requested brief. Generation never fails the build:
// when the provider is unconfigured, unreachable, or returns something
// unusable, the generator degrades to a built-in template that satisfies
// the same brief shape. The GitHub Pages deploy workflow is written on
// every run regardless of which source produced the site.
package generate
