// Package workspace manages the persistent working trees, one per sanitized
// repository name, under a single fixed root.
//
// Trees are created on demand, reused across rounds for the same task, and
// never deleted by the service. The manager also hands out per-repository
// locks so concurrent requests for the same task cannot interleave file
// writes, commits, and pushes.
package workspace
