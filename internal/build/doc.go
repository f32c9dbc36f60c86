// Package build provides the canonical build execution pipeline.
//
// A Service runs one request through auth check, content generation,
// repository provisioning, publish and callback notification, producing
// exactly one BuildResult. All execution paths (HTTP handler, one-shot
// CLI, tests) route through Service.Run.
//
// Generation never fails a build; it degrades to the built-in template.
// Provisioning and publishing errors are fatal. Callback delivery
// failure downgrades the result status to accepted instead of failing.
package build
