// Package metrics provides observability hooks for the build pipeline.
//
// Components receive a Recorder through dependency injection and never
// check whether metrics are enabled: when they are not, NoopRecorder
// swallows every call. With metrics enabled, PrometheusRecorder registers
// the pipeline metrics under the pageforge namespace and HTTPHandler
// exposes them on the admin listener.
package metrics
