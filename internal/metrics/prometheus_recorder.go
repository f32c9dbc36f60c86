package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration       *prom.HistogramVec
	buildDuration       prom.Histogram
	stageResults        *prom.CounterVec
	buildOutcome        *prom.CounterVec
	generationFallbacks prom.Counter
	callbackResults     *prom.CounterVec
	buildsInFlight      prom.Gauge
}

// NewPrometheusRecorder constructs and registers the pipeline metrics on
// the given registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pageforge",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pageforge",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageforge",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageforge",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		generationFallbacks: prom.NewCounter(prom.CounterOpts{
			Namespace: "pageforge",
			Name:      "generation_fallbacks_total",
			Help:      "Builds that degraded to the built-in template",
		}),
		callbackResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pageforge",
			Name:      "callback_deliveries_total",
			Help:      "Evaluation callback deliveries by result",
		}, []string{"result"}),
		buildsInFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: "pageforge",
			Name:      "builds_in_flight",
			Help:      "Builds currently running",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.generationFallbacks, pr.callbackResults, pr.buildsInFlight)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncGenerationFallback() {
	if p == nil || p.generationFallbacks == nil {
		return
	}
	p.generationFallbacks.Inc()
}

func (p *PrometheusRecorder) IncCallbackResult(delivered bool) {
	if p == nil || p.callbackResults == nil {
		return
	}
	res := "failed"
	if delivered {
		res = "delivered"
	}
	p.callbackResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) AddBuildsInFlight(delta int) {
	if p == nil || p.buildsInFlight == nil {
		return
	}
	p.buildsInFlight.Add(float64(delta))
}
