package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics gom các counter của service trên một registry riêng.
// Mọi method đều an toàn khi receiver là nil (test không cần metrics).
type Metrics struct {
	Registry *prometheus.Registry

	reportJobs         *prometheus.CounterVec
	reportSinkFailures *prometheus.CounterVec
	slackEvents        *prometheus.CounterVec
	youtubeRequests    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		reportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_jobs_total",
			Help: "Report job runs by job name and result.",
		}, []string{"job", "result"}),
		reportSinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_sink_failures_total",
			Help: "Report deliveries that the notification sink rejected.",
		}, []string{"job"}),
		slackEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slack_events_total",
			Help: "Inbound Slack events by outcome.",
		}, []string{"outcome"}),
		youtubeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "youtube_requests_total",
			Help: "YouTube proxy requests by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.reportJobs, m.reportSinkFailures, m.slackEvents, m.youtubeRequests)
	return m
}

// Handler exposes the registry for /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ReportJob(job, result string) {
	if m == nil {
		return
	}
	m.reportJobs.WithLabelValues(job, result).Inc()
}

func (m *Metrics) ReportSinkFailure(job string) {
	if m == nil {
		return
	}
	m.reportSinkFailures.WithLabelValues(job).Inc()
}

func (m *Metrics) SlackEvent(outcome string) {
	if m == nil {
		return
	}
	m.slackEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) YoutubeRequest(outcome string) {
	if m == nil {
		return
	}
	m.youtubeRequests.WithLabelValues(outcome).Inc()
}
