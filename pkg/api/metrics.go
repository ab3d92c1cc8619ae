package api

import (
	"net/http"

	"dsbench/pkg/common"
	"dsbench/pkg/engine"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newMetricsHandler builds a private registry whose collectors read the
// engine on every scrape. Scraping does not count as an access.
func newMetricsHandler(e *engine.Engine) http.Handler {
	reg := prometheus.NewRegistry()

	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "dsbench_info_accesses_total",
		Help: "Number of info reads served.",
	}, func() float64 { return float64(e.Access().Count()) }))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dsbench_records",
		Help: "Live records in the dataset.",
	}, func() float64 { return float64(e.Store().Len()) }))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dsbench_memory_used_bytes",
		Help: "Accounted record and buffer memory.",
	}, func() float64 { return float64(e.Memory().UsedBytes) }))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dsbench_uptime_seconds",
		Help: "Seconds since the dataset was loaded.",
	}, func() float64 { return e.Access().Uptime().Seconds() }))

	// bench results never change after load, so the vec is filled once
	benchNs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dsbench_bench_ns_per_op",
		Help: "Benchmark cost per operation by structure and phase.",
	}, []string{"kind", "op"})
	if res, err := e.Bench(); err == nil && res != nil {
		for _, kind := range common.Kinds {
			benchNs.WithLabelValues(kind.String(), "insert").Set(float64(res.Insert[kind].Nanoseconds()))
			benchNs.WithLabelValues(kind.String(), "lookup").Set(float64(res.Lookup[kind].Nanoseconds()))
		}
	}
	reg.MustRegister(benchNs)

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
