package regexcache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce sync.Once
	metrics     *cacheMetrics
)

type cacheMetrics struct {
	hitsTotal          *prometheus.CounterVec
	missesTotal        *prometheus.CounterVec
	evictionsTotal     *prometheus.CounterVec
	compileErrorsTotal *prometheus.CounterVec
}

func getMetrics() *cacheMetrics {
	metricsOnce.Do(func() {
		metrics = &cacheMetrics{
			hitsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "regexcache_hits_total",
					Help: "Total number of pattern lookups served from the cache",
				},
				[]string{"cache"},
			),
			missesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "regexcache_misses_total",
					Help: "Total number of pattern lookups that required a compilation",
				},
				[]string{"cache"},
			),
			evictionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "regexcache_evictions_total",
					Help: "Total number of compiled patterns evicted from the cache",
				},
				[]string{"cache"},
			),
			compileErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "regexcache_compile_errors_total",
					Help: "Total number of patterns that failed to compile",
				},
				[]string{"cache"},
			),
		}
	})
	return metrics
}
