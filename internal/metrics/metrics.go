package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	areaResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libreland",
			Name:      "area_resolutions_total",
			Help:      "Area load requests by resolution outcome.",
		},
		[]string{"outcome"},
	)

	importRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libreland",
			Name:      "import_records_total",
			Help:      "Archive records processed by the importer.",
		},
		[]string{"family", "result"},
	)

	holdGeometryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "libreland",
			Name:      "hold_geometry_entries",
			Help:      "Number of hold geometries currently cached.",
		},
	)

	unimplementedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libreland",
			Name:      "unimplemented_requests_total",
			Help:      "Requests that matched no implemented route.",
		},
		[]string{"server", "method"},
	)
)

// AreaResolved counts one area load by outcome
func AreaResolved(outcome string) {
	areaResolutions.WithLabelValues(outcome).Inc()
}

// ImportRecord counts one imported or failed archive record
func ImportRecord(family string, ok bool) {
	result := "imported"
	if !ok {
		result = "failed"
	}
	importRecords.WithLabelValues(family, result).Inc()
}

// SetHoldGeometryEntries reports the hold geometry cache size
func SetHoldGeometryEntries(n int) {
	holdGeometryEntries.Set(float64(n))
}

// UnimplementedRequest counts one request written to the unimplemented log
func UnimplementedRequest(server, method string) {
	unimplementedRequests.WithLabelValues(server, method).Inc()
}
