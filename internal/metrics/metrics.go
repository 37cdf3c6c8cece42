package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockweather_snapshot_decodes_total",
			Help: "Total serialized snapshot decodes by schema and result",
		},
		[]string{"schema", "result"},
	)

	AQIParses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockweather_aqi_parses_total",
			Help: "Total AQI text lines parsed by result",
		},
		[]string{"result"},
	)

	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockweather_store_writes_total",
			Help: "Total snapshot blob writes by result",
		},
		[]string{"result"},
	)
)

// Result labels.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)
